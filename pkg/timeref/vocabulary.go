package timeref

import (
	"fmt"
)

// Vocabulary holds the word lists the grammar is assembled from.
// Order matters: alternations are emitted in declaration order and the regexp engine
// picks the first listed alternative that matches at a given position.
type Vocabulary struct {
	Zones      []string // timezone abbreviations, authored upper case
	LowerZones []string // abbreviations also accepted lower case, only right after a time
	Regions    []string // informal north-american zone names, authored lower case
	Days       []string // day names, not used by time extraction
}

// DefaultVocabulary returns a copy of the built-in word lists
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Zones:      append([]string(nil), zoneAbbreviations...),
		LowerZones: append([]string(nil), lowerZones...),
		Regions:    append([]string(nil), regionNames...),
		Days:       append([]string(nil), dayNames...),
	}
}

// Validate checks that every token is a plain word and that no list has duplicates.
// Tokens are spliced into the pattern verbatim, so anything but letters is rejected.
func (v Vocabulary) Validate() error {
	if len(v.Zones)+len(v.Regions) == 0 {
		return fmt.Errorf("empty timezone vocabulary")
	}
	lists := []struct {
		name   string
		tokens []string
	}{{"zones", v.Zones}, {"lower_zones", v.LowerZones}, {"regions", v.Regions}, {"days", v.Days}}

	for _, l := range lists {
		seen := make(map[string]bool, len(l.tokens))
		for i, tok := range l.tokens {
			if tok == "" {
				return fmt.Errorf("%s[%d]: empty token", l.name, i)
			}
			if !isWord(tok) {
				return fmt.Errorf("%s[%d]: token %q has non-letter characters", l.name, i, tok)
			}
			if seen[tok] {
				return fmt.Errorf("%s[%d]: duplicate token %q", l.name, i, tok)
			}
			seen[tok] = true
		}
	}
	return nil
}

// attachedZones returns the zone alternatives accepted right after a time: the region names,
// the abbreviations as authored, then the lower-case forms.
// Regions go first so "eastern" is not cut to "east".
func (v Vocabulary) attachedZones() []string {
	res := make([]string, 0, len(v.Regions)+len(v.Zones)+len(v.LowerZones))
	res = append(res, v.Regions...)
	res = append(res, v.Zones...)
	return append(res, v.LowerZones...)
}

// bareZones returns the zone alternatives accepted as a standalone mention, authored forms only
func (v Vocabulary) bareZones() []string {
	res := make([]string, 0, len(v.Zones)+len(v.Regions))
	res = append(res, v.Zones...)
	return append(res, v.Regions...)
}

func isWord(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

var regionNames = []string{"pacific", "eastern", "mountain", "central"}

// lowerZones are the abbreviations people write in lower case. Lower-casing every abbreviation
// would turn words like "at", "cat" or "west" into zones after any number.
var lowerZones = []string{
	"gmt", "utc", "est", "edt", "cst", "cdt", "mst", "mdt", "pst", "pdt", "akst", "akdt",
	"hst", "ast", "nst", "bst", "cet", "cest", "eet", "eest", "ist", "jst", "kst", "aest",
	"aedt", "acst", "awst", "nzst", "nzdt", "sgt", "hkt", "msk",
}

var dayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
	"Mon", "Tues", "Tue", "Wed", "Thurs", "Thur", "Thu", "Fri", "Sat", "Sun",
}

// zoneAbbreviations is alphabetical. Single-letter military zones are left out, "A" or "I"
// would match as standalone zones in ordinary sentences.
var zoneAbbreviations = []string{
	"ACDT", "ACST", "ACT", "ACWST", "ADT", "AEDT", "AEST", "AET", "AFT", "AKDT",
	"AKST", "ALMT", "AMST", "AMT", "ANAST", "ANAT", "AQTT", "ART", "AST", "AT",
	"AWDT", "AWST", "AZOST", "AZOT", "AZST", "AZT",
	"BDST", "BDT", "BIOT", "BIT", "BNT", "BOST", "BOT", "BRST", "BRT", "BST", "BTT",
	"CAST", "CAT", "CCT", "CDT", "CEDT", "CEST", "CET", "CHADT", "CHAST", "CHOST", "CHOT",
	"CHST", "CHUT", "CIDST", "CIST", "CIT", "CKT", "CLST", "CLT", "COST", "COT",
	"CST", "CT", "CVT", "CWST", "CXT",
	"DAVT", "DDUT", "DFT",
	"EASST", "EAST", "EAT", "ECT", "EDT", "EEDT", "EEST", "EET", "EGST", "EGT", "EIT",
	"EST", "ET",
	"FET", "FJST", "FJT", "FKST", "FKT", "FNT",
	"GALT", "GAMT", "GET", "GFT", "GILT", "GIT", "GMT", "GST", "GYT",
	"HAA", "HAC", "HADT", "HAE", "HAEC", "HAP", "HAR", "HAST", "HAT", "HDT",
	"HKT", "HLV", "HMT", "HNA", "HNC", "HNE", "HNP", "HNR", "HNT", "HOVDST",
	"HOVDT", "HOVST", "HOVT", "HST",
	"ICT", "IDLW", "IDT", "IOT", "IRDT", "IRKST", "IRKT", "IRST", "IST",
	"JST",
	"KALT", "KGT", "KOST", "KRAST", "KRAT", "KST", "KUYT",
	"LHDT", "LHST", "LINT",
	"MAGST", "MAGT", "MART", "MAWT", "MDT", "MEST", "MESZ", "MET", "MEZ", "MHT",
	"MIST", "MIT", "MMT", "MSD", "MSK", "MST", "MT", "MUT", "MVT", "MYT",
	"NCT", "NDT", "NFDT", "NFT", "NOVST", "NOVT", "NPT", "NRT", "NST", "NT",
	"NUT", "NZDT", "NZST", "NZT",
	"OESZ", "OEZ", "OMSST", "OMST", "ORAT",
	"PDT", "PET", "PETST", "PETT", "PGT", "PHOT", "PHT", "PKT", "PMDT", "PMST",
	"PONT", "PST", "PT", "PWT", "PYST", "PYT",
	"QYZT",
	"RET", "ROTT",
	"SAKT", "SAMST", "SAMT", "SAST", "SBT", "SCT", "SDT", "SGT", "SLST", "SRET", "SRT",
	"SST", "SYOT",
	"TAHT", "TFT", "THA", "TJT", "TKT", "TLT", "TMT", "TOST", "TOT", "TRT",
	"TVT",
	"ULAST", "ULAT", "UTC", "UYST", "UYT", "UZT",
	"VET", "VLAST", "VLAT", "VOLT", "VOST", "VUT",
	"WAKT", "WARST", "WAST", "WAT", "WEDT", "WEST", "WESZ", "WET", "WEZ", "WFT", "WGST",
	"WGT", "WIB", "WIT", "WITA", "WST", "WT",
	"YAKST", "YAKT", "YAPT", "YEKST", "YEKT",
}
