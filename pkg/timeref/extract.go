package timeref

import (
	"github.com/umputun/feedtime/pkg/domain"
)

// EntryMatch pairs an entry with the time reference extracted from it
type EntryMatch struct {
	Entry domain.Entry
	Match Match
}

// Result of running the matcher over a list of entries.
// Total and Matched are diagnostics only.
type Result struct {
	Matches []EntryMatch // one per extracted entry, in entry order
	Total   int          // number of entries inspected
	Matched int          // entries whose title or content contains a time reference
}

// Times returns the extracted spans in entry order
func (r Result) Times() []string {
	res := make([]string, 0, len(r.Matches))
	for _, m := range r.Matches {
		res = append(res, m.Match.Text)
	}
	return res
}

// Extract returns the first time reference in the entry's title followed by its content.
// Title and content are joined without a separator.
func (m *Matcher) Extract(e domain.Entry) (string, bool) {
	res, ok := m.ExtractMatch(e)
	if !ok {
		return "", false
	}
	return res.Text, true
}

// ExtractMatch is like Extract but returns the typed match
func (m *Matcher) ExtractMatch(e domain.Entry) (Match, bool) {
	return m.Find(e.Title + e.Content)
}

// Collect keeps entries whose title or content, checked separately, contains a time reference,
// then extracts from their joined title and content. Entries where the joined text has no match
// are dropped, so len(Matches) <= Matched.
//
// The check and the extraction look at different text. An entry with a reference formed only across
// the title/content seam (title "starts 11", content "am est") fails the check and is skipped.
func (m *Matcher) Collect(entries []domain.Entry) Result {
	res := Result{Total: len(entries)}
	for _, e := range entries {
		if !m.Contains(e.Title) && !m.Contains(e.Content) {
			continue
		}
		res.Matched++
		match, ok := m.ExtractMatch(e)
		if !ok {
			continue
		}
		res.Matches = append(res.Matches, EntryMatch{Entry: e, Match: match})
	}
	return res
}
