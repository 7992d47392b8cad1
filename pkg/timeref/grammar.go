package timeref

import (
	"fmt"
	"regexp"
	"strings"
)

// capture group names used by the composite pattern
const (
	groupTime         = "time"
	groupHours        = "hours"
	groupMinutes      = "minutes"
	groupSeconds      = "seconds"
	groupPeriod       = "period"
	groupTimezone     = "timezone"
	groupRelHours     = "relhours"
	groupRelPeriod    = "relperiod"
	groupRelTimezone  = "reltimezone"
	groupOnlyTimezone = "onlytimezone"
)

// period-of-day markers, matched case-sensitively as written
const periodPattern = `am|a\.m\.|pm|p\.m\.`

// whitespace between parts, includes the no-break space decoded from &nbsp;
const spacePattern = `[\s\p{Zs}]`

// grammar fragments, placeholders are filled by compose
const (
	// AbsoluteTime is H:MM with optional seconds, period and timezone
	AbsoluteTime = `(?P<hours>\d{1,2}):(?P<minutes>\d{2})(?::(?P<seconds>\d{2}))?` +
		`(?:{{ws}}*(?P<period>{{period}}))?(?:{{ws}}*(?P<timezone>{{tz}}))?`

	// RelativeTime is H with optional period, the timezone is mandatory
	RelativeTime = `(?P<relhours>\d{1,2})(?:{{ws}}*(?P<relperiod>{{period}}))?{{ws}}*(?P<reltimezone>{{tz}})`

	// TimezoneOnly is a standalone timezone word
	TimezoneOnly = `\b(?P<onlytimezone>{{baretz}})\b`
)

// compose assembles the composite expression for the given vocabulary
func compose(v Vocabulary, ignoreCase bool) string {
	r := strings.NewReplacer(
		"{{ws}}", spacePattern,
		"{{period}}", periodPattern,
		"{{tz}}", strings.Join(v.attachedZones(), "|"),
		"{{baretz}}", strings.Join(v.bareZones(), "|"),
	)

	expr := fmt.Sprintf("(?P<%s>%s|%s|%s)", groupTime,
		r.Replace(AbsoluteTime), r.Replace(RelativeTime), r.Replace(TimezoneOnly))
	if ignoreCase {
		expr = "(?i)" + expr
	}
	return expr
}

// composeDays assembles the day-name expression
func composeDays(v Vocabulary, ignoreCase bool) string {
	expr := `\b(?:` + strings.Join(v.Days, "|") + `)\b`
	if ignoreCase {
		expr = "(?i)" + expr
	}
	return expr
}

// groups keeps submatch indices of the named groups, resolved once at compile time
type groups struct {
	time, hours, minutes, seconds, period, timezone int
	relHours, relPeriod, relTimezone                int
	onlyTimezone                                    int
}

func resolveGroups(re *regexp.Regexp) (groups, error) {
	g := groups{}
	targets := []struct {
		name string
		dst  *int
	}{
		{groupTime, &g.time}, {groupHours, &g.hours}, {groupMinutes, &g.minutes},
		{groupSeconds, &g.seconds}, {groupPeriod, &g.period}, {groupTimezone, &g.timezone},
		{groupRelHours, &g.relHours}, {groupRelPeriod, &g.relPeriod}, {groupRelTimezone, &g.relTimezone},
		{groupOnlyTimezone, &g.onlyTimezone},
	}
	for _, t := range targets {
		idx := re.SubexpIndex(t.name)
		if idx < 0 {
			return groups{}, fmt.Errorf("group %q missing from pattern", t.name)
		}
		*t.dst = idx
	}
	return g, nil
}
