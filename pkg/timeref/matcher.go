// Package timeref finds human-written time-of-day references in free text.
//
// The matcher is built once from a vocabulary of timezone abbreviations and three grammar
// fragments: absolute times ("11:30:25 pm EST"), relative times with a mandatory timezone
// ("11 am est") and standalone timezone words ("GMT"). The fragments are unioned into one
// outer "time" group, and the text of that group is what extraction returns, verbatim.
//
// Alternation is leftmost-first in declaration order, not longest-first. When one token is a
// prefix of another ("WIT" and "WITA") the one listed first wins after a time, so "11:30 WITA"
// yields "11:30 WIT". Standalone mentions are bounded by \b and are not affected.
//
// Matching is case-sensitive. Abbreviations are authored upper case, a short list of common ones
// ("gmt", "est", "pst") is also accepted lower case right after a time. Standalone abbreviations
// match only as authored. WithIgnoreCase lifts this, at the cost of matching common words like
// "at" or "cat" everywhere. Hours and minutes are ASCII digits, the space between parts may be
// any Unicode space.
package timeref

import (
	"fmt"
	"regexp"
	"sync"
)

// Kind tells which grammar alternative produced a match
type Kind string

// enum of match kinds
const (
	KindAbsolute Kind = "absolute"
	KindRelative Kind = "relative"
	KindZoneOnly Kind = "zone"
)

// Match is a single time reference found in text.
// Exactly one of Absolute, Relative or Zone is set, according to Kind.
type Match struct {
	Kind     Kind
	Text     string // full span of the outer time group
	Start    int    // byte offset of Text in the searched string
	End      int
	Absolute *AbsoluteParts
	Relative *RelativeParts
	Zone     string // standalone timezone, for KindZoneOnly
}

// AbsoluteParts are the sub-spans of an H:MM(:SS) match, absent parts are empty
type AbsoluteParts struct {
	Hours   string `json:"hours"`
	Minutes string `json:"minutes"`
	Seconds string `json:"seconds,omitempty"`
	Period  string `json:"period,omitempty"`
	Zone    string `json:"zone,omitempty"`
}

// RelativeParts are the sub-spans of an "H period? zone" match
type RelativeParts struct {
	Hours  string `json:"hours"`
	Period string `json:"period,omitempty"`
	Zone   string `json:"zone"`
}

// Matcher is the compiled composite pattern. It is immutable and safe for concurrent use.
type Matcher struct {
	re     *regexp.Regexp
	days   *regexp.Regexp
	groups groups
}

// Option customizes matcher construction
type Option func(o *options)

type options struct {
	ignoreCase bool
	vocabulary Vocabulary
}

// WithIgnoreCase makes the whole pattern case-insensitive
func WithIgnoreCase() Option {
	return func(o *options) { o.ignoreCase = true }
}

// WithVocabulary replaces the built-in word lists
func WithVocabulary(v Vocabulary) Option {
	return func(o *options) { o.vocabulary = v }
}

// New builds the matcher. An error here means the vocabulary or grammar is broken
// and should stop the program.
func New(opts ...Option) (*Matcher, error) {
	o := options{vocabulary: DefaultVocabulary()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := o.vocabulary.Validate(); err != nil {
		return nil, fmt.Errorf("invalid vocabulary: %w", err)
	}

	re, err := regexp.Compile(compose(o.vocabulary, o.ignoreCase))
	if err != nil {
		return nil, fmt.Errorf("compile time pattern: %w", err)
	}
	g, err := resolveGroups(re)
	if err != nil {
		return nil, fmt.Errorf("resolve groups: %w", err)
	}

	m := &Matcher{re: re, groups: g}
	if len(o.vocabulary.Days) > 0 {
		if m.days, err = regexp.Compile(composeDays(o.vocabulary, o.ignoreCase)); err != nil {
			return nil, fmt.Errorf("compile day pattern: %w", err)
		}
	}
	return m, nil
}

// MustNew is like New but panics on error
func MustNew(opts ...Option) *Matcher {
	m, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return m
}

var defaultMatcher = sync.OnceValues(func() (*Matcher, error) { return New() })

// Default returns the process-wide matcher with the built-in vocabulary, built on first call
func Default() (*Matcher, error) {
	return defaultMatcher()
}

// Contains reports whether text has any time reference
func (m *Matcher) Contains(text string) bool {
	return m.re.MatchString(text)
}

// Find returns the leftmost time reference in text
func (m *Matcher) Find(text string) (Match, bool) {
	loc := m.re.FindStringSubmatchIndex(text)
	if loc == nil {
		return Match{}, false
	}

	sub := func(idx int) string {
		if loc[2*idx] < 0 {
			return ""
		}
		return text[loc[2*idx]:loc[2*idx+1]]
	}

	res := Match{
		Text:  sub(m.groups.time),
		Start: loc[2*m.groups.time],
		End:   loc[2*m.groups.time+1],
	}

	switch {
	case loc[2*m.groups.hours] >= 0:
		res.Kind = KindAbsolute
		res.Absolute = &AbsoluteParts{
			Hours:   sub(m.groups.hours),
			Minutes: sub(m.groups.minutes),
			Seconds: sub(m.groups.seconds),
			Period:  sub(m.groups.period),
			Zone:    sub(m.groups.timezone),
		}
	case loc[2*m.groups.relHours] >= 0:
		res.Kind = KindRelative
		res.Relative = &RelativeParts{
			Hours:  sub(m.groups.relHours),
			Period: sub(m.groups.relPeriod),
			Zone:   sub(m.groups.relTimezone),
		}
	default:
		res.Kind = KindZoneOnly
		res.Zone = sub(m.groups.onlyTimezone)
	}
	return res, true
}

// Day returns the first day name mentioned in text, empty if none.
// Day names never take part in time extraction.
func (m *Matcher) Day(text string) string {
	if m.days == nil {
		return ""
	}
	return m.days.FindString(text)
}

// String returns the composite expression
func (m *Matcher) String() string {
	return m.re.String()
}
