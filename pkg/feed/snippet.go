package feed

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// Snippet returns the text around text[start:end] with up to width bytes on each side.
// Markup is removed, entities decoded and whitespace collapsed. Tags cut by the window edges are dropped.
func Snippet(text string, start, end, width int) string {
	if start < 0 || end > len(text) || start > end {
		return ""
	}
	from, to := max(0, start-width), min(len(text), end+width)
	for from > 0 && !utf8.RuneStart(text[from]) {
		from--
	}
	for to < len(text) && !utf8.RuneStart(text[to]) {
		to++
	}

	// window starts inside a tag, skip to its end
	if gt := strings.IndexByte(text[from:start], '>'); gt >= 0 && !strings.Contains(text[from:from+gt], "<") {
		from += gt + 1
	}
	// window ends inside a tag, cut before it
	if lt := strings.LastIndexByte(text[end:to], '<'); lt >= 0 && !strings.Contains(text[end+lt:to], ">") {
		to = end + lt
	}

	clean := html.UnescapeString(strictPolicy.Sanitize(text[from:to]))
	return strings.Join(strings.Fields(clean), " ")
}
