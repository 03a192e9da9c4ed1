package sniff

import (
	"strings"
	"unicode/utf8"
)

// Normalized is delimited text reduced to its header line and the lines
// after it.
type Normalized struct {
	Text      string
	Delimiter rune
}

// Normalize drops sep= directives and everything before the first header
// line, joining the remaining lines with "\n". CRLF and bare CR line
// endings are both accepted. Normalizing its own output
// returns the same text.
//
// A sep= directive sets the delimiter; otherwise the most frequent of comma,
// semicolon and tab on the header line wins.
func Normalize(text string) (Normalized, error) {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var (
		delim rune
		kept  []string
	)
	for _, line := range strings.Split(text, "\n") {
		if d, ok := sepDirective(line); ok {
			if delim == 0 {
				delim = d
			}
			continue
		}
		kept = append(kept, line)
	}

	start := -1
	for i, line := range kept {
		if IsHeaderLine(line) {
			start = i
			break
		}
	}
	if start < 0 {
		return Normalized{}, unsupported("no header line with debit and credit columns", nil)
	}
	kept = kept[start:]

	if delim == 0 {
		delim = headerDelimiter(kept[0])
	}
	return Normalized{Text: strings.Join(kept, "\n"), Delimiter: delim}, nil
}

// sepDirective parses an Excel "sep=<char>" line, which may be quoted.
func sepDirective(line string) (rune, bool) {
	s := strings.Trim(strings.TrimSpace(line), `"'`)
	if len(s) < 4 || !strings.EqualFold(s[:4], "sep=") {
		return 0, false
	}
	rest := s[4:]
	if rest == "" {
		if strings.HasSuffix(strings.TrimRight(line, " \r"), "\t") {
			return '\t', true
		}
		return 0, true
	}
	if strings.HasPrefix(rest, `\t`) {
		return '\t', true
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return r, true
}

func headerDelimiter(line string) rune {
	best, bestCount := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
