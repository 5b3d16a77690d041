package report

import "strings"

// SplitFields splits a positional row on sep. A double quote toggles quoted
// mode, in which sep does not split; the quote characters themselves are
// dropped. There is no escape for a literal quote. The last field is always
// emitted, so "a;b;" yields three fields.
func SplitFields(line string, sep rune) []string {
	fields := make([]string, 0, NumFields)
	var b strings.Builder
	quoted := false
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case r == sep && !quoted:
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	return append(fields, b.String())
}

// QuoteField wraps v in double quotes when it contains sep. It reports false
// if v contains a double quote, which SplitFields cannot represent.
func QuoteField(v string, sep rune) (string, bool) {
	if strings.ContainsRune(v, '"') {
		return "", false
	}
	if strings.ContainsRune(v, sep) {
		return `"` + v + `"`, true
	}
	return v, true
}
