package dom

import "strings"

// EscapeName escapes the separators Path uses so a name containing dots
// stays one path element.
func EscapeName(n string) string {
	if !strings.ContainsAny(n, `.\`) {
		return n
	}
	return strings.NewReplacer(`\`, `\\`, `.`, `\.`).Replace(n)
}

func UnescapeName(e string) string {
	if !strings.Contains(e, `\`) {
		return e
	}
	return strings.NewReplacer(`\\`, `\`, `\.`, `.`).Replace(e)
}
