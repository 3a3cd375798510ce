package statement

import "strings"

// scan walks text outside single-quoted literals, double-quoted identifiers
// and comments, calling fn with the offset of each unquoted byte.
func scan(text string, fn func(i int)) {
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c == '\'' || c == '"':
			for i++; i < len(text); i++ {
				if text[i] == c {
					if i+1 < len(text) && text[i+1] == c {
						i++
						continue
					}

					break
				}
			}
		case c == '-' && i+1 < len(text) && text[i+1] == '-':
			for i < len(text) && text[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			end := strings.Index(text[i+2:], "*/")
			if end < 0 {
				return
			}

			i += end + 3
		default:
			fn(i)
		}
	}
}

func isNameByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// Placeholders returns the distinct @name placeholders in order of first use.
func Placeholders(text string) []string {
	var (
		names []string
		seen  = map[string]bool{}
		skip  = -1
	)

	scan(text, func(i int) {
		if i < skip || text[i] != '@' {
			return
		}

		j := i + 1
		for j < len(text) && isNameByte(text[j]) {
			j++
		}

		if j == i+1 {
			return
		}

		skip = j

		name := text[i+1 : j]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	})

	return names
}

// unquoted returns text with literals and comments blanked out, preserving offsets.
func unquoted(text string) string {
	b := []byte(strings.Repeat(" ", len(text)))

	scan(text, func(i int) {
		b[i] = text[i]
	})

	return string(b)
}
