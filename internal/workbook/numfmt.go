package workbook

import "strings"

// isBuiltinDateFormat reports whether a built-in number format id renders
// dates or times.
func isBuiltinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom number format code contains
// date or time tokens outside of literals and bracketed sections.
func isDateFormatCode(code string) bool {
	// Only the positive section decides
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = code[:i]
	}
	if strings.EqualFold(strings.TrimSpace(code), "general") {
		return false
	}

	var b strings.Builder
	inQuote, inBracket, escaped := false, false, false
	for _, r := range code {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			if r == '"' {
				inQuote = false
			}
		case inBracket:
			if r == ']' {
				inBracket = false
			}
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		case r == '_' || r == '*':
			// next char is padding; treat like an escape
			escaped = true
		default:
			b.WriteRune(r)
		}
	}

	return strings.ContainsAny(strings.ToLower(b.String()), "ymdhs")
}
