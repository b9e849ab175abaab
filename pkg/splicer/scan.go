package splicer

type scanState int

const (
	stateCode scanState = iota
	stateCodeEscape
	stateString
	stateStringEscape
)

// FindBlockEnd returns the index of the brace closing the block opened at
// text[open]. Braces inside double-quoted strings are ignored, and a backslash
// makes the following byte literal both inside and outside strings.
func FindBlockEnd(text string, open int) (int, error) {
	if open < 0 || open >= len(text) || text[open] != '{' {
		return 0, ErrEndNotFound
	}

	depth := 0
	state := stateCode
	for i := open; i < len(text); i++ {
		c := text[i]
		switch state {
		case stateCodeEscape:
			state = stateCode
		case stateStringEscape:
			state = stateString
		case stateString:
			switch c {
			case '\\':
				state = stateStringEscape
			case '"':
				state = stateCode
			}
		case stateCode:
			switch c {
			case '\\':
				state = stateCodeEscape
			case '"':
				state = stateString
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return i, nil
				}
			}
		}
	}
	return 0, ErrEndNotFound
}
