package repl

import "strings"

// Parsley keywords and literals for tab completion
var completionWords = []string{
	"let", "if", "else", "for", "in", "fn", "function", "return", "export",
	"import", "try", "check", "computed", "as", "not", "and", "or",
	"true", "false", "null",
	"@now", "@today", "@timeNow", "@dateNow",
}

// filterCompletions returns completion suggestions based on current input
func filterCompletions(line string) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	// Don't complete if line ends with whitespace (including tabs from pasting)
	if line[len(line)-1] == ' ' || line[len(line)-1] == '\t' {
		return nil
	}

	words := strings.Fields(line)
	lastWord := words[len(words)-1]
	prefix := line[:len(line)-len(lastWord)]

	var matches []string
	for _, word := range completionWords {
		if strings.HasPrefix(word, lastWord) {
			matches = append(matches, prefix+word)
		}
	}
	return matches
}

// needsMoreInput checks if the input has unclosed braces, brackets,
// parentheses, strings or tags
func needsMoreInput(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}

	braceCount := 0
	bracketCount := 0
	parenCount := 0
	tagCount := 0
	quote := byte(0)

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if quote != 0 {
			switch ch {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}

		switch ch {
		case '"', '`':
			quote = ch
		case '/':
			// Line comment: skip to end of line
			if i+1 < len(input) && input[i+1] == '/' {
				for i < len(input) && input[i] != '\n' {
					i++
				}
			}
		case '{':
			braceCount++
		case '}':
			braceCount--
		case '[':
			bracketCount++
		case ']':
			bracketCount--
		case '(':
			parenCount++
		case ')':
			parenCount--
		case '<':
			// Check for tags: <tag or </tag (not comparison operators)
			if i+1 >= len(input) {
				continue
			}
			next := input[i+1]
			if next == '/' {
				if i+2 < len(input) && isTagNameStart(input[i+2]) {
					tagCount--
				}
			} else if isTagNameStart(next) {
				tagEnd := findTagEnd(input, i)
				if tagEnd < 0 {
					// Attributes still being typed
					tagCount++
				} else if input[tagEnd-1] != '/' {
					tagCount++
				}
			}
		}
	}

	return quote == '`' || braceCount > 0 || bracketCount > 0 || parenCount > 0 || tagCount > 0
}

// isTagNameStart checks if a character can start a tag name
func isTagNameStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// findTagEnd finds the position of the closing '>' for a tag starting at pos
func findTagEnd(input string, pos int) int {
	inQuote := false
	quoteChar := byte(0)
	for i := pos + 1; i < len(input); i++ {
		ch := input[i]
		if inQuote {
			if ch == quoteChar {
				inQuote = false
			}
			continue
		}
		if ch == '"' || ch == '\'' {
			inQuote = true
			quoteChar = ch
			continue
		}
		if ch == '>' {
			return i
		}
	}
	return -1 // Tag not closed yet
}
