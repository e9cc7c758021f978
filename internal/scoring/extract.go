package scoring

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// ExtractJSON locates the first well-formed JSON object embedded in free
// text. The oracle is a text interface, not a typed API: replies routinely
// wrap the payload in prose, and occasionally contain brace-like fragments
// before the real object. Candidate fragments are found by brace balancing
// (string-literal aware) and validated by unmarshalling; the first fragment
// that parses wins.
func ExtractJSON(text string, out any) error {
	start := 0
	for {
		open := strings.IndexByte(text[start:], '{')
		if open < 0 {
			return eris.New("scoring: no JSON object in oracle reply")
		}
		open += start

		frag, ok := balancedFragment(text[open:])
		if ok {
			if err := json.Unmarshal([]byte(frag), out); err == nil {
				return nil
			}
		}

		start = open + 1
	}
}

// balancedFragment returns the shortest prefix of s that forms a balanced
// {...} block, skipping braces inside JSON string literals.
func balancedFragment(s string) (string, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}

	// Truncated payload.
	return "", false
}
