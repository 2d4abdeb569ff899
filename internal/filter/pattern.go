package filter

import (
	"path/filepath"
	"regexp"
	"strings"
)

// compiledPattern is an rsync-style glob compiled to a regexp.
type compiledPattern struct {
	re       *regexp.Regexp
	original string
	anchored bool // leading "/" or an inner "/"
	dirOnly  bool // trailing "/"
}

func compilePattern(pattern string, foldCase bool) (*compiledPattern, error) {
	cp := &compiledPattern{original: pattern}

	// Windows users type backslashes; rules are matched on slash paths.
	pattern = strings.ReplaceAll(pattern, `\`, "/")

	if trimmed, ok := strings.CutSuffix(pattern, "/"); ok {
		cp.dirOnly = true
		pattern = trimmed
	}

	if trimmed, ok := strings.CutPrefix(pattern, "/"); ok {
		cp.anchored = true
		pattern = trimmed
	} else if strings.Contains(pattern, "/") {
		cp.anchored = true
	}

	expr := globToRegex(pattern)
	if cp.anchored {
		expr = "^" + expr + "$"
	} else {
		expr = "(^|/)" + expr + "$"
	}
	if foldCase {
		expr = "(?i)" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	cp.re = re
	return cp, nil
}

func (cp *compiledPattern) match(relPath string, isDir bool) bool {
	if cp.dirOnly && !isDir {
		return false
	}
	return cp.re.MatchString(filepath.ToSlash(relPath))
}

func (cp *compiledPattern) String() string {
	return cp.original
}

// globToRegex translates *, **, ? and [...] classes; everything else is literal.
//
//nolint:gocyclo,revive // cognitive-complexity: character-by-character glob parser
func globToRegex(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		c := pattern[i]
		switch c {
		case '*':
			switch {
			case strings.HasPrefix(pattern[i:], "**/"):
				b.WriteString("(.*/)?")
				i += 3
			case strings.HasPrefix(pattern[i:], "**"):
				b.WriteString(".*")
				i += 2
			default:
				b.WriteString("[^/]*")
				i++
			}
		case '?':
			b.WriteString("[^/]")
			i++
		case '[':
			end := classEnd(pattern, i)
			if end < 0 {
				b.WriteString(regexp.QuoteMeta("["))
				i++
				continue
			}
			cls := pattern[i+1 : end]
			if rest, ok := strings.CutPrefix(cls, "!"); ok {
				cls = "^" + rest
			}
			b.WriteString("[" + cls + "]")
			i = end + 1
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
			i++
		}
	}
	return b.String()
}

// classEnd returns the index of the "]" closing the class opened at start,
// or -1 when the class is unterminated.
func classEnd(pattern string, start int) int {
	j := start + 1
	if j < len(pattern) && pattern[j] == '!' {
		j++
	}
	if j < len(pattern) && pattern[j] == ']' {
		j++
	}
	for j < len(pattern) && pattern[j] != ']' {
		j++
	}
	if j >= len(pattern) {
		return -1
	}
	return j
}
