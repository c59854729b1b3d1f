package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// glob is an rsync-style pattern. A leading slash, or any slash inside the
// pattern, anchors it to the start of the relative path; otherwise it may
// match any trailing path segments. A trailing slash restricts it to
// directories.
type glob struct {
	re      *regexp.Regexp
	source  string
	dirOnly bool
}

func compileGlob(pattern string) (*glob, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("empty filter pattern")
	}
	g := &glob{source: pattern}

	body, dirOnly := strings.CutSuffix(pattern, "/")
	g.dirOnly = dirOnly

	anchored := strings.Contains(body, "/")
	body = strings.TrimPrefix(body, "/")

	prefix := "(^|/)"
	if anchored {
		prefix = "^"
	}
	re, err := regexp.Compile(prefix + translate(body) + "$")
	if err != nil {
		return nil, fmt.Errorf("filter pattern %q: %w", pattern, err)
	}
	g.re = re
	return g, nil
}

func (g *glob) match(rel string, isDir bool) bool {
	if g.dirOnly && !isDir {
		return false
	}
	return g.re.MatchString(rel)
}

func (g *glob) String() string { return g.source }

// translate rewrites glob syntax as a regular expression body:
// "**/" spans zero or more directories, "**" anything, "*" and "?" stay
// within one segment, and [...] classes pass through with ! as negation.
func translate(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		switch rest := pattern[i:]; {
		case strings.HasPrefix(rest, "**/"):
			b.WriteString("(.*/)?")
			i += 3
		case strings.HasPrefix(rest, "**"):
			b.WriteString(".*")
			i += 2
		case rest[0] == '*':
			b.WriteString("[^/]*")
			i++
		case rest[0] == '?':
			b.WriteString("[^/]")
			i++
		case rest[0] == '[':
			class, n := bracket(rest)
			if n == 0 {
				b.WriteString(`\[`)
				i++
				continue
			}
			b.WriteString(class)
			i += n
		default:
			b.WriteString(regexp.QuoteMeta(rest[:1]))
			i++
		}
	}
	return b.String()
}

// bracket parses a character class at the start of s and returns it in
// regexp form with the number of bytes consumed. n is 0 when the class is
// unterminated.
func bracket(s string) (class string, n int) {
	j := 1
	if j < len(s) && s[j] == '!' {
		j++
	}
	if j < len(s) && s[j] == ']' {
		j++
	}
	end := strings.IndexByte(s[j:], ']')
	if end < 0 {
		return "", 0
	}
	end += j
	inner := s[1:end]
	if rest, ok := strings.CutPrefix(inner, "!"); ok {
		inner = "^" + rest
	}
	return "[" + inner + "]", end + 1
}
