package filter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Load reads rules from r, one per line, appending them to the chain. A
// line starting with "+ " is an include rule, "- " or no prefix an exclude
// rule. Blank lines and lines starting with "#" are skipped.
func (c *Chain) Load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		include := false
		if rest, ok := strings.CutPrefix(text, "+ "); ok {
			include, text = true, strings.TrimSpace(rest)
		} else if rest, ok := strings.CutPrefix(text, "- "); ok {
			text = strings.TrimSpace(rest)
		}
		if err := c.add(text, include); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return scanner.Err()
}

// LoadFile reads rules from the file at path.
func (c *Chain) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open filter file: %w", err)
	}
	defer f.Close()

	if err := c.Load(f); err != nil {
		return fmt.Errorf("filter file %s: %w", path, err)
	}
	return nil
}
