// Package filter decides which directory entries a listing shows. A Chain
// holds ordered include/exclude glob rules, first match wins, plus optional
// size and modification-time limits that apply to files only.
package filter

import (
	"time"

	"github.com/bamsammich/ferry/internal/vfs"
)

type rule struct {
	glob    *glob
	include bool
}

// Chain is an ordered filter. The zero value matches everything.
type Chain struct {
	rules     []rule
	minSize   int64
	maxSize   int64
	newerThan time.Time
	olderThan time.Time
}

// NewChain creates an empty filter chain.
func NewChain() *Chain {
	return &Chain{}
}

// Exclude appends a rule hiding entries that match pattern.
func (c *Chain) Exclude(pattern string) error {
	return c.add(pattern, false)
}

// Include appends a rule keeping entries that match pattern, overriding
// any later exclude.
func (c *Chain) Include(pattern string) error {
	return c.add(pattern, true)
}

func (c *Chain) add(pattern string, include bool) error {
	g, err := compileGlob(pattern)
	if err != nil {
		return err
	}
	c.rules = append(c.rules, rule{glob: g, include: include})
	return nil
}

// SetSizeRange limits files to [minBytes, maxBytes]. Zero disables a bound.
func (c *Chain) SetSizeRange(minBytes, maxBytes int64) {
	c.minSize, c.maxSize = minBytes, maxBytes
}

// SetModifiedRange keeps files modified after newer and before older.
// A zero time disables a bound.
func (c *Chain) SetModifiedRange(newer, older time.Time) {
	c.newerThan, c.olderThan = newer, older
}

// Empty reports whether the chain filters nothing.
func (c *Chain) Empty() bool {
	return len(c.rules) == 0 &&
		c.minSize == 0 && c.maxSize == 0 &&
		c.newerThan.IsZero() && c.olderThan.IsZero()
}

// Match reports whether e should be shown. Glob rules see e.Name, which
// is the path relative to the listed directory.
func (c *Chain) Match(e vfs.Entry) bool {
	if !e.IsDir && !c.withinLimits(e) {
		return false
	}
	return c.MatchPath(e.Name, e.IsDir)
}

// MatchPath applies only the glob rules to a slash-separated relative path.
func (c *Chain) MatchPath(rel string, isDir bool) bool {
	for _, r := range c.rules {
		if r.glob.match(rel, isDir) {
			return r.include
		}
	}
	return true
}

func (c *Chain) withinLimits(e vfs.Entry) bool {
	switch {
	case c.minSize > 0 && e.Size < c.minSize:
		return false
	case c.maxSize > 0 && e.Size > c.maxSize:
		return false
	case !c.newerThan.IsZero() && !e.ModTime.After(c.newerThan):
		return false
	case !c.olderThan.IsZero() && !e.ModTime.Before(c.olderThan):
		return false
	}
	return true
}
