package filter

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

type pendingRule struct {
	pattern string
	include bool
}

// ruleValue is a repeatable flag that records rules in command-line order,
// interleaved with its sibling include/exclude flag.
type ruleValue struct {
	rules   *[]pendingRule
	include bool
}

func (v *ruleValue) Set(s string) error {
	*v.rules = append(*v.rules, pendingRule{pattern: s, include: v.include})
	return nil
}

func (v *ruleValue) String() string { return "" }
func (v *ruleValue) Type() string   { return "pattern" }

// sizeValue is a flag holding a byte count written like "64K" or "1.5G".
type sizeValue int64

func (v *sizeValue) Set(s string) error {
	n, err := ParseSize(s)
	if err != nil {
		return err
	}
	*v = sizeValue(n)
	return nil
}

func (v *sizeValue) String() string {
	if *v == 0 {
		return ""
	}
	return fmt.Sprintf("%d", int64(*v))
}

func (v *sizeValue) Type() string { return "size" }

// Flags holds the filter command-line flags of one command.
type Flags struct {
	rules   []pendingRule
	from    string
	minSize sizeValue
	maxSize sizeValue
	newer   time.Duration
	older   time.Duration
}

// Register adds the filter flags to fs.
func Register(fs *pflag.FlagSet) *Flags {
	f := &Flags{}
	fs.Var(&ruleValue{rules: &f.rules}, "exclude", "hide entries matching `pattern` (repeatable)")
	fs.Var(&ruleValue{rules: &f.rules, include: true}, "include", "show entries matching `pattern` even if a later rule hides them (repeatable)")
	fs.StringVar(&f.from, "filter-from", "", "read include/exclude rules from `file`")
	fs.Var(&f.minSize, "min-size", "hide files smaller than `size`")
	fs.Var(&f.maxSize, "max-size", "hide files larger than `size`")
	fs.DurationVar(&f.newer, "newer", 0, "show only files modified within `age`")
	fs.DurationVar(&f.older, "older", 0, "show only files modified more than `age` ago")
	return f
}

// Chain builds the filter the flags describe, with ages measured from now.
// Rules given on the command line come before rules read from a file.
func (f *Flags) Chain(now time.Time) (*Chain, error) {
	c := NewChain()
	for _, r := range f.rules {
		if err := c.add(r.pattern, r.include); err != nil {
			return nil, err
		}
	}
	if f.from != "" {
		if err := c.LoadFile(f.from); err != nil {
			return nil, err
		}
	}
	if f.minSize > 0 && f.maxSize > 0 && f.minSize > f.maxSize {
		return nil, fmt.Errorf("--min-size exceeds --max-size")
	}
	c.SetSizeRange(int64(f.minSize), int64(f.maxSize))

	var newer, older time.Time
	if f.newer > 0 {
		newer = now.Add(-f.newer)
	}
	if f.older > 0 {
		older = now.Add(-f.older)
	}
	c.SetModifiedRange(newer, older)
	return c, nil
}
