// Package filter decides which scan candidates are considered and parses
// human-readable sizes.
package filter

// Rule is a single include or exclude glob.
type Rule struct {
	Pattern *compiledPattern
	Include bool
}

// Chain is an ordered rule list; the first matching rule decides.
type Chain struct {
	rules    []Rule
	foldCase bool
}

// NewChain creates an empty, case-sensitive chain.
func NewChain() *Chain {
	return &Chain{}
}

// FoldCase makes every rule added afterwards match case-insensitively.
// Application folders on Windows and macOS volumes usually differ only in
// case from what users type.
func (c *Chain) FoldCase() *Chain {
	c.foldCase = true
	return c
}

// AddExclude appends an exclude rule.
func (c *Chain) AddExclude(pattern string) error {
	return c.add(pattern, false)
}

// AddInclude appends an include rule.
func (c *Chain) AddInclude(pattern string) error {
	return c.add(pattern, true)
}

func (c *Chain) add(pattern string, include bool) error {
	cp, err := compilePattern(pattern, c.foldCase)
	if err != nil {
		return err
	}
	c.rules = append(c.rules, Rule{Pattern: cp, Include: include})
	return nil
}

// Len returns the number of rules.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.rules)
}

// Empty reports whether the chain has no rules.
func (c *Chain) Empty() bool {
	return c.Len() == 0
}

// Match reports whether relPath should be kept. A nil chain keeps everything.
func (c *Chain) Match(relPath string, isDir bool) bool {
	if c == nil {
		return true
	}
	for _, rule := range c.rules {
		if rule.Pattern.match(relPath, isDir) {
			return rule.Include
		}
	}
	return true
}
