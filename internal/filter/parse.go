package filter

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadFile appends rules read from path, one per line:
//
//	- pattern   exclude
//	+ pattern   include
//	pattern     exclude
//	# comment   ignored
func (c *Chain) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open filter file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for lineNum := 1; sc.Scan(); lineNum++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var addErr error
		switch {
		case strings.HasPrefix(line, "+ "):
			addErr = c.AddInclude(strings.TrimSpace(line[2:]))
		case strings.HasPrefix(line, "- "):
			addErr = c.AddExclude(strings.TrimSpace(line[2:]))
		default:
			addErr = c.AddExclude(line)
		}
		if addErr != nil {
			return fmt.Errorf("filter file %s line %d: %w", path, lineNum, addErr)
		}
	}

	return sc.Err()
}
