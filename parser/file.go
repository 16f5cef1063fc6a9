package parser

import (
	"fmt"
	"os"
)

// ParseFile reads path and parses it into a Program, wrapping any I/O
// failure as an IOError-class message per spec.md §7.
func ParseFile(path string) (*Program, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-specified assembly source path
	if err != nil {
		return nil, fmt.Errorf("io error: failed to read %s: %w", path, err)
	}
	return Parse(string(data))
}
