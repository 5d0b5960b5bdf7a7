// Package image parses and loads an Intcode program image: an ordered
// sequence of ASCII decimal integers separated by commas, optionally
// interspersed with whitespace (spec.md §6).
package image

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Parse splits raw text into an ordered sequence of words. Leading and
// trailing whitespace is stripped; commas separate tokens; any
// whitespace around a token is ignored.
func Parse(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	fields := strings.Split(raw, ",")
	out := make([]int64, 0, len(fields))
	for i, f := range fields {
		f = strings.TrimSpace(f)
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("image: token %d (%q): %w", i, f, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Load reads path and parses it as a program image.
func Load(path string) ([]int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("image: %w", err)
	}
	return Parse(string(data))
}
