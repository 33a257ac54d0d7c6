package importer

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/cleared-dev/offerlab/internal/model"
)

// ExpandPaths resolves statement arguments to files. Plain paths pass
// through unchecked; patterns containing glob characters (including **) are
// matched and must match at least one regular file. The result is sorted
// and free of duplicates.
func ExpandPaths(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		if !containsGlob(arg) {
			add(arg)
			continue
		}

		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("glob error: %w", err)
		}
		n := 0
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			add(m)
			n++
		}
		if n == 0 {
			return nil, fmt.Errorf("no files match pattern: %s", arg)
		}
	}

	sort.Strings(paths)
	return paths, nil
}

func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// ParseFiles parses every path and concatenates the transactions, as when a
// merchant submits one export per month.
func (r *Registry) ParseFiles(paths []string, format string) ([]model.Transaction, error) {
	var all []model.Transaction
	for _, p := range paths {
		txns, err := r.ParseFile(p, format)
		if err != nil {
			return nil, err
		}
		all = append(all, txns...)
	}
	return all, nil
}
