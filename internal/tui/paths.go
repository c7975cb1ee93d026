package tui

import (
	"os"
	"path/filepath"
	"strings"
)

// expandPaths turns the file input into a path list. Entries are separated by
// whitespace or commas, "~/" is expanded and glob patterns are matched. A
// pattern without matches is kept as typed so the upload reports it.
func expandPaths(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, f := range fields {
		if strings.HasPrefix(f, "~/") {
			if home, err := os.UserHomeDir(); err == nil {
				f = filepath.Join(home, f[2:])
			}
		}
		if !strings.ContainsAny(f, "*?[") {
			add(f)
			continue
		}
		matches, err := filepath.Glob(f)
		if err != nil || len(matches) == 0 {
			add(f)
			continue
		}
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && !info.IsDir() {
				add(m)
			}
		}
	}
	return out
}
