package watcher

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

const DefaultExtension = "pdf"

// Filter selects the file names that get moved.
type Filter struct {
	// Extension is compared case-sensitively, without the leading dot.
	Extension string
	// Excludes are doublestar globs matched against the bare name.
	Excludes []string
}

func (f Filter) Match(name string) bool {
	ext := filepath.Ext(name)
	if ext == "" || ext[1:] != f.Extension {
		return false
	}

	for _, pattern := range f.Excludes {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return false
		}
	}

	return true
}
