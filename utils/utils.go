// Package utils provides small helpers shared across the application.
package utils

import (
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ExpandPath expands a leading tilde and cleans the path. A path that
// cannot be expanded is returned as given.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		expanded, err := homedir.Expand(path)
		if err == nil {
			return expanded
		}
	}
	return filepath.Clean(path)
}
