// Package filter decides which saved files are worth analyzing.
package filter

import (
	"path/filepath"
	"strings"
)

var binaryExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".bmp": {}, ".ico": {}, ".svg": {},
	".pdf": {}, ".zip": {}, ".tar": {}, ".gz": {}, ".7z": {}, ".rar": {},
	".exe": {}, ".dll": {}, ".so": {}, ".dylib": {},
	".mp3": {}, ".mp4": {}, ".avi": {}, ".mov": {}, ".wmv": {},
	".woff": {}, ".woff2": {}, ".ttf": {}, ".eot": {},
	".bin": {}, ".dat": {}, ".db": {}, ".sqlite": {},
}

// ignoredDirs are directory names whose contents are never analyzed.
var ignoredDirs = []string{
	"node_modules",
	".git",
	".vs",
	"dist",
	"build",
	".next",
	"coverage",
	".nyc_output",
	"bin",
	"obj",
	"packages",
}

// ignorePatterns are ignoredDirs as backslash-delimited segments, lowercased.
var ignorePatterns = func() []string {
	patterns := make([]string, len(ignoredDirs))
	for i, dir := range ignoredDirs {
		patterns[i] = `\` + strings.ToLower(dir) + `\`
	}
	return patterns
}()

// ShouldProcess reports whether a saved file is eligible for intent detection.
// Binary/media/archive extensions and files under dependency, build-output or
// VCS metadata directories are rejected. Matching is case-insensitive and the
// directory check is an unanchored substring match on the path with both slash
// styles unified.
func ShouldProcess(path string) bool {
	if path == "" {
		return false
	}

	if _, ok := binaryExtensions[strings.ToLower(filepath.Ext(path))]; ok {
		return false
	}

	normalized := strings.ToLower(strings.ReplaceAll(path, "/", `\`))
	for _, pattern := range ignorePatterns {
		if strings.Contains(normalized, pattern) {
			return false
		}
	}

	return true
}

// IsIgnoredDir reports whether a directory name is one the filter always rejects.
// The watcher uses it to avoid descending into such trees at all.
func IsIgnoredDir(name string) bool {
	for _, dir := range ignoredDirs {
		if strings.EqualFold(name, dir) {
			return true
		}
	}
	return false
}
