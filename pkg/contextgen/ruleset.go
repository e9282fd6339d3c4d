package contextgen

import (
	"fmt"
	"path/filepath"
	"strings"
)

// RuleSet holds the exclusion sets and the per-file character budget.
// It is immutable after construction and safe for concurrent use: every
// method is a pure membership test over the normalized sets.
type RuleSet struct {
	excludedDirs  map[string]struct{}
	excludedFiles map[string]struct{}
	allowedExts   map[string]struct{}
	maxChars      int
}

// NewRuleSet builds a RuleSet from raw configuration values.
//
// Entries in excludedFiles may be exact file names (".gitignore",
// "package-lock.json") or extensions (".pyc"); extension entries are matched
// lower-cased. Allowed extensions are normalized to a leading dot and lower
// case; an empty allowlist admits every extension. maxChars must be positive.
func NewRuleSet(excludedDirs, excludedFiles, allowedExtensions []string, maxChars int) (*RuleSet, error) {
	if maxChars <= 0 {
		return nil, fmt.Errorf("max chars per file must be positive, got %d", maxChars)
	}

	rules := &RuleSet{
		excludedDirs:  make(map[string]struct{}, len(excludedDirs)),
		excludedFiles: make(map[string]struct{}, len(excludedFiles)),
		allowedExts:   make(map[string]struct{}, len(allowedExtensions)),
		maxChars:      maxChars,
	}

	for _, name := range excludedDirs {
		rules.excludedDirs[name] = struct{}{}
	}
	for _, entry := range excludedFiles {
		rules.excludedFiles[entry] = struct{}{}
		if strings.HasPrefix(entry, ".") {
			// Extension entries compare lower-cased.
			rules.excludedFiles[strings.ToLower(entry)] = struct{}{}
		}
	}
	for _, ext := range allowedExtensions {
		rules.allowedExts[normalizeExtension(ext)] = struct{}{}
	}

	return rules, nil
}

// IsDirectoryExcluded reports whether a directory with the given name must be
// skipped entirely. Matching is by exact name.
func (r *RuleSet) IsDirectoryExcluded(name string) bool {
	_, excluded := r.excludedDirs[name]
	return excluded
}

// IsFileIncluded reports whether a file with the given name survives
// filtering. A file is excluded when its exact name is listed, when its
// extension is listed, or when the allowlist is non-empty and does not
// contain the extension. Files without an extension pass a non-empty
// allowlist only when the empty string is explicitly allowed.
func (r *RuleSet) IsFileIncluded(name string) bool {
	if _, excluded := r.excludedFiles[name]; excluded {
		return false
	}
	ext := fileExtension(name)
	if ext != "" {
		if _, excluded := r.excludedFiles[ext]; excluded {
			return false
		}
	}
	if len(r.allowedExts) > 0 {
		if _, allowed := r.allowedExts[ext]; !allowed {
			return false
		}
	}
	return true
}

// MaxChars returns the per-file character budget.
func (r *RuleSet) MaxChars() int {
	return r.maxChars
}

// fileExtension returns the lower-cased extension of a file name including
// the leading dot. Dotfiles such as ".gitignore" have no extension.
func fileExtension(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		return ""
	}
	return strings.ToLower(ext)
}

// normalizeExtension lower-cases an extension string and ensures the leading
// dot. The empty string stays empty so it can whitelist extensionless files.
func normalizeExtension(ext string) string {
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return strings.ToLower(ext)
}
