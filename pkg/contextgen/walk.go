package contextgen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// FileEntry is a file that survived filtering. Entries are created during a
// single traversal pass and never mutated afterwards.
type FileEntry struct {
	RelativePath string
	AbsolutePath string
	Extension    string
	Selected     bool
}

// DirEntry is a directory node in the scanned tree. Subdirs and Files are
// each ordered case-insensitively by name; rendering follows this order
// exactly, so output is byte-reproducible for the same filesystem state.
type DirEntry struct {
	RelativePath string
	Name         string
	Subdirs      []*DirEntry
	Files        []*FileEntry
	Unreadable   bool
}

// Tree is the result of one traversal pass.
type Tree struct {
	Root     *DirEntry
	RootPath string
	Selected *FileEntry
	Files    []*FileEntry // depth-first traversal order
	Warnings []Warning
}

// Hooks are optional per-event callbacks a front-end can use to render
// progress or collect non-fatal errors while the walk runs.
type Hooks struct {
	OnDirectory func(relativePath string)
	OnFile      func(relativePath string)
	OnError     func(path string, err error)
}

// WalkOptions tune a traversal.
type WalkOptions struct {
	// SelectedFile is the absolute path of the designated file when running
	// in single-file mode; empty in project mode. The designated file is
	// always included and marked, regardless of the rule set.
	SelectedFile string
	Ignore       IgnoreMatcher
	Hooks        Hooks
	Logger       *zap.Logger
}

type walker struct {
	rules    *RuleSet
	opts     WalkOptions
	logger   *zap.Logger
	rootPath string
	files    []*FileEntry
	selected *FileEntry
	warnings []Warning
}

// Walk enumerates rootPath depth-first, applying the rule set. Directories
// that end up with zero surviving descendants are kept: structure is shown
// even when empty. Symbolic links are never traversed. A subdirectory that
// cannot be read is recorded with zero children and the error collected;
// traversal continues.
func Walk(rootPath string, rules *RuleSet, opts WalkOptions) (*Tree, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", rootPath, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRoot, rootPath)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("walk root must be a directory: %s", absRoot)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &walker{
		rules:    rules,
		opts:     opts,
		logger:   logger,
		rootPath: absRoot,
	}

	root := &DirEntry{RelativePath: ".", Name: filepath.Base(absRoot)}
	w.walkDir(absRoot, root)

	return &Tree{
		Root:     root,
		RootPath: absRoot,
		Selected: w.selected,
		Files:    w.files,
		Warnings: w.warnings,
	}, nil
}

func (w *walker) walkDir(dirPath string, dir *DirEntry) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		dir.Unreadable = true
		w.report(dirPath, err)
		return
	}

	// Directories first, then files, case-insensitive alphabetical within
	// each group.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	for _, entry := range entries {
		name := entry.Name()
		childPath := filepath.Join(dirPath, name)
		relPath := w.relative(childPath)

		if entry.Type()&fs.ModeSymlink != 0 {
			// Never followed; a symlinked directory could introduce a cycle.
			w.report(childPath, errSymlinkNotFollowed)
			continue
		}

		if entry.IsDir() {
			if w.rules.IsDirectoryExcluded(name) {
				w.logger.Debug("Skipping excluded directory", zap.String("path", childPath))
				continue
			}
			if w.opts.Ignore != nil && w.opts.Ignore.Match(childPath, true) {
				w.logger.Debug("Skipping gitignored directory", zap.String("path", childPath))
				continue
			}
			child := &DirEntry{RelativePath: relPath, Name: name}
			dir.Subdirs = append(dir.Subdirs, child)
			if w.opts.Hooks.OnDirectory != nil {
				w.opts.Hooks.OnDirectory(relPath)
			}
			w.walkDir(childPath, child)
			continue
		}

		if !entry.Type().IsRegular() {
			w.logger.Debug("Skipping irregular file", zap.String("path", childPath))
			continue
		}

		selected := w.opts.SelectedFile != "" && childPath == w.opts.SelectedFile
		if !selected {
			if !w.rules.IsFileIncluded(name) {
				continue
			}
			if w.opts.Ignore != nil && w.opts.Ignore.Match(childPath, false) {
				continue
			}
		}

		fileEntry := &FileEntry{
			RelativePath: relPath,
			AbsolutePath: childPath,
			Extension:    fileExtension(name),
			Selected:     selected,
		}
		if selected {
			w.selected = fileEntry
		}
		dir.Files = append(dir.Files, fileEntry)
		w.files = append(w.files, fileEntry)
		if w.opts.Hooks.OnFile != nil {
			w.opts.Hooks.OnFile(relPath)
		}
	}
}

func (w *walker) relative(path string) string {
	rel, err := filepath.Rel(w.rootPath, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// errSymlinkNotFollowed marks a symbolic link encountered during traversal.
// Links are skipped rather than resolved, and the skip is reported so the
// caller can see the path was not covered.
var errSymlinkNotFollowed = errors.New("symbolic link not followed")

func (w *walker) report(path string, err error) {
	w.logger.Warn("Traversal warning", zap.String("path", path), zap.Error(err))
	w.warnings = append(w.warnings, Warning{Path: w.relative(path), Err: err})
	if w.opts.Hooks.OnError != nil {
		w.opts.Hooks.OnError(path, err)
	}
}
