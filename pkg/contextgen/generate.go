// Package contextgen turns a project tree into a single size-bounded
// markdown document suitable for pasting into an LLM prompt. The pipeline
// is walk -> extract -> render -> assemble -> write; non-fatal failures are
// collected and reported inside the document.
package contextgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

// Request describes one generation run.
type Request struct {
	RootPath     string
	SelectedPath string // single-file mode: only this file's content is extracted
	Prompt       string // appended verbatim to the document
	MaxChars     int    // overrides the configured per-file budget when > 0
	Output       string // overrides the configured output path when non-empty
	Clipboard    bool   // also copy the document to the system clipboard
	Tokens       bool   // include a token estimate in the statistics
	Workers      int    // overrides the configured worker count when > 0
	Hooks        Hooks
}

// Result is the outcome of a successful run. Warnings list every non-fatal
// failure encountered; they are also embedded in the document.
type Result struct {
	Document       string
	OutputPath     string
	FilesIncluded  int
	TruncatedFiles int
	Tokens         int // -1 when not counted
	Warnings       []Warning
}

// Generate runs the whole pipeline. It is deterministic given identical
// filesystem state and configuration: repeated runs overwrite the output
// artifact with byte-identical content.
func Generate(req Request, cfg *Config, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	absRoot, err := filepath.Abs(req.RootPath)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", req.RootPath, err)
	}
	rootInfo, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRoot, req.RootPath)
	}

	mode := ModeProject
	projectRoot := absRoot
	selectedPath := ""
	switch {
	case req.SelectedPath != "":
		// The structure still covers the whole project root; only the
		// designated file's content is extracted.
		if !rootInfo.IsDir() {
			return nil, fmt.Errorf("root must be a directory when a file is selected, got %s", absRoot)
		}
		selectedPath, err = filepath.Abs(req.SelectedPath)
		if err != nil {
			return nil, fmt.Errorf("resolving selected file %s: %w", req.SelectedPath, err)
		}
		selectedInfo, statErr := os.Stat(selectedPath)
		if statErr != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRoot, req.SelectedPath)
		}
		if selectedInfo.IsDir() {
			return nil, fmt.Errorf("selected file is a directory: %s", selectedPath)
		}
		if !underRoot(absRoot, selectedPath) {
			return nil, fmt.Errorf("selected file %s is outside root %s", selectedPath, absRoot)
		}
		mode = ModeSingleFile
	case !rootInfo.IsDir():
		// A file root is shorthand for single-file mode rooted at its
		// parent directory.
		mode = ModeSingleFile
		selectedPath = absRoot
		projectRoot = filepath.Dir(absRoot)
	}

	maxChars := cfg.MaxCharsPerFile
	if req.MaxChars > 0 {
		maxChars = req.MaxChars
	}
	rules, err := NewRuleSet(cfg.ExcludedDirs, cfg.ExcludedFiles, cfg.AllowedExtensions, maxChars)
	if err != nil {
		return nil, err
	}

	var ignore IgnoreMatcher
	if cfg.UseGitignore {
		ignore = LoadGitignore(projectRoot, logger)
	}

	logger.Debug("Starting walk",
		zap.String("root", projectRoot),
		zap.String("mode", mode.String()))
	tree, err := Walk(projectRoot, rules, WalkOptions{
		SelectedFile: selectedPath,
		Ignore:       ignore,
		Hooks:        req.Hooks,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}
	warnings := tree.Warnings

	targets := tree.Files
	if mode == ModeSingleFile {
		if tree.Selected == nil {
			// The designated file sits under an excluded directory, so the
			// structure does not show it; its content is still extracted.
			tree.Selected = &FileEntry{
				RelativePath: relativeOrSelf(selectedPath, projectRoot),
				AbsolutePath: selectedPath,
				Extension:    fileExtension(filepath.Base(selectedPath)),
				Selected:     true,
			}
		}
		targets = []*FileEntry{tree.Selected}
	}

	workers := cfg.Workers
	if req.Workers > 0 {
		workers = req.Workers
	}
	contents := extractAll(targets, maxChars, workers, logger)
	truncated := 0
	for _, content := range contents {
		if content.Err != nil {
			warnings = append(warnings, Warning{Path: content.Entry.RelativePath, Err: content.Err})
		}
		if content.Truncated {
			truncated++
		}
	}

	tokens := -1
	if req.Tokens {
		counter, counterErr := NewTokenCounter(cfg.TokenizerModel)
		if counterErr != nil {
			logger.Warn("Token counting disabled", zap.Error(counterErr))
		} else {
			tokens = 0
			for _, content := range contents {
				tokens += counter.Count(content.Text)
			}
		}
	}

	selectedName := ""
	if tree.Selected != nil {
		selectedName = filepath.Base(tree.Selected.AbsolutePath)
	}
	document := AssembleDocument(DocumentInput{
		ProjectName:       filepath.Base(projectRoot),
		RootPath:          projectRoot,
		Mode:              mode,
		SelectedName:      selectedName,
		Structure:         RenderStructure(tree.Root),
		Contents:          contents,
		Prompt:            req.Prompt,
		AllowedExtensions: cfg.AllowedExtensions,
		ExcludedDirs:      cfg.ExcludedDirs,
		ExcludedFiles:     cfg.ExcludedFiles,
		MaxChars:          maxChars,
		LanguageTags:      cfg.LanguageTags,
		Tokens:            tokens,
		Warnings:          warnings,
	})

	outputPath := req.Output
	if outputPath == "" {
		outputPath = cfg.Output
	}
	if err := os.WriteFile(outputPath, []byte(document), 0o644); err != nil {
		return nil, fmt.Errorf("writing output %s: %w", outputPath, err)
	}
	logger.Info("Generated context document",
		zap.String("output", outputPath),
		zap.Int("filesIncluded", len(contents)),
		zap.Int("warnings", len(warnings)))

	if req.Clipboard {
		if clipErr := clipboard.WriteAll(document); clipErr != nil {
			logger.Warn("Failed to copy document to clipboard", zap.Error(clipErr))
			warnings = append(warnings, Warning{Path: outputPath, Err: clipErr})
		}
	}

	return &Result{
		Document:       document,
		OutputPath:     outputPath,
		FilesIncluded:  len(contents),
		TruncatedFiles: truncated,
		Tokens:         tokens,
		Warnings:       warnings,
	}, nil
}

// extractAll reads every target file, honoring the character budget. With
// more than one worker the reads run on a pool; results land in their input
// slot so document order always matches traversal order.
func extractAll(entries []*FileEntry, maxChars, workers int, logger *zap.Logger) []ExtractedContent {
	results := make([]ExtractedContent, len(entries))

	if workers <= 1 || len(entries) < 2 {
		for i, entry := range entries {
			results[i] = ExtractContent(entry, maxChars, logger)
		}
		return results
	}

	if workers > len(entries) {
		workers = len(entries)
	}
	jobs := make(chan int, len(entries))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		workerLogger := logger.With(zap.Int("workerID", w))
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = ExtractContent(entries[i], maxChars, workerLogger)
			}
		}()
	}
	for i := range entries {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

// underRoot reports whether path lies within root. Both must be absolute.
func underRoot(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func relativeOrSelf(path, root string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
