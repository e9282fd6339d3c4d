package contextgen

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// ExtractedContent is the per-file result of content extraction. When Err is
// set the document still gets a content block for the file, rendered as a
// placeholder notice.
type ExtractedContent struct {
	Entry      *FileEntry
	Text       string
	Truncated  bool
	TotalChars int
	Err        error
}

// ExtractContent reads a file as text and enforces the character budget.
// Decoding is best-effort: invalid UTF-8 sequences are replaced, never
// fatal. Truncation cuts at exactly maxChars characters, on rune
// boundaries. Binary-looking content is not emitted; the entry carries
// ErrBinaryContent instead.
func ExtractContent(entry *FileEntry, maxChars int, logger *zap.Logger) ExtractedContent {
	raw, err := os.ReadFile(entry.AbsolutePath)
	if err != nil {
		return ExtractedContent{
			Entry: entry,
			Err:   fmt.Errorf("reading file: %w", err),
		}
	}

	if isBinaryContent(raw) {
		logger.Debug("Skipping binary content", zap.String("path", entry.RelativePath))
		return ExtractedContent{Entry: entry, Err: ErrBinaryContent}
	}

	text := strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	total := utf8.RuneCountInString(text)

	result := ExtractedContent{
		Entry:      entry,
		Text:       text,
		TotalChars: total,
	}
	if total > maxChars {
		result.Text = truncateRunes(text, maxChars)
		result.Truncated = true
		logger.Debug("Truncated file content",
			zap.String("path", entry.RelativePath),
			zap.Int("totalChars", total),
			zap.Int("maxChars", maxChars))
	}
	return result
}

// truncateRunes returns the first n runes of s.
func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
