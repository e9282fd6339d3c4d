package contextgen

import (
	"os"
	"path/filepath"

	gitignore "github.com/monochromegane/go-gitignore"
	"go.uber.org/zap"
)

// IgnoreMatcher matches paths against ignore rules. The gitignore library's
// matcher satisfies it directly.
type IgnoreMatcher interface {
	Match(path string, isDir bool) bool
}

// LoadGitignore parses the .gitignore at the project root, if any. A missing
// or unparsable file yields a nil matcher; gitignore support is best-effort
// and never fatal.
func LoadGitignore(rootPath string, logger *zap.Logger) IgnoreMatcher {
	gitignorePath := filepath.Join(rootPath, ".gitignore")
	if _, err := os.Stat(gitignorePath); err != nil {
		return nil
	}
	matcher, err := gitignore.NewGitIgnore(gitignorePath)
	if err != nil {
		logger.Warn("Failed to parse .gitignore", zap.String("path", gitignorePath), zap.Error(err))
		return nil
	}
	logger.Debug("Loaded .gitignore", zap.String("path", gitignorePath))
	return matcher
}
