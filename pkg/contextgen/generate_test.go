package contextgen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(outputDir string) *Config {
	cfg := DefaultConfig()
	cfg.Output = filepath.Join(outputDir, "context.md")
	cfg.UseGitignore = false
	return cfg
}

func TestGenerateProjectScenario(t *testing.T) {
	// A root with src/a.py (600 chars) and src/b.pyc, allowlist {.py},
	// 500-char budget: the structure and the content section both contain
	// only a.py, truncated to 500 characters.
	root := t.TempDir()
	writeFile(t, root, "src/a.py", strings.Repeat("a", 600))
	writeFile(t, root, "src/b.pyc", "compiled")

	out := t.TempDir()
	cfg := testConfig(out)
	cfg.AllowedExtensions = []string{".py"}
	cfg.ExcludedFiles = []string{".pyc"}

	result, err := Generate(Request{RootPath: root, MaxChars: 500}, cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 1, result.FilesIncluded)
	assert.Equal(t, 1, result.TruncatedFiles)
	assert.Contains(t, result.Document, "a.py")
	assert.NotContains(t, result.Document, "b.pyc")
	assert.Contains(t, result.Document, "_Content truncated to 500 of 600 characters._")

	written, err := os.ReadFile(result.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, result.Document, string(written))
}

func TestGenerateSingleFileScenario(t *testing.T) {
	// Single-file mode targeting proj/src/util.py: the structure highlights
	// util.py under src/, and the content section holds exactly its text.
	root := t.TempDir()
	target := writeFile(t, root, "src/util.py", "def util(): pass\n")
	writeFile(t, root, "src/other.py", "other = 1\n")
	writeFile(t, root, "main.py", "main = 1\n")

	cfg := testConfig(t.TempDir())
	result, err := Generate(Request{RootPath: root, SelectedPath: target}, cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 1, result.FilesIncluded)
	assert.Contains(t, result.Document, ">>> util.py <<<")
	assert.Contains(t, result.Document, "def util(): pass")
	assert.NotContains(t, result.Document, "other = 1")
	assert.NotContains(t, result.Document, "main = 1")
	assert.Equal(t, 1, strings.Count(result.Document, "\n### `"))
	// Structure still shows the rest of the project.
	assert.Contains(t, result.Document, "other.py")
	assert.Contains(t, result.Document, "main.py")
}

func TestGenerateFileRootShorthand(t *testing.T) {
	// A file root is single-file mode over its parent directory.
	root := t.TempDir()
	target := writeFile(t, root, "util.py", "def util(): pass\n")
	writeFile(t, root, "other.py", "other = 1\n")

	cfg := testConfig(t.TempDir())
	result, err := Generate(Request{RootPath: target}, cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 1, result.FilesIncluded)
	assert.Contains(t, result.Document, ">>> util.py <<<")
	assert.Contains(t, result.Document, "other.py")
	assert.NotContains(t, result.Document, "other = 1")
}

func TestGenerateSelectedDirectoryFails(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))

	cfg := testConfig(t.TempDir())
	_, err := Generate(Request{RootPath: root, SelectedPath: filepath.Join(root, "sub")}, cfg, zap.NewNop())
	require.Error(t, err)
}

func TestGenerateSelectedFileOutsideRootFails(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.py", "main = 1\n")
	outside := writeFile(t, t.TempDir(), "stray.py", "stray = 1\n")

	cfg := testConfig(t.TempDir())
	_, err := Generate(Request{RootPath: root, SelectedPath: outside}, cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside root")
}

func TestGenerateSelectedFileInExcludedDir(t *testing.T) {
	// The structure omits the excluded directory, but the designated file's
	// content is still extracted.
	root := t.TempDir()
	target := writeFile(t, root, "vendor/dep.py", "dep = 1\n")
	writeFile(t, root, "main.py", "main = 1\n")

	cfg := testConfig(t.TempDir())
	result, err := Generate(Request{RootPath: root, SelectedPath: target}, cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 1, result.FilesIncluded)
	assert.NotContains(t, result.Document, "vendor/\n")
	assert.Contains(t, result.Document, "dep = 1")
}

func TestGenerateIdempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.py", "a = 1\n")
	writeFile(t, root, "src/b.py", "b = 2\n")
	writeFile(t, root, "readme.md", "# readme\n")

	cfg := testConfig(t.TempDir())
	first, err := Generate(Request{RootPath: root, Prompt: "same prompt"}, cfg, zap.NewNop())
	require.NoError(t, err)
	second, err := Generate(Request{RootPath: root, Prompt: "same prompt"}, cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, first.Document, second.Document)
}

func TestGenerateInvalidRoot(t *testing.T) {
	cfg := testConfig(t.TempDir())
	_, err := Generate(Request{RootPath: filepath.Join(t.TempDir(), "missing")}, cfg, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidRoot)

	// Fatal before any output: nothing was written.
	_, statErr := os.Stat(cfg.Output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerateOutputOverwrite(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "a = 1\n")

	out := filepath.Join(t.TempDir(), "ctx.md")
	require.NoError(t, os.WriteFile(out, []byte("stale much longer previous content that must disappear"), 0o644))

	cfg := testConfig(t.TempDir())
	result, err := Generate(Request{RootPath: root, Output: out}, cfg, zap.NewNop())
	require.NoError(t, err)

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, result.Document, string(written))
	assert.NotContains(t, string(written), "stale")
}

func TestGenerateBudgetEnforcedPerFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "big.py", strings.Repeat("x", 2000))
	writeFile(t, root, "small.py", "ok")

	cfg := testConfig(t.TempDir())
	result, err := Generate(Request{RootPath: root, MaxChars: 100, Workers: 4}, cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 2, result.FilesIncluded)
	assert.Equal(t, 1, result.TruncatedFiles)
	assert.Contains(t, result.Document, "_Content truncated to 100 of 2000 characters._")
	assert.Contains(t, result.Document, strings.Repeat("x", 100)+"\n```")
	assert.NotContains(t, result.Document, strings.Repeat("x", 101))
}

func TestGenerateWorkerPoolPreservesOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "a")
	writeFile(t, root, "b.py", "b")
	writeFile(t, root, "c.py", "c")
	writeFile(t, root, "d.py", "d")

	cfg := testConfig(t.TempDir())
	sequential, err := Generate(Request{RootPath: root, Workers: 1}, cfg, zap.NewNop())
	require.NoError(t, err)
	parallel, err := Generate(Request{RootPath: root, Workers: 4}, cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, sequential.Document, parallel.Document)
}

func TestGenerateUnreadableFileIsWarning(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	root := t.TempDir()
	writeFile(t, root, "ok.py", "fine")
	locked := writeFile(t, root, "locked.py", "secret")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o644) })

	cfg := testConfig(t.TempDir())
	result, err := Generate(Request{RootPath: root}, cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 2, result.FilesIncluded)
	assert.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Document, "[unreadable:")
	assert.Contains(t, result.Document, "fine")
}

func TestGenerateProgressHooks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.py", "a")

	var files []string
	cfg := testConfig(t.TempDir())
	_, err := Generate(Request{
		RootPath: root,
		Hooks:    Hooks{OnFile: func(rel string) { files = append(files, rel) }},
	}, cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{"src/a.py"}, files)
}

func TestExtractAllOrderStable(t *testing.T) {
	root := t.TempDir()
	var entries []*FileEntry
	for _, name := range []string{"one.py", "two.py", "three.py"} {
		path := writeFile(t, root, name, "content of "+name)
		entries = append(entries, entryFor(t, path))
	}

	results := extractAll(entries, 1000, 3, zap.NewNop())
	require.Len(t, results, 3)
	for i, result := range results {
		assert.Equal(t, entries[i], result.Entry)
		assert.Equal(t, "content of "+entries[i].RelativePath, result.Text)
	}
}
