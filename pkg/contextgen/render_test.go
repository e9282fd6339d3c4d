package contextgen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderStructure(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/util.py", "u")
	writeFile(t, root, "src/app.py", "a")
	writeFile(t, root, "main.py", "m")

	rules, err := NewRuleSet(nil, nil, []string{".py"}, 100)
	require.NoError(t, err)

	tree, err := Walk(root, rules, WalkOptions{})
	require.NoError(t, err)

	rendered := RenderStructure(tree.Root)
	assert.Equal(t, "src/\n    app.py\n    util.py\nmain.py\n", rendered)
}

func TestRenderStructureMarksSelected(t *testing.T) {
	root := t.TempDir()
	selected := writeFile(t, root, "src/util.py", "u")
	writeFile(t, root, "src/app.py", "a")

	rules, err := NewRuleSet(nil, nil, []string{".py"}, 100)
	require.NoError(t, err)

	tree, err := Walk(root, rules, WalkOptions{SelectedFile: selected})
	require.NoError(t, err)

	rendered := RenderStructure(tree.Root)
	assert.Contains(t, rendered, "    >>> util.py <<<\n")
	assert.Contains(t, rendered, "    app.py\n")

	// Exactly one entry is marked.
	assert.Equal(t, 1, strings.Count(rendered, ">>>"))
}

func TestRenderStructureEmptyDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.py", "a")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	rules, err := NewRuleSet(nil, nil, []string{".py"}, 100)
	require.NoError(t, err)

	tree, err := Walk(root, rules, WalkOptions{})
	require.NoError(t, err)

	rendered := RenderStructure(tree.Root)
	assert.Contains(t, rendered, "empty/\n")
}

func TestRenderStructureDeterministic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b/two.py", "2")
	writeFile(t, root, "a/one.py", "1")
	writeFile(t, root, "zed.py", "z")

	rules, err := NewRuleSet(nil, nil, []string{".py"}, 100)
	require.NoError(t, err)

	first, err := Walk(root, rules, WalkOptions{})
	require.NoError(t, err)
	second, err := Walk(root, rules, WalkOptions{})
	require.NoError(t, err)

	assert.Equal(t, RenderStructure(first.Root), RenderStructure(second.Root))
}
