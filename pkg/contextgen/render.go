package contextgen

import (
	"path"
	"strings"
)

// structureIndent is one depth level of the rendered tree.
const structureIndent = "    "

// RenderStructure produces the indented plain-text listing of a scanned
// tree: one entry per line, directories suffixed with "/", the selected file
// wrapped in ">>> <<<" markers. Line order matches the walker's traversal
// order exactly.
func RenderStructure(root *DirEntry) string {
	var b strings.Builder
	renderDir(&b, root, 0)
	return b.String()
}

func renderDir(b *strings.Builder, dir *DirEntry, depth int) {
	indent := strings.Repeat(structureIndent, depth)

	for _, sub := range dir.Subdirs {
		b.WriteString(indent)
		b.WriteString(sub.Name)
		b.WriteString("/\n")
		if sub.Unreadable {
			b.WriteString(indent)
			b.WriteString(structureIndent)
			b.WriteString("[access denied]\n")
			continue
		}
		renderDir(b, sub, depth+1)
	}

	for _, file := range dir.Files {
		b.WriteString(indent)
		name := path.Base(file.RelativePath)
		if file.Selected {
			b.WriteString(">>> ")
			b.WriteString(name)
			b.WriteString(" <<<\n")
		} else {
			b.WriteString(name)
			b.WriteString("\n")
		}
	}
}
