package contextgen

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Mode selects between whole-project and single-file generation.
type Mode int

const (
	// ModeProject extracts content from every surviving file.
	ModeProject Mode = iota
	// ModeSingleFile renders the full project structure but extracts
	// content from the designated file only.
	ModeSingleFile
)

func (m Mode) String() string {
	if m == ModeSingleFile {
		return "Single file"
	}
	return "Complete project"
}

// DocumentInput collects everything the assembler needs. Contents must be in
// the order they should appear; the assembler emits exactly one block per
// element and never reorders or drops any.
type DocumentInput struct {
	ProjectName       string
	RootPath          string
	Mode              Mode
	SelectedName      string
	Structure         string
	Contents          []ExtractedContent
	Prompt            string
	AllowedExtensions []string
	ExcludedDirs      []string
	ExcludedFiles     []string
	MaxChars          int
	LanguageTags      map[string]string
	Tokens            int // -1 when token counting is off
	Warnings          []Warning
}

// AssembleDocument renders the final document: title, project metadata, the
// structure listing, one fenced content block per extracted file, run
// statistics, collected warnings, and the caller's prompt verbatim.
func AssembleDocument(in DocumentInput) string {
	var b strings.Builder

	if in.Mode == ModeSingleFile {
		fmt.Fprintf(&b, "# CONTEXT: `%s` (%s)\n\n", in.SelectedName, in.ProjectName)
	} else {
		fmt.Fprintf(&b, "# CONTEXT: `%s`\n\n", in.ProjectName)
	}

	b.WriteString("## PROJECT INFO\n")
	fmt.Fprintf(&b, "- **Path**: `%s`\n", in.RootPath)
	if in.Mode == ModeSingleFile {
		fmt.Fprintf(&b, "- **Selected file**: `%s`\n", in.SelectedName)
	}
	fmt.Fprintf(&b, "- **Mode**: %s\n", in.Mode)
	fmt.Fprintf(&b, "- **Included extensions**: %s\n", joinSorted(in.AllowedExtensions))
	fmt.Fprintf(&b, "- **Excluded directories**: %s\n", joinSorted(in.ExcludedDirs))
	fmt.Fprintf(&b, "- **Excluded files**: %s\n", joinSorted(in.ExcludedFiles))
	fmt.Fprintf(&b, "- **Character limit per file**: %d\n\n", in.MaxChars)

	b.WriteString("## STRUCTURE\n```\n")
	b.WriteString(in.Structure)
	b.WriteString("```\n\n")

	b.WriteString("## CODE\n")
	truncated := 0
	for _, content := range in.Contents {
		writeContentBlock(&b, content, in.LanguageTags)
		if content.Truncated {
			truncated++
		}
	}

	b.WriteString("\n## STATISTICS\n")
	fmt.Fprintf(&b, "- **Files included**: %d\n", len(in.Contents))
	if truncated > 0 {
		fmt.Fprintf(&b, "- **Files truncated**: %d\n", truncated)
	}
	if in.Tokens >= 0 {
		fmt.Fprintf(&b, "- **Estimated tokens**: %d\n", in.Tokens)
	}
	if in.Mode == ModeSingleFile {
		fmt.Fprintf(&b, "- **Mode**: Single file (%s)\n", in.SelectedName)
	}
	fmt.Fprintf(&b, "- **Base directory**: %s\n\n", in.RootPath)

	if len(in.Warnings) > 0 {
		b.WriteString("## WARNINGS\n")
		for _, warning := range in.Warnings {
			fmt.Fprintf(&b, "- `%s`: %v\n", warning.Path, warning.Err)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## PROMPT\n%s\n", in.Prompt)

	return b.String()
}

func writeContentBlock(b *strings.Builder, content ExtractedContent, overrides map[string]string) {
	if content.Entry.Selected {
		fmt.Fprintf(b, "\n### `%s` (selected file)\n", content.Entry.RelativePath)
	} else {
		fmt.Fprintf(b, "\n### `%s`\n", content.Entry.RelativePath)
	}

	if content.Err != nil {
		if errors.Is(content.Err, ErrBinaryContent) {
			b.WriteString("```\n[binary content omitted]\n```\n")
		} else {
			fmt.Fprintf(b, "```\n[unreadable: %v]\n```\n", content.Err)
		}
		return
	}

	tag := LanguageTag(content.Entry.Extension, overrides)
	fmt.Fprintf(b, "```%s\n%s\n```\n", tag, content.Text)
	if content.Truncated {
		fmt.Fprintf(b, "_Content truncated to %d of %d characters._\n",
			utf8.RuneCountInString(content.Text), content.TotalChars)
	}
}

func joinSorted(values []string) string {
	sorted := make([]string, len(values))
	copy(sorted, values)
	sort.Strings(sorted)
	return strings.Join(sorted, ", ")
}
