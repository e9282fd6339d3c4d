package contextgen

// defaultLanguageTags maps file extensions to markdown fence tags. Unknown
// extensions fall back to a plain fence.
var defaultLanguageTags = map[string]string{
	".go":    "go",
	".mod":   "go",
	".py":    "python",
	".pyx":   "python",
	".js":    "javascript",
	".jsx":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".c":     "c",
	".h":     "c",
	".cc":    "cpp",
	".cpp":   "cpp",
	".cxx":   "cpp",
	".hpp":   "cpp",
	".hxx":   "cpp",
	".rs":    "rust",
	".rb":    "ruby",
	".java":  "java",
	".kt":    "kotlin",
	".css":   "css",
	".scss":  "scss",
	".less":  "less",
	".html":  "html",
	".htm":   "html",
	".xml":   "xml",
	".json":  "json",
	".yaml":  "yaml",
	".yml":   "yaml",
	".toml":  "toml",
	".md":    "markdown",
	".rst":   "rst",
	".sql":   "sql",
	".sh":    "bash",
	".bat":   "batch",
	".qml":   "qml",
	".cmake": "cmake",
}

// LanguageTag returns the fence tag for a normalized extension. Overrides
// from configuration take precedence over the built-in table.
func LanguageTag(extension string, overrides map[string]string) string {
	if overrides != nil {
		if tag, ok := overrides[extension]; ok {
			return tag
		}
	}
	return defaultLanguageTags[extension]
}
