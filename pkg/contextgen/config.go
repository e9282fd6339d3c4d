package contextgen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config carries every tunable the pipeline consumes. It is loaded once and
// passed explicitly into Generate; nothing in this package reads ambient
// global state.
type Config struct {
	ExcludedDirs      []string
	ExcludedFiles     []string
	AllowedExtensions []string
	MaxCharsPerFile   int
	Output            string
	UseGitignore      bool
	LanguageTags      map[string]string
	TokenizerModel    string
	Workers           int
}

// DefaultConfig returns the built-in configuration used when no settings
// file is present.
func DefaultConfig() *Config {
	return &Config{
		ExcludedDirs: []string{
			".git", ".hg", ".svn",
			".venv", "venv", "node_modules", "__pycache__",
			"build", "dist", "target", "bin", "obj", "vendor",
			".vscode", ".idea", ".pytest_cache",
		},
		ExcludedFiles: []string{
			".gitignore", ".DS_Store", "Thumbs.db", ".env",
			"context.md",
			"package-lock.json", "yarn.lock", "poetry.lock", "Pipfile.lock",
			"go.sum",
			".pyc", ".exe", ".dll", ".so", ".a", ".o",
			".png", ".jpg", ".jpeg", ".gif", ".ico", ".pdf", ".zip",
			".tar", ".gz", ".woff", ".woff2", ".ttf",
		},
		AllowedExtensions: []string{
			".go", ".mod",
			".c", ".cc", ".cpp", ".cxx", ".h", ".hpp", ".hxx",
			".py", ".pyx",
			".js", ".jsx", ".ts", ".tsx",
			".rs", ".rb", ".java", ".kt",
			".md", ".txt", ".rst",
			".json", ".yaml", ".yml", ".toml",
			".sql", ".sh", ".bat",
			".css", ".scss", ".less",
			".html", ".htm", ".xml",
			".qml", ".qrc", ".cmake",
		},
		MaxCharsPerFile: 10000,
		Output:          "context.md",
		UseGitignore:    true,
		LanguageTags:    nil, // defaults in language.go apply
		TokenizerModel:  "gpt-4o",
		Workers:         1,
	}
}

// LoadConfig reads the optional settings file and merges it over the
// defaults. An explicit path must exist; otherwise codeshare.yaml is looked
// up in the working directory and ~/.config/codeshare, and its absence is
// not an error. Environment variables prefixed CODESHARE_ override file
// values.
func LoadConfig(path string) (*Config, error) {
	defaults := DefaultConfig()

	v := viper.New()
	v.SetDefault("excluded_dirs", defaults.ExcludedDirs)
	v.SetDefault("excluded_files", defaults.ExcludedFiles)
	v.SetDefault("allowed_extensions", defaults.AllowedExtensions)
	v.SetDefault("max_chars_per_file", defaults.MaxCharsPerFile)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("use_gitignore", defaults.UseGitignore)
	v.SetDefault("language_tags", map[string]string{})
	v.SetDefault("tokenizer_model", defaults.TokenizerModel)
	v.SetDefault("workers", defaults.Workers)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "codeshare"))
		}
		v.SetConfigName("codeshare")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("CODESHARE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			if path == "" {
				return nil, fmt.Errorf("reading config: %w", err)
			}
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{
		ExcludedDirs:      v.GetStringSlice("excluded_dirs"),
		ExcludedFiles:     v.GetStringSlice("excluded_files"),
		AllowedExtensions: v.GetStringSlice("allowed_extensions"),
		MaxCharsPerFile:   v.GetInt("max_chars_per_file"),
		Output:            v.GetString("output"),
		UseGitignore:      v.GetBool("use_gitignore"),
		LanguageTags:      v.GetStringMapString("language_tags"),
		TokenizerModel:    v.GetString("tokenizer_model"),
		Workers:           v.GetInt("workers"),
	}
	if len(cfg.LanguageTags) == 0 {
		cfg.LanguageTags = nil
	}
	if cfg.MaxCharsPerFile <= 0 {
		return nil, fmt.Errorf("max_chars_per_file must be positive, got %d", cfg.MaxCharsPerFile)
	}
	return cfg, nil
}
