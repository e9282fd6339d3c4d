// Package tui is the interactive terminal front-end for codeshare. It lets
// the user pick a project directory or a single file, type a prompt, and
// trigger document generation without leaving the terminal. The core
// pipeline has no event loop; this package maps key events onto it.
package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"codeshare/pkg/contextgen"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

const maxStatusLines = 6

type focusArea int

const (
	focusPicker focusArea = iota
	focusPrompt
)

// resultMsg carries the outcome of a generation run back into the program.
type resultMsg struct {
	result *contextgen.Result
	err    error
}

// Model is the bubbletea model for the codeshare TUI.
type Model struct {
	picker       filepicker.Model
	prompt       textinput.Model
	cfg          *contextgen.Config
	logger       *zap.Logger
	projectRoot  string
	selectedFile string
	focus        focusArea
	generating   bool
	status       []string
	width        int
}

// NewModel builds the initial TUI state rooted at startPath.
func NewModel(startPath string, cfg *contextgen.Config, logger *zap.Logger) (Model, error) {
	absRoot, err := filepath.Abs(startPath)
	if err != nil {
		return Model{}, fmt.Errorf("resolving start path %s: %w", startPath, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return Model{}, fmt.Errorf("%w: %s", contextgen.ErrInvalidRoot, startPath)
	}
	if !info.IsDir() {
		absRoot = filepath.Dir(absRoot)
	}

	picker := filepicker.New()
	picker.CurrentDirectory = absRoot
	picker.DirAllowed = true
	picker.FileAllowed = true
	picker.Height = 12

	prompt := textinput.New()
	prompt.Placeholder = "Enter your prompt/question..."
	prompt.CharLimit = 2048
	prompt.Width = 60

	if logger == nil {
		logger = zap.NewNop()
	}

	return Model{
		picker:      picker,
		prompt:      prompt,
		cfg:         cfg,
		logger:      logger,
		projectRoot: absRoot,
		status: []string{
			"Pick a file for single-file mode, or just generate for the whole project.",
		},
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.picker.Init()
}

// Update implements tea.Model. Key events dispatch to one of generate,
// reset, or quit; everything else is delegated to the focused component.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case resultMsg:
		m.generating = false
		if msg.err != nil {
			m.pushStatus(errStyle.Render(fmt.Sprintf("Generation failed: %v", msg.err)))
			return m, nil
		}
		line := fmt.Sprintf("Generated %s (%d files", msg.result.OutputPath, msg.result.FilesIncluded)
		if msg.result.TruncatedFiles > 0 {
			line += fmt.Sprintf(", %d truncated", msg.result.TruncatedFiles)
		}
		line += ")"
		m.pushStatus(okStyle.Render(line))
		for _, warning := range msg.result.Warnings {
			m.pushStatus(statusStyle.Render("warning: " + warning.String()))
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+g":
			return m.startGenerate()
		case "ctrl+r":
			return m.reset()
		case "tab":
			return m.toggleFocus()
		}
		if m.focus == focusPicker {
			switch msg.String() {
			case "q", "esc":
				return m, tea.Quit
			case "g":
				return m.startGenerate()
			case "r":
				return m.reset()
			}
		} else if msg.String() == "esc" {
			return m.toggleFocus()
		}
	}

	var cmd tea.Cmd
	if m.focus == focusPicker {
		m.picker, cmd = m.picker.Update(msg)
		if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				m.projectRoot = path
				m.selectedFile = ""
				m.pushStatus("Project root: " + path)
			} else {
				m.selectedFile = path
				m.pushStatus("Single-file mode: " + filepath.Base(path))
			}
		}
	} else {
		m.prompt, cmd = m.prompt.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	title := titleStyle.Render("codeshare: context generator")

	mode := "Complete project"
	target := m.projectRoot
	if m.selectedFile != "" {
		mode = "Single file"
		target = m.selectedFile
	}
	info := fmt.Sprintf("Mode: %s\nTarget: %s\nOutput: %s", mode, target, m.cfg.Output)
	if m.generating {
		info += "\nGenerating..."
	}

	var statusBlock string
	for _, line := range m.status {
		statusBlock += line + "\n"
	}

	help := helpStyle.Render("enter: select  tab: prompt  g: generate  r: reset  q: quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		panelStyle.Render(m.picker.View()),
		panelStyle.Render(info),
		panelStyle.Render("Prompt: "+m.prompt.View()),
		statusBlock,
		help,
	)
}

func (m Model) startGenerate() (tea.Model, tea.Cmd) {
	if m.generating {
		return m, nil
	}
	m.generating = true
	m.pushStatus("Generating context document...")

	req := contextgen.Request{
		RootPath:     m.projectRoot,
		SelectedPath: m.selectedFile,
		Prompt:       m.prompt.Value(),
	}
	cfg, logger := m.cfg, m.logger
	return m, func() tea.Msg {
		result, err := contextgen.Generate(req, cfg, logger)
		return resultMsg{result: result, err: err}
	}
}

func (m Model) reset() (tea.Model, tea.Cmd) {
	m.selectedFile = ""
	m.prompt.SetValue("")
	m.pushStatus("Selection reset.")
	return m, nil
}

func (m Model) toggleFocus() (tea.Model, tea.Cmd) {
	if m.focus == focusPicker {
		m.focus = focusPrompt
		return m, m.prompt.Focus()
	}
	m.focus = focusPicker
	m.prompt.Blur()
	return m, nil
}

func (m *Model) pushStatus(line string) {
	m.status = append(m.status, line)
	if len(m.status) > maxStatusLines {
		m.status = m.status[len(m.status)-maxStatusLines:]
	}
}

// Run starts the interactive program and blocks until the user quits.
func Run(startPath string, cfg *contextgen.Config, logger *zap.Logger) error {
	model, err := NewModel(startPath, cfg, logger)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
