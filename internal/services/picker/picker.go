// Package picker asks the operator to choose the main directory in a
// terminal folder browser.
package picker

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ErrNoTerminal reports that the picker cannot run because input is not a terminal.
var ErrNoTerminal = errors.New("folder picker requires a terminal")

// Option configures the picker.
type Option func(*Picker)

// WithStartDir sets the directory the browser opens in.
func WithStartDir(dir string) Option {
	return func(p *Picker) {
		if dir != "" {
			p.startDir = dir
		}
	}
}

// WithIO overrides the terminal the picker reads from and draws on.
func WithIO(in, out *os.File) Option {
	return func(p *Picker) {
		if in != nil {
			p.in = in
		}
		if out != nil {
			p.out = out
		}
	}
}

// Picker implements services.Picker with a bubbletea file browser that only
// accepts directories.
type Picker struct {
	startDir string
	in       *os.File
	out      *os.File
}

// New constructs a picker reading stdin and drawing on stderr.
func New(opts ...Option) *Picker {
	p := &Picker{startDir: ".", in: os.Stdin, out: os.Stderr}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PickFolder runs the browser until the operator selects a directory or
// cancels. ok is false on cancel.
func (p *Picker) PickFolder(ctx context.Context, prompt string) (string, bool, error) {
	if !isTerminal(p.in) {
		return "", false, ErrNoTerminal
	}
	program := tea.NewProgram(
		newModel(prompt, p.startDir),
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
		tea.WithAltScreen(),
	)
	final, err := program.Run()
	if err != nil {
		return "", false, fmt.Errorf("folder picker: %w", err)
	}
	m, ok := final.(model)
	if !ok || m.cancelled || m.selected == "" {
		return "", false, nil
	}
	return m.selected, true, nil
}

func isTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

type model struct {
	prompt    string
	browser   filepicker.Model
	selected  string
	cancelled bool
}

func newModel(prompt, startDir string) model {
	browser := filepicker.New()
	browser.CurrentDirectory = startDir
	browser.DirAllowed = true
	browser.FileAllowed = false
	browser.ShowHidden = false
	browser.Height = 15
	return model{prompt: prompt, browser: browser}
}

func (m model) Init() tea.Cmd {
	return m.browser.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.cancelled = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Height > 8 {
			m.browser.Height = msg.Height - 8
		}
	}

	var cmd tea.Cmd
	m.browser, cmd = m.browser.Update(msg)
	if ok, path := m.browser.DidSelectFile(msg); ok {
		m.selected = path
		return m, tea.Quit
	}
	return m, cmd
}

func (m model) View() string {
	header := titleStyle.Render(m.prompt)
	current := hintStyle.Render(m.browser.CurrentDirectory)
	help := hintStyle.Render("enter: select folder  →/l: open  ←/h: back  esc: cancel")
	return frameStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, current, "", m.browser.View(), "", help))
}
