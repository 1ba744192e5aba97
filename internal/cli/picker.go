package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/svgembed/svgembed/pkg/errors"
)

// List styles
var (
	pickerSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	pickerNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	pickerDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// pickerModel is the bubbletea model for interactive PNG selection.
type pickerModel struct {
	files    []string
	cursor   int
	selected string
	height   int
	offset   int
}

func newPickerModel(files []string) pickerModel {
	return pickerModel{
		files:  files,
		height: 15,
	}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.files)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			m.selected = m.files[m.cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Select a PNG to convert") + "\n\n")

	end := m.offset + m.height
	if end > len(m.files) {
		end = len(m.files)
	}
	for i := m.offset; i < end; i++ {
		cursor := "  "
		style := pickerNormalStyle
		if i == m.cursor {
			cursor = StyleTitle.Render("> ")
			style = pickerSelectedStyle
		}
		b.WriteString(cursor + style.Render(m.files[i]) + "\n")
	}

	if len(m.files) > m.height {
		b.WriteString(pickerDimStyle.Render(fmt.Sprintf("\n%d/%d", m.cursor+1, len(m.files))) + "\n")
	}
	b.WriteString(pickerDimStyle.Render("\n↑/↓ move · enter select · q quit") + "\n")
	return b.String()
}

// pickPNG lists the PNG files in dir and lets the user choose one.
// Returns "" when the user quits without selecting.
func pickPNG(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return "", apperrors.New(apperrors.ErrCodeInvalidInput, "no PNG files in %s", dir)
	}

	final, err := tea.NewProgram(newPickerModel(files)).Run()
	if err != nil {
		return "", err
	}
	return final.(pickerModel).selected, nil
}
