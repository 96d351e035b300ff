package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/deiva0304/BUDS-Crochet/pkg/errors"
	"github.com/deiva0304/BUDS-Crochet/pkg/pattern"
	"github.com/deiva0304/BUDS-Crochet/pkg/stitch"
)

// Editor styles
var (
	menuSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	menuNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	menuDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	editorErrStyle    = lipgloss.NewStyle().Foreground(colorRed)
	editorMsgStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	editorPanelStyle  = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// maxAmountDigits bounds the typed amount.
const maxAmountDigits = 3

// =============================================================================
// EditorModel - Interactive pattern editor
// =============================================================================

// saveFunc persists the pattern under the editor's session name.
type saveFunc func(ctx context.Context, p *pattern.Pattern) error

// EditorModel is the bubbletea model for editing a pattern.
type EditorModel struct {
	ctx     context.Context
	pattern *pattern.Pattern
	name    string
	save    saveFunc

	Cursor int
	// Amount is the number typed so far; empty means 1.
	Amount string

	Message string
	Err     error
	// Dirty reports edits made since the last save.
	Dirty bool
}

// NewEditorModel creates an editor for p. A nil save disables saving.
func NewEditorModel(ctx context.Context, p *pattern.Pattern, name string, save saveFunc) EditorModel {
	return EditorModel{ctx: ctx, pattern: p, name: name, save: save}
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

// options returns the stitches offered for the current row.
func (m EditorModel) options() []stitch.Type {
	return m.pattern.StitchOptions()
}

func (m EditorModel) amount() int {
	if m.Amount == "" {
		return 1
	}
	n, _ := strconv.Atoi(m.Amount)
	return n
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch k := key.String(); k {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.options())-1 {
			m.Cursor++
		}
	case "backspace":
		if m.Amount != "" {
			m.Amount = m.Amount[:len(m.Amount)-1]
		}
	case "enter", " ":
		t := m.options()[m.Cursor]
		added, err := m.pattern.AppendStitches(m.ctx, t, m.amount())
		m = m.result(fmt.Sprintf("Added %d %s", added, t.Name()), err)
		m.Amount = ""
	case "n":
		if m.pattern.CommitRow(m.ctx) {
			m = m.result(fmt.Sprintf("Started row %d", m.pattern.RowCount()), nil)
		} else {
			m = m.result("", errors.New(errors.ErrCodeInvalidInput, "current row is empty"))
		}
	case "u":
		_, err := m.pattern.Undo(m.ctx)
		m = m.result("Undone", err)
	case "r", "ctrl+r":
		_, err := m.pattern.Redo(m.ctx)
		m = m.result("Redone", err)
	case "C":
		m.pattern.Clear(m.ctx)
		m = m.result("Cleared", nil)
	case "s":
		m = m.saved()
	default:
		if len(k) == 1 && k[0] >= '0' && k[0] <= '9' && len(m.Amount) < maxAmountDigits {
			if k != "0" || m.Amount != "" {
				m.Amount += k
			}
		}
	}

	// The menu shrinks back to chains only when undo returns to the
	// foundation row.
	if n := len(m.options()); m.Cursor >= n {
		m.Cursor = n - 1
	}
	return m, nil
}

// result records the outcome of an edit.
func (m EditorModel) result(msg string, err error) EditorModel {
	if err != nil {
		m.Message, m.Err = "", err
		return m
	}
	m.Message, m.Err = msg, nil
	m.Dirty = true
	return m
}

func (m EditorModel) saved() EditorModel {
	if m.save == nil {
		m.Message, m.Err = "", errors.New(errors.ErrCodeUnsupported, "start the editor with a session name to save")
		return m
	}
	if err := m.save(m.ctx, m.pattern); err != nil {
		m.Message, m.Err = "", err
		return m
	}
	m.Message, m.Err = "Saved "+m.name, nil
	m.Dirty = false
	return m
}

func (m EditorModel) View() string {
	var b strings.Builder

	title := "Pattern"
	if m.name != "" {
		title = m.name
	}
	if m.Dirty {
		title += "*"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(menuDimStyle.Render("↑/↓ stitch  0-9 amount  ⏎ add  n new row  u undo  r redo  C clear  s save  q quit"))
	b.WriteString("\n\n")

	written := m.pattern.Written()
	if written == "" {
		written = menuDimStyle.Render("Start with a foundation chain.")
	} else {
		written = styleWritten(written)
	}
	b.WriteString(editorPanelStyle.Render(written))
	b.WriteString("\n")

	limit, bounded := m.pattern.MaxLength()
	counts := fmt.Sprintf("Row %d · %d stitches", m.pattern.RowCount(), m.pattern.StitchCount())
	if bounded {
		counts += fmt.Sprintf(" · row %d/%d", m.pattern.Current().Size(), limit)
	}
	b.WriteString(menuDimStyle.Render(counts))
	b.WriteString("\n\n")

	for i, t := range m.options() {
		line := fmt.Sprintf("%-12s %s", t.Name(), menuDimStyle.Render(t.Code()))
		if i == m.Cursor {
			b.WriteString(menuSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(menuNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Amount: %s\n", StyleValue.Render(strconv.Itoa(m.amount()))))

	switch {
	case m.Err != nil:
		b.WriteString(editorErrStyle.Render(iconError + " " + errors.UserMessage(m.Err)))
	case m.Message != "":
		b.WriteString(editorMsgStyle.Render(iconSuccess + " " + m.Message))
	}
	b.WriteString("\n")

	return b.String()
}
