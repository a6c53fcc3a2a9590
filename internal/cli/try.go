package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	lperrors "github.com/matzehuels/letterpress/pkg/errors"
	"github.com/matzehuels/letterpress/pkg/hanging"
)

// tryCommand creates the interactive preview command.
func (c *CLI) tryCommand() *cobra.Command {
	var escape bool

	cmd := &cobra.Command{
		Use:   "try",
		Short: "Preview the filter interactively",
		Long: `Type a fragment and watch the rewritten output update on every keystroke.

Keys:
  ctrl+e   toggle escaping of the input
  ctrl+u   clear the input
  esc      quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := newTryModel(c.newFilter(), escape)
			p := tea.NewProgram(m,
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.ErrOrStderr()),
			)
			final, err := p.Run()
			if err != nil {
				return err
			}
			// Leave the last result on stdout so it can be piped.
			if fm, ok := final.(tryModel); ok && fm.err == nil && fm.output != "" {
				fmt.Fprintln(cmd.OutOrStdout(), fm.output)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&escape, "escape", false, "start with escaping enabled")

	return cmd
}

// =============================================================================
// tryModel - Live preview
// =============================================================================

var (
	tryLabelStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(8)
	tryInputStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	tryOutputStyle = lipgloss.NewStyle().Foreground(colorCyan)
	tryCursorStyle = lipgloss.NewStyle().Reverse(true)
	tryHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// tryModel is the bubbletea model for the preview.
type tryModel struct {
	filter *hanging.Filter
	input  []rune
	escape bool

	output string
	stats  hanging.Stats
	err    error
}

func newTryModel(f *hanging.Filter, escape bool) tryModel {
	m := tryModel{filter: f, escape: escape}
	return m.apply()
}

func (m tryModel) Init() tea.Cmd {
	return nil
}

func (m tryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyCtrlE:
		m.escape = !m.escape
	case tea.KeyCtrlU:
		m.input = nil
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, key.Runes...)
	default:
		return m, nil
	}
	return m.apply(), nil
}

// apply re-runs the filter on the current input.
func (m tryModel) apply() tryModel {
	html, stats, err := m.filter.Apply(string(m.input), m.escape)
	m.output, m.stats, m.err = string(html), stats, err
	return m
}

func (m tryModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("letterpress") + StyleDim.Render(" · live preview") + "\n\n")
	b.WriteString(tryLabelStyle.Render("input") + tryInputStyle.Render(string(m.input)) + tryCursorStyle.Render(" ") + "\n")

	if m.err != nil {
		b.WriteString(tryLabelStyle.Render("error") + StyleWarning.Render(lperrors.UserMessage(m.err)) + "\n")
	} else {
		b.WriteString(tryLabelStyle.Render("output") + tryOutputStyle.Render(m.output) + "\n")
	}

	b.WriteString("\n" + formatStats(m.stats, false) + "\n\n")

	escape := "off"
	if m.escape {
		escape = "on"
	}
	b.WriteString(tryHelpStyle.Render(fmt.Sprintf("ctrl+e escape: %s · ctrl+u clear · esc quit", escape)))
	return b.String()
}
