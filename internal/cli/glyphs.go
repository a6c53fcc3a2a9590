package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/letterpress/pkg/glyph"
)

// glyphsCommand creates the glyphs command.
func (c *CLI) glyphsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "glyphs",
		Short: "List the punctuation marks that hang",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			glyphs := c.newFilter().Glyphs().Glyphs()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(map[string]any{"glyphs": glyphs})
			}
			fmt.Fprintln(cmd.OutOrStdout(), glyphTable(glyphs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}

// entities returns the encodings of g other than its literal form.
func entities(g glyph.Glyph) []string {
	lit := string(g.Literal)
	var out []string
	for _, enc := range g.Encodings {
		if enc != lit {
			out = append(out, enc)
		}
	}
	return out
}

// glyphTable renders glyphs as a bordered table, one row per glyph.
func glyphTable(glyphs []glyph.Glyph) string {
	rows := make([][]string, len(glyphs))
	for i, g := range glyphs {
		rows[i] = []string{
			g.Rank.String(),
			string(g.Literal),
			g.Name,
			strings.Join(entities(g), " "),
			g.Rank.PullClass(),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Rank", "Mark", "Name", "Entities", "Class").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			switch col {
			case 0:
				if glyphs[row].Rank == glyph.Double {
					return cellStyle.Foreground(colorCyan)
				}
				return cellStyle.Foreground(colorBlue)
			case 1:
				return cellStyle.Foreground(colorWhite).Bold(true)
			case 3, 4:
				return cellStyle.Foreground(colorDim)
			}
			return cellStyle
		})

	return t.Render()
}
