package cmd

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/abhisek/studyplay/internal/selection"
	"github.com/abhisek/studyplay/internal/token"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <text>",
	Short: "Show how a line is analysed and which words can be blanked",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := newEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		tok, err := e.tokenizer(ctx, true)
		if err != nil {
			return err
		}

		text := strings.Join(args, " ")
		groups, err := tok.Tokenize(ctx, text)
		if err != nil {
			return err
		}
		parts := token.Flatten(groups)
		conj := e.cfg.Study.IncludeConjugations

		fmt.Printf("%-3s  %s  %s  %s  %-8s  %s\n",
			"#", pad("Surface", 12), pad("Reading", 14), pad("Lemma", 12), "Blank", "POS")
		fmt.Println(strings.Repeat("─", 80))
		for i, p := range parts {
			blank := ""
			if selection.Eligible(parts, i, conj) {
				blank = "yes"
			}
			fmt.Printf("%-3d  %s  %s  %s  %-8s  %s\n",
				i, pad(p.Text, 12), pad(token.ToHiragana(p.Reading), 14), pad(p.Lemma(), 12), blank, p.POS)
		}

		units := selection.Units(parts, conj)
		fmt.Printf("\n%d parts, %d blank candidates\n", len(parts), len(units))
		for _, u := range units {
			unit := u.Parts(parts)
			fmt.Printf("  %s (%s)\n", token.TextOf(unit), token.ReadingOf(unit))
		}
		return nil
	},
}

// pad fills s to width terminal cells.
func pad(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}
