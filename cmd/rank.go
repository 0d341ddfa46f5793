package cmd

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/abhisek/studyplay/internal/priority"
	"github.com/abhisek/studyplay/internal/selection"
	"github.com/abhisek/studyplay/internal/subtitle"
)

var rankCmd = &cobra.Command{
	Use:   "rank <subtitles.srt|.vtt>",
	Short: "Rank subtitle lines by how much they would teach you",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := newEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		subs, err := subtitle.ParseFile(args[0])
		if err != nil {
			return err
		}

		st, err := e.openStore(cmd)
		if err != nil {
			return err
		}
		tok, err := e.tokenizer(ctx, true)
		if err != nil {
			return err
		}

		cfg := e.cfg.Study
		if s, _ := cmd.Flags().GetString("intensity"); s != "" {
			if cfg.Intensity, err = priority.ParseIntensity(s); err != nil {
				return err
			}
		}

		studyRepo := st.StudyRepo()
		lines := &selection.LineSelector{
			Tokenizer: tok,
			Scorer: &selection.Scorer{
				Knowledge:   e.knowledge(studyRepo),
				Recognition: st.RecognitionRepo(),
				Calc:        priority.NewCalculator(),
				Mode:        cfg.FocusMode,
				Log:         e.log,
			},
			Decks:     cfg.Decks,
			Intensity: cfg.Intensity,
			Log:       e.log,
		}

		texts := make([]string, len(subs))
		for i, s := range subs {
			texts[i] = s.Text
		}
		ranked := lines.Rank(ctx, texts)

		limit, _ := cmd.Flags().GetInt("limit")
		if limit > 0 && len(ranked) > limit {
			ranked = ranked[:limit]
		}

		fmt.Printf("%5s  %6s  %6s  %7s  %s\n", "Line", "Score", "Tokens", "Trigger", "Text")
		fmt.Println(strings.Repeat("─", 80))
		for _, r := range ranked {
			trigger := ""
			if r.Decision.Trigger {
				trigger = "yes"
			}
			fmt.Printf("%5d  %6.2f  %6d  %7s  %s\n",
				subs[r.Index].Index+1, r.Decision.Score, r.Decision.TokenCount,
				trigger, runewidth.Truncate(r.Text, 50, "..."))
		}

		threshold, _ := priority.ShouldTrigger(0, cfg.Intensity)
		fmt.Printf("\n%d lines, threshold %.1f (%s)\n", len(ranked), threshold, cfg.Intensity)
		if len(ranked) > 0 && !lines.Ready() {
			fmt.Println("No deck source is configured; every word counts as uncollected.")
		}
		return nil
	},
}

func init() {
	rankCmd.Flags().Int("limit", 20, "Show at most this many lines (0 for all)")
	rankCmd.Flags().String("intensity", "", "Intensity used for the trigger column: low, medium or high")
}
