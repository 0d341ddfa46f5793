package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [lemma]",
	Short: "Show study statistics",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := newEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		st, err := e.openStore(cmd)
		if err != nil {
			return err
		}
		studyRepo := st.StudyRepo()

		if len(args) == 1 {
			lemma := args[0]
			s, err := studyRepo.Stats(ctx, lemma)
			if err != nil {
				return fmt.Errorf("study stats: %w", err)
			}
			r, err := st.RecognitionRepo().Stats(ctx, lemma)
			if err != nil {
				return fmt.Errorf("recognition stats: %w", err)
			}

			fmt.Printf("%s\n", lemma)
			fmt.Printf("  Tests:        %d (%d correct, %.0f%%)\n", s.Attempts, s.Correct, s.Accuracy()*100)
			if !s.LastStudied.IsZero() {
				fmt.Printf("  Last studied: %s\n", s.LastStudied.Local().Format("2006-01-02 15:04"))
			}
			fmt.Printf("  Recognition:  %d attempts, %d failures (%.0f%%), %d in a row\n",
				r.Attempts, r.Failures, r.FailureRate()*100, r.ConsecutiveSuccesses)
			return nil
		}

		total, err := studyRepo.Totals(ctx)
		if err != nil {
			return fmt.Errorf("study totals: %w", err)
		}
		if total.Attempts == 0 {
			fmt.Println("No tests recorded yet.")
			return nil
		}
		fmt.Printf("%d tests, %d correct (%.0f%%)\n\n", total.Attempts, total.Correct, total.Accuracy()*100)

		limit, _ := cmd.Flags().GetInt("top")
		top, err := studyRepo.TopLemmas(ctx, limit)
		if err != nil {
			return fmt.Errorf("top lemmas: %w", err)
		}
		fmt.Printf("%s  %8s  %8s  %s\n", pad("Lemma", 16), "Tests", "Correct", "Last studied")
		fmt.Println(strings.Repeat("─", 60))
		for _, s := range top {
			fmt.Printf("%s  %8d  %7.0f%%  %s\n",
				pad(s.Lemma, 16), s.Attempts, s.Accuracy()*100, s.LastStudied.Local().Format("2006-01-02"))
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("top", 20, "Number of lemmas to list")
}
