package cmd

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/studyplay/internal/app"
	"github.com/abhisek/studyplay/internal/player"
	"github.com/abhisek/studyplay/internal/priority"
	playerscreen "github.com/abhisek/studyplay/internal/screens/player"
	"github.com/abhisek/studyplay/internal/selection"
	"github.com/abhisek/studyplay/internal/study"
	"github.com/abhisek/studyplay/internal/subtitle"
)

var playCmd = &cobra.Command{
	Use:   "play <subtitles.srt|.vtt>",
	Short: "Play a subtitle track in study mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := newEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := applyStudyFlags(cmd, &e.cfg.Study); err != nil {
			return err
		}

		path := args[0]
		subs, err := subtitle.ParseFile(path)
		if err != nil {
			return err
		}
		if len(subs) == 0 {
			return fmt.Errorf("%s: no subtitles", path)
		}

		st, err := e.openStore(cmd)
		if err != nil {
			return err
		}
		wait, _ := cmd.Flags().GetBool("wait")
		tok, err := e.tokenizer(ctx, wait)
		if err != nil {
			return err
		}

		studyRepo := st.StudyRepo()
		engine := study.New(e.cfg.Study, study.Deps{
			Tokenizer:       tok,
			Knowledge:       e.knowledge(studyRepo),
			StudyRepo:       studyRepo,
			RecognitionRepo: st.RecognitionRepo(),
			Logger:          e.log,
			Rand:            rand.New(rand.NewSource(time.Now().UnixNano())),
		})
		defer engine.Close()

		src, err := filepath.Abs(path)
		if err != nil {
			src = path
		}
		e.log.WithFields(logrus.Fields{
			"source": src,
			"lines":  len(subs),
		}).Info("starting playback")

		p := player.New(src, subs)
		return app.Run(playerscreen.New(ctx, engine, p, filepath.Base(path), e.log))
	},
}

// applyStudyFlags overrides study settings given on the command line.
func applyStudyFlags(cmd *cobra.Command, cfg *study.Config) error {
	flags := cmd.Flags()
	if flags.Changed("frequency") {
		cfg.Frequency, _ = flags.GetInt("frequency")
	}
	if flags.Changed("line-selection") {
		s, _ := flags.GetString("line-selection")
		strategy, err := selection.ParseLineStrategy(s)
		if err != nil {
			return err
		}
		cfg.LineSelection = strategy
	}
	if flags.Changed("token-selection") {
		s, _ := flags.GetString("token-selection")
		strategy, err := selection.ParseTokenStrategy(s)
		if err != nil {
			return err
		}
		cfg.TokenSelection = strategy
	}
	if flags.Changed("intensity") {
		s, _ := flags.GetString("intensity")
		intensity, err := priority.ParseIntensity(s)
		if err != nil {
			return err
		}
		cfg.Intensity = intensity
	}
	if flags.Changed("focus") {
		s, _ := flags.GetString("focus")
		mode, err := priority.ParseFocusMode(s)
		if err != nil {
			return err
		}
		cfg.FocusMode = mode
	}
	if flags.Changed("max-blanks") {
		cfg.MaxBlanks, _ = flags.GetInt("max-blanks")
	}
	if flags.Changed("no-track") {
		noTrack, _ := flags.GetBool("no-track")
		cfg.TrackResults = !noTrack
	}
	return cfg.Validate()
}

func init() {
	f := playCmd.Flags()
	f.Int("frequency", 0, "Test every Nth line (cadence selection)")
	f.String("line-selection", "", "Line selection strategy: random or prioritize_unknown")
	f.String("token-selection", "", "Token selection strategy: random or knowledge")
	f.String("intensity", "", "Knowledge selection intensity: low, medium or high")
	f.String("focus", "", "Priority focus mode: balanced, unknown or weak")
	f.Int("max-blanks", 0, "Maximum blanks per test")
	f.Bool("no-track", false, "Do not record results")
	f.Bool("wait", false, "Wait for the dictionary to load before playing")
}
