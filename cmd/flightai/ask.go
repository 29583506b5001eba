package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Desarso/flightai"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and print the answer",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

var (
	imageOut string
	noSpeech bool
)

func init() {
	askCmd.Flags().StringVar(&imageOut, "image-out", "", "write the destination image to this file")
	askCmd.Flags().BoolVar(&noSpeech, "no-speech", false, "do not speak the answer")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if noSpeech {
		cfg.WithSpeechBackend(flightai.BackendNone)
	}
	if imageOut == "" {
		cfg.WithImageBackend(flightai.BackendNone)
	}

	agent, err := flightai.NewAgent(cfg, logger)
	if err != nil {
		return err
	}
	session, err := flightai.NewSession(cmd.Context(), "", agent, cfg, logger)
	if err != nil {
		return err
	}
	if session.Traces != nil {
		defer session.Traces.Close()
	}

	history, img, err := session.Submit(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), history[len(history)-1].Content)

	if img != nil {
		if err := os.WriteFile(imageOut, img.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write image: %w", err)
		}
		logger.Infof("Wrote %s image to %s", img.MimeType, imageOut)
	}

	session.WaitSpeech()
	return nil
}
