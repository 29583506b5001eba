package main

import (
	"fmt"

	"github.com/Desarso/flightai"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCmd is the flightai command group
var RootCmd = &cobra.Command{
	Use:   "flightai",
	Short: "FlightAI airline assistant",
	Long: `FlightAI answers airline ticket questions, looking up fares with a tool
call and illustrating the destination.

Examples:
  # Serve the chat API and websocket on :8080
  flightai serve --addr :8080

  # Ask a single question
  flightai ask "How much is a ticket to Berlin?"`,
	SilenceUsage: true,
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.String("config", "", "config file (yaml, json or toml)")
	flags.String("provider", "", "chat model provider (openai, openrouter)")
	flags.String("model", "", "chat model name")
	flags.String("image-backend", "", "image backend (openai, gemini, none)")
	flags.String("speech-backend", "", "speech backend (openai, elevenlabs, none)")
	flags.String("prices-file", "", "YAML file with ticket prices")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text, json)")

	for key, flag := range map[string]string{
		"config":         "config",
		"provider":       "provider",
		"model":          "model",
		"image_backend":  "image-backend",
		"speech_backend": "speech-backend",
		"prices_file":    "prices-file",
		"log_level":      "log-level",
		"log_format":     "log-format",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", flag, err))
		}
	}

	RootCmd.AddCommand(serveCmd, askCmd)
}

// setup loads and validates configuration and builds the root logger.
func setup() (*flightai.Config, *logrus.Logger, error) {
	cfg, err := flightai.LoadConfig(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := flightai.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
