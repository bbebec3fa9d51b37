package main

import (
	"os"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func initLogging() {
	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(parsed).
		With().Timestamp().Logger()
}
