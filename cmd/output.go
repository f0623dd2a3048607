package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// setupLogging points the global zerolog logger at w.
func setupLogging(level zerolog.Level, w io.Writer) {
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		With().
		Timestamp().
		Logger()
}

// Print helper functions for consistent output formatting.
func printError(msg string) {
	fmt.Fprintf(os.Stderr, "\033[0;31m[ERROR]\033[0m %s\n", msg)
}

func printInfo(msg string) {
	fmt.Printf("\033[0;34m[INFO]\033[0m %s\n", msg)
}
