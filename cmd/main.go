// Command turnchat is an interactive terminal client for a hosted chat
// completion API with per-turn token and cost reporting.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/compresr/turnchat/internal/config"
	"github.com/compresr/turnchat/internal/console"
	"github.com/compresr/turnchat/internal/costcontrol"
	"github.com/compresr/turnchat/internal/openai"
	"github.com/compresr/turnchat/internal/session"
	"github.com/compresr/turnchat/internal/tokens"
)

// tokenizerEncoding is the BPE loaded at startup.
var tokenizerEncoding = tokens.DefaultEncoding

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		printError(err.Error())
		os.Exit(1)
	}
}

// run starts the chat. Startup messages that are not errors go to stdout.
func run(args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	if opts.help {
		printHelp(stdout)
		return nil
	}

	setupLogging(zerolog.WarnLevel, os.Stderr)
	config.LoadEnvFiles(config.EnvFiles()...)

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	level := cfg.LogLevel()
	if opts.debug {
		level = zerolog.DebugLevel
	}
	setupLogging(level, os.Stderr)

	apiKey, ok := config.LoadAPIKey()
	if !ok {
		fmt.Fprintf(stdout, "The environment variable '%s' must be set to use this program.\n", config.APIKeyEnv)
		return nil
	}

	acct, err := tokens.NewAccountant(tokenizerEncoding)
	if err != nil {
		return fmt.Errorf("tokenizer unavailable: %w", err)
	}

	client := openai.NewClient(cfg.API.BaseURL, apiKey, openai.WithConnectTimeout(cfg.API.ConnectTimeout))
	con := console.Stdio()
	sess := session.New(cfg.SessionConfig(), con, client, acct,
		session.WithTracker(costcontrol.NewTracker(cfg.CostControl)),
	)

	log.Debug().
		Str("session_id", sess.ID()).
		Str("base_url", cfg.API.BaseURL).
		Str("model", sess.Config().Model.ID()).
		Bool("cost_cap_enabled", cfg.CostControl.Enabled).
		Msg("starting chat")

	if con.Interactive() {
		printInfo("Type :help for commands. Ctrl-C stops a streaming response.")
	}
	return sess.Run(context.Background())
}

// loadConfig loads the config file and applies flag overrides.
func loadConfig(opts *cliOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.model != "" {
		cfg.Model = opts.model
	}
	if opts.maxTokensSet {
		cfg.MaxOutputTokens = opts.maxTokens
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}
