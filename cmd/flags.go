package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

// cliOptions holds parsed command-line flags.
type cliOptions struct {
	configPath   string
	model        string
	maxTokens    int
	maxTokensSet bool
	debug        bool
	help         bool
}

// parseFlags parses args (without the program name).
func parseFlags(args []string) (*cliOptions, error) {
	opts := &cliOptions{}

	flagSet := pflag.NewFlagSet("turnchat", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVarP(&opts.configPath, "config", "c", "", "config file (default: ~/.config/turnchat/config.yaml if present)")
	flagSet.StringVarP(&opts.model, "model", "m", "", "starting model: 3, 4 or 4t")
	flagSet.IntVar(&opts.maxTokens, "max-tokens", 0, "maximum tokens per response (1-65535)")
	flagSet.BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging on stderr")
	flagSet.BoolVarP(&opts.help, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			opts.help = true
			return opts, nil
		}
		return nil, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	opts.maxTokensSet = flagSet.Changed("max-tokens")
	return opts, nil
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `turnchat - chat with a hosted language model from the terminal.

Usage:
  turnchat [flags]

Flags:
  -c, --config FILE     Config file (default: ~/.config/turnchat/config.yaml if present)
  -m, --model CODE      Starting model: 3 (gpt-3.5-turbo), 4 (gpt-4), 4t (gpt-4-turbo)
      --max-tokens N    Maximum tokens per response (default: 512)
  -d, --debug           Enable debug logging on stderr
  -h, --help            Show this help

Environment:
  OPENAI_API_KEY        API key (required; also read from .env)
  OPENAI_BASE_URL       Alternative OpenAI-compatible endpoint
  TURNCHAT_MODEL        Starting model

In the chat:
  :help                 List commands
  |message              Send with the previous context kept for this message
  Ctrl-C                Stop a response while it streams
`)
}
