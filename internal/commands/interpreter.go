// Package commands interprets ":"-prefixed session commands.
//
// DESIGN: A fixed dispatch table keyed by long and short name. Commands
// mutate only the SessionConfig they are handed; they never see the
// conversation history.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/compresr/turnchat/internal/config"
	"github.com/compresr/turnchat/internal/costcontrol"
	"github.com/compresr/turnchat/internal/models"
)

// Action tells the session loop what to do after a command.
type Action int

const (
	// Continue returns to the prompt.
	Continue Action = iota
	// Quit ends the session.
	Quit
)

// UsageSource reports what the session has spent so far.
// Implemented by costcontrol.Tracker.
type UsageSource interface {
	Totals() costcontrol.Usage
	PerModel() []costcontrol.ModelUsage
	Config() costcontrol.CostControlConfig
}

type command struct {
	name  string
	short string
	args  string // argument hint shown by help, e.g. "[3|4|4t]"
	help  string
	run   func(cfg *config.SessionConfig, arg string) Action
}

// Interpreter executes session commands.
type Interpreter struct {
	out      io.Writer
	usage    UsageSource
	commands []*command
	byName   map[string]*command
}

// New returns an Interpreter that writes its messages to out. usage may be
// nil, in which case the usage command reports nothing recorded.
func New(out io.Writer, usage UsageSource) *Interpreter {
	i := &Interpreter{out: out, usage: usage, byName: make(map[string]*command)}
	i.commands = []*command{
		{name: "quit", short: "q", help: "quits the program", run: i.quit},
		{name: "context", short: "c", help: "toggles between keeping context and discarding it between messages.", run: i.toggleContext},
		{name: "model", short: "m", args: modelArgs(), run: i.model},
		{name: "usage", short: "u", help: "shows tokens and estimated price for this session.", run: i.showUsage},
		{name: "help", short: "h", help: "shows this list", run: i.help},
	}
	for _, c := range i.commands {
		i.byName[c.name] = c
		i.byName[c.short] = c
	}
	return i
}

// modelArgs lists the tier codes cheapest first, as "[3|4|4t]".
func modelArgs() string {
	tiers := models.All()
	codes := make([]string, 0, len(tiers))
	for _, t := range tiers {
		codes = append(codes, t.Code())
	}
	return "[" + strings.Join(codes, "|") + "]"
}

// IsCommand reports whether a trimmed input line is a command.
func IsCommand(line string) bool {
	return strings.HasPrefix(line, string(config.CommandMarker))
}

// Parse splits a command line into its lower-cased name (without the
// marker) and argument. Argument words are concatenated, so ":m 4 t" has
// the argument "4t".
func Parse(line string) (name, arg string) {
	line = strings.ToLower(strings.TrimSpace(line))
	line = strings.TrimPrefix(line, string(config.CommandMarker))
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.TrimSpace(strings.Join(fields[1:], ""))
}

// Execute runs one command line against cfg.
func (i *Interpreter) Execute(line string, cfg *config.SessionConfig) Action {
	name, arg := Parse(line)
	c, ok := i.byName[name]
	if !ok {
		i.println("Unknown command. Use :help to see a list of commands.")
		return Continue
	}
	return c.run(cfg, arg)
}

func (i *Interpreter) quit(*config.SessionConfig, string) Action {
	return Quit
}

func (i *Interpreter) toggleContext(cfg *config.SessionConfig, _ string) Action {
	cfg.CarryContext = !cfg.CarryContext
	if cfg.CarryContext {
		i.println("Context will now be carried between messages.")
	} else {
		i.println("Context will no longer be carried between messages.")
		i.println(fmt.Sprintf("Prefix messages with '%c' to temporarily keep context.", config.ContinuationMarker))
	}
	return Continue
}

func (i *Interpreter) model(cfg *config.SessionConfig, arg string) Action {
	tier := models.FromCode(arg)
	if tier == models.Unknown {
		i.println("Unknown model. Please try again.")
		i.println("Possible Options: " + strings.Join(models.Codes(), ", ") + ".")
		return Continue
	}
	cfg.Model = tier
	i.println(fmt.Sprintf("Swapped to model %s.", tier.ID()))
	return Continue
}

func (i *Interpreter) showUsage(*config.SessionConfig, string) Action {
	if i.usage == nil || i.usage.Totals().Requests == 0 {
		i.println("No requests sent yet.")
		return Continue
	}
	total := i.usage.Totals()
	i.println(fmt.Sprintf("Requests: %d | Prompt Tokens: %d | Completion Tokens: %d | Total Tokens: %d | Price: %.5fp",
		total.Requests, total.InputTokens, total.OutputTokens, total.TotalTokens(), total.Cost))
	for _, m := range i.usage.PerModel() {
		i.println(fmt.Sprintf("  %s: %d requests, %d tokens, %.5fp", m.Model, m.Requests, m.TotalTokens(), m.Cost))
	}
	if cc := i.usage.Config(); cc.Enabled {
		i.println(fmt.Sprintf("Spending cap: %.5fp", cc.SessionCap))
	}
	return Continue
}

func (i *Interpreter) help(*config.SessionConfig, string) Action {
	var b strings.Builder
	b.WriteString("Commands:\n")
	for n, c := range i.commands {
		fmt.Fprintf(&b, " %d) %c%s (%s)", n+1, config.CommandMarker, c.name, c.short)
		if c.args != "" {
			fmt.Fprintf(&b, " %s", c.args)
		}
		if c.help != "" {
			fmt.Fprintf(&b, " - %s", c.help)
		}
		b.WriteString("\n")
	}
	i.println(b.String())
	return Continue
}

func (i *Interpreter) println(msg string) {
	_, _ = fmt.Fprintln(i.out, msg)
}
