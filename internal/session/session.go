// Package session runs the interactive chat loop.
//
// DESIGN: A Session owns the SessionConfig and the conversation history and
// is the only code that touches them. Each iteration reads a line, routes
// it to the command interpreter or runs a turn, and returns to the prompt.
// A turn streams the reply to the console as it arrives, then records
// token counts and estimated price.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/compresr/turnchat/internal/commands"
	"github.com/compresr/turnchat/internal/config"
	"github.com/compresr/turnchat/internal/console"
	"github.com/compresr/turnchat/internal/conversation"
	"github.com/compresr/turnchat/internal/costcontrol"
	"github.com/compresr/turnchat/internal/openai"
	"github.com/compresr/turnchat/internal/stream"
	"github.com/compresr/turnchat/internal/tokens"
)

// Streamer issues a streaming chat completion.
// Implemented by *openai.Client.
type Streamer interface {
	StreamChat(ctx context.Context, req openai.ChatRequest) (<-chan stream.Fragment, error)
}

// InterruptFunc derives the context a single response streams under.
// Cancelling it stops the response early.
type InterruptFunc func(ctx context.Context) (context.Context, context.CancelFunc)

// interruptOnSignal cancels the streaming response on Ctrl-C. The handler
// is only installed while a response streams.
func interruptOnSignal(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

// Session is one interactive chat session.
type Session struct {
	id        string
	cfg       config.SessionConfig
	history   *conversation.Context
	console   *console.Console
	commands  *commands.Interpreter
	streamer  Streamer
	tokens    *tokens.Accountant
	pricing   *costcontrol.Table
	tracker   *costcontrol.Tracker
	interrupt InterruptFunc
}

// Option configures a Session.
type Option func(*Session)

// WithPricing sets the price table (default: built-in tier prices).
func WithPricing(t *costcontrol.Table) Option {
	return func(s *Session) {
		s.pricing = t
	}
}

// WithTracker sets the cost tracker (default: tracking only, no cap).
func WithTracker(t *costcontrol.Tracker) Option {
	return func(s *Session) {
		s.tracker = t
	}
}

// WithInterrupt replaces the Ctrl-C handling around streaming responses.
func WithInterrupt(fn InterruptFunc) Option {
	return func(s *Session) {
		s.interrupt = fn
	}
}

// WithID sets the session ID used in logs.
func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// New creates a Session starting from cfg.
func New(cfg config.SessionConfig, con *console.Console, streamer Streamer, acct *tokens.Accountant, opts ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		cfg:       cfg,
		history:   conversation.New(),
		console:   con,
		streamer:  streamer,
		tokens:    acct,
		pricing:   costcontrol.DefaultTable(),
		interrupt: interruptOnSignal,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracker == nil {
		s.tracker = costcontrol.NewTracker(costcontrol.CostControlConfig{})
	}
	s.commands = commands.New(con.Out(), s.tracker)
	return s
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// Config returns a copy of the current session configuration.
func (s *Session) Config() config.SessionConfig {
	return s.cfg
}

// History returns a copy of the conversation history.
func (s *Session) History() []conversation.Turn {
	return s.history.Turns()
}

// Usage returns the accumulated session usage.
func (s *Session) Usage() costcontrol.Usage {
	return s.tracker.Totals()
}

// Run reads and handles input lines until the quit command or end of
// input. It returns an error only when input cannot be read.
func (s *Session) Run(ctx context.Context) error {
	log.Debug().Str("session_id", s.id).Str("model", s.cfg.Model.ID()).Msg("session started")

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := s.console.ReadLine(s.cfg.Model.ID() + "> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.console.Println()
				log.Debug().Str("session_id", s.id).Msg("input closed")
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if commands.IsCommand(line) {
			if s.commands.Execute(line, &s.cfg) == commands.Quit {
				log.Debug().Str("session_id", s.id).Msg("quit")
				return nil
			}
			continue
		}

		text, continued := SplitContinuation(line)
		if text == "" {
			continue
		}
		s.Turn(ctx, text, continued)
	}
}

// SplitContinuation strips a leading continuation marker from a trimmed
// line and reports whether it was present.
func SplitContinuation(line string) (string, bool) {
	rest, ok := strings.CutPrefix(line, string(config.ContinuationMarker))
	if !ok {
		return line, false
	}
	return strings.TrimSpace(rest), true
}

// TurnResult describes one completed exchange.
type TurnResult struct {
	Reply        string
	InputTokens  int
	OutputTokens int
	Cost         float64
	Sent         bool // false when the spend cap refused the request
	Failed       bool // the request was rejected before streaming began
	Interrupted  bool // the user stopped the response early
}

// Turn runs one exchange for the user's text: apply the retention rule,
// stream the reply, append it to the history and print the usage summary.
func (s *Session) Turn(ctx context.Context, text string, continued bool) TurnResult {
	if budget := s.tracker.CheckBudget(); !budget.Allowed {
		s.console.Notice(fmt.Sprintf("Session spending cap of %.5fp reached (spent %.5fp). No request sent.", budget.Cap, budget.CurrentCost))
		return TurnResult{}
	}

	s.history.Begin(text, s.cfg.CarryContext, continued)
	outgoing := s.history.Turns()
	model := s.cfg.Model.ID()

	res := TurnResult{Sent: true, InputTokens: s.tokens.CountSequence(outgoing)}
	res.Reply, res.Failed, res.Interrupted = s.respond(ctx, openai.ChatRequest{
		Model:     model,
		MaxTokens: int(s.cfg.MaxOutputTokens),
		Messages:  openai.MessagesFromTurns(outgoing),
	})
	s.history.Reply(res.Reply)

	if res.Failed {
		return res
	}

	res.OutputTokens = s.tokens.Count(res.Reply)
	cost, err := s.pricing.Price(model, res.InputTokens, res.OutputTokens)
	if err != nil {
		log.Warn().Err(err).Str("session_id", s.id).Msg("cannot price turn")
		cost = costcontrol.UnpricedCost
	} else {
		s.tracker.RecordUsage(model, res.InputTokens, res.OutputTokens, cost)
	}
	res.Cost = cost

	log.Debug().
		Str("session_id", s.id).
		Str("model", model).
		Int("turns", s.history.Len()).
		Int("input_tokens", res.InputTokens).
		Int("output_tokens", res.OutputTokens).
		Float64("cost", cost).
		Bool("interrupted", res.Interrupted).
		Msg("turn complete")

	s.console.Printf("Prompt Tokens: %d | Completion Tokens: %d | Total Tokens: %d | Price: %.5fp\n",
		res.InputTokens, res.OutputTokens, res.InputTokens+res.OutputTokens, cost)
	s.console.Println()
	return res
}

// respond streams one response to the console and returns its text.
func (s *Session) respond(ctx context.Context, req openai.ChatRequest) (reply string, failed, interrupted bool) {
	turnCtx, stop := s.interrupt(ctx)
	defer stop()

	fragments, err := s.streamer.StreamChat(turnCtx, req)
	if err != nil {
		if turnCtx.Err() != nil && ctx.Err() == nil {
			s.console.Notice("(interrupted)")
			s.console.Println()
			return "", true, true
		}
		log.Debug().Err(err).Str("session_id", s.id).Msg("chat request failed")
		stream.WriteError(s.console.Out(), err, s.console.ErrorStyle())
		s.console.Println()
		return "", true, false
	}

	reply = stream.Aggregate(s.console.Out(), fragments, s.console.ErrorStyle())
	s.console.Println()
	if turnCtx.Err() != nil && ctx.Err() == nil {
		interrupted = true
		s.console.Notice("(interrupted)")
	}
	s.console.Println()
	return reply, false, interrupted
}
