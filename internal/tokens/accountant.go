// Package tokens counts model tokens in text and conversation turns.
//
// DESIGN: Counting goes through the Encoder interface so the tiktoken BPE
// is loaded once at startup; a failure there is fatal for the caller. Sequence
// counts are a plain sum over turn texts and do not model the role and
// separator tokens the provider adds on the wire.
package tokens

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"

	"github.com/compresr/turnchat/internal/conversation"
)

// DefaultEncoding is the BPE used by every supported model tier.
const DefaultEncoding = "cl100k_base"

// allSpecial lets special-token text like "<|endoftext|>" count as a single
// token instead of being rejected by the encoder.
var allSpecial = []string{"all"}

// Encoder splits text into token IDs.
// Implemented by *tiktoken.Tiktoken.
type Encoder interface {
	Encode(text string, allowedSpecial []string, disallowedSpecial []string) []int
}

var loaderOnce sync.Once

// Accountant counts tokens for usage reporting.
type Accountant struct {
	enc Encoder
}

// New returns an Accountant over the given encoder.
func New(enc Encoder) *Accountant {
	return &Accountant{enc: enc}
}

// NewAccountant loads the named encoding (DefaultEncoding when empty)
// from the embedded offline BPE files.
func NewAccountant(encoding string) (*Accountant, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %s: %w", encoding, err)
	}
	return New(enc), nil
}

// Count returns the number of tokens in text.
func (a *Accountant) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(a.enc.Encode(text, allSpecial, nil))
}

// CountSequence returns the sum of Count over every turn's text.
func (a *Accountant) CountSequence(turns []conversation.Turn) int {
	total := 0
	for _, t := range turns {
		total += a.Count(t.Text)
	}
	return total
}
