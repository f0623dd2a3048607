package stream

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func feed(fragments ...Fragment) <-chan Fragment {
	ch := make(chan Fragment, len(fragments))
	for _, f := range fragments {
		ch <- f
	}
	close(ch)
	return ch
}

func TestAggregate_ErrorDoesNotTruncate(t *testing.T) {
	var out bytes.Buffer

	text := Aggregate(&out, feed(Text("Hel"), Error(errors.New("connection reset")), Text("lo")), Style{})

	assert.Equal(t, "Hello", text)
	assert.Equal(t, "HelAn error occurred: connection reset\nlo", out.String())
}

func TestAggregate_Empty(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, "", Aggregate(&out, feed(), Style{}))
	assert.Empty(t, out.String())
}

func TestAggregate_OnlyErrors(t *testing.T) {
	var out bytes.Buffer

	text := Aggregate(&out, feed(Error(errors.New("a")), Error(errors.New("b"))), Style{})

	assert.Equal(t, "", text)
	assert.Equal(t, "An error occurred: a\nAn error occurred: b\n", out.String())
}

func TestAggregate_PreservesOrder(t *testing.T) {
	var out bytes.Buffer
	parts := []string{"The ", "quick ", "brown ", "fox"}

	ch := make(chan Fragment)
	go func() {
		defer close(ch)
		for _, p := range parts {
			ch <- Text(p)
		}
	}()

	text := Aggregate(&out, ch, Style{})
	assert.Equal(t, "The quick brown fox", text)
	assert.Equal(t, text, out.String())
}

func TestAggregate_StyledError(t *testing.T) {
	var out bytes.Buffer
	style := Style{ErrorPrefix: "<red>", ErrorSuffix: "</red>"}

	Aggregate(&out, feed(Error(errors.New("boom"))), style)

	assert.Equal(t, "<red>An error occurred: boom</red>\n", out.String())
}

type flushRecorder struct {
	bytes.Buffer
	flushes int
}

func (f *flushRecorder) Flush() error {
	f.flushes++
	return nil
}

func TestAggregate_FlushesPerFragment(t *testing.T) {
	w := &flushRecorder{}

	Aggregate(w, feed(Text("a"), Text("b"), Text("c")), Style{})

	assert.Equal(t, 3, w.flushes)
	assert.Equal(t, "abc", w.String())
}
