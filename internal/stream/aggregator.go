// Package stream folds incremental response fragments into a final message.
//
// DESIGN: Fragments arrive on a channel in receipt order. Each one is written
// to the output as soon as it is received and appended to the accumulator.
// An error fragment is shown inline and never ends the fold; only closing
// the channel does.
package stream

import (
	"fmt"
	"io"
	"strings"
)

// Fragment is one incremental piece of a streamed response: either content
// or an error.
type Fragment struct {
	Content string
	Err     error
}

// Text returns a content fragment.
func Text(s string) Fragment {
	return Fragment{Content: s}
}

// Error returns an error fragment.
func Error(err error) Fragment {
	return Fragment{Err: err}
}

// Style decorates inline error annotations. The zero value writes plain text.
type Style struct {
	ErrorPrefix string // written before the annotation, e.g. an ANSI colour
	ErrorSuffix string // written after the annotation, before the newline
}

// Aggregate writes every fragment to w in order and returns the
// concatenated content once fragments is closed. Write errors on w are
// ignored; the returned text is still complete.
func Aggregate(w io.Writer, fragments <-chan Fragment, style Style) string {
	var acc strings.Builder
	for f := range fragments {
		if f.Err != nil {
			WriteError(w, f.Err, style)
		}
		if f.Content != "" {
			_, _ = io.WriteString(w, f.Content)
			acc.WriteString(f.Content)
		}
		if fl, ok := w.(interface{ Flush() error }); ok {
			_ = fl.Flush()
		}
	}
	return acc.String()
}

// WriteError writes the inline error annotation used during streaming.
func WriteError(w io.Writer, err error, style Style) {
	_, _ = fmt.Fprintf(w, "%sAn error occurred: %v%s\n", style.ErrorPrefix, err, style.ErrorSuffix)
}
