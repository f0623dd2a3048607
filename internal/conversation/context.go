package conversation

// Context is the ordered turn log, oldest first. What is sent to the model
// on any request is exactly this sequence: no reordering, no deduplication.
type Context struct {
	turns []Turn
}

// New returns an empty Context.
func New() *Context {
	return &Context{}
}

// Begin starts a new exchange with the user's text. The existing history is
// kept when carry is on or the line carried the continuation marker;
// otherwise it is cleared first. Callers must reject blank input before
// calling Begin.
func (c *Context) Begin(text string, carry, continued bool) {
	if !carry && !continued {
		c.Reset()
	}
	c.turns = append(c.turns, UserTurn(text))
}

// Reply records the model's answer to the current exchange.
func (c *Context) Reply(text string) {
	c.turns = append(c.turns, AssistantTurn(text))
}

// Turns returns a copy of the log.
func (c *Context) Turns() []Turn {
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len returns the number of turns in the log.
func (c *Context) Len() int {
	return len(c.turns)
}

// Reset clears the log.
func (c *Context) Reset() {
	c.turns = nil
}
