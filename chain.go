package dwjdbc

import "io"

// closeChain tracks the outermost of a sequence of nested stream wrappers
// for one call. Each wrapper is responsible for closing what it wraps, so
// closing the chain closes only the last tracked resource. detach clears
// tracking on the success path, transferring ownership out.
type closeChain struct {
	head io.Closer
}

func newCloseChain(c io.Closer) *closeChain {
	return &closeChain{head: c}
}

// set replaces the tracked resource with a wrapper around it. The old
// resource is now only reachable through the wrapper and must not be
// closed independently.
func (c *closeChain) set(wrapper io.Closer) {
	c.head = wrapper
}

// detach empties the chain without closing anything, making a deferred
// Close a no-op.
func (c *closeChain) detach() {
	c.head = nil
}

// Close closes the tracked resource, if any, exactly once.
func (c *closeChain) Close() error {
	head := c.head
	c.head = nil
	if head == nil {
		return nil
	}
	return head.Close()
}
