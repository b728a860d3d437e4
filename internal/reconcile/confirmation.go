package reconcile

import (
	"context"
	"sync"
)

// Confirmation is the two-state delete prompt. While the delete runs the
// prompt is loading and both Cancel and Confirm are ignored.
type Confirmation struct {
	mu      sync.Mutex
	open    bool
	loading bool
	id      int
	label   string
	run     func(ctx context.Context, id int) error
}

func newConfirmation(run func(ctx context.Context, id int) error) *Confirmation {
	return &Confirmation{run: run}
}

// Open shows the prompt for id. It does nothing while a delete is running.
func (c *Confirmation) Open(id int, label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return
	}
	c.open = true
	c.id = id
	c.label = label
}

// Cancel closes the prompt and reports whether it was closed.
func (c *Confirmation) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading || !c.open {
		return false
	}
	c.reset()
	return true
}

// Confirm runs the delete for the open target. The prompt closes once the
// call returns, whatever the outcome.
func (c *Confirmation) Confirm(ctx context.Context) error {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return ErrNotConfirmed
	}
	if c.loading {
		c.mu.Unlock()
		return ErrInFlight
	}
	c.loading = true
	id := c.id
	c.mu.Unlock()

	err := c.run(ctx, id)

	c.mu.Lock()
	c.reset()
	c.mu.Unlock()
	return err
}

func (c *Confirmation) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

func (c *Confirmation) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Target returns the entity the prompt is about.
func (c *Confirmation) Target() (int, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id, c.label
}

func (c *Confirmation) approved(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open && c.loading && c.id == id
}

func (c *Confirmation) reset() {
	c.open = false
	c.loading = false
	c.id = 0
	c.label = ""
}
