package mainloop

import "sync"

// Coalescer merges bursts of keyed UI work. Posting a key that is already
// pending replaces its callback. All pending keys run in one flush task, in
// the order they were first posted.
type Coalescer struct {
	post func(func())

	mu      sync.Mutex
	order   []string
	pending map[string]func()
	queued  bool
	stopped bool
	merged  uint64
}

// NewCoalescer schedules flushes through post.
func NewCoalescer(post func(func())) *Coalescer {
	if post == nil {
		panic("mainloop.NewCoalescer: post function cannot be nil")
	}
	return &Coalescer{post: post, pending: make(map[string]func())}
}

// Post records fn as the latest work for key.
func (c *Coalescer) Post(key string, fn func()) {
	if fn == nil || key == "" {
		return
	}

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	if _, ok := c.pending[key]; ok {
		c.merged++
	} else {
		c.order = append(c.order, key)
	}
	c.pending[key] = fn
	schedule := !c.queued
	c.queued = true
	c.mu.Unlock()

	if schedule {
		c.post(c.flush)
	}
}

func (c *Coalescer) flush() {
	c.mu.Lock()
	order, pending := c.order, c.pending
	c.order, c.pending = nil, make(map[string]func())
	c.queued = false
	stopped := c.stopped
	c.mu.Unlock()

	if stopped {
		return
	}
	for _, key := range order {
		pending[key]()
	}
}

// Pending reports whether work for key is waiting for a flush.
func (c *Coalescer) Pending(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[key]
	return ok
}

// Merged counts callbacks replaced before they ran.
func (c *Coalescer) Merged() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.merged
}

// Stop drops pending work and ignores later posts.
func (c *Coalescer) Stop() {
	c.mu.Lock()
	c.stopped = true
	c.order, c.pending = nil, make(map[string]func())
	c.mu.Unlock()
}
