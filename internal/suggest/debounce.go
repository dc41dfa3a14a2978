package suggest

import (
	"context"
	"sync"
	"time"
)

// RunFunc receives the latest text for key once it has been quiet for the
// debounce delay. ctx is cancelled when the result is no longer wanted.
type RunFunc func(ctx context.Context, key, text string)

type pending struct {
	timer  *time.Timer
	cancel context.CancelFunc
}

// Debouncer coalesces rapid triggers per key. A new trigger restarts the
// delay and cancels any run still in flight for that key.
type Debouncer struct {
	delay time.Duration
	run   RunFunc

	ctx    context.Context
	stop   context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	keys   map[string]*pending
	closed bool
}

// NewDebouncer creates a debouncer calling run after delay.
func NewDebouncer(delay time.Duration, run RunFunc) *Debouncer {
	ctx, stop := context.WithCancel(context.Background())
	return &Debouncer{
		delay: delay,
		run:   run,
		ctx:   ctx,
		stop:  stop,
		keys:  make(map[string]*pending),
	}
}

// Trigger schedules run(key, text), replacing anything pending for key.
func (d *Debouncer) Trigger(key, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.dropLocked(key)

	ctx, cancel := context.WithCancel(d.ctx)
	p := &pending{cancel: cancel}
	p.timer = time.AfterFunc(d.delay, func() { d.fire(ctx, key, text, p) })
	d.keys[key] = p
}

func (d *Debouncer) fire(ctx context.Context, key, text string, p *pending) {
	d.mu.Lock()
	if d.closed || d.keys[key] != p {
		d.mu.Unlock()
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()
	defer d.wg.Done()

	d.run(ctx, key, text)

	d.mu.Lock()
	if d.keys[key] == p {
		delete(d.keys, key)
	}
	d.mu.Unlock()
	p.cancel()
}

// Cancel discards a pending or running request for key.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dropLocked(key)
}

func (d *Debouncer) dropLocked(key string) {
	if p, ok := d.keys[key]; ok {
		p.timer.Stop()
		p.cancel()
		delete(d.keys, key)
	}
}

// Pending reports how many keys are waiting or running.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.keys)
}

// Close stops every timer, cancels running requests and waits for them.
func (d *Debouncer) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for key := range d.keys {
		d.dropLocked(key)
	}
	d.mu.Unlock()

	d.stop()
	d.wg.Wait()
}
