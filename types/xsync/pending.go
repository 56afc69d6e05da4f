package xsync

import (
	"sync"

	"github.com/pkg/errors"
)

// Pending counts in-flight invocations on behalf of an owner that must not
// be discarded while any are outstanding.
//
// The zero value is ready to use. Unlike sync.WaitGroup, invocations may
// keep starting while another goroutine drains: Drain waits for whatever
// moment the count next reaches zero.
type Pending struct {
	mu    sync.Mutex
	idle  *sync.Cond
	count int
}

// Start registers one in-flight invocation. It must be matched by exactly
// one call to Finish.
func (p *Pending) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
}

// Finish marks one invocation started with Start as resolved.
// It panics if called more often than Start.
func (p *Pending) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count--
	if p.count < 0 {
		panic(errors.Errorf("xsync.Pending: Finish called more often than Start"))
	}
	if p.count == 0 && p.idle != nil {
		p.idle.Broadcast()
	}
}

// Drain blocks until no invocation is in flight.
func (p *Pending) Drain() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.idle == nil {
		p.idle = sync.NewCond(&p.mu)
	}
	for p.count > 0 {
		p.idle.Wait()
	}
}
