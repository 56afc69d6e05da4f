// Package andgate implements a generational "and-gate" barrier: it counts
// arrivals of a fixed set of participants and fires exactly once per
// generation, when the last participant arrives.
//
// A Gate does not own its lock: it is embedded in a larger object (the
// communicator) and every method requires the owner's mutex to be held by the
// caller. Gate.Synchronize may park the calling goroutine; it waits on a
// sync.Cond built over the owner's mutex, so the lock is released for the
// duration of the wait and re-acquired before returning.
package andgate

import (
	"sync"

	"github.com/gomlx/collectives/types/xsync"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// CurrentGeneration can be given to Gate.Synchronize or Gate.NextGeneration to
// mean "whatever generation the gate is currently at".
const CurrentGeneration = -1

// Gate is a generational and-gate for numSites participants.
//
// Per generation it holds a set of arrival bits and one shared future. The
// future resolves when the last participant arrives; continuations chained on
// it run inline on the completing goroutine, with the owner's lock held.
type Gate struct {
	mu   *sync.Mutex
	cond *sync.Cond

	numSites   int
	generation int

	arrived    []bool
	numArrived int
	future     *xsync.Future[struct{}]
}

// New creates a Gate for numSites participants, protected by the owner's
// mutex mu. The gate starts at generation 0 with no arrivals.
func New(mu *sync.Mutex, numSites int) *Gate {
	if numSites < 1 {
		exceptions.Panicf("andgate.New: numSites must be >= 1, got %d", numSites)
	}
	return &Gate{
		mu:       mu,
		cond:     sync.NewCond(mu),
		numSites: numSites,
		arrived:  make([]bool, numSites),
		future:   xsync.NewFuture[struct{}](),
	}
}

// NumSites returns the number of participants the gate waits for.
func (g *Gate) NumSites() int {
	return g.numSites
}

// Generation returns the gate's current generation.
// It equals the number of fully completed generations.
// The owner's lock must be held.
func (g *Gate) Generation() int {
	return g.generation
}

// GetSharedFuture returns the shared future of the current generation.
// All participants of the same generation see the same future.
// The owner's lock must be held.
func (g *Gate) GetSharedFuture() *xsync.Future[struct{}] {
	return g.future
}

// Synchronize blocks the calling goroutine until the gate's generation
// reaches generation. Passing CurrentGeneration returns immediately.
// It errors if the requested generation has already passed.
//
// The owner's lock must be held; it is released while the goroutine is
// parked and re-acquired before Synchronize returns.
func (g *Gate) Synchronize(generation int) error {
	if generation == CurrentGeneration {
		return nil
	}
	if generation < g.generation {
		return errors.Errorf(
			"andgate: generation %d requested, but the gate is already at generation %d",
			generation, g.generation)
	}
	for generation > g.generation {
		g.cond.Wait()
	}
	return nil
}

// CheckArrival verifies that participant which can still arrive in the
// current generation, without marking the arrival.
// The owner's lock must be held.
func (g *Gate) CheckArrival(which int) error {
	if which < 0 || which >= g.numSites {
		return errors.Errorf("andgate: site index %d out of range [0, %d)", which, g.numSites)
	}
	if g.arrived[which] {
		return errors.Errorf(
			"andgate: site %d has already arrived in generation %d", which, g.generation)
	}
	return nil
}

// Set marks the arrival of participant which in the current generation.
//
// When the last participant arrives, Set resolves the generation's shared
// future -- running all continuations chained on it inline, with the owner's
// lock still held -- and then invokes onComplete, still under the lock.
// Errors returned by onComplete are returned to the completing caller.
//
// The owner's lock must be held.
func (g *Gate) Set(which int, onComplete func() error) error {
	if err := g.CheckArrival(which); err != nil {
		return err
	}
	g.arrived[which] = true
	g.numArrived++
	if g.numArrived < g.numSites {
		return nil
	}

	// Last arrival: release the generation's continuations, then let the
	// owner finish the generation.
	g.future.Resolve(struct{}{}, nil)
	if onComplete == nil {
		return nil
	}
	return onComplete()
}

// NextGeneration completes the current generation: it clears the arrival
// bits, installs a fresh shared future, advances the generation counter and
// wakes every goroutine parked in Synchronize.
//
// The requested generation is the one just completed (as named by the
// arriving participants); CurrentGeneration means the gate's own current
// generation. The gate advances to requested+1.
//
// The owner's lock must be held.
func (g *Gate) NextGeneration(requested int) error {
	next := g.generation + 1
	if requested != CurrentGeneration {
		if requested+1 < next {
			return errors.Errorf(
				"andgate: cannot move generation backwards from %d to %d",
				g.generation, requested+1)
		}
		next = requested + 1
	}
	for i := range g.arrived {
		g.arrived[i] = false
	}
	g.numArrived = 0
	g.future = xsync.NewFuture[struct{}]()
	g.generation = next
	g.cond.Broadcast()
	return nil
}
