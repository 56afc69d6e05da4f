// Package collectives implements a generational collective communicator: a
// rendezvous object that coordinates a fixed set of sites executing named
// collective operations (all-reduce, broadcast, gather, scatter, barrier,
// scans, ...) in lock-step across a sequence of generations.
//
// A Communicator is created for a fixed number of sites and located by name:
//
//	c := must.M1(collectives.GetOrCreate("gradients", numSites))
//
// Each site then arrives once per generation with the collective of its
// choice and waits on the returned future:
//
//	future := must.M1(collectives.AllReduce(c, site, collectives.CurrentGeneration, grad, collectives.Sum))
//	sum := must.M1(future.Wait())
//
// All sites of a generation must use the same collective; the communicator
// rejects mixed operation kinds, duplicate arrivals and stale generations.
package collectives

import (
	"sync"

	"github.com/gomlx/collectives/andgate"
	"github.com/gomlx/collectives/types/xsync"
	"github.com/gomlx/exceptions"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// CurrentGeneration selects whatever generation the communicator is currently
// at. It can be passed as the generation argument of any collective.
const CurrentGeneration = andgate.CurrentGeneration

// Communicator is the rendezvous object coordinating NumSites sites running a
// named collective operation in lock-step across a sequence of generations.
//
// Each generation admits exactly one operation kind; each site arrives exactly
// once per generation, contributes its data and receives a future that
// resolves to that site's result once every site has arrived.
//
// A Communicator is created by Create (or GetOrCreate) and is safe for
// concurrent use by up to NumSites goroutines, one per site.
type Communicator struct {
	name     string
	id       string
	numSites int

	mu   sync.Mutex
	gate *andgate.Gate

	// Fields below are protected by mu.
	data                any
	currentOperation    *Operation
	onReadyCount        int
	needsInitialization bool
	dataAvailable       bool

	// Tracks in-flight action invocations, see Invoke and Communicator.Drain.
	pending xsync.Pending
}

// NewCommunicator creates a stand-alone communicator for numSites sites,
// without registering it. Most users want Create or GetOrCreate instead.
//
// It panics if numSites < 1.
func NewCommunicator(name string, numSites int) *Communicator {
	if numSites < 1 {
		exceptions.Panicf("collectives.NewCommunicator(%q): numSites must be >= 1, got %d", name, numSites)
	}
	c := &Communicator{
		name:                name,
		id:                  uuid.NewString(),
		numSites:            numSites,
		needsInitialization: true,
	}
	c.gate = andgate.New(&c.mu, numSites)
	return c
}

// Name returns the name the communicator was created with.
func (c *Communicator) Name() string { return c.name }

// ID returns the communicator's unique instance id. Two communicators created
// under the same name (e.g. after Destroy) have different ids.
func (c *Communicator) ID() string { return c.id }

// NumSites returns the number of sites that participate in each generation.
func (c *Communicator) NumSites() int { return c.numSites }

// Generation returns the communicator's current generation, that is, the
// number of fully completed generations so far.
func (c *Communicator) Generation() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gate.Generation()
}

// handleData is the synchronization engine every collective operation calls,
// exactly once per site arrival.
//
// It admits the arrival of site which for the requested generation (parking
// the goroutine until the communicator reaches that generation, if needed),
// records the site's contribution by running step under the lock, arrives at
// the gate, and returns the future of the site's personal result.
//
// The finalizer, when non-nil, runs exactly once for this site after all
// sites have arrived: under the lock, on the goroutine of the last arriving
// site. Its return value resolves the returned future; a panic carrying an
// error resolves the future with that error. Both step and finalizer may be
// nil.
//
// Continuations chained on the returned future run under the communicator's
// lock and must not call back into the communicator.
func handleData[T, R any](c *Communicator, op *Operation, which, generation int,
	step func(data []T, which int),
	finalizer func(data []T, dataAvailable bool, which int) R,
	numValues int) (*xsync.Future[R], error) {

	if which < 0 || which >= c.numSites {
		return nil, errors.Errorf("communicator %q: site index %d out of range [0, %d)",
			c.name, which, c.numSites)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// A site arriving for a future generation parks here until the gate
	// catches up; the lock is released while parked. Everything below then
	// applies to the site's own generation.
	if err := c.gate.Synchronize(generation); err != nil {
		return nil, err
	}

	// Only one operation kind may be active per generation.
	if c.currentOperation == nil {
		if c.onReadyCount != 0 {
			return nil, errors.Errorf(
				"communicator %q: sequencing error, %d completion callbacks ran before the start of collective %q",
				c.name, c.onReadyCount, op.Name())
		}
		c.currentOperation = op
	} else if c.currentOperation != op {
		return nil, errors.Errorf(
			"communicator %q: operation type mismatch, invoked for %q while %q is ongoing",
			c.name, op.Name(), c.currentOperation.Name())
	}

	// Reject a duplicate arrival before chaining its continuation, so a
	// stray caller cannot inflate the completion count of a valid site.
	if err := c.gate.CheckArrival(which); err != nil {
		return nil, errors.WithMessagef(err, "communicator %q, collective %q", c.name, op.Name())
	}

	sf := c.gate.GetSharedFuture()
	sf.ReserveCallbacks(c.numSites)

	result := xsync.NewFuture[R]()
	sf.OnDone(func(_ struct{}, gateErr error) {
		onReady(c, op, which, numValues, gateErr, finalizer, result)
	})

	if step != nil {
		step(accessData[T](c, numValues), which)
	}

	// The completion callback runs once per generation, on the last arriving
	// site's goroutine, after every site's finalizer continuation resolved.
	err := c.gate.Set(which, func() error {
		if c.onReadyCount != c.numSites {
			return errors.Errorf(
				"communicator %q: sequencing error, only %d of %d completion callbacks ran at the end of collective %q",
				c.name, c.onReadyCount, c.numSites, op.Name())
		}
		c.invalidateData()
		return c.gate.NextGeneration(generation)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// onReady runs once per site when the generation's shared future resolves:
// inline on the goroutine of the last arriving site (the normal case), or on
// the registering goroutine if the future had already resolved.
func onReady[T, R any](c *Communicator, op *Operation, which, numValues int,
	gateErr error,
	finalizer func(data []T, dataAvailable bool, which int) R,
	result *xsync.Future[R]) {

	var value R
	if gateErr != nil {
		result.Resolve(value, gateErr)
		return
	}

	// The lock is normally still held by the goroutine resolving the gate's
	// future. It does not matter whether the TryLock succeeds: the lock is
	// either still held by the surrounding logic or re-acquired here.
	if c.mu.TryLock() {
		defer c.mu.Unlock()
	}
	defer func() { c.onReadyCount++ }()

	if c.currentOperation != op {
		current := "<none>"
		if c.currentOperation != nil {
			current = c.currentOperation.Name()
		}
		result.Resolve(value, errors.Errorf(
			"communicator %q: sequencing error, completion callback for %q ran while the ongoing operation is %q",
			c.name, op.Name(), current))
		return
	}
	if c.onReadyCount >= c.numSites {
		result.Resolve(value, errors.Errorf(
			"communicator %q: sequencing error, more than %d completion callbacks ran for collective %q",
			c.name, c.numSites, op.Name()))
		return
	}

	if finalizer == nil {
		result.Resolve(value, nil)
		return
	}
	err := exceptions.TryCatch[error](func() {
		value = finalizer(accessData[T](c, numValues), c.dataAvailable, which)
	})
	result.Resolve(value, err)
}
