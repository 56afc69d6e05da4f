package collectives

import (
	"github.com/gomlx/collectives/types/xsync"
)

// Action is a remote-callable binding of a communicator entry point: given
// the arriving site and generation, it performs one collective arrival and
// returns the site's result future. The collective entry points (AllReduce,
// BroadcastTo, ...) curried over their payload arguments produce Actions:
//
//	future := collectives.Invoke(c, func(which, generation int) (*xsync.Future[int], error) {
//		return collectives.AllReduce(c, which, generation, grad, collectives.Sum)
//	}, site, collectives.CurrentGeneration)
//
// This is the surface an RPC dispatch layer binds to; the dispatch layer
// itself is not part of this package.
type Action[R any] func(which, generation int) (*xsync.Future[R], error)

// Invoke runs action on a new goroutine, the default for remote entry
// points. The returned future resolves to the site's result; admission
// errors resolve it as well, since the caller's goroutine is not around to
// receive them.
//
// The invocation counts as outstanding until the site's future resolves, see
// Communicator.Drain.
func Invoke[R any](c *Communicator, action Action[R], which, generation int) *xsync.Future[R] {
	c.pending.Start()
	result := xsync.NewFuture[R]()
	go func() {
		defer c.pending.Finish()
		f, err := action(which, generation)
		if err != nil {
			var zero R
			result.Resolve(zero, err)
			return
		}
		value, err := f.Wait()
		result.Resolve(value, err)
	}()
	return result
}

// InvokeDirect runs action inline on the calling goroutine instead of
// spawning a new one; otherwise it is semantically identical to Invoke.
// The arrival has happened by the time InvokeDirect returns.
func InvokeDirect[R any](c *Communicator, action Action[R], which, generation int) *xsync.Future[R] {
	c.pending.Start()
	f, err := action(which, generation)
	if err != nil {
		c.pending.Finish()
		result := xsync.NewFuture[R]()
		var zero R
		result.Resolve(zero, err)
		return result
	}
	f.OnDone(func(_ R, _ error) { c.pending.Finish() })
	return f
}

// Drain blocks until every invocation started with Invoke or InvokeDirect on
// this communicator has resolved. Call it before discarding a communicator:
// its lifecycle requires no outstanding futures at destruction.
func (c *Communicator) Drain() {
	c.pending.Drain()
}
