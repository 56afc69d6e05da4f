package collectives

import (
	"github.com/gomlx/collectives/types/xsync"
)

var barrierOp = newOperation("barrier")

// Barrier arrives at a data-less rendezvous: the returned future resolves
// once every site has arrived in the generation.
func Barrier(c *Communicator, which, generation int) (*xsync.Future[struct{}], error) {
	defer logCall(c, barrierOp, "set", which, generation)()
	return handleData[byte, struct{}](c, barrierOp, which, generation,
		nil,
		// The trivial finalizer still touches the data vector, so the
		// end-of-generation reset sees an initialized state.
		func(_ []byte, _ bool, _ int) struct{} {
			return struct{}{}
		},
		1)
}
