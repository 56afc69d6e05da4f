package collectives

import (
	"github.com/gomlx/collectives/types/xsync"
)

var broadcastOp = newOperation("broadcast")

// BroadcastTo is the sending side of a broadcast: the root site contributes
// value, and every site's future -- including the root's -- resolves to it.
// Sites other than the root arrive with BroadcastFrom.
func BroadcastTo[T any](c *Communicator, which, generation int, value T) (*xsync.Future[T], error) {
	defer logCall(c, broadcastOp, "set", which, generation)()
	return handleData(c, broadcastOp, which, generation,
		func(data []T, _ int) {
			data[0] = value
			c.dataAvailable = true
		},
		func(data []T, _ bool, _ int) T {
			return data[0]
		},
		1)
}

// BroadcastFrom is the receiving side of a broadcast: the returned future
// resolves to the value the root site contributed with BroadcastTo.
func BroadcastFrom[T any](c *Communicator, which, generation int) (*xsync.Future[T], error) {
	defer logCall(c, broadcastOp, "get", which, generation)()
	return handleData[T, T](c, broadcastOp, which, generation,
		nil,
		func(data []T, _ bool, _ int) T {
			return data[0]
		},
		1)
}
