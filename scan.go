package collectives

import (
	"github.com/gomlx/collectives/types/xsync"
	"github.com/gomlx/exceptions"
)

var (
	inclusiveScanOp = newOperation("inclusive_scan")
	exclusiveScanOp = newOperation("exclusive_scan")
)

// InclusiveScan contributes value on behalf of site which; its future
// resolves to the reduction of the values of sites 0 through which,
// inclusive. Site 0 receives its own value back.
func InclusiveScan[T any](c *Communicator, which, generation int, value T, reduce func(a, b T) T) (*xsync.Future[T], error) {
	defer logCall(c, inclusiveScanOp, "set", which, generation)()
	if reduce == nil {
		exceptions.Panicf("collectives.InclusiveScan: reduce function cannot be nil")
	}
	return handleData(c, inclusiveScanOp, which, generation,
		func(data []T, which int) {
			data[which] = value
		},
		func(data []T, _ bool, which int) T {
			acc := data[0]
			for _, v := range data[1 : which+1] {
				acc = reduce(acc, v)
			}
			return acc
		},
		fullVector)
}

// ExclusiveScan contributes value on behalf of site which; its future
// resolves to the reduction of the values of sites 0 through which-1.
// Site 0 receives the zero value of T.
func ExclusiveScan[T any](c *Communicator, which, generation int, value T, reduce func(a, b T) T) (*xsync.Future[T], error) {
	defer logCall(c, exclusiveScanOp, "set", which, generation)()
	if reduce == nil {
		exceptions.Panicf("collectives.ExclusiveScan: reduce function cannot be nil")
	}
	return handleData(c, exclusiveScanOp, which, generation,
		func(data []T, which int) {
			data[which] = value
		},
		func(data []T, _ bool, which int) T {
			var acc T
			if which == 0 {
				return acc
			}
			acc = data[0]
			for _, v := range data[1:which] {
				acc = reduce(acc, v)
			}
			return acc
		},
		fullVector)
}
