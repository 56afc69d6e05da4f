package collectives

import (
	"github.com/gomlx/exceptions"
)

// The communicator's payload is type-erased: per generation it owns one
// vector of some element type T, held as an `any` and accessed through
// accessData. This keeps the Communicator itself non-generic while
// consecutive generations carry different element types.

// fullVector sizes the generation's data vector to NumSites.
// Operations that need a different length (e.g. broadcast) pass it explicitly.
const fullVector = -1

func (c *Communicator) effectiveNumValues(numValues int) int {
	if numValues == fullVector {
		return c.numSites
	}
	return numValues
}

// accessData returns the current generation's data vector with element type T.
//
// First access of a generation (re)initializes the storage: if the stored
// element type differs or the stored vector is shorter than required, a fresh
// vector replaces it; otherwise the previous contents are retained, which
// allows operations that only fill the vector once.
//
// c.mu must be held.
func accessData[T any](c *Communicator, numValues int) []T {
	if c.needsInitialization {
		c.needsInitialization = false
		c.dataAvailable = false
		n := c.effectiveNumValues(numValues)
		if data, ok := c.data.([]T); !ok || len(data) < n {
			c.data = make([]T, n)
		}
	}
	data, ok := c.data.([]T)
	if !ok {
		var want T
		exceptions.Panicf("communicator %q: data vector holds %T, but the ongoing collective expects []%T",
			c.name, c.data, want)
	}
	return data
}

// invalidateData resets the communicator at the end of a generation. The data
// storage itself is kept and reused (or replaced) on the next typed access.
//
// c.mu must be held.
func (c *Communicator) invalidateData() {
	if !c.needsInitialization {
		c.needsInitialization = true
		c.dataAvailable = false
		c.onReadyCount = 0
		c.currentOperation = nil
	}
}
