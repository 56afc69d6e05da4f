package collectives_test

import (
	"sync"
	"testing"

	"github.com/gomlx/collectives"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceToRoot(t *testing.T) {
	const numSites = 4
	const root = 1
	c := collectives.NewCommunicator("reduce", numSites)

	var wg sync.WaitGroup
	for which := 0; which < numSites; which++ {
		if which == root {
			continue
		}
		wg.Add(1)
		go func(which int) {
			defer wg.Done()
			_, err := waitFor(collectives.ReduceThere(c, which, collectives.CurrentGeneration, which+1))
			assert.NoError(t, err)
		}(which)
	}
	v, err := waitFor(collectives.ReduceHere(c, root, collectives.CurrentGeneration, root+1, collectives.Max[int]))
	require.NoError(t, err)
	assert.Equal(t, numSites, v)
	wg.Wait()
}

func TestGatherAndScatter(t *testing.T) {
	const numSites = 4
	c := collectives.NewCommunicator("gather_scatter", numSites)

	var wg sync.WaitGroup
	for which := 1; which < numSites; which++ {
		wg.Add(1)
		go func(which int) {
			defer wg.Done()
			_, err := waitFor(collectives.GatherThere(c, which, collectives.CurrentGeneration, 10*which))
			assert.NoError(t, err)
		}(which)
	}
	gathered, err := waitFor(collectives.GatherHere(c, 0, collectives.CurrentGeneration, 0))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 10, 20, 30}, gathered)
	wg.Wait()

	// Scatter the gathered values back out.
	for which := 1; which < numSites; which++ {
		wg.Add(1)
		go func(which int) {
			defer wg.Done()
			v, err := waitFor(collectives.ScatterFrom[int](c, which, collectives.CurrentGeneration))
			assert.NoError(t, err)
			assert.Equal(t, 10*which, v)
		}(which)
	}
	v, err := waitFor(collectives.ScatterTo(c, 0, collectives.CurrentGeneration, gathered))
	require.NoError(t, err)
	assert.Equal(t, 0, v)
	wg.Wait()
}

func TestScatterToWrongLength(t *testing.T) {
	c := collectives.NewCommunicator("scatter_bad", 3)
	_, err := collectives.ScatterTo(c, 0, collectives.CurrentGeneration, []int{1, 2})
	assert.ErrorContains(t, err, "one per site")
}

func TestAllGather(t *testing.T) {
	const numSites = 3
	c := collectives.NewCommunicator("all_gather", numSites)
	results := runSites(numSites, func(which int) ([]string, error) {
		return waitFor(collectives.AllGather(c, which, collectives.CurrentGeneration, string(rune('a'+which))))
	})
	for which, r := range results {
		require.NoErrorf(t, r.err, "site %d", which)
		assert.Equal(t, []string{"a", "b", "c"}, r.value)
	}
}

func TestAllToAll(t *testing.T) {
	const numSites = 3
	c := collectives.NewCommunicator("all_to_all", numSites)
	results := runSites(numSites, func(which int) ([]int, error) {
		// Site i sends value 10*i+j to site j.
		values := make([]int, numSites)
		for j := range values {
			values[j] = 10*which + j
		}
		return waitFor(collectives.AllToAll(c, which, collectives.CurrentGeneration, values))
	})
	for which, r := range results {
		require.NoErrorf(t, r.err, "site %d", which)
		expected := make([]int, numSites)
		for i := range expected {
			expected[i] = 10*i + which
		}
		assert.Equal(t, expected, r.value)
	}
}

func TestAllToAllWrongLength(t *testing.T) {
	c := collectives.NewCommunicator("all_to_all_bad", 3)
	_, err := collectives.AllToAll(c, 0, collectives.CurrentGeneration, []int{1})
	assert.ErrorContains(t, err, "one per site")
}

func TestScans(t *testing.T) {
	const numSites = 3
	c := collectives.NewCommunicator("scans", numSites)

	t.Run("inclusive", func(t *testing.T) {
		results := runSites(numSites, func(which int) (int, error) {
			return waitFor(collectives.InclusiveScan(c, which, collectives.CurrentGeneration, which+1, collectives.Sum[int]))
		})
		for which, r := range results {
			require.NoErrorf(t, r.err, "site %d", which)
		}
		assert.Equal(t, 1, results[0].value)
		assert.Equal(t, 3, results[1].value)
		assert.Equal(t, 6, results[2].value)
	})

	t.Run("exclusive", func(t *testing.T) {
		results := runSites(numSites, func(which int) (int, error) {
			return waitFor(collectives.ExclusiveScan(c, which, collectives.CurrentGeneration, which+1, collectives.Sum[int]))
		})
		for which, r := range results {
			require.NoErrorf(t, r.err, "site %d", which)
		}
		assert.Equal(t, 0, results[0].value)
		assert.Equal(t, 1, results[1].value)
		assert.Equal(t, 3, results[2].value)
	})
}

func TestBarrier(t *testing.T) {
	const numSites = 4
	c := collectives.NewCommunicator("barrier", numSites)
	for gen := 0; gen < 3; gen++ {
		results := runSites(numSites, func(which int) (struct{}, error) {
			return waitFor(collectives.Barrier(c, which, collectives.CurrentGeneration))
		})
		for which, r := range results {
			require.NoErrorf(t, r.err, "site %d generation %d", which, gen)
		}
	}
	assert.Equal(t, 3, c.Generation())
}

func TestHeterogeneousGenerations(t *testing.T) {
	// Consecutive generations carrying different element types on the same
	// communicator: the payload storage is replaced on demand.
	const numSites = 3
	c := collectives.NewCommunicator("heterogeneous", numSites)

	ints := runSites(numSites, func(which int) (int, error) {
		return waitFor(collectives.AllReduce(c, which, collectives.CurrentGeneration, which, collectives.Sum[int]))
	})
	for _, r := range ints {
		require.NoError(t, r.err)
		assert.Equal(t, 3, r.value)
	}

	strs := runSites(numSites, func(which int) ([]string, error) {
		return waitFor(collectives.AllGather(c, which, collectives.CurrentGeneration, "s"))
	})
	for _, r := range strs {
		require.NoError(t, r.err)
		assert.Equal(t, []string{"s", "s", "s"}, r.value)
	}

	floats := runSites(numSites, func(which int) (float64, error) {
		return waitFor(collectives.AllReduce(c, which, collectives.CurrentGeneration, 0.5, collectives.Sum[float64]))
	})
	for _, r := range floats {
		require.NoError(t, r.err)
		assert.Equal(t, 1.5, r.value)
	}
}

func TestReducerHelpers(t *testing.T) {
	assert.Equal(t, 5, collectives.Sum(2, 3))
	assert.Equal(t, 6, collectives.Prod(2, 3))
	assert.Equal(t, 2, collectives.Min(2, 3))
	assert.Equal(t, 3, collectives.Max(2, 3))
	assert.Equal(t, "a", collectives.Min("b", "a"))
}
