// collectives_demo simulates a data-parallel training loop: each site
// computes a local "gradient" per step and the sites all-reduce it before
// applying the update, so every site steps its weight in lock-step.
//
// Run with --v=1 to see the communicator's entry/exit log lines.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"sync"

	"github.com/gomlx/collectives"
	"github.com/gomlx/collectives/types/xsync"
	"github.com/janpfeifer/must"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"
)

var (
	flagSites        = flag.Int("sites", 4, "Number of simulated sites.")
	flagSteps        = flag.Int("steps", 200, "Training steps to simulate.")
	flagLearningRate = flag.Float64("lr", 0.01, "Learning rate of the simulated updates.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	c := must.M1(collectives.Create("demo_gradients", *flagSites))
	bar := progressbar.Default(int64(*flagSteps), "training")

	var wg sync.WaitGroup
	for which := 0; which < *flagSites; which++ {
		wg.Add(1)
		go func(which int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(which)))
			weight := 0.0
			for step := 0; step < *flagSteps; step++ {
				grad := rng.NormFloat64() + weight
				sum := must.M1(wait(collectives.AllReduce(
					c, which, collectives.CurrentGeneration, grad, collectives.Sum[float64])))
				weight -= *flagLearningRate * sum / float64(*flagSites)
				if which == 0 {
					_ = bar.Add(1)
				}
			}

			// Every site ends up with the same weight; gather to show it.
			weights := must.M1(wait(collectives.AllGather(
				c, which, collectives.CurrentGeneration, weight)))
			if which == 0 {
				fmt.Printf("\nfinal weight per site: %v\n", weights)
			}
		}(which)
	}
	wg.Wait()
	must.M(collectives.Destroy("demo_gradients"))
}

func wait[T any](f *xsync.Future[T], err error) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	return f.Wait()
}
