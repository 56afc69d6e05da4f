package collectives

import (
	"github.com/gomlx/collectives/types/xsync"
	"github.com/pkg/errors"
)

// communicators indexes every live communicator by name.
var communicators xsync.SyncMap[string, *Communicator]

// Create creates a communicator coordinating numSites sites and registers it
// under name. It errors if the name is already taken.
func Create(name string, numSites int) (*Communicator, error) {
	c := NewCommunicator(name, numSites)
	if _, loaded := communicators.LoadOrStore(name, c); loaded {
		return nil, errors.Errorf("collectives.Create: communicator %q already exists", name)
	}
	return c, nil
}

// Lookup returns the communicator registered under name, if any.
func Lookup(name string) (*Communicator, bool) {
	return communicators.Load(name)
}

// GetOrCreate returns the communicator registered under name, creating and
// registering it if needed. It errors if the existing communicator was
// created for a different number of sites.
func GetOrCreate(name string, numSites int) (*Communicator, error) {
	c, found := communicators.Load(name)
	if !found {
		c, _ = communicators.LoadOrStore(name, NewCommunicator(name, numSites))
	}
	if c.numSites != numSites {
		return nil, errors.Errorf(
			"collectives.GetOrCreate: communicator %q coordinates %d sites, requested %d",
			name, c.numSites, numSites)
	}
	return c, nil
}

// Destroy unregisters the communicator under name and then waits for its
// outstanding invocations to drain. A later Create under the same name
// yields a fresh instance (with a new Communicator.ID).
func Destroy(name string) error {
	c, loaded := communicators.LoadAndDelete(name)
	if !loaded {
		return errors.Errorf("collectives.Destroy: no communicator registered under %q", name)
	}
	c.Drain()
	return nil
}
