// Package cache keeps actor handles returned by the server so repeated
// lookups of the same actor yield the same handle.
package cache

import (
	"sync"

	"github.com/simdrive/driveclient/pkg/sim"
)

// HandleCache maps server actor ids to their client handles.
type HandleCache struct {
	m      sync.Mutex
	actors map[uint32]sim.Actor
}

func NewHandleCache() *HandleCache {
	return &HandleCache{
		actors: make(map[uint32]sim.Actor),
	}
}

func (c *HandleCache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.actors = make(map[uint32]sim.Actor)
}

func (c *HandleCache) Get(id uint32) (sim.Actor, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	if a, ok := c.actors[id]; ok {
		return a, true
	}
	return nil, false
}

func (c *HandleCache) Add(a sim.Actor) {
	c.m.Lock()
	defer c.m.Unlock()
	c.actors[a.ID()] = a
}

func (c *HandleCache) Len() int {
	c.m.Lock()
	defer c.m.Unlock()
	return len(c.actors)
}
