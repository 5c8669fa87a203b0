package loaders

import (
	"fmt"
	"sync"
)

type generationKey struct {
	collection string
	userID     int64
}

// Generations counts committed writes per collection and user. A listing only
// joins a store call that is already in flight when both were issued under the
// same generation, so a read that starts after a write never reuses a result
// fetched before it.
type Generations struct {
	mu     sync.Mutex
	counts map[generationKey]uint64
}

// NewGenerations creates an empty write counter
func NewGenerations() *Generations {
	return &Generations{counts: make(map[generationKey]uint64)}
}

// Bump records a committed write to a user's collection. Listings across all
// users of that collection move on as well.
func (g *Generations) Bump(collection string, userID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counts[generationKey{collection, userID}]++
	g.counts[generationKey{collection, 0}]++
}

// Current returns the write generation of a user's collection. A zero userID
// addresses the listing across all users.
func (g *Generations) Current(collection string, userID int64) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.counts[generationKey{collection, userID}]
}

func (g *Generations) flightKey(collection string, userID int64, key any) string {
	return fmt.Sprintf("%s:%d:%+v@%d", collection, userID, key, g.Current(collection, userID))
}
