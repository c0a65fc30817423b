//go:build !tinygo

package kernel

import "sync"

// Critical serializes the playback tick against control updates. On hosts
// the timer and the event loop are ordinary goroutines, so a mutex is enough.
type Critical struct {
	mu sync.Mutex
}

func (c *Critical) Lock()   { c.mu.Lock() }
func (c *Critical) Unlock() { c.mu.Unlock() }
