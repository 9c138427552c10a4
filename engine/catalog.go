package engine

import (
	"sync"
	"time"

	"launchbox/model"
)

// Catalog is the shared, mutable set of commands. Search traverses it
// read-only; execute updates exactly one entry's usage counters. A single
// RWMutex keeps a usage update atomic against concurrent executes of the
// same id.
type Catalog struct {
	mu   sync.RWMutex
	byID map[string]*model.Command
	all  []*model.Command
}

// NewCatalog copies cmds into a fresh catalog.
func NewCatalog(cmds []model.Command) *Catalog {
	c := &Catalog{}
	c.Replace(cmds)
	return c
}

// Replace swaps the whole catalog contents, e.g. after a reimport.
func (c *Catalog) Replace(cmds []model.Command) {
	byID := make(map[string]*model.Command, len(cmds))
	all := make([]*model.Command, 0, len(cmds))
	for i := range cmds {
		cmd := cmds[i]
		if _, dup := byID[cmd.ID]; dup {
			continue
		}
		byID[cmd.ID] = &cmd
		all = append(all, &cmd)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID = byID
	c.all = all
}

// Get returns a snapshot of the command with the given id.
func (c *Catalog) Get(id string) (model.Command, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cmd, ok := c.byID[id]
	if !ok {
		return model.Command{}, false
	}
	return *cmd, true
}

// Len reports the number of commands.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.all)
}

// touch bumps the usage counters of id and returns the updated snapshot.
// This is the only mutation the engine performs.
func (c *Catalog) touch(id string, now time.Time) (model.Command, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cmd, ok := c.byID[id]
	if !ok {
		return model.Command{}, false
	}
	cmd.HitCount++
	t := now
	cmd.LastRunAt = &t
	return *cmd, true
}

// snapshot copies every entry for a read-only traversal, so scoring never
// races a concurrent touch.
func (c *Catalog) snapshot() []model.Command {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Command, len(c.all))
	for i, cmd := range c.all {
		out[i] = *cmd
	}
	return out
}
