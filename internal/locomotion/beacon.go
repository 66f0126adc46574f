package locomotion

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
)

// Beacon is a single-writer slot holding the tracked agent's position.
// Readers get a copy, never a live handle.
type Beacon struct {
	pos atomic.Pointer[mgl64.Vec3]
}

// Publish replaces the broadcast position. Only the tracked agent's step
// calls it, once per tick, before any follower reads.
func (b *Beacon) Publish(p mgl64.Vec3) {
	b.pos.Store(&p)
}

// Snapshot returns the last published position and whether one exists.
func (b *Beacon) Snapshot() (mgl64.Vec3, bool) {
	p := b.pos.Load()
	if p == nil {
		return mgl64.Vec3{}, false
	}
	return *p, true
}

// Clear drops the published position.
func (b *Beacon) Clear() {
	b.pos.Store(nil)
}
