// Package mesh defines CPU-side geometry batches. A Buffer is one batch of
// triangles sharing one material; the renderer mirrors it into device
// buffers on demand and keeps them synchronized through the dirty flags.
package mesh

import (
	"github.com/Faultbox/lumen/internal/engine/material"
	"github.com/Faultbox/lumen/pkg/math"
)

// Vertex is one vertex of a mesh buffer. Tangent and binormal are only
// meaningful when the owning buffer has Tangents set.
type Vertex struct {
	Pos      math.Vec3
	Normal   math.Vec3
	Color    [4]float32
	TCoord   math.Vec2
	TCoord2  math.Vec2
	Tangent  math.Vec3
	Binormal math.Vec3
}

// Update flavors consumed by the renderer's geometry cache. Full rebuild
// takes precedence when several flags have gone stale at once.
type UpdateKind int

const (
	UpdateNone UpdateKind = iota
	// UpdatePositions rewrites only the position buffer.
	UpdatePositions
	// UpdateSizePreserving rewrites positions and colors in place.
	UpdateSizePreserving
	// UpdateFull discards and recreates the whole device resource.
	UpdateFull
)

// Buffer is one material-homogeneous batch of triangle geometry. Indices
// form a triangle list; they are stored in the CPU winding and re-wound
// (second and third index of every triangle swapped) on device upload.
type Buffer struct {
	Vertices []Vertex
	Indices  []uint16
	Mat      material.Material

	// Tangents marks that Tangent/Binormal carry data worth uploading.
	Tangents bool

	Box math.Box3

	pending UpdateKind
}

// New returns an empty buffer with the default material, flagged for a full
// upload once it has data.
func New() *Buffer {
	return &Buffer{
		Mat:     material.Default(),
		Box:     math.EmptyBox3(),
		pending: UpdateFull,
	}
}

// SetDirty schedules a full device rebuild. It supersedes any pending
// incremental update.
func (b *Buffer) SetDirty() {
	b.pending = UpdateFull
}

// ScheduleSizePreservingUpdate schedules an in-place rewrite of positions
// and colors. A pending full rebuild wins; a pending positions-only update
// is absorbed.
func (b *Buffer) ScheduleSizePreservingUpdate() {
	if b.pending != UpdateFull {
		b.pending = UpdateSizePreserving
	}
}

// SchedulePositionUpdate schedules an in-place rewrite of positions only.
// Any stronger pending update wins.
func (b *Buffer) SchedulePositionUpdate() {
	if b.pending == UpdateNone {
		b.pending = UpdatePositions
	}
}

// ConsumePending returns the pending update kind and resets it. Called by
// the geometry cache once per draw.
func (b *Buffer) ConsumePending() UpdateKind {
	k := b.pending
	b.pending = UpdateNone
	return k
}

// Pending returns the pending update kind without consuming it.
func (b *Buffer) Pending() UpdateKind {
	return b.pending
}

// Empty reports whether there is nothing to draw.
func (b *Buffer) Empty() bool {
	return len(b.Vertices) == 0 || len(b.Indices) == 0
}

// RecalculateBoundingBox refits Box around the current vertices.
func (b *Buffer) RecalculateBoundingBox() {
	box := math.EmptyBox3()
	for i := range b.Vertices {
		box = box.AddPoint(b.Vertices[i].Pos)
	}
	b.Box = box
}
