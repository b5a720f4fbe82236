package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// MotionRecord is the transform history of one node.
type MotionRecord struct {
	Previous mgl32.Mat4
	Current  mgl32.Mat4

	frame uint64
}

// MotionRegistry keeps per-node transform history between frames. Records of
// nodes not tracked during a frame are dropped by EndFrame.
type MotionRegistry struct {
	records map[uuid.UUID]*MotionRecord
	frame   uint64
}

func NewMotionRegistry() *MotionRegistry {
	return &MotionRegistry{records: make(map[uuid.UUID]*MotionRecord)}
}

func (m *MotionRegistry) BeginFrame() {
	m.frame++
}

// Track samples world for node. The first sample initializes both Previous
// and Current; later frames shift Current into Previous before sampling.
// Repeated calls within one frame only overwrite Current.
func (m *MotionRegistry) Track(node uuid.UUID, world mgl32.Mat4) *MotionRecord {
	rec, ok := m.records[node]
	if !ok {
		rec = &MotionRecord{Previous: world, Current: world, frame: m.frame}
		m.records[node] = rec
		return rec
	}
	if rec.frame != m.frame {
		rec.Previous = rec.Current
		rec.frame = m.frame
	}
	rec.Current = world
	return rec
}

func (m *MotionRegistry) Get(node uuid.UUID) (*MotionRecord, bool) {
	rec, ok := m.records[node]
	return rec, ok
}

// Previous returns the last frame's transform for node, or fallback when the
// node has no history.
func (m *MotionRegistry) Previous(node uuid.UUID, fallback mgl32.Mat4) mgl32.Mat4 {
	if rec, ok := m.records[node]; ok {
		return rec.Previous
	}
	return fallback
}

// EndFrame evicts records that were not tracked since BeginFrame and returns
// how many were removed.
func (m *MotionRegistry) EndFrame() int {
	evicted := 0
	for id, rec := range m.records {
		if rec.frame != m.frame {
			delete(m.records, id)
			evicted++
		}
	}
	return evicted
}

func (m *MotionRegistry) Len() int { return len(m.records) }
