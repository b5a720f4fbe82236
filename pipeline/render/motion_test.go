package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMotionRegistry_History(t *testing.T) {
	m := NewMotionRegistry()
	id := uuid.New()
	m1 := mgl32.Translate3D(1, 0, 0)
	m2 := mgl32.Translate3D(2, 0, 0)
	m3 := mgl32.Translate3D(3, 0, 0)

	m.BeginFrame()
	rec := m.Track(id, m1)
	assert.Equal(t, m1, rec.Previous, "first sample initializes both")
	assert.Equal(t, m1, rec.Current)
	m.EndFrame()

	m.BeginFrame()
	m.Track(id, m2)
	m.EndFrame()
	rec, ok := m.Get(id)
	require.True(t, ok)
	assert.Equal(t, m1, rec.Previous)
	assert.Equal(t, m2, rec.Current)

	m.BeginFrame()
	m.Track(id, m3)
	m.Track(id, m3.Mul4(m3))
	m.EndFrame()
	assert.Equal(t, m2, m.Previous(id, mgl32.Ident4()), "one shift per frame")
}

func TestMotionRegistry_EvictsUnseen(t *testing.T) {
	m := NewMotionRegistry()
	kept, dropped := uuid.New(), uuid.New()

	m.BeginFrame()
	m.Track(kept, mgl32.Ident4())
	m.Track(dropped, mgl32.Ident4())
	assert.Zero(t, m.EndFrame())

	m.BeginFrame()
	m.Track(kept, mgl32.Ident4())
	assert.Equal(t, 1, m.EndFrame())

	assert.Equal(t, 1, m.Len())
	_, ok := m.Get(dropped)
	assert.False(t, ok)
	fallback := mgl32.Translate3D(0, 9, 0)
	assert.Equal(t, fallback, m.Previous(dropped, fallback))
}
