package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFrameContextFPS(t *testing.T) {
	start := time.Unix(1000, 0)
	fc := NewFrameContext(start)
	require.Zero(t, fc.FPS())

	for i := 0; i < 10; i++ {
		fc.Advance()
	}
	fc.Tick(start.Add(2 * time.Second))
	require.Equal(t, 10, fc.Index)
	require.InDelta(t, 5.0, fc.FPS(), 1e-9)
}
