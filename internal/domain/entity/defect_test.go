package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoxCenter(t *testing.T) {
	b := Box{X1: 100, Y1: 100, X2: 140, Y2: 140}
	x, y := b.Center()
	require.Equal(t, 120, x)
	require.Equal(t, 120, y)

	// Целочисленное деление отбрасывает дробную часть.
	x, y = Box{X1: 10, Y1: 20, X2: 17, Y2: 25}.Center()
	require.Equal(t, 13, x)
	require.Equal(t, 22, y)
}

func TestBoxIoU(t *testing.T) {
	a := Box{X1: 0, Y1: 0, X2: 10, Y2: 10}
	require.InDelta(t, 1.0, a.IoU(a), 1e-9)
	require.InDelta(t, 25.0/175.0, a.IoU(Box{X1: 5, Y1: 5, X2: 15, Y2: 15}), 1e-9)
	require.Zero(t, a.IoU(Box{X1: 20, Y1: 20, X2: 30, Y2: 30}))
}

func TestNewDefectRecord(t *testing.T) {
	d := Detection{Box: Box{X1: 100, Y1: 100, X2: 140, Y2: 140}, Label: "Missing_Hole", Confidence: 0.87}
	rec := NewDefectRecord("run", 3, d, SeverityCritical)
	require.Equal(t, 120, rec.X)
	require.Equal(t, 120, rec.Y)
	require.Equal(t, 3, rec.Frame)
	require.Equal(t, SeverityCritical, rec.Severity)
}
