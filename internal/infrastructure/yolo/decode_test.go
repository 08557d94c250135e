package yolo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pcb-vision/internal/domain/entity"
)

// buildOutput собирает выход в раскладке [4+nc, anchors].
func buildOutput(nc int, anchors [][]float32) []float32 {
	rows := 4 + nc
	out := make([]float32, rows*len(anchors))
	for i, a := range anchors {
		for r := 0; r < rows; r++ {
			out[r*len(anchors)+i] = a[r]
		}
	}
	return out
}

func TestDecode(t *testing.T) {
	out := buildOutput(2, [][]float32{
		{320, 320, 64, 64, 0.1, 0.9}, // класс 1, центр кадра
		{100, 100, 20, 20, 0.2, 0.1}, // ниже порога
		{10, 10, 40, 40, 0.8, 0.0},   // выходит за левый верхний край
	})

	dets, err := Decode(out, DecodeOptions{
		NumClasses:    2,
		InputWidth:    640,
		InputHeight:   640,
		FrameWidth:    1280,
		FrameHeight:   720,
		ConfThreshold: 0.25,
		Names:         ClassNames{"Missing_Hole", "MCU"},
	})
	require.NoError(t, err)
	require.Len(t, dets, 2)

	require.Equal(t, 1, dets[0].ClassID)
	require.Equal(t, "MCU", dets[0].Label)
	require.InDelta(t, 0.9, dets[0].Confidence, 1e-6)
	require.Equal(t, entity.Box{X1: 576, Y1: 324, X2: 704, Y2: 396}, dets[0].Box)

	require.Equal(t, "Missing_Hole", dets[1].Label)
	require.Equal(t, 0, dets[1].Box.X1)
	require.Equal(t, 0, dets[1].Box.Y1)
	require.Equal(t, 60, dets[1].Box.X2)
	require.Equal(t, 33, dets[1].Box.Y2)
}

func TestDecode_BadShape(t *testing.T) {
	_, err := Decode(make([]float32, 7), DecodeOptions{NumClasses: 2})
	require.Error(t, err)

	_, err = Decode(nil, DecodeOptions{NumClasses: 0})
	require.Error(t, err)
}

func TestNMS(t *testing.T) {
	dets := []entity.Detection{
		{Box: entity.Box{X1: 0, Y1: 0, X2: 10, Y2: 10}, ClassID: 0, Confidence: 0.6},
		{Box: entity.Box{X1: 1, Y1: 1, X2: 11, Y2: 11}, ClassID: 0, Confidence: 0.9},
		{Box: entity.Box{X1: 1, Y1: 1, X2: 11, Y2: 11}, ClassID: 1, Confidence: 0.5},
		{Box: entity.Box{X1: 50, Y1: 50, X2: 60, Y2: 60}, ClassID: 0, Confidence: 0.7},
	}

	kept := NMS(dets, 0.45)
	require.Len(t, kept, 3)
	require.InDelta(t, 0.9, kept[0].Confidence, 1e-9)
	require.InDelta(t, 0.7, kept[1].Confidence, 1e-9)
	require.Equal(t, 1, kept[2].ClassID)

	require.Nil(t, NMS(nil, 0.5))
}
