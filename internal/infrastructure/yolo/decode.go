package yolo

import (
	"fmt"

	"pcb-vision/internal/domain/entity"
)

// DecodeOptions параметры разбора выхода YOLOv8 ([1, 4+nc, anchors]).
type DecodeOptions struct {
	NumClasses    int
	InputWidth    int
	InputHeight   int
	FrameWidth    int
	FrameHeight   int
	ConfThreshold float64
	Names         ClassNames
}

// Decode превращает сырой выход модели в детекции в координатах кадра.
// Координаты модели — пиксели входа сети (cx, cy, w, h), вход получен растяжением кадра.
func Decode(output []float32, opts DecodeOptions) ([]entity.Detection, error) {
	rows := 4 + opts.NumClasses
	if opts.NumClasses <= 0 {
		return nil, fmt.Errorf("invalid number of classes: %d", opts.NumClasses)
	}
	if len(output)%rows != 0 {
		return nil, fmt.Errorf("output size %d is not divisible by %d rows", len(output), rows)
	}
	anchors := len(output) / rows

	scaleX := float64(opts.FrameWidth) / float64(opts.InputWidth)
	scaleY := float64(opts.FrameHeight) / float64(opts.InputHeight)

	detections := make([]entity.Detection, 0, 32)
	for i := 0; i < anchors; i++ {
		bestClass := -1
		bestScore := 0.0
		for c := 0; c < opts.NumClasses; c++ {
			score := float64(output[(4+c)*anchors+i])
			if score > bestScore {
				bestScore = score
				bestClass = c
			}
		}
		if bestClass < 0 || bestScore < opts.ConfThreshold {
			continue
		}

		cx := float64(output[i])
		cy := float64(output[anchors+i])
		w := float64(output[2*anchors+i])
		h := float64(output[3*anchors+i])

		box := entity.Box{
			X1: clamp(int((cx-w/2)*scaleX), 0, opts.FrameWidth-1),
			Y1: clamp(int((cy-h/2)*scaleY), 0, opts.FrameHeight-1),
			X2: clamp(int((cx+w/2)*scaleX), 0, opts.FrameWidth-1),
			Y2: clamp(int((cy+h/2)*scaleY), 0, opts.FrameHeight-1),
		}
		if box.X2 <= box.X1 || box.Y2 <= box.Y1 {
			continue
		}

		detections = append(detections, entity.Detection{
			Box:        box,
			ClassID:    bestClass,
			Label:      opts.Names.Label(bestClass),
			Confidence: bestScore,
		})
	}

	return detections, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
