package yolo

import (
	"sort"

	"pcb-vision/internal/domain/entity"
)

// NMS подавляет перекрывающиеся детекции одного класса.
// Результат отсортирован по убыванию уверенности.
func NMS(detections []entity.Detection, iouThreshold float64) []entity.Detection {
	if len(detections) == 0 {
		return nil
	}

	sorted := make([]entity.Detection, len(detections))
	copy(sorted, detections)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	kept := make([]entity.Detection, 0, len(sorted))
	suppressed := make([]bool, len(sorted))
	for i := range sorted {
		if suppressed[i] {
			continue
		}
		kept = append(kept, sorted[i])
		for j := i + 1; j < len(sorted); j++ {
			if suppressed[j] || sorted[j].ClassID != sorted[i].ClassID {
				continue
			}
			if sorted[i].Box.IoU(sorted[j].Box) > iouThreshold {
				suppressed[j] = true
			}
		}
	}

	return kept
}
