package evaluation

import (
	"errors"
	"sort"

	"pcb-vision/internal/domain/entity"
)

// IoUThreshold порог совпадения для mAP@50.
const IoUThreshold = 0.5

// ErrNoGroundTruth в выборке нет ни одной разметки.
var ErrNoGroundTruth = errors.New("no ground truth boxes")

// GroundTruth размеченный объект на изображении.
type GroundTruth struct {
	Box     entity.Box
	ClassID int
}

// ImageResult предсказания и разметка одного изображения.
type ImageResult struct {
	Predictions []entity.Detection
	Truth       []GroundTruth
}

type scoredMatch struct {
	confidence float64
	tp         bool
}

// MAP50 считает среднюю по классам AP при IoU >= 0.5.
// Классы без разметки в среднем не участвуют.
func MAP50(results []ImageResult) (float64, error) {
	gtCount := make(map[int]int)
	matches := make(map[int][]scoredMatch)

	for _, img := range results {
		for _, gt := range img.Truth {
			gtCount[gt.ClassID]++
		}

		preds := make([]entity.Detection, len(img.Predictions))
		copy(preds, img.Predictions)
		sort.SliceStable(preds, func(i, j int) bool {
			return preds[i].Confidence > preds[j].Confidence
		})

		used := make([]bool, len(img.Truth))
		for _, p := range preds {
			best, bestIoU := -1, 0.0
			for i, gt := range img.Truth {
				if used[i] || gt.ClassID != p.ClassID {
					continue
				}
				if iou := p.Box.IoU(gt.Box); iou > bestIoU {
					best, bestIoU = i, iou
				}
			}
			tp := best >= 0 && bestIoU >= IoUThreshold
			if tp {
				used[best] = true
			}
			matches[p.ClassID] = append(matches[p.ClassID], scoredMatch{confidence: p.Confidence, tp: tp})
		}
	}

	if len(gtCount) == 0 {
		return 0, ErrNoGroundTruth
	}

	total := 0.0
	for class, n := range gtCount {
		total += classAP(matches[class], n)
	}
	return total / float64(len(gtCount)), nil
}

func classAP(ms []scoredMatch, nGT int) float64 {
	if len(ms) == 0 {
		return 0
	}
	sort.SliceStable(ms, func(i, j int) bool {
		return ms[i].confidence > ms[j].confidence
	})

	recall := make([]float64, len(ms))
	precision := make([]float64, len(ms))
	tp, fp := 0, 0
	for i, m := range ms {
		if m.tp {
			tp++
		} else {
			fp++
		}
		recall[i] = float64(tp) / float64(nGT)
		precision[i] = float64(tp) / float64(tp+fp)
	}

	return AveragePrecision(recall, precision)
}

// AveragePrecision площадь под кривой precision/recall по 101 точке
// с огибающей precision, как в Ultralytics.
func AveragePrecision(recall, precision []float64) float64 {
	mrec := make([]float64, 0, len(recall)+2)
	mpre := make([]float64, 0, len(precision)+2)
	mrec = append(mrec, 0)
	mrec = append(mrec, recall...)
	mrec = append(mrec, 1)
	mpre = append(mpre, 1)
	mpre = append(mpre, precision...)
	mpre = append(mpre, 0)

	for i := len(mpre) - 2; i >= 0; i-- {
		if mpre[i+1] > mpre[i] {
			mpre[i] = mpre[i+1]
		}
	}

	const points = 101
	prevX, prevY := 0.0, interp(0, mrec, mpre)
	area := 0.0
	for i := 1; i < points; i++ {
		x := float64(i) / float64(points-1)
		y := interp(x, mrec, mpre)
		area += (x - prevX) * (y + prevY) / 2
		prevX, prevY = x, y
	}
	return area
}

// interp линейная интерполяция по неубывающей xp; при повторах берётся правая точка.
func interp(x float64, xp, fp []float64) float64 {
	if x < xp[0] {
		return fp[0]
	}
	j := sort.Search(len(xp), func(i int) bool { return xp[i] > x }) - 1
	if j >= len(xp)-1 {
		return fp[len(fp)-1]
	}
	x0, x1 := xp[j], xp[j+1]
	return fp[j] + (fp[j+1]-fp[j])*(x-x0)/(x1-x0)
}
