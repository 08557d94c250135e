package app

import (
	"context"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"pcb-vision/internal/domain/entity"
	"pcb-vision/internal/domain/port"
)

// Параметры отрисовки подписей.
const (
	boxThickness    = 2
	labelScale      = 0.5
	labelBackground = 22 // высота плашки над рамкой
	labelBaseline   = 7
	markerOuter     = 6
	markerInner     = 4
	coordScale      = 0.4
	fpsScale        = 1.0
	fpsThickness    = 2
	filled          = -1
)

var fpsOrigin = image.Pt(20, 40)

// FrameAnnotator рисует детекции на кадре и сообщает координаты позиционных дефектов.
type FrameAnnotator struct {
	log     logrus.FieldLogger
	defects port.DefectRepository
}

// NewFrameAnnotator создаёт аннотатор. defects может быть nil.
func NewFrameAnnotator(log logrus.FieldLogger, defects port.DefectRepository) *FrameAnnotator {
	return &FrameAnnotator{log: log, defects: defects}
}

// Annotate рисует одну детекцию на кадре с номером index.
func (a *FrameAnnotator) Annotate(ctx context.Context, canvas port.Canvas, runID string, index int, d entity.Detection) (entity.SeverityResult, error) {
	sev := entity.AssessSeverity(d.Label, d.Confidence)
	box := d.Box

	canvas.Rectangle(image.Rect(box.X1, box.Y1, box.X2, box.Y2), sev.Color, boxThickness)

	labelText := fmt.Sprintf("%s %.2f | %s", d.Label, d.Confidence, sev.Severity)
	textSize := canvas.TextSize(labelText, labelScale, 2)
	canvas.Rectangle(image.Rect(box.X1, box.Y1-labelBackground, box.X1+textSize.X, box.Y1), sev.Color, filled)
	canvas.PutText(labelText, image.Pt(box.X1, box.Y1-labelBaseline), port.TextStyle{
		Scale:     labelScale,
		Color:     entity.ColorBlack,
		Thickness: 1,
		AntiAlias: true,
	})

	if !entity.IsPositionalDefect(d.Label) {
		return sev, nil
	}

	cx, cy := box.Center()
	center := image.Pt(cx, cy)
	canvas.Circle(center, markerOuter, entity.ColorWhite, filled)
	canvas.Circle(center, markerInner, entity.ColorRed, filled)

	// Чёрная обводка со сдвигом и белый текст поверх читаются на любом фоне.
	coordText := fmt.Sprintf("(%d, %d)", cx, cy)
	canvas.PutText(coordText, image.Pt(cx+8, cy+1), port.TextStyle{
		Scale:     coordScale,
		Color:     entity.ColorBlack,
		Thickness: 2,
		AntiAlias: true,
	})
	canvas.PutText(coordText, image.Pt(cx+7, cy), port.TextStyle{
		Scale:     coordScale,
		Color:     entity.ColorWhite,
		Thickness: 1,
		AntiAlias: true,
	})

	a.log.Infof("Frame %d | %s @ %s | %s", index, d.Label, coordText, sev.Severity)

	if a.defects != nil {
		if err := a.defects.Save(ctx, entity.NewDefectRecord(runID, index, d, sev.Severity)); err != nil {
			return sev, fmt.Errorf("save defect: %w", err)
		}
	}

	return sev, nil
}

// DrawFPS выводит текущую скорость обработки в левом верхнем углу.
func (a *FrameAnnotator) DrawFPS(canvas port.Canvas, fps float64) {
	canvas.PutText(fmt.Sprintf("FPS: %.2f", fps), fpsOrigin, port.TextStyle{
		Scale:     fpsScale,
		Color:     entity.ColorGreen,
		Thickness: fpsThickness,
	})
}
