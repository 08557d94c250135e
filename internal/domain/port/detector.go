package port

import (
	"context"

	"pcb-vision/internal/domain/entity"
)

// Detector интерфейс детектора объектов на кадре
type Detector interface {
	// Detect возвращает найденные на кадре объекты
	Detect(ctx context.Context, frame Frame) ([]entity.Detection, error)

	// Close освобождает ресурсы модели
	Close() error
}
