package port

import (
	"context"

	"pcb-vision/internal/domain/entity"
)

// DefectRepository интерфейс хранилища позиционных дефектов
type DefectRepository interface {
	// Save сохраняет запись о дефекте
	Save(ctx context.Context, rec entity.DefectRecord) error

	// List возвращает дефекты прогона в порядке сохранения
	List(ctx context.Context, runID string) ([]entity.DefectRecord, error)

	// CountBySeverity считает дефекты прогона по уровням
	CountBySeverity(ctx context.Context, runID string) (map[entity.Severity]int, error)
}
