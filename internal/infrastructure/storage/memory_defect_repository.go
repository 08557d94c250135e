package storage

import (
	"context"
	"sync"

	"pcb-vision/internal/domain/entity"
	"pcb-vision/internal/domain/port"
)

// MemoryDefectRepository in-memory хранилище дефектов по прогонам
type MemoryDefectRepository struct {
	mu      sync.RWMutex
	records map[string][]entity.DefectRecord
}

// NewMemoryDefectRepository создаёт новое in-memory хранилище
func NewMemoryDefectRepository() *MemoryDefectRepository {
	return &MemoryDefectRepository{
		records: make(map[string][]entity.DefectRecord),
	}
}

// Save добавляет запись в конец списка прогона
func (r *MemoryDefectRepository) Save(ctx context.Context, rec entity.DefectRecord) error {
	r.mu.Lock()
	r.records[rec.RunID] = append(r.records[rec.RunID], rec)
	r.mu.Unlock()

	return nil
}

// List возвращает копию записей прогона
func (r *MemoryDefectRepository) List(ctx context.Context, runID string) ([]entity.DefectRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src := r.records[runID]
	out := make([]entity.DefectRecord, len(src))
	copy(out, src)

	return out, nil
}

// CountBySeverity считает записи прогона по уровням
func (r *MemoryDefectRepository) CountBySeverity(ctx context.Context, runID string) (map[entity.Severity]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[entity.Severity]int)
	for _, rec := range r.records[runID] {
		counts[rec.Severity]++
	}

	return counts, nil
}

// Проверка реализации интерфейса
var _ port.DefectRepository = (*MemoryDefectRepository)(nil)
