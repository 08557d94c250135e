package entity

import "time"

// PipelineState фаза жизненного цикла видеоконвейера.
type PipelineState string

const (
	StateOpen      PipelineState = "open"      // Открытие источника и приёмника
	StateStreaming PipelineState = "streaming" // Покадровая обработка
	StateClosed    PipelineState = "closed"    // Ресурсы освобождены
)

// RunSummary итог одного прогона видео.
type RunSummary struct {
	RunID      string
	OutputPath string
	Width      int
	Height     int
	FPS        int // частота кадров выходного видео
	FramesIn   int
	FramesOut  int
	Defects    map[Severity]int // позиционные дефекты по уровням
	Records    []DefectRecord   // позиционные дефекты в порядке обнаружения
	Duration   time.Duration
}

// TotalDefects возвращает общее число позиционных дефектов.
func (s *RunSummary) TotalDefects() int {
	total := 0
	for _, n := range s.Defects {
		total += n
	}
	return total
}
