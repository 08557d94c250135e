package entity

import "time"

// FrameContext счётчик кадров и время с начала обработки.
type FrameContext struct {
	Index   int
	Start   time.Time
	Elapsed time.Duration
}

// NewFrameContext начинает отсчёт с момента start.
func NewFrameContext(start time.Time) *FrameContext {
	return &FrameContext{Start: start}
}

// Advance переходит к следующему кадру.
func (c *FrameContext) Advance() int {
	c.Index++
	return c.Index
}

// Tick обновляет прошедшее время.
func (c *FrameContext) Tick(now time.Time) {
	c.Elapsed = now.Sub(c.Start)
}

// FPS возвращает среднюю скорость обработки с начала запуска.
func (c *FrameContext) FPS() float64 {
	secs := c.Elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(c.Index) / secs
}
