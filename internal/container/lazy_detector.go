package container

import (
	"context"
	"sync"

	"pcb-vision/internal/domain/entity"
	"pcb-vision/internal/domain/port"
)

// lazyDetector загружает модель при первом обращении.
// Ошибка загрузки запоминается и возвращается при каждом вызове Detect.
type lazyDetector struct {
	load func() (port.Detector, error)

	once     sync.Once
	mu       sync.Mutex
	detector port.Detector
	err      error
}

func newLazyDetector(load func() (port.Detector, error)) *lazyDetector {
	return &lazyDetector{load: load}
}

func (d *lazyDetector) get() (port.Detector, error) {
	d.once.Do(func() {
		det, err := d.load()
		d.mu.Lock()
		d.detector, d.err = det, err
		d.mu.Unlock()
	})
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.detector, d.err
}

func (d *lazyDetector) Detect(ctx context.Context, frame port.Frame) ([]entity.Detection, error) {
	det, err := d.get()
	if err != nil {
		return nil, err
	}
	return det.Detect(ctx, frame)
}

// Close освобождает модель, если она была загружена.
func (d *lazyDetector) Close() error {
	d.mu.Lock()
	det := d.detector
	d.mu.Unlock()
	if det == nil {
		return nil
	}
	return det.Close()
}

var _ port.Detector = (*lazyDetector)(nil)
