//go:build !gocv
// +build !gocv

package vision

import (
	"context"

	"pcb-vision/internal/domain/entity"
	"pcb-vision/internal/domain/port"
	"pcb-vision/internal/infrastructure/yolo"
)

// GoCVMedia заглушка фабрики медиа (без OpenCV).
type GoCVMedia struct{}

// NewGoCVMedia создаёт заглушку.
func NewGoCVMedia() *GoCVMedia {
	return &GoCVMedia{}
}

// OpenSource возвращает ошибку, если сборка без тега gocv.
func (m *GoCVMedia) OpenSource(path string, backend port.DecodeBackend) (port.VideoSource, error) {
	return nil, ErrGoCVDisabled
}

// CreateSink возвращает ошибку, если сборка без тега gocv.
func (m *GoCVMedia) CreateSink(path string, spec port.SinkSpec) (port.VideoSink, error) {
	return nil, ErrGoCVDisabled
}

// LoadImage возвращает ошибку, если сборка без тега gocv.
func (m *GoCVMedia) LoadImage(path string) (port.Frame, error) {
	return nil, ErrGoCVDisabled
}

type DNNDetector struct {
	InputSize     int
	ConfThreshold float64
	IOUThreshold  float64
	Names         yolo.ClassNames
}

// NewDNNDetector возвращает ошибку, если сборка без тега gocv.
func NewDNNDetector(modelPath string, names yolo.ClassNames, inputSize int, conf, iou float64) (*DNNDetector, error) {
	return nil, ErrGoCVDisabled
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *DNNDetector) Detect(ctx context.Context, frame port.Frame) ([]entity.Detection, error) {
	return nil, ErrGoCVDisabled
}

func (d *DNNDetector) Close() error {
	return nil
}

var (
	_ port.MediaFactory = (*GoCVMedia)(nil)
	_ port.Detector     = (*DNNDetector)(nil)
)
