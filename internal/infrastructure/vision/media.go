//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"io"

	"gocv.io/x/gocv"

	"pcb-vision/internal/domain/port"
)

// GoCVMedia открывает видео и изображения через OpenCV.
type GoCVMedia struct{}

// NewGoCVMedia создаёт фабрику медиа на OpenCV.
func NewGoCVMedia() *GoCVMedia {
	return &GoCVMedia{}
}

// OpenSource открывает видеофайл с выбранным бэкендом декодирования.
func (m *GoCVMedia) OpenSource(path string, backend port.DecodeBackend) (port.VideoSource, error) {
	var (
		vc  *gocv.VideoCapture
		err error
	)
	switch backend {
	case port.BackendFFmpeg:
		vc, err = gocv.OpenVideoCaptureWithAPI(path, gocv.VideoCaptureFFmpeg)
	default:
		vc, err = gocv.OpenVideoCapture(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s (%s): %v", ErrOpenSource, path, backend, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("%w: %s (%s)", ErrOpenSource, path, backend)
	}
	return &captureSource{vc: vc}, nil
}

// CreateSink создаёт файл выходного видео.
func (m *GoCVMedia) CreateSink(path string, spec port.SinkSpec) (port.VideoSink, error) {
	vw, err := gocv.VideoWriterFile(path, spec.FourCC, spec.FPS, spec.Width, spec.Height, true)
	if err != nil {
		return nil, fmt.Errorf("create video writer %s: %w", path, err)
	}
	if !vw.IsOpened() {
		vw.Close()
		return nil, fmt.Errorf("video writer %s is not opened", path)
	}
	return &writerSink{vw: vw}, nil
}

// LoadImage читает изображение с диска в BGR.
func (m *GoCVMedia) LoadImage(path string) (port.Frame, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("%w: %s", ErrEmptyImage, path)
	}
	return NewMatFrame(mat), nil
}

type captureSource struct {
	vc *gocv.VideoCapture
}

// Read возвращает io.EOF, когда кадры закончились.
func (s *captureSource) Read() (port.Frame, error) {
	mat := gocv.NewMat()
	if ok := s.vc.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, io.EOF
	}
	return NewMatFrame(mat), nil
}

func (s *captureSource) FPS() float64 {
	return s.vc.Get(gocv.VideoCaptureFPS)
}

func (s *captureSource) Close() error {
	return s.vc.Close()
}

type writerSink struct {
	vw *gocv.VideoWriter
}

func (s *writerSink) Write(frame port.Frame) error {
	mf, ok := frame.(*MatFrame)
	if !ok {
		return fmt.Errorf("unsupported frame type %T", frame)
	}
	return s.vw.Write(mf.Mat())
}

func (s *writerSink) Close() error {
	return s.vw.Close()
}

var _ port.MediaFactory = (*GoCVMedia)(nil)
