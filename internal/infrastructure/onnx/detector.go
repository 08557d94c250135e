package onnx

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	ort "github.com/yalue/onnxruntime_go"

	"pcb-vision/internal/domain/entity"
	"pcb-vision/internal/domain/port"
	"pcb-vision/internal/infrastructure/yolo"
)

// Config параметры детектора на ONNX Runtime.
type Config struct {
	ModelPath     string
	LibraryPath   string
	InputSize     int
	Names         yolo.ClassNames
	ConfThreshold float64
	IOUThreshold  float64
}

// Detector запускает YOLOv8 через ONNX Runtime.
type Detector struct {
	cfg     Config
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

// NewDetector инициализирует окружение ONNX Runtime и сессию модели.
func NewDetector(cfg Config) (*Detector, error) {
	if len(cfg.Names) == 0 {
		return nil, errors.New("class names are required")
	}
	if cfg.LibraryPath != "" {
		ort.SetSharedLibraryPath(cfg.LibraryPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("create session options: %w", err)
	}
	defer options.Destroy()
	options.SetIntraOpNumThreads(runtime.NumCPU())

	size := int64(cfg.InputSize)
	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, size, size))
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}

	// Для входа 640 у YOLOv8 8400 якорей: (80² + 40² + 20²).
	anchors := anchorCount(cfg.InputSize)
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(4+len(cfg.Names)), int64(anchors)))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		cfg.ModelPath,
		[]string{"images"},
		[]string{"output0"},
		[]ort.ArbitraryTensor{input},
		[]ort.ArbitraryTensor{output},
		options,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &Detector{cfg: cfg, session: session, input: input, output: output}, nil
}

// Detect прогоняет кадр через модель.
func (d *Detector) Detect(ctx context.Context, frame port.Frame) ([]entity.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := frame.Image()
	if err != nil {
		return nil, fmt.Errorf("frame to image: %w", err)
	}
	if err := yolo.Preprocess(img, d.cfg.InputSize, d.cfg.InputSize, d.input.GetData()); err != nil {
		return nil, fmt.Errorf("prepare input: %w", err)
	}
	if err := d.session.Run(); err != nil {
		return nil, fmt.Errorf("model inference: %w", err)
	}

	dets, err := yolo.Decode(d.output.GetData(), yolo.DecodeOptions{
		NumClasses:    len(d.cfg.Names),
		InputWidth:    d.cfg.InputSize,
		InputHeight:   d.cfg.InputSize,
		FrameWidth:    frame.Width(),
		FrameHeight:   frame.Height(),
		ConfThreshold: d.cfg.ConfThreshold,
		Names:         d.cfg.Names,
	})
	if err != nil {
		return nil, err
	}

	return yolo.NMS(dets, d.cfg.IOUThreshold), nil
}

// Close освобождает сессию и тензоры.
func (d *Detector) Close() error {
	if d.session != nil {
		d.session.Destroy()
	}
	if d.input != nil {
		d.input.Destroy()
	}
	if d.output != nil {
		d.output.Destroy()
	}
	return nil
}

func anchorCount(inputSize int) int {
	total := 0
	for _, stride := range []int{8, 16, 32} {
		side := inputSize / stride
		total += side * side
	}
	return total
}

var _ port.Detector = (*Detector)(nil)
