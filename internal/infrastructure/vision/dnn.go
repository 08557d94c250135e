//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"pcb-vision/internal/domain/entity"
	"pcb-vision/internal/domain/port"
	"pcb-vision/internal/infrastructure/yolo"
)

type DNNDetector struct {
	InputSize     int
	ConfThreshold float64
	IOUThreshold  float64
	Names         yolo.ClassNames

	net gocv.Net
}

// NewDNNDetector загружает ONNX-модель в OpenCV DNN.
func NewDNNDetector(modelPath string, names yolo.ClassNames, inputSize int, conf, iou float64) (*DNNDetector, error) {
	if len(names) == 0 {
		return nil, errors.New("class names are required")
	}
	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load model %s", modelPath)
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &DNNDetector{
		InputSize:     inputSize,
		ConfThreshold: conf,
		IOUThreshold:  iou,
		Names:         names,
		net:           net,
	}, nil
}

// Detect прогоняет кадр через сеть и возвращает детекции после NMS.
func (d *DNNDetector) Detect(ctx context.Context, frame port.Frame) ([]entity.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mf, ok := frame.(*MatFrame)
	if !ok {
		return nil, fmt.Errorf("unsupported frame type %T", frame)
	}

	// BGR -> RGB, растяжение до входа сети, нормировка 1/255.
	blob := gocv.BlobFromImage(mf.Mat(), 1.0/255.0, image.Pt(d.InputSize, d.InputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	defer out.Close()

	// Выход [1, 4+nc, anchors] приводим к двумерной матрице для доступа к данным.
	sizes := out.Size()
	if len(sizes) != 3 {
		return nil, fmt.Errorf("unexpected output shape %v", sizes)
	}
	flat := out.Reshape(1, sizes[1])
	defer flat.Close()

	data, err := flat.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read model output: %w", err)
	}

	dets, err := yolo.Decode(data, yolo.DecodeOptions{
		NumClasses:    len(d.Names),
		InputWidth:    d.InputSize,
		InputHeight:   d.InputSize,
		FrameWidth:    frame.Width(),
		FrameHeight:   frame.Height(),
		ConfThreshold: d.ConfThreshold,
		Names:         d.Names,
	})
	if err != nil {
		return nil, err
	}

	return yolo.NMS(dets, d.IOUThreshold), nil
}

func (d *DNNDetector) Close() error {
	return d.net.Close()
}

var _ port.Detector = (*DNNDetector)(nil)
