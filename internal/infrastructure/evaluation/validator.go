package evaluation

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"pcb-vision/internal/domain/port"
	"pcb-vision/internal/infrastructure/yolo"
)

// DatasetValidator прогоняет детектор по валидационной выборке из data.yaml.
type DatasetValidator struct {
	dataPath string
	media    port.MediaFactory
	detector port.Detector
	log      logrus.FieldLogger
}

// NewDatasetValidator создаёт валидатор для data.yaml по пути dataPath.
func NewDatasetValidator(dataPath string, media port.MediaFactory, detector port.Detector, log logrus.FieldLogger) *DatasetValidator {
	return &DatasetValidator{dataPath: dataPath, media: media, detector: detector, log: log}
}

// Validate возвращает mAP@50 на выборке val.
func (v *DatasetValidator) Validate(ctx context.Context) (float64, error) {
	data, err := yolo.LoadDataConfig(v.dataPath)
	if err != nil {
		return 0, err
	}
	if data.Val == "" {
		return 0, errors.New("data config has no val split")
	}

	samples, err := ListSamples(data.Resolve(data.Val))
	if err != nil {
		return 0, err
	}
	if len(samples) == 0 {
		return 0, errors.New("validation split is empty")
	}

	results := make([]ImageResult, 0, len(samples))
	for _, s := range samples {
		res, err := v.evaluate(ctx, s)
		if err != nil {
			return 0, err
		}
		results = append(results, res)
	}
	v.log.WithField("images", len(samples)).Debug("validation finished")

	return MAP50(results)
}

func (v *DatasetValidator) evaluate(ctx context.Context, s Sample) (ImageResult, error) {
	frame, err := v.media.LoadImage(s.ImagePath)
	if err != nil {
		return ImageResult{}, err
	}
	defer frame.Close()

	truth, err := LoadLabels(s.LabelPath, frame.Width(), frame.Height())
	if err != nil {
		return ImageResult{}, err
	}
	preds, err := v.detector.Detect(ctx, frame)
	if err != nil {
		return ImageResult{}, fmt.Errorf("detect %s: %w", s.ImagePath, err)
	}

	return ImageResult{Predictions: preds, Truth: truth}, nil
}

var _ port.Validator = (*DatasetValidator)(nil)
