package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"pcb-vision/internal/domain/entity"
	"pcb-vision/internal/domain/port"
)

// ErrNoValidator валидационная выборка не настроена.
var ErrNoValidator = errors.New("validator is not configured")

// MetricsService собирает сведения о модели перед запуском инференса.
type MetricsService struct {
	validator port.Validator
	log       logrus.FieldLogger
	stat      func(string) (os.FileInfo, error)
}

// NewMetricsService создаёт сервис метрик. validator может быть nil.
func NewMetricsService(validator port.Validator, log logrus.FieldLogger) *MetricsService {
	return &MetricsService{validator: validator, log: log, stat: os.Stat}
}

// Collect никогда не возвращает ошибку: отсутствующие метрики помечаются как пустые.
func (s *MetricsService) Collect(ctx context.Context, modelPath string) entity.ModelMetrics {
	var m entity.ModelMetrics

	if info, err := s.stat(modelPath); err == nil && !info.IsDir() {
		sizeMB := float64(info.Size()) / (1024 * 1024)
		m.SizeMB = entity.Some(sizeMB)
		s.log.Infof("Model Size: %.2f MB", sizeMB)
	} else {
		s.log.Errorf("CRITICAL: Model not found at %s", modelPath)
	}

	mAP, err := s.validate(ctx)
	if err != nil {
		m.ValidationErr = err
		s.log.WithError(err).Info("Validation metrics skipped.")
		return m
	}
	m.MAP50 = entity.Some(mAP)
	s.log.Infof("Model mAP@50: %.4f", mAP)

	return m
}

func (s *MetricsService) validate(ctx context.Context) (mAP float64, err error) {
	if s.validator == nil {
		return 0, ErrNoValidator
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("validation panicked: %v", r)
		}
	}()
	return s.validator.Validate(ctx)
}
