package app

import (
	"context"

	"github.com/sirupsen/logrus"

	"pcb-vision/internal/domain/entity"
	"pcb-vision/internal/domain/port"
)

// InspectionService проводит полный прогон: метрики модели, обработка видео, доставка результата.
type InspectionService struct {
	metrics   *MetricsService
	pipeline  *VideoPipeline
	publisher port.Publisher
	log       logrus.FieldLogger
}

// InspectionOutput содержит метрики модели и итог обработки видео.
type InspectionOutput struct {
	Metrics entity.ModelMetrics
	Summary *entity.RunSummary
}

// NewInspectionService создаёт сервис. publisher может быть nil.
func NewInspectionService(metrics *MetricsService, pipeline *VideoPipeline, publisher port.Publisher, log logrus.FieldLogger) *InspectionService {
	return &InspectionService{
		metrics:   metrics,
		pipeline:  pipeline,
		publisher: publisher,
		log:       log,
	}
}

// Run выполняет прогон. Ошибка доставки не считается ошибкой прогона.
func (s *InspectionService) Run(ctx context.Context, modelPath string) (*InspectionOutput, error) {
	out := &InspectionOutput{
		Metrics: s.metrics.Collect(ctx, modelPath),
	}

	summary, err := s.pipeline.Run(ctx)
	if err != nil {
		return out, err
	}
	out.Summary = summary

	s.log.WithFields(logrus.Fields{
		"frames":  summary.FramesOut,
		"defects": summary.TotalDefects(),
	}).Infof("Processing Complete! File saved to: %s", summary.OutputPath)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, summary); err != nil {
			s.log.WithError(err).Warn("failed to deliver output video")
		}
	}

	return out, nil
}
