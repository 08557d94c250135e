package container

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"pcb-vision/config"
	telegram "pcb-vision/internal/api"
	app "pcb-vision/internal/application"
	"pcb-vision/internal/domain/port"
	"pcb-vision/internal/infrastructure/evaluation"
	"pcb-vision/internal/infrastructure/onnx"
	"pcb-vision/internal/infrastructure/storage"
	"pcb-vision/internal/infrastructure/vision"
	"pcb-vision/internal/infrastructure/yolo"
)

type Container struct {
	Defects           port.DefectRepository
	MetricsService    *app.MetricsService
	Pipeline          *app.VideoPipeline
	InspectionService *app.InspectionService

	detector port.Detector
}

// New собирает сервисы приложения из готовых адаптеров. publisher может быть nil.
func New(cfg *config.Config, media port.MediaFactory, detector port.Detector, publisher port.Publisher, log logrus.FieldLogger) *Container {
	defects := storage.NewMemoryDefectRepository()

	var validator port.Validator
	if cfg.ValidationData != "" {
		validator = evaluation.NewDatasetValidator(cfg.ValidationData, media, detector, log)
	}

	metrics := app.NewMetricsService(validator, log)
	pipeline := app.NewVideoPipeline(app.PipelineConfig{
		InputPath:  cfg.InputVideo,
		OutputPath: cfg.OutputVideo,
		FourCC:     cfg.OutputFourCC,
		Width:      cfg.TargetWidth,
		Height:     cfg.TargetHeight,
		DefaultFPS: cfg.DefaultFPS,
	}, media, detector, defects, log)

	return &Container{
		Defects:           defects,
		MetricsService:    metrics,
		Pipeline:          pipeline,
		InspectionService: app.NewInspectionService(metrics, pipeline, publisher, log),
		detector:          detector,
	}
}

// Build создаёт адаптеры по конфигурации и собирает контейнер.
func Build(cfg *config.Config, log logrus.FieldLogger) (*Container, error) {
	names, err := yolo.LoadClassNames(cfg.ClassNamesFile, cfg.ClassNames)
	if err != nil {
		return nil, fmt.Errorf("load class names: %w", err)
	}

	// Модель загружается при первом кадре: сначала отрабатывает проверка модели в MetricsService.
	detector := newLazyDetector(func() (port.Detector, error) {
		det, err := NewDetector(cfg, names)
		if err != nil {
			return nil, fmt.Errorf("create %s detector: %w", cfg.Backend, err)
		}
		return det, nil
	})

	var publisher port.Publisher
	if cfg.PublishEnabled() {
		bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID, log)
		if err != nil {
			// Доставка необязательна: работаем без неё.
			log.WithError(err).Warn("telegram is unavailable, delivery disabled")
		} else {
			publisher = bot
		}
	}

	return New(cfg, vision.NewGoCVMedia(), detector, publisher, log), nil
}

// NewDetector выбирает бэкенд детектора.
func NewDetector(cfg *config.Config, names yolo.ClassNames) (port.Detector, error) {
	switch cfg.Backend {
	case "onnx":
		return onnx.NewDetector(onnx.Config{
			ModelPath:     cfg.ModelPath,
			LibraryPath:   cfg.OnnxRuntimeLib,
			InputSize:     cfg.InputSize,
			Names:         names,
			ConfThreshold: cfg.ConfThreshold,
			IOUThreshold:  cfg.IOUThreshold,
		})
	case "dnn", "":
		return vision.NewDNNDetector(cfg.ModelPath, names, cfg.InputSize, cfg.ConfThreshold, cfg.IOUThreshold)
	default:
		return nil, fmt.Errorf("unknown detector backend %q", cfg.Backend)
	}
}

// Close освобождает модель.
func (c *Container) Close() error {
	if c.detector == nil {
		return nil
	}
	return c.detector.Close()
}
