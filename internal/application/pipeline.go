package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pcb-vision/internal/domain/entity"
	"pcb-vision/internal/domain/port"
)

var (
	// ErrSourceUnavailable источник не открылся ни одним бэкендом.
	ErrSourceUnavailable = errors.New("video source is unavailable")
	// ErrSinkUnavailable выходное видео не удалось создать.
	ErrSinkUnavailable = errors.New("video sink is unavailable")
	// ErrPipelineClosed повторный запуск отработавшего конвейера.
	ErrPipelineClosed = errors.New("pipeline is closed")
)

// PipelineConfig параметры видеоконвейера.
type PipelineConfig struct {
	InputPath  string
	OutputPath string
	FourCC     string
	Width      int
	Height     int
	DefaultFPS int
}

// VideoPipeline читает видео, прогоняет кадры через детектор и пишет аннотированный результат.
type VideoPipeline struct {
	cfg       PipelineConfig
	media     port.MediaFactory
	detector  port.Detector
	annotator *FrameAnnotator
	defects   port.DefectRepository
	log       logrus.FieldLogger

	now   func() time.Time
	newID func() string
	state entity.PipelineState
}

// NewVideoPipeline собирает конвейер. defects может быть nil.
func NewVideoPipeline(cfg PipelineConfig, media port.MediaFactory, detector port.Detector, defects port.DefectRepository, log logrus.FieldLogger) *VideoPipeline {
	return &VideoPipeline{
		cfg:       cfg,
		media:     media,
		detector:  detector,
		annotator: NewFrameAnnotator(log, defects),
		defects:   defects,
		log:       log,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// State возвращает текущую фазу конвейера.
func (p *VideoPipeline) State() entity.PipelineState {
	return p.state
}

// Run обрабатывает видео целиком. Конвейер одноразовый: OPEN -> STREAMING -> CLOSED.
func (p *VideoPipeline) Run(ctx context.Context) (summary *entity.RunSummary, err error) {
	if p.state != "" {
		return nil, ErrPipelineClosed
	}
	p.state = entity.StateOpen
	defer func() { p.state = entity.StateClosed }()

	started := p.now()
	summary = &entity.RunSummary{
		RunID:      p.newID(),
		OutputPath: p.cfg.OutputPath,
		Width:      p.cfg.Width,
		Height:     p.cfg.Height,
	}
	log := p.log.WithField("run_id", summary.RunID)

	src, err := p.openSource(log)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			log.WithError(cerr).Warn("failed to release video source")
		}
	}()

	summary.FPS = outputFPS(src.FPS(), p.cfg.DefaultFPS)
	sink, err := p.media.CreateSink(p.cfg.OutputPath, port.SinkSpec{
		FourCC: p.cfg.FourCC,
		FPS:    float64(summary.FPS),
		Width:  p.cfg.Width,
		Height: p.cfg.Height,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSinkUnavailable, err)
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("release video sink: %w", cerr)
		}
	}()

	log.Infof("Starting Video Inference... Output: %dx%d", p.cfg.Width, p.cfg.Height)

	p.state = entity.StateStreaming
	fc := entity.NewFrameContext(p.now())
	for {
		frame, rerr := src.Read()
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return nil, fmt.Errorf("read frame %d: %w", fc.Index+1, rerr)
		}
		summary.FramesIn++

		if err := p.processFrame(ctx, summary.RunID, fc, frame, sink); err != nil {
			return nil, err
		}
		summary.FramesOut++
	}

	if p.defects != nil {
		counts, cerr := p.defects.CountBySeverity(ctx, summary.RunID)
		if cerr != nil {
			return nil, fmt.Errorf("count defects: %w", cerr)
		}
		summary.Defects = counts

		records, lerr := p.defects.List(ctx, summary.RunID)
		if lerr != nil {
			return nil, fmt.Errorf("list defects: %w", lerr)
		}
		summary.Records = records
	}
	summary.Duration = p.now().Sub(started)

	return summary, nil
}

// openSource открывает источник, при неудаче повторяет попытку через FFmpeg.
func (p *VideoPipeline) openSource(log logrus.FieldLogger) (port.VideoSource, error) {
	src, err := p.media.OpenSource(p.cfg.InputPath, port.BackendAuto)
	if err == nil {
		return src, nil
	}
	log.WithError(err).Warn("default decoder failed, retrying with ffmpeg")

	src, ferr := p.media.OpenSource(p.cfg.InputPath, port.BackendFFmpeg)
	if ferr != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, p.cfg.InputPath, ferr)
	}
	return src, nil
}

// processFrame обрабатывает один кадр; любая ошибка прерывает прогон.
func (p *VideoPipeline) processFrame(ctx context.Context, runID string, fc *entity.FrameContext, frame port.Frame, sink port.VideoSink) error {
	defer frame.Close()

	if err := frame.Resize(p.cfg.Width, p.cfg.Height); err != nil {
		return fmt.Errorf("resize frame %d: %w", fc.Index+1, err)
	}
	index := fc.Advance()

	detections, err := p.detector.Detect(ctx, frame)
	if err != nil {
		return fmt.Errorf("detect frame %d: %w", index, err)
	}
	for _, d := range detections {
		if _, err := p.annotator.Annotate(ctx, frame, runID, index, d); err != nil {
			return fmt.Errorf("annotate frame %d: %w", index, err)
		}
	}

	fc.Tick(p.now())
	p.annotator.DrawFPS(frame, fc.FPS())

	if err := sink.Write(frame); err != nil {
		return fmt.Errorf("write frame %d: %w", index, err)
	}
	return nil
}

// outputFPS отбрасывает дробную часть частоты источника; нулевая заменяется значением по умолчанию.
func outputFPS(sourceFPS float64, fallback int) int {
	fps := int(sourceFPS)
	if fps <= 0 {
		return fallback
	}
	return fps
}
