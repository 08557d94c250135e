package container

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"pcb-vision/config"
	"pcb-vision/internal/domain/entity"
	"pcb-vision/internal/domain/port"
)

type nopDetector struct{ closed bool }

func (d *nopDetector) Detect(ctx context.Context, frame port.Frame) ([]entity.Detection, error) {
	return nil, nil
}

func (d *nopDetector) Close() error {
	d.closed = true
	return nil
}

type brokenMedia struct{}

func (brokenMedia) OpenSource(string, port.DecodeBackend) (port.VideoSource, error) {
	return nil, errors.New("no video")
}

func (brokenMedia) CreateSink(string, port.SinkSpec) (port.VideoSink, error) {
	return nil, errors.New("no video")
}

func (brokenMedia) LoadImage(string) (port.Frame, error) {
	return nil, errors.New("no image")
}

func testConfig() *config.Config {
	return &config.Config{
		ModelPath:    "best.onnx",
		InputVideo:   "in.mp4",
		OutputVideo:  "out.mp4",
		OutputFourCC: "mp4v",
		TargetWidth:  1280,
		TargetHeight: 720,
		DefaultFPS:   30,
		Backend:      "dnn",
	}
}

func TestNew_WiresServices(t *testing.T) {
	log, _ := test.NewNullLogger()
	det := &nopDetector{}

	c := New(testConfig(), brokenMedia{}, det, nil, log)
	require.NotNil(t, c.InspectionService)
	require.NotNil(t, c.Pipeline)
	require.NotNil(t, c.Defects)

	require.NoError(t, c.Close())
	require.True(t, det.closed)
}

func TestNew_ValidationConfigured(t *testing.T) {
	log, _ := test.NewNullLogger()
	cfg := testConfig()
	cfg.ValidationData = "missing/data.yaml"

	c := New(cfg, brokenMedia{}, &nopDetector{}, nil, log)
	m := c.MetricsService.Collect(context.Background(), "absent.onnx")
	require.False(t, m.MAP50.Present())
	require.Error(t, m.ValidationErr)
	require.NotContains(t, m.ValidationErr.Error(), "not configured")
}

func TestNewDetector_UnknownBackend(t *testing.T) {
	cfg := testConfig()
	cfg.Backend = "tflite"

	_, err := NewDetector(cfg, []string{"a"})
	require.ErrorContains(t, err, "unknown detector backend")
}

func TestBuild_MissingModelIsReportedBeforeLoading(t *testing.T) {
	log, hook := test.NewNullLogger()
	cfg := testConfig()
	cfg.ModelPath = filepath.Join(t.TempDir(), "absent.onnx")
	cfg.ClassNames = []string{"Missing_Hole"}

	c, err := Build(cfg, log)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.InspectionService.Run(context.Background(), cfg.ModelPath)
	require.Error(t, err)

	var critical bool
	for _, e := range hook.AllEntries() {
		if strings.Contains(e.Message, "CRITICAL: Model not found at "+cfg.ModelPath) {
			critical = true
		}
	}
	require.True(t, critical)
}

func TestLazyDetector_LoadsOnceOnFirstDetect(t *testing.T) {
	calls := 0
	inner := &nopDetector{}
	d := newLazyDetector(func() (port.Detector, error) {
		calls++
		return inner, nil
	})

	require.NoError(t, d.Close())
	require.Zero(t, calls)

	_, err := d.Detect(context.Background(), nil)
	require.NoError(t, err)
	_, err = d.Detect(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	require.NoError(t, d.Close())
	require.True(t, inner.closed)
}

func TestLazyDetector_LoadErrorRepeats(t *testing.T) {
	calls := 0
	d := newLazyDetector(func() (port.Detector, error) {
		calls++
		return nil, errors.New("failed to load model")
	})

	_, err := d.Detect(context.Background(), nil)
	require.ErrorContains(t, err, "failed to load model")
	_, err = d.Detect(context.Background(), nil)
	require.ErrorContains(t, err, "failed to load model")
	require.Equal(t, 1, calls)
	require.NoError(t, d.Close())
}
