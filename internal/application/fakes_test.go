package app

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"

	"pcb-vision/internal/domain/entity"
	"pcb-vision/internal/domain/port"
)

type drawOp struct {
	kind      string
	rect      image.Rectangle
	point     image.Point
	radius    int
	text      string
	color     color.RGBA
	thickness int
}

type fakeFrame struct {
	width, height int
	ops           []drawOp
	closed        bool
	resizeErr     error
}

func newFakeFrame(w, h int) *fakeFrame {
	return &fakeFrame{width: w, height: h}
}

func (f *fakeFrame) Rectangle(r image.Rectangle, c color.RGBA, thickness int) {
	f.ops = append(f.ops, drawOp{kind: "rect", rect: r, color: c, thickness: thickness})
}

func (f *fakeFrame) Circle(center image.Point, radius int, c color.RGBA, thickness int) {
	f.ops = append(f.ops, drawOp{kind: "circle", point: center, radius: radius, color: c, thickness: thickness})
}

func (f *fakeFrame) PutText(text string, org image.Point, style port.TextStyle) {
	f.ops = append(f.ops, drawOp{kind: "text", point: org, text: text, color: style.Color, thickness: style.Thickness})
}

// TextSize приближает шрифт Hershey: 10 пикселей на символ.
func (f *fakeFrame) TextSize(text string, scale float64, thickness int) image.Point {
	return image.Pt(len(text)*10, 12)
}

func (f *fakeFrame) Width() int  { return f.width }
func (f *fakeFrame) Height() int { return f.height }

func (f *fakeFrame) Resize(width, height int) error {
	if f.resizeErr != nil {
		return f.resizeErr
	}
	f.width, f.height = width, height
	return nil
}

func (f *fakeFrame) Image() (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, f.width, f.height)), nil
}

func (f *fakeFrame) Close() error {
	f.closed = true
	return nil
}

func (f *fakeFrame) opsOf(kind string) []drawOp {
	var out []drawOp
	for _, op := range f.ops {
		if op.kind == kind {
			out = append(out, op)
		}
	}
	return out
}

type fakeSource struct {
	frames  []*fakeFrame
	next    int
	fps     float64
	readErr error
	closed  bool
}

func newFakeSource(n, w, h int, fps float64) *fakeSource {
	s := &fakeSource{fps: fps}
	for i := 0; i < n; i++ {
		s.frames = append(s.frames, newFakeFrame(w, h))
	}
	return s
}

func (s *fakeSource) Read() (port.Frame, error) {
	if s.next >= len(s.frames) {
		if s.readErr != nil {
			return nil, s.readErr
		}
		return nil, io.EOF
	}
	f := s.frames[s.next]
	s.next++
	return f, nil
}

func (s *fakeSource) FPS() float64 { return s.fps }

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

type fakeSink struct {
	written  []*fakeFrame
	sizes    []image.Point
	writeErr error
	closed   bool
}

func (s *fakeSink) Write(frame port.Frame) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	ff := frame.(*fakeFrame)
	s.written = append(s.written, ff)
	s.sizes = append(s.sizes, image.Pt(ff.Width(), ff.Height()))
	return nil
}

func (s *fakeSink) Close() error {
	s.closed = true
	return nil
}

type fakeMedia struct {
	source   *fakeSource
	sink     *fakeSink
	openErr  map[port.DecodeBackend]error
	sinkErr  error
	tried    []port.DecodeBackend
	sinkSpec port.SinkSpec
}

func (m *fakeMedia) OpenSource(path string, backend port.DecodeBackend) (port.VideoSource, error) {
	m.tried = append(m.tried, backend)
	if err := m.openErr[backend]; err != nil {
		return nil, err
	}
	return m.source, nil
}

func (m *fakeMedia) CreateSink(path string, spec port.SinkSpec) (port.VideoSink, error) {
	m.sinkSpec = spec
	if m.sinkErr != nil {
		return nil, m.sinkErr
	}
	return m.sink, nil
}

func (m *fakeMedia) LoadImage(path string) (port.Frame, error) {
	return nil, errors.New("not supported")
}

type fakeDetector struct {
	// byFrame детекции по номеру вызова (с 1)
	byFrame map[int][]entity.Detection
	calls   int
	failAt  int
	sizes   []image.Point
}

func (d *fakeDetector) Detect(ctx context.Context, frame port.Frame) ([]entity.Detection, error) {
	d.calls++
	d.sizes = append(d.sizes, image.Pt(frame.Width(), frame.Height()))
	if d.failAt != 0 && d.calls == d.failAt {
		return nil, errors.New("inference failed")
	}
	return d.byFrame[d.calls], nil
}

func (d *fakeDetector) Close() error { return nil }

type fakeValidator struct {
	mAP float64
	err error
}

func (v *fakeValidator) Validate(ctx context.Context) (float64, error) {
	return v.mAP, v.err
}

type fakePublisher struct {
	published []*entity.RunSummary
	err       error
}

func (p *fakePublisher) Publish(ctx context.Context, summary *entity.RunSummary) error {
	p.published = append(p.published, summary)
	return p.err
}
