package port

import (
	"image"
	"image/color"
)

// DecodeBackend бэкенд декодирования видео.
type DecodeBackend int

const (
	BackendAuto   DecodeBackend = iota // выбор OpenCV по умолчанию
	BackendFFmpeg                      // явный FFmpeg
)

func (b DecodeBackend) String() string {
	switch b {
	case BackendFFmpeg:
		return "ffmpeg"
	default:
		return "auto"
	}
}

// TextStyle параметры отрисовки текста.
type TextStyle struct {
	Scale     float64
	Color     color.RGBA
	Thickness int
	AntiAlias bool
}

// Canvas поверхность для рисования аннотаций. Толщина -1 означает заливку.
type Canvas interface {
	Rectangle(r image.Rectangle, c color.RGBA, thickness int)
	Circle(center image.Point, radius int, c color.RGBA, thickness int)
	PutText(text string, org image.Point, style TextStyle)
	// TextSize возвращает ширину и высоту текста в пикселях
	TextSize(text string, scale float64, thickness int) image.Point
}

// Frame кадр видео в формате BGR.
type Frame interface {
	Canvas

	Width() int
	Height() int

	// Resize приводит кадр к заданному размеру на месте
	Resize(width, height int) error

	// Image возвращает копию кадра как image.Image (RGB)
	Image() (image.Image, error)

	Close() error
}

// VideoSource источник кадров. Read возвращает io.EOF по окончании потока.
type VideoSource interface {
	Read() (Frame, error)
	FPS() float64
	Close() error
}

// VideoSink приёмник аннотированных кадров.
type VideoSink interface {
	Write(frame Frame) error
	Close() error
}

// SinkSpec параметры выходного видео.
type SinkSpec struct {
	FourCC string
	FPS    float64
	Width  int
	Height int
}

// MediaFactory открывает видеофайлы и изображения.
type MediaFactory interface {
	OpenSource(path string, backend DecodeBackend) (VideoSource, error)
	CreateSink(path string, spec SinkSpec) (VideoSink, error)
	LoadImage(path string) (Frame, error)
}
