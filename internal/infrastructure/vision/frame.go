//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"pcb-vision/internal/domain/port"
)

// MatFrame кадр поверх gocv.Mat (BGR).
type MatFrame struct {
	mat gocv.Mat
}

// NewMatFrame оборачивает mat; кадр становится владельцем матрицы.
func NewMatFrame(mat gocv.Mat) *MatFrame {
	return &MatFrame{mat: mat}
}

// Mat возвращает матрицу кадра.
func (f *MatFrame) Mat() gocv.Mat { return f.mat }

func (f *MatFrame) Width() int  { return f.mat.Cols() }
func (f *MatFrame) Height() int { return f.mat.Rows() }

// Resize приводит кадр к целевому размеру.
func (f *MatFrame) Resize(width, height int) error {
	if f.mat.Empty() {
		return ErrEmptyImage
	}
	if f.mat.Cols() == width && f.mat.Rows() == height {
		return nil
	}
	resized := gocv.NewMat()
	gocv.Resize(f.mat, &resized, image.Pt(width, height), 0, 0, gocv.InterpolationLinear)
	if resized.Empty() {
		resized.Close()
		return errors.New("resize produced empty frame")
	}
	f.mat.Close()
	f.mat = resized
	return nil
}

func (f *MatFrame) Image() (image.Image, error) {
	return f.mat.ToImage()
}

func (f *MatFrame) Rectangle(r image.Rectangle, c color.RGBA, thickness int) {
	gocv.Rectangle(&f.mat, r, c, thickness)
}

func (f *MatFrame) Circle(center image.Point, radius int, c color.RGBA, thickness int) {
	gocv.Circle(&f.mat, center, radius, c, thickness)
}

func (f *MatFrame) PutText(text string, org image.Point, style port.TextStyle) {
	if style.AntiAlias {
		gocv.PutTextWithParams(&f.mat, text, org, gocv.FontHersheySimplex, style.Scale, style.Color, style.Thickness, gocv.LineAA, false)
		return
	}
	gocv.PutText(&f.mat, text, org, gocv.FontHersheySimplex, style.Scale, style.Color, style.Thickness)
}

func (f *MatFrame) TextSize(text string, scale float64, thickness int) image.Point {
	return gocv.GetTextSize(text, gocv.FontHersheySimplex, scale, thickness)
}

func (f *MatFrame) Close() error {
	return f.mat.Close()
}

var _ port.Frame = (*MatFrame)(nil)
