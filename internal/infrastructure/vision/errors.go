package vision

import "errors"

var (
	// ErrGoCVDisabled возвращается, если сборка без тега gocv.
	ErrGoCVDisabled = errors.New("gocv build tag is not enabled")
	// ErrOpenSource источник видео не открылся.
	ErrOpenSource = errors.New("failed to open video source")
	// ErrEmptyImage изображение не декодировалось.
	ErrEmptyImage = errors.New("empty image")
)
