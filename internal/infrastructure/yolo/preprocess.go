package yolo

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Preprocess растягивает изображение до размера входа сети и раскладывает его
// в dst как NCHW RGB, нормированный в [0, 1].
func Preprocess(img image.Image, width, height int, dst []float32) error {
	channelSize := width * height
	if len(dst) < channelSize*3 {
		return fmt.Errorf("input buffer too small: %d < %d", len(dst), channelSize*3)
	}

	resized := imaging.Resize(img, width, height, imaging.Linear)
	for y := 0; y < height; y++ {
		offset := y * width
		for x := 0; x < width; x++ {
			i := offset + x
			p := resized.Pix[y*resized.Stride+x*4 : y*resized.Stride+x*4+3]
			dst[i] = float32(p[0]) / 255.0
			dst[channelSize+i] = float32(p[1]) / 255.0
			dst[channelSize*2+i] = float32(p[2]) / 255.0
		}
	}

	return nil
}
