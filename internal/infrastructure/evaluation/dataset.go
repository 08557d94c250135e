package evaluation

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"pcb-vision/internal/domain/entity"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// Sample изображение валидационной выборки и путь к его разметке.
type Sample struct {
	ImagePath string
	LabelPath string
}

// ListSamples находит изображения в каталоге и сопоставляет им файлы разметки.
func ListSamples(imagesDir string) ([]Sample, error) {
	entries, err := os.ReadDir(imagesDir)
	if err != nil {
		return nil, fmt.Errorf("read images dir: %w", err)
	}

	samples := make([]Sample, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		img := filepath.Join(imagesDir, e.Name())
		samples = append(samples, Sample{ImagePath: img, LabelPath: LabelPath(img)})
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].ImagePath < samples[j].ImagePath })

	return samples, nil
}

// LabelPath заменяет последний каталог images на labels и расширение на .txt.
func LabelPath(imagePath string) string {
	sep := string(filepath.Separator)
	marker := sep + "images" + sep
	base := strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".txt"
	if i := strings.LastIndex(base, marker); i >= 0 {
		return base[:i] + sep + "labels" + sep + base[i+len(marker):]
	}
	return base
}

// ParseLabels читает разметку YOLO: "cls cx cy w h" или "cls x1 y1 x2 y2 ..." (полигон),
// координаты нормированы к размеру изображения.
func ParseLabels(r io.Reader, width, height int) ([]GroundTruth, error) {
	var out []GroundTruth
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 5 {
			return nil, fmt.Errorf("line %d: expected at least 5 fields, got %d", line, len(fields))
		}

		class, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: class id: %w", line, err)
		}
		values := make([]float64, len(fields)-1)
		for i, f := range fields[1:] {
			if values[i], err = strconv.ParseFloat(f, 64); err != nil {
				return nil, fmt.Errorf("line %d: value %d: %w", line, i+1, err)
			}
		}

		var x1, y1, x2, y2 float64
		if len(values) == 4 {
			cx, cy, w, h := values[0], values[1], values[2], values[3]
			x1, y1, x2, y2 = cx-w/2, cy-h/2, cx+w/2, cy+h/2
		} else {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("line %d: odd number of polygon coordinates", line)
			}
			x1, y1, x2, y2 = polygonBounds(values)
		}

		out = append(out, GroundTruth{
			ClassID: class,
			Box: entity.Box{
				X1: int(x1 * float64(width)),
				Y1: int(y1 * float64(height)),
				X2: int(x2 * float64(width)),
				Y2: int(y2 * float64(height)),
			},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func polygonBounds(points []float64) (x1, y1, x2, y2 float64) {
	x1, y1 = points[0], points[1]
	x2, y2 = x1, y1
	for i := 2; i < len(points); i += 2 {
		x1 = min(x1, points[i])
		x2 = max(x2, points[i])
		y1 = min(y1, points[i+1])
		y2 = max(y2, points[i+1])
	}
	return x1, y1, x2, y2
}

// LoadLabels читает файл разметки; отсутствие файла означает фон без объектов.
func LoadLabels(path string, width, height int) ([]GroundTruth, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open labels: %w", err)
	}
	defer f.Close()

	gts, err := ParseLabels(f, width, height)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return gts, nil
}
