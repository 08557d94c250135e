package entity

// Box прямоугольник детекции в пиксельных координатах кадра (X1<X2, Y1<Y2).
type Box struct {
	X1 int
	Y1 int
	X2 int
	Y2 int
}

// Width возвращает ширину прямоугольника.
func (b Box) Width() int { return b.X2 - b.X1 }

// Height возвращает высоту прямоугольника.
func (b Box) Height() int { return b.Y2 - b.Y1 }

// Area возвращает площадь прямоугольника.
func (b Box) Area() int {
	if b.X2 <= b.X1 || b.Y2 <= b.Y1 {
		return 0
	}
	return b.Width() * b.Height()
}

// Center возвращает целочисленный центр прямоугольника.
func (b Box) Center() (x, y int) {
	return (b.X1 + b.X2) / 2, (b.Y1 + b.Y2) / 2
}

// IoU считает пересечение над объединением двух прямоугольников.
func (b Box) IoU(o Box) float64 {
	inter := Box{
		X1: max(b.X1, o.X1),
		Y1: max(b.Y1, o.Y1),
		X2: min(b.X2, o.X2),
		Y2: min(b.Y2, o.Y2),
	}.Area()
	if inter == 0 {
		return 0
	}
	union := b.Area() + o.Area() - inter
	if union <= 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Detection один объект, найденный детектором на кадре.
type Detection struct {
	Box        Box
	ClassID    int
	Label      string
	Confidence float64 // 0..1
}
