package entity

// DefectRecord фиксирует позиционный дефект, найденный на кадре.
type DefectRecord struct {
	RunID      string
	Frame      int
	Label      string
	X          int // координата X центра дефекта
	Y          int // координата Y центра дефекта
	Severity   Severity
	Confidence float64
}

// NewDefectRecord строит запись по детекции и её оценке.
func NewDefectRecord(runID string, frame int, d Detection, severity Severity) DefectRecord {
	x, y := d.Box.Center()
	return DefectRecord{
		RunID:      runID,
		Frame:      frame,
		Label:      d.Label,
		X:          x,
		Y:          y,
		Severity:   severity,
		Confidence: d.Confidence,
	}
}
