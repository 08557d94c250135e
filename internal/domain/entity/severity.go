package entity

import (
	"image/color"
	"strings"
)

// Severity грубая оценка важности детекции.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityMinor    Severity = "MINOR"
	SeverityPass     Severity = "PASS"
	SeverityDetected Severity = "DETECTED"
)

var (
	ColorRed    = color.RGBA{R: 255, A: 255}
	ColorYellow = color.RGBA{R: 255, G: 255, A: 255}
	ColorGreen  = color.RGBA{G: 255, A: 255}
	ColorWhite  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	ColorBlack  = color.RGBA{A: 255}
)

// SeverityResult оценка детекции и цвет её отрисовки.
type SeverityResult struct {
	Severity Severity
	Color    color.RGBA
}

type severityRule struct {
	keywords []string
	result   SeverityResult
}

// Порядок правил важен: срабатывает первое совпадение.
var severityRules = []severityRule{
	{keywords: []string{"missing", "deep"}, result: SeverityResult{SeverityCritical, ColorRed}},
	{keywords: []string{"scratched", "discolored"}, result: SeverityResult{SeverityMinor, ColorYellow}},
	{keywords: []string{"clk", "mcu", "usb"}, result: SeverityResult{SeverityPass, ColorGreen}},
}

var positionalKeywords = []string{"scratched", "missing", "discolored"}

// AssessSeverity оценивает детекцию по имени класса.
// confidence принимается, но пока не влияет на результат.
func AssessSeverity(label string, confidence float64) SeverityResult {
	_ = confidence
	lower := strings.ToLower(label)
	for _, rule := range severityRules {
		if containsAny(lower, rule.keywords) {
			return rule.result
		}
	}
	return SeverityResult{SeverityDetected, ColorWhite}
}

// IsPositionalDefect сообщает, нужно ли показывать координаты дефекта.
func IsPositionalDefect(label string) bool {
	return containsAny(strings.ToLower(label), positionalKeywords)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
