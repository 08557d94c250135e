package port

import "context"

// Validator считает mAP@50 модели на валидационной выборке
type Validator interface {
	Validate(ctx context.Context) (float64, error)
}
