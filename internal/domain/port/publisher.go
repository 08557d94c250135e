package port

import (
	"context"

	"pcb-vision/internal/domain/entity"
)

// Publisher доставляет готовое видео получателю
type Publisher interface {
	Publish(ctx context.Context, summary *entity.RunSummary) error
}
