package services

import (
	"context"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/usecase"
)

// BufferBridge hands failed invalidations from the task service to the processor.
type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

// BufferInvalidation journals prefix even if the request that produced it
// has already timed out.
func (b *BufferBridge) BufferInvalidation(ctx context.Context, prefix string) error {
	if b == nil || b.processor == nil || prefix == "" {
		return domain.ErrInvalidPayload
	}
	return b.processor.BufferInvalidation(context.WithoutCancel(ctx), prefix)
}

var _ usecase.InvalidationBuffer = (*BufferBridge)(nil)
