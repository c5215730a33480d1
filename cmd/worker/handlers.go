package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path"

	"github.com/hibiken/asynq"

	"library-backend/internal/infrastructure/storage"
	"library-backend/internal/shared"
	"library-backend/pkg/container"
)

// handlerRegistry holds every task handler the worker serves
type handlerRegistry struct {
	storage *storage.MinIOStorage
	images  *storage.ImageProcessor
}

func newHandlerRegistry(c *container.Container) *handlerRegistry {
	return &handlerRegistry{
		storage: c.Storage,
		images:  c.Images,
	}
}

func (h *handlerRegistry) register(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeProcessBookCover, h.handleProcessBookCover)
}

// handleProcessBookCover downloads the original cover upload, renders
// the resized variants and stores them next to the original.
func (h *handlerRegistry) handleProcessBookCover(ctx context.Context, task *asynq.Task) error {
	if h.storage == nil {
		return fmt.Errorf("object storage is not configured: %w", asynq.SkipRetry)
	}

	var payload shared.ProcessCoverPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal cover payload: %w: %w", err, asynq.SkipRetry)
	}

	log.Printf("[Asynq] Processing cover for book %s", payload.BookID)

	original, err := h.storage.Download(ctx, payload.ObjectKey)
	if err != nil {
		return fmt.Errorf("download original cover: %w", err)
	}

	variants, err := h.images.ProcessImage(original)
	if err != nil {
		// A broken image never becomes valid on retry
		return fmt.Errorf("process cover image: %w: %w", err, asynq.SkipRetry)
	}

	prefix := path.Dir(payload.ObjectKey)
	for name, data := range variants {
		key := fmt.Sprintf("%s/%s.jpg", prefix, name)
		if _, err := h.storage.Upload(ctx, key, data, "image/jpeg"); err != nil {
			return fmt.Errorf("upload %s variant: %w", name, err)
		}
	}

	log.Printf("[Asynq] ✓ Cover variants stored for book %s", payload.BookID)
	return nil
}
