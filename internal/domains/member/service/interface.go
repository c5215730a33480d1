package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/member/model"
	"library-backend/internal/shared"
)

// Service is the member account business logic
type Service interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	Refresh(ctx context.Context, req model.RefreshRequest) (*model.AuthResponse, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*model.Member, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (*model.Member, error)
	UploadImage(ctx context.Context, id uuid.UUID, data []byte, contentType string) (string, error)
	List(ctx context.Context, page shared.PageRequest) ([]*model.Member, int, error)
}

// ImageStorage is the slice of object storage profile images need
type ImageStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
