package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"library-backend/internal/domains/member/model"
	"library-backend/internal/domains/member/repository"
	"library-backend/internal/shared"
	"library-backend/pkg/jwt"
)

const bcryptCost = 12

// memberService implements Service
type memberService struct {
	repo    repository.Repository
	jwt     *jwt.Manager
	storage ImageStorage
}

// NewMemberService wires the member account service. storage may be nil
// in deployments without object storage; image uploads then fail cleanly.
func NewMemberService(repo repository.Repository, jwtManager *jwt.Manager, storage ImageStorage) Service {
	return &memberService{repo: repo, jwt: jwtManager, storage: storage}
}

func (s *memberService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, model.ErrEmailAlreadyExists
	} else if !errors.Is(err, model.ErrMemberNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	member := &model.Member{
		ID:           uuid.New(),
		FullName:     req.FullName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         shared.RoleUser,
		Credit:       decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, member); err != nil {
		return nil, err
	}

	log.Info().Str("member_id", member.ID.String()).Msg("member registered")
	return s.issueTokens(member)
}

func (s *memberService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	member, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrMemberNotFound) {
			// Same error for unknown email and wrong password
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return s.issueTokens(member)
}

func (s *memberService) Refresh(ctx context.Context, req model.RefreshRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	claims, err := s.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	memberID, err := uuid.Parse(claims.MemberID)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	member, err := s.repo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(member)
}

func (s *memberService) GetProfile(ctx context.Context, id uuid.UUID) (*model.Member, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *memberService) UpdateProfile(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (*model.Member, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	member.FullName = req.FullName
	if req.ImageURL != nil {
		member.ImageURL = req.ImageURL
	}
	if err := s.repo.Update(ctx, member); err != nil {
		return nil, err
	}

	return member, nil
}

func (s *memberService) UploadImage(ctx context.Context, id uuid.UUID, data []byte, contentType string) (string, error) {
	if s.storage == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	key := "members/" + id.String() + "/profile.jpg"
	url, err := s.storage.Upload(ctx, key, data, contentType)
	if err != nil {
		return "", err
	}

	member.ImageURL = &url
	if err := s.repo.Update(ctx, member); err != nil {
		return "", err
	}

	log.Info().Str("member_id", id.String()).Msg("profile image updated")
	return url, nil
}

func (s *memberService) List(ctx context.Context, page shared.PageRequest) ([]*model.Member, int, error) {
	return s.repo.List(ctx, page)
}

func (s *memberService) issueTokens(member *model.Member) (*model.AuthResponse, error) {
	// The hash stays inside the service even though json:"-" already
	// hides it on the wire
	member.PasswordHash = ""

	access, err := s.jwt.GenerateAccessToken(member.ID.String(), member.Email, member.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, err := s.jwt.GenerateRefreshToken(member.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &model.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Member:       member,
	}, nil
}
