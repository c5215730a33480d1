package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/professor/model"
	"library-backend/internal/domains/professor/repository"
	"library-backend/internal/infrastructure/scheduling"
	"library-backend/internal/shared"
)

// Service is the professor directory and appointment lookup logic
type Service interface {
	Create(ctx context.Context, req model.CreateProfessorRequest) (*model.Professor, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Professor, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateProfessorRequest) (*model.Professor, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, page shared.PageRequest) ([]*model.Professor, int, error)

	// Appointments lists the professor's scheduled events from the
	// scheduling provider. Provider failures surface as
	// scheduling.ErrUpstreamUnavailable; nothing is cached or retried.
	Appointments(ctx context.Context, id uuid.UUID) ([]scheduling.Event, error)
}

// Scheduler is the slice of the scheduling provider the directory needs
type Scheduler interface {
	AppointmentsByInvitee(ctx context.Context, email string) ([]scheduling.Event, error)
}

// professorService implements Service
type professorService struct {
	repo      repository.Repository
	scheduler Scheduler
}

// NewProfessorService wires the professor directory service
func NewProfessorService(repo repository.Repository, scheduler Scheduler) Service {
	return &professorService{repo: repo, scheduler: scheduler}
}

func (s *professorService) Create(ctx context.Context, req model.CreateProfessorRequest) (*model.Professor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	professor := &model.Professor{
		ID:          uuid.New(),
		FullName:    req.FullName,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Department:  req.Department,
		Bio:         req.Bio,
		CalendlyURL: req.CalendlyURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, professor); err != nil {
		return nil, err
	}

	return professor, nil
}

func (s *professorService) GetByID(ctx context.Context, id uuid.UUID) (*model.Professor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *professorService) Update(ctx context.Context, id uuid.UUID, req model.UpdateProfessorRequest) (*model.Professor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	professor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	professor.FullName = req.FullName
	professor.Department = req.Department
	professor.Bio = req.Bio
	if req.CalendlyURL != nil {
		professor.CalendlyURL = req.CalendlyURL
	}

	if err := s.repo.Update(ctx, professor); err != nil {
		return nil, err
	}

	return professor, nil
}

func (s *professorService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *professorService) List(ctx context.Context, page shared.PageRequest) ([]*model.Professor, int, error) {
	return s.repo.List(ctx, page)
}

func (s *professorService) Appointments(ctx context.Context, id uuid.UUID) ([]scheduling.Event, error) {
	professor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.scheduler.AppointmentsByInvitee(ctx, professor.Email)
}
