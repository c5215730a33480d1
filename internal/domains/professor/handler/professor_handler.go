package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"library-backend/internal/domains/professor/model"
	"library-backend/internal/domains/professor/service"
	"library-backend/internal/infrastructure/scheduling"
	"library-backend/internal/shared"
	"library-backend/internal/shared/response"
)

// ProfessorHandler exposes the professor directory over HTTP
type ProfessorHandler struct {
	service service.Service
}

func NewProfessorHandler(service service.Service) *ProfessorHandler {
	return &ProfessorHandler{service: service}
}

// ListProfessors GET /professors?page=&limit=
func (h *ProfessorHandler) ListProfessors(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	professors, total, err := h.service.List(c.Request.Context(), shared.PageRequest{Page: page, Limit: limit})
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, professors, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// GetProfessor GET /professors/:id
func (h *ProfessorHandler) GetProfessor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid professor ID")
		return
	}

	professor, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, professor)
}

// GetAppointments GET /professors/:id/appointments
func (h *ProfessorHandler) GetAppointments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid professor ID")
		return
	}

	events, err := h.service.Appointments(c.Request.Context(), id)
	if err != nil {
		h.mapError(c, err)
		return
	}

	if events == nil {
		events = []scheduling.Event{}
	}

	response.Success(c, http.StatusOK, events)
}

// CreateProfessor POST /admin/professors
func (h *ProfessorHandler) CreateProfessor(c *gin.Context) {
	var req model.CreateProfessorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	professor, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, professor)
}

// UpdateProfessor PUT /admin/professors/:id
func (h *ProfessorHandler) UpdateProfessor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid professor ID")
		return
	}

	var req model.UpdateProfessorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	professor, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, professor)
}

// DeleteProfessor DELETE /admin/professors/:id
func (h *ProfessorHandler) DeleteProfessor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid professor ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *ProfessorHandler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrProfessorNotFound):
		response.NotFound(c, "Professor not found")
	case errors.Is(err, model.ErrEmailAlreadyExists):
		response.Conflict(c, "A professor with this email already exists")
	case errors.Is(err, scheduling.ErrUpstreamUnavailable):
		response.BadGateway(c, "Scheduling provider is unavailable")
	default:
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", verrs)
			return
		}
		response.InternalServerError(c, "Something went wrong")
	}
}
