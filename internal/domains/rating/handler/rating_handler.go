package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	bookmodel "library-backend/internal/domains/book/model"
	"library-backend/internal/domains/rating/model"
	"library-backend/internal/domains/rating/service"
	"library-backend/internal/shared"
	"library-backend/internal/shared/response"
)

// RatingHandler exposes ratings over HTTP
type RatingHandler struct {
	service service.Service
}

func NewRatingHandler(service service.Service) *RatingHandler {
	return &RatingHandler{service: service}
}

// Rate PUT /books/:id/rating
func (h *RatingHandler) Rate(c *gin.Context) {
	actor, ok := shared.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	var req model.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	rating, err := h.service.Rate(c.Request.Context(), actor, bookID, req)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, rating)
}

// GetMine GET /books/:id/rating/me
func (h *RatingHandler) GetMine(c *gin.Context) {
	actor, ok := shared.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	rating, err := h.service.GetMine(c.Request.Context(), actor, bookID)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, rating)
}

// ListByBook GET /books/:id/ratings?page=&limit=
func (h *RatingHandler) ListByBook(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	ratings, total, err := h.service.ListByBook(c.Request.Context(), bookID, shared.PageRequest{Page: page, Limit: limit})
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, ratings, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *RatingHandler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrRatingNotFound):
		response.NotFound(c, "Rating not found")
	case errors.Is(err, bookmodel.ErrBookNotFound):
		response.NotFound(c, "Book not found")
	default:
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", verrs)
			return
		}
		response.InternalServerError(c, "Something went wrong")
	}
}
