package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"library-backend/internal/domains/member/model"
	"library-backend/internal/domains/member/service"
	"library-backend/internal/shared"
	"library-backend/internal/shared/response"
)

// MemberHandler exposes accounts and auth over HTTP
type MemberHandler struct {
	service service.Service
}

func NewMemberHandler(service service.Service) *MemberHandler {
	return &MemberHandler{service: service}
}

// Register POST /auth/register
func (h *MemberHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	auth, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, auth)
}

// Login POST /auth/login
func (h *MemberHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	auth, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, auth)
}

// Refresh POST /auth/refresh
func (h *MemberHandler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	auth, err := h.service.Refresh(c.Request.Context(), req)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, auth)
}

// GetProfile GET /members/me
func (h *MemberHandler) GetProfile(c *gin.Context) {
	actor, ok := shared.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	member, err := h.service.GetProfile(c.Request.Context(), actor.MemberID)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, member)
}

// UpdateProfile PUT /members/me
func (h *MemberHandler) UpdateProfile(c *gin.Context) {
	actor, ok := shared.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.service.UpdateProfile(c.Request.Context(), actor.MemberID, req)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, member)
}

// UploadImage POST /members/me/image (multipart field "image")
func (h *MemberHandler) UploadImage(c *gin.Context) {
	actor, ok := shared.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		response.BadRequest(c, "Missing image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, "Could not read image file")
		return
	}

	url, err := h.service.UploadImage(c.Request.Context(), actor.MemberID, data, header.Header.Get("Content-Type"))
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"image_url": url})
}

// ListMembers GET /admin/members?page=&limit=
func (h *MemberHandler) ListMembers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	members, total, err := h.service.List(c.Request.Context(), shared.PageRequest{Page: page, Limit: limit})
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, members, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *MemberHandler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrMemberNotFound):
		response.NotFound(c, "Member not found")
	case errors.Is(err, model.ErrEmailAlreadyExists):
		response.Conflict(c, "A member with this email already exists")
	case errors.Is(err, model.ErrInvalidCredentials):
		response.Unauthorized(c, "Invalid email or password")
	default:
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", verrs)
			return
		}
		response.InternalServerError(c, "Something went wrong")
	}
}
