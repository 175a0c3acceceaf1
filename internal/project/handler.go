package project

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/redmonkez12/visionise-api/internal/auth"
	"github.com/redmonkez12/visionise-api/internal/httputil"
	"github.com/redmonkez12/visionise-api/internal/logging"
	"github.com/redmonkez12/visionise-api/internal/user"
)

// Handler contains HTTP handlers for project endpoints. Every route sits
// behind auth.Middleware.RequireAuth.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateRequest represents the project creation body
type CreateRequest struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	ManagementMethod string `json:"managementMethod"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
}

// CreateResponse carries the new project's id
type CreateResponse struct {
	ID string `json:"_id"`
}

// AddMemberRequest names the user to add
type AddMemberRequest struct {
	Email string `json:"email"`
}

// List returns the caller's projects
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array}  Project
// @Failure      401 {object} httputil.ErrorResponse
// @Router       /api/projects [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	id, _ := auth.IdentityFromContext(r.Context())

	projects, err := h.service.List(r.Context(), id.UserID)
	if err != nil {
		logger.Error("list projects failed", "error", err.Error())
		internalError(w)
		return
	}

	httputil.RespondJSON(w, projects, http.StatusOK)
}

// Create stores a project owned by the caller
// @Summary      Create project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateRequest true "Project"
// @Success      201 {object} CreateResponse
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Router       /api/projects [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	id, _ := auth.IdentityFromContext(r.Context())

	var req CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), id.UserID, CreateInput(req))
	if err != nil {
		if respondValidation(w, err) {
			return
		}
		logger.Error("create project failed", "error", err.Error())
		internalError(w)
		return
	}

	logger.Info("project created", "project_id", created.ID, "owner_id", id.UserID)
	httputil.RespondJSON(w, CreateResponse{ID: created.ID}, http.StatusCreated)
}

// Get returns one project
// @Summary      Get project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Project id"
// @Success      200 {object} Project
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /api/projects/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	p, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "Project not found", httputil.CodeProjectNotFound, http.StatusNotFound)
			return
		}
		logger.Error("get project failed", "error", err.Error())
		internalError(w)
		return
	}

	httputil.RespondJSON(w, p, http.StatusOK)
}

// Update changes the fields present in the body. The response body is
// null when no project has this id.
// @Summary      Update project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string true "Project id"
// @Param        request body Update true "Fields to change"
// @Success      200 {object} Project
// @Failure      400 {object} httputil.ErrorResponse
// @Router       /api/projects/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var upd Update
	if err := httputil.DecodeJSON(r, &upd); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	projectID := chi.URLParam(r, "id")
	p, err := h.service.Update(r.Context(), projectID, upd)
	if err != nil {
		if respondValidation(w, err) {
			return
		}
		logger.Error("update project failed", "project_id", projectID, "error", err.Error())
		internalError(w)
		return
	}

	httputil.RespondJSON(w, p, http.StatusOK)
}

// Delete removes a project and its tasks
// @Summary      Delete project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Project id"
// @Success      200 {object} httputil.OKResponse
// @Router       /api/projects/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	projectID := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), projectID); err != nil {
		logger.Error("delete project failed", "project_id", projectID, "error", err.Error())
		internalError(w)
		return
	}

	httputil.RespondOK(w)
}

// AddMember adds a registered user to the project
// @Summary      Add member
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string true "Project id"
// @Param        request body AddMemberRequest true "Member email"
// @Success      200 {object} httputil.OKResponse
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /api/projects/{id}/members [post]
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req AddMemberRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	projectID := chi.URLParam(r, "id")
	if err := h.service.AddMember(r.Context(), projectID, req.Email); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			httputil.RespondErrorWithCode(w, "User not found", httputil.CodeUserNotFound, http.StatusNotFound)
			return
		}
		logger.Error("add member failed", "project_id", projectID, "error", err.Error())
		internalError(w)
		return
	}

	httputil.RespondOK(w)
}

// RemoveMember drops a member id from the project
// @Summary      Remove member
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id  path string true "Project id"
// @Param        mid path string true "Member user id"
// @Success      200 {object} httputil.OKResponse
// @Router       /api/projects/{id}/members/{mid} [delete]
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	projectID := chi.URLParam(r, "id")
	if err := h.service.RemoveMember(r.Context(), projectID, chi.URLParam(r, "mid")); err != nil {
		logger.Error("remove member failed", "project_id", projectID, "error", err.Error())
		internalError(w)
		return
	}

	httputil.RespondOK(w)
}

func respondValidation(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, ErrTitleRequired):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeTitleRequired, http.StatusBadRequest)
	case errors.Is(err, ErrInvalidManagementMethod):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeInvalidManagementMethod, http.StatusBadRequest)
	default:
		return false
	}
	return true
}

func internalError(w http.ResponseWriter) {
	httputil.RespondErrorWithCode(w, "internal server error", httputil.CodeInternalError, http.StatusInternalServerError)
}
