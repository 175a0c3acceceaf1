package task

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/redmonkez12/visionise-api/internal/httputil"
	"github.com/redmonkez12/visionise-api/internal/logging"
)

// Handler contains HTTP handlers for task endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateRequest represents the task creation body
type CreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Progress    Progress `json:"progress"`
	Priority    string   `json:"priority"`
	Type        string   `json:"type"`
	Assignee    string   `json:"assignee"`
	Responsable string   `json:"responsable"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
}

// List returns the tasks of a project
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Project id"
// @Success      200 {array} Task
// @Router       /api/projects/{id}/tasks [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	tasks, err := h.service.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		logger.Error("list tasks failed", "error", err.Error())
		internalError(w)
		return
	}

	httputil.RespondJSON(w, tasks, http.StatusOK)
}

// Create adds a task to a project
// @Summary      Create task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string        true "Project id"
// @Param        request body CreateRequest true "Task"
// @Success      201 {object} Task
// @Failure      400 {object} httputil.ErrorResponse
// @Router       /api/projects/{id}/tasks [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	projectID := chi.URLParam(r, "id")
	created, err := h.service.Create(r.Context(), projectID, Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Progress:    req.Progress,
		Priority:    req.Priority,
		Type:        req.Type,
		Assignee:    req.Assignee,
		Responsable: req.Responsable,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		if respondValidation(w, err) {
			return
		}
		logger.Error("create task failed", "project_id", projectID, "error", err.Error())
		internalError(w)
		return
	}

	logger.Info("task created", "task_id", created.ID, "project_id", projectID)
	httputil.RespondJSON(w, created, http.StatusCreated)
}

// Update changes the fields present in the body. The response body is
// null when no task has this id.
// @Summary      Update task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string true "Task id"
// @Param        request body Update true "Fields to change"
// @Success      200 {object} Task
// @Router       /api/tasks/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var upd Update
	if err := httputil.DecodeJSON(r, &upd); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	taskID := chi.URLParam(r, "id")
	t, err := h.service.Update(r.Context(), taskID, upd)
	if err != nil {
		if respondValidation(w, err) {
			return
		}
		logger.Error("update task failed", "task_id", taskID, "error", err.Error())
		internalError(w)
		return
	}

	httputil.RespondJSON(w, t, http.StatusOK)
}

// Delete removes a task
// @Summary      Delete task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Task id"
// @Success      200 {object} httputil.OKResponse
// @Router       /api/tasks/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	taskID := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), taskID); err != nil {
		logger.Error("delete task failed", "task_id", taskID, "error", err.Error())
		internalError(w)
		return
	}

	httputil.RespondOK(w)
}

func respondValidation(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, ErrTitleRequired):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeTitleRequired, http.StatusBadRequest)
	case errors.Is(err, ErrProgressOutOfRange):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeInvalidProgress, http.StatusBadRequest)
	default:
		return false
	}
	return true
}

func internalError(w http.ResponseWriter) {
	httputil.RespondErrorWithCode(w, "internal server error", httputil.CodeInternalError, http.StatusInternalServerError)
}
