package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/textloom/textloom/internal/api/middleware"
	"github.com/textloom/textloom/internal/members"
	"github.com/textloom/textloom/internal/models"
	"github.com/textloom/textloom/internal/store"
)

// ProjectsHandler handles project HTTP requests.
type ProjectsHandler struct {
	store   store.Store
	service *members.Service
	logger  *slog.Logger
}

// NewProjectsHandler creates a new projects handler.
func NewProjectsHandler(st store.Store, svc *members.Service, logger *slog.Logger) *ProjectsHandler {
	return &ProjectsHandler{
		store:   st,
		service: svc,
		logger:  logger,
	}
}

// ProjectRequest represents the request body for creating or updating a project.
type ProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create handles POST /v1/projects. The creator becomes the project's
// Owner in the same transaction that creates the project.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}

	project := &models.Project{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := project.Validate(); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	err := h.store.WithTx(r.Context(), func(tx store.Store) error {
		if err := tx.Projects().Create(r.Context(), project); err != nil {
			return err
		}
		return tx.Memberships().Create(r.Context(), &models.Membership{
			UserID:    userID,
			ProjectID: project.ID,
			Role:      models.RoleOwner,
		})
	})
	if err != nil {
		h.logger.Error("failed to create project", "error", err, "user_id", userID)
		WriteInternalError(w, "failed to create project")
		return
	}

	WriteJSON(w, http.StatusCreated, project)
}

// List handles GET /v1/projects - lists the acting user's projects.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	projects, err := h.store.Projects().ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list projects", "error", err, "user_id", userID)
		WriteInternalError(w, "failed to list projects")
		return
	}

	WriteJSON(w, http.StatusOK, projects)
}

// Get handles GET /v1/projects/{projectID}.
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	projectID := chi.URLParam(r, "projectID")

	if _, err := h.service.Policy().RequireMembership(r.Context(), userID, projectID); err != nil {
		WriteMembersError(w, err)
		return
	}

	project, err := h.store.Projects().Get(r.Context(), projectID)
	if err != nil {
		h.logger.Error("failed to get project", "error", err, "project_id", projectID)
		WriteInternalError(w, "failed to get project")
		return
	}

	WriteJSON(w, http.StatusOK, project)
}

// Update handles PATCH /v1/projects/{projectID} - Owner only.
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	projectID := chi.URLParam(r, "projectID")

	membership, err := h.service.Policy().RequireMembership(r.Context(), userID, projectID)
	if err != nil {
		WriteMembersError(w, err)
		return
	}
	if membership.Role != models.RoleOwner {
		WriteForbidden(w, "only the project owner may update the project")
		return
	}

	var req ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}

	project := &models.Project{
		ID:          projectID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := project.Validate(); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	if err := h.store.Projects().Update(r.Context(), project); err != nil {
		h.logger.Error("failed to update project", "error", err, "project_id", projectID)
		WriteInternalError(w, "failed to update project")
		return
	}

	WriteJSON(w, http.StatusOK, project)
}

// Delete handles DELETE /v1/projects/{projectID} - Owner only. Memberships
// and invitations cascade at the database layer.
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	projectID := chi.URLParam(r, "projectID")

	membership, err := h.service.Policy().RequireMembership(r.Context(), userID, projectID)
	if err != nil {
		WriteMembersError(w, err)
		return
	}
	if membership.Role != models.RoleOwner {
		WriteForbidden(w, "only the project owner may delete the project")
		return
	}

	if err := h.store.Projects().Delete(r.Context(), projectID); err != nil {
		h.logger.Error("failed to delete project", "error", err, "project_id", projectID)
		WriteInternalError(w, "failed to delete project")
		return
	}

	WriteJSON(w, http.StatusNoContent, nil)
}
