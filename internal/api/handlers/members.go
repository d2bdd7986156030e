package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/textloom/textloom/internal/api/middleware"
	"github.com/textloom/textloom/internal/members"
)

// MembersHandler handles project member HTTP requests.
type MembersHandler struct {
	service *members.Service
	logger  *slog.Logger
}

// NewMembersHandler creates a new members handler.
func NewMembersHandler(svc *members.Service, logger *slog.Logger) *MembersHandler {
	return &MembersHandler{
		service: svc,
		logger:  logger,
	}
}

// List handles GET /v1/projects/{projectID}/members - the merged view of
// approved members and pending invitations.
func (h *MembersHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	projectID := chi.URLParam(r, "projectID")

	views, err := h.service.ListMembers(r.Context(), userID, projectID)
	if err != nil {
		WriteMembersError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, views)
}

// UpdateRoleRequest represents the request body for changing a member's role.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateRole handles PATCH /v1/projects/{projectID}/members/{userID}.
func (h *MembersHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actingUserID := middleware.GetUserID(r.Context())
	projectID := chi.URLParam(r, "projectID")
	targetUserID := chi.URLParam(r, "userID")

	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	if req.Role == "" {
		WriteBadRequest(w, "role is required")
		return
	}

	if err := h.service.UpdateRole(r.Context(), actingUserID, projectID, targetUserID, req.Role); err != nil {
		WriteMembersError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Remove handles DELETE /v1/projects/{projectID}/members/{userID}.
func (h *MembersHandler) Remove(w http.ResponseWriter, r *http.Request) {
	actingUserID := middleware.GetUserID(r.Context())
	projectID := chi.URLParam(r, "projectID")
	targetUserID := chi.URLParam(r, "userID")

	if err := h.service.RemoveMember(r.Context(), actingUserID, projectID, targetUserID); err != nil {
		WriteMembersError(w, err)
		return
	}

	WriteJSON(w, http.StatusNoContent, nil)
}
