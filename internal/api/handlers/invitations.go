package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/textloom/textloom/internal/api/middleware"
	"github.com/textloom/textloom/internal/members"
	"github.com/textloom/textloom/internal/metrics"
)

// InvitationsHandler handles invitation HTTP requests.
type InvitationsHandler struct {
	service *members.Service
	logger  *slog.Logger
}

// NewInvitationsHandler creates a new invitations handler.
func NewInvitationsHandler(svc *members.Service, logger *slog.Logger) *InvitationsHandler {
	return &InvitationsHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateInvitationRequest represents the request body for creating an invitation.
type CreateInvitationRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Create handles POST /v1/projects/{projectID}/invitations.
func (h *InvitationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	projectID := chi.URLParam(r, "projectID")

	var req CreateInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	if req.Email == "" {
		WriteBadRequest(w, "email is required")
		return
	}
	if req.Role == "" {
		WriteBadRequest(w, "role is required")
		return
	}

	invitation, err := h.service.Invite(r.Context(), userID, projectID, req.Email, req.Role)
	if err != nil {
		WriteMembersError(w, err)
		return
	}

	metrics.InvitationsCreated.Inc()
	WriteJSON(w, http.StatusCreated, invitation)
}

// ListForGuest handles GET /v1/invitations - the acting user's own invitations.
func (h *InvitationsHandler) ListForGuest(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	invitations, err := h.service.ListInvitationsForGuest(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list invitations", "error", err, "user_id", userID)
		WriteInternalError(w, "failed to list invitations")
		return
	}

	WriteJSON(w, http.StatusOK, invitations)
}

// Accept handles POST /v1/invitations/{invitationID}/accept.
func (h *InvitationsHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	invitationID := chi.URLParam(r, "invitationID")

	if err := h.service.Accept(r.Context(), userID, invitationID); err != nil {
		WriteMembersError(w, err)
		return
	}

	metrics.InvitationsResolved.WithLabelValues("accepted").Inc()
	WriteJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

// Decline handles POST /v1/invitations/{invitationID}/decline.
func (h *InvitationsHandler) Decline(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	invitationID := chi.URLParam(r, "invitationID")

	if err := h.service.Decline(r.Context(), userID, invitationID); err != nil {
		WriteMembersError(w, err)
		return
	}

	metrics.InvitationsResolved.WithLabelValues("declined").Inc()
	WriteJSON(w, http.StatusOK, map[string]string{"status": "declined"})
}

// Withdraw handles DELETE /v1/projects/{projectID}/invitations/{invitationID}.
func (h *InvitationsHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	projectID := chi.URLParam(r, "projectID")
	invitationID := chi.URLParam(r, "invitationID")

	if err := h.service.Withdraw(r.Context(), userID, projectID, invitationID); err != nil {
		WriteMembersError(w, err)
		return
	}

	metrics.InvitationsResolved.WithLabelValues("withdrawn").Inc()
	WriteJSON(w, http.StatusOK, map[string]string{"status": "withdrawn"})
}
