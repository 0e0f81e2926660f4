package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/omega-events/omega-backend/internal/domain"
	"github.com/omega-events/omega-backend/internal/service"
	"github.com/omega-events/omega-backend/pkg/httputil"
	"github.com/omega-events/omega-backend/pkg/middleware"
	"github.com/omega-events/omega-backend/pkg/validator"
)

// AdminHandler exposes the admin user management endpoints. Unlike the refund
// endpoints these use the standard response envelope.
type AdminHandler struct {
	admin  *service.AdminService
	logger *slog.Logger
}

func NewAdminHandler(admin *service.AdminService, l *slog.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, logger: l}
}

// authorize runs the two-tier admin check for the authenticated caller.
func (h *AdminHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	userID := middleware.UserIDFromContext(r.Context())
	email := middleware.EmailFromContext(r.Context())

	if err := h.admin.Authorize(r.Context(), userID, email); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return false
	}
	return true
}

// ListUsers handles GET /api/v1/admin/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	users, total, err := h.admin.ListUsers(r.Context(), page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(users, total, page, perPage))
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=customer staff admin"`
}

// UpdateUserRole handles PUT /api/v1/admin/users/{id}/role.
func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	userID := chi.URLParam(r, "id")

	var req updateRoleRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	profile, err := h.admin.SetUserRole(r.Context(), userID, domain.Role(req.Role))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: profile})
}
