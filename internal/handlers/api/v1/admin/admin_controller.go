// file: internal/handlers/api/v1/admin/admin_controller.go
package admin

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/githubscientist/jp-backend/internal/contextutils"
	"github.com/githubscientist/jp-backend/internal/models"
	"github.com/githubscientist/jp-backend/internal/response"
	"github.com/githubscientist/jp-backend/internal/services"
)

type AdminController struct {
	services *services.ServiceCollection
	logger   *zap.Logger
	builder  *response.Builder
}

// NewAdminController creates a new admin controller
func NewAdminController(services *services.ServiceCollection, logger *zap.Logger, builder *response.Builder) *AdminController {
	return &AdminController{
		services: services,
		logger:   logger,
		builder:  builder,
	}
}

func pagination(r *http.Request) models.Pagination {
	page := models.Pagination{}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		page.Page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		page.Limit = v
	}
	page.Normalize()
	return page
}

func queryString(r *http.Request, name string) *string {
	if v := r.URL.Query().Get(name); v != "" {
		return &v
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

// ListUsers handles GET /api/admin/users
func (c *AdminController) ListUsers(w http.ResponseWriter, r *http.Request) {
	filter := models.UserFilter{
		Role:   queryString(r, "role"),
		Search: queryString(r, "search"),
	}
	if activeStr := r.URL.Query().Get("isActive"); activeStr != "" {
		if active, err := strconv.ParseBool(activeStr); err == nil {
			filter.IsActive = &active
		}
	}

	page := pagination(r)
	result, err := c.services.Admin.ListUsers(r.Context(), filter, page)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.List(w, r, "users", result.Items, page, result.Total, nil)
}

// GetUser handles GET /api/admin/users/{id}
func (c *AdminController) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		c.builder.Error(w, r, services.NewValidationError("invalid user id", err))
		return
	}

	user, activity, err := c.services.Admin.GetUser(r.Context(), id)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, response.Envelope{"user": user, "activity": activity})
}

// UpdateRole handles PUT /api/admin/users/{id}/role
func (c *AdminController) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		c.builder.Error(w, r, services.NewValidationError("invalid user id", err))
		return
	}

	var req services.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	user, err := c.services.Admin.UpdateRole(r.Context(), id, req.Role)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.SuccessMessage(w, r, "user role updated", response.Envelope{"user": user})
}

// Deactivate handles PUT /api/admin/users/{id}/deactivate
func (c *AdminController) Deactivate(w http.ResponseWriter, r *http.Request) {
	c.setActive(w, r, false, "user deactivated")
}

// Activate handles PUT /api/admin/users/{id}/activate
func (c *AdminController) Activate(w http.ResponseWriter, r *http.Request) {
	c.setActive(w, r, true, "user activated")
}

func (c *AdminController) setActive(w http.ResponseWriter, r *http.Request, active bool, message string) {
	id, err := pathID(r, "id")
	if err != nil {
		c.builder.Error(w, r, services.NewValidationError("invalid user id", err))
		return
	}

	user, err := c.services.Admin.SetUserActive(r.Context(), id, active)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.SuccessMessage(w, r, message, response.Envelope{"user": user})
}

// DeleteUser handles DELETE /api/admin/users/{id}
func (c *AdminController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		c.builder.Error(w, r, services.NewValidationError("invalid user id", err))
		return
	}

	if err := c.services.Admin.DeleteUser(r.Context(), contextutils.GetUser(r.Context()), id); err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.SuccessMessage(w, r, "user deleted", nil)
}

// ListJobs handles GET /api/admin/jobs
func (c *AdminController) ListJobs(w http.ResponseWriter, r *http.Request) {
	filter := models.AdminJobFilter{
		Status: queryString(r, "status"),
		Search: queryString(r, "search"),
	}

	page := pagination(r)
	result, err := c.services.Admin.ListJobs(r.Context(), filter, page)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.List(w, r, "jobs", result.Items, page, result.Total, nil)
}

// ListApplications handles GET /api/admin/applications
func (c *AdminController) ListApplications(w http.ResponseWriter, r *http.Request) {
	filter := models.ApplicationFilter{
		Status: queryString(r, "status"),
	}

	page := pagination(r)
	result, err := c.services.Admin.ListApplications(r.Context(), filter, page)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.List(w, r, "applications", result.Items, page, result.Total, nil)
}

// Stats handles GET /api/admin/stats
func (c *AdminController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.services.Admin.Stats(r.Context())
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, response.Envelope{"stats": stats})
}
