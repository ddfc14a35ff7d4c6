// file: internal/handlers/api/v1/applications/applications_controller.go
package applications

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/githubscientist/jp-backend/internal/contextutils"
	"github.com/githubscientist/jp-backend/internal/models"
	"github.com/githubscientist/jp-backend/internal/response"
	"github.com/githubscientist/jp-backend/internal/services"
	"github.com/githubscientist/jp-backend/internal/storage"
)

const maxApplyFormSize = 10 << 20

type ApplicationController struct {
	services *services.ServiceCollection
	storage  storage.FileStorage
	logger   *zap.Logger
	builder  *response.Builder
}

// NewApplicationController creates a new application controller
func NewApplicationController(services *services.ServiceCollection, storage storage.FileStorage, logger *zap.Logger, builder *response.Builder) *ApplicationController {
	return &ApplicationController{
		services: services,
		storage:  storage,
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

func statusFilter(r *http.Request) models.ApplicationFilter {
	filter := models.ApplicationFilter{}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}
	return filter
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

// Apply handles POST /api/applications/{jobId}/apply. The payload is
// either JSON (using the stored profile resume) or multipart with an
// uploaded resume file.
func (c *ApplicationController) Apply(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "jobId")
	if err != nil {
		c.builder.Error(w, r, services.NewValidationError("invalid job id", err))
		return
	}

	req := services.ApplyRequest{JobID: jobID}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxApplyFormSize); err != nil {
			c.builder.Error(w, r, services.NewValidationError("invalid multipart form", err))
			return
		}
		req.CoverLetter = r.FormValue("coverLetter")

		if file, header, err := r.FormFile("resume"); err == nil {
			defer file.Close()
			stored, err := c.storage.UploadFile(r.Context(), header, storage.KindResume)
			if err != nil {
				c.builder.Error(w, r, services.NewValidationError(err.Error(), err))
				return
			}
			req.Resume = stored.URL
		}
	} else if r.ContentLength > 0 {
		var body struct {
			CoverLetter string `json:"coverLetter"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			c.builder.Error(w, r, services.NewValidationError("invalid request body", err))
			return
		}
		req.CoverLetter = body.CoverLetter
	}

	app, err := c.services.Application.Apply(r.Context(), contextutils.GetUser(r.Context()), &req)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Created(w, r, "application submitted", response.Envelope{"application": app})
}

// MyApplications handles GET /api/applications/my-applications
func (c *ApplicationController) MyApplications(w http.ResponseWriter, r *http.Request) {
	page := pagination(r)
	result, err := c.services.Application.MyApplications(r.Context(), contextutils.GetUser(r.Context()), statusFilter(r), page)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.List(w, r, "applications", result.Items, page, result.Total, nil)
}

// ListForJob handles GET /api/applications/job/{jobId}
func (c *ApplicationController) ListForJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "jobId")
	if err != nil {
		c.builder.Error(w, r, services.NewValidationError("invalid job id", err))
		return
	}

	page := pagination(r)
	result, err := c.services.Application.ListForJob(r.Context(), contextutils.GetUser(r.Context()), jobID, statusFilter(r), page)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.List(w, r, "applications", result.Items, page, result.Total, nil)
}

// Get handles GET /api/applications/{id}
func (c *ApplicationController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		c.builder.Error(w, r, services.NewValidationError("invalid application id", err))
		return
	}

	app, err := c.services.Application.Get(r.Context(), contextutils.GetUser(r.Context()), id)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, response.Envelope{"application": app})
}

// UpdateStatus handles PUT /api/applications/{id}/status
func (c *ApplicationController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		c.builder.Error(w, r, services.NewValidationError("invalid application id", err))
		return
	}

	var req services.UpdateApplicationStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	app, err := c.services.Application.UpdateStatus(r.Context(), contextutils.GetUser(r.Context()), id, &req)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.SuccessMessage(w, r, "application status updated", response.Envelope{"application": app})
}

// Withdraw handles DELETE /api/applications/{id}/withdraw
func (c *ApplicationController) Withdraw(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		c.builder.Error(w, r, services.NewValidationError("invalid application id", err))
		return
	}

	if err := c.services.Application.Withdraw(r.Context(), contextutils.GetUser(r.Context()), id); err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.SuccessMessage(w, r, "application withdrawn", nil)
}
