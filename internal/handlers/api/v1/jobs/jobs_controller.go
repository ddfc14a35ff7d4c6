// file: internal/handlers/api/v1/jobs/jobs_controller.go
package jobs

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

type JobController struct {
	services *services.ServiceCollection
	logger   *zap.Logger
	builder  *response.Builder
}

// NewJobController creates a new job controller
func NewJobController(services *services.ServiceCollection, logger *zap.Logger, builder *response.Builder) *JobController {
	return &JobController{
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

// List handles GET /api/jobs
func (c *JobController) List(w http.ResponseWriter, r *http.Request) {
	filter := models.JobFilter{
		Location:        queryString(r, "location"),
		JobType:         queryString(r, "jobType"),
		Category:        queryString(r, "category"),
		ExperienceLevel: queryString(r, "experienceLevel"),
		SortOrder:       "desc",
	}

	if v, err := strconv.ParseInt(r.URL.Query().Get("minSalary"), 10, 64); err == nil {
		filter.MinSalary = &v
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("maxSalary"), 10, 64); err == nil {
		filter.MaxSalary = &v
	}
	if remoteStr := r.URL.Query().Get("isRemote"); remoteStr != "" {
		if remote, err := strconv.ParseBool(remoteStr); err == nil {
			filter.Remote = &remote
		}
	}
	// sortBy takes field:order, e.g. "views:asc".
	if sortBy := r.URL.Query().Get("sortBy"); sortBy != "" {
		field, order := sortBy, ""
		for i := range sortBy {
			if sortBy[i] == ':' {
				field, order = sortBy[:i], sortBy[i+1:]
				break
			}
		}
		filter.SortBy = field
		if order == "asc" {
			filter.SortOrder = "asc"
		}
	}

	page := pagination(r)
	result, err := c.services.Job.List(r.Context(), filter, page)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.List(w, r, "jobs", result.Items, page, result.Total, nil)
}

// Search handles GET /api/jobs/search
func (c *JobController) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	page := pagination(r)

	result, err := c.services.Job.Search(r.Context(), query, queryString(r, "location"), page)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.List(w, r, "jobs", result.Items, page, result.Total, response.Envelope{"query": query})
}

// Stats handles GET /api/jobs/stats
func (c *JobController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.services.Job.Stats(r.Context())
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, response.Envelope{"stats": stats})
}

// Get handles GET /api/jobs/{id}
func (c *JobController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		c.builder.Error(w, r, services.NewValidationError("invalid job id", err))
		return
	}

	job, err := c.services.Job.Get(r.Context(), id, contextutils.GetUser(r.Context()))
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, response.Envelope{"job": job})
}

// Create handles POST /api/jobs
func (c *JobController) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	job, err := c.services.Job.Create(r.Context(), contextutils.GetUser(r.Context()), &req)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Created(w, r, "job created", response.Envelope{"job": job})
}

// Update handles PUT /api/jobs/{id}
func (c *JobController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		c.builder.Error(w, r, services.NewValidationError("invalid job id", err))
		return
	}

	var req services.UpdateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	job, err := c.services.Job.Update(r.Context(), contextutils.GetUser(r.Context()), id, &req)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.SuccessMessage(w, r, "job updated", response.Envelope{"job": job})
}

// Delete handles DELETE /api/jobs/{id}
func (c *JobController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		c.builder.Error(w, r, services.NewValidationError("invalid job id", err))
		return
	}

	if err := c.services.Job.Delete(r.Context(), contextutils.GetUser(r.Context()), id); err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.SuccessMessage(w, r, "job deleted", nil)
}

// MyJobs handles GET /api/jobs/employer/my-jobs
func (c *JobController) MyJobs(w http.ResponseWriter, r *http.Request) {
	page := pagination(r)
	result, err := c.services.Job.MyJobs(r.Context(), contextutils.GetUser(r.Context()), page)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.List(w, r, "jobs", result.Items, page, result.Total, nil)
}
