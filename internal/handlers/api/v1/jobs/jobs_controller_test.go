package jobs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/githubscientist/jp-backend/internal/contextutils"
	"github.com/githubscientist/jp-backend/internal/models"
	"github.com/githubscientist/jp-backend/internal/response"
	"github.com/githubscientist/jp-backend/internal/services"
)

// mockJobService is a simplified mock implementation for testing.
type mockJobService struct {
	listFn   func(ctx context.Context, filter models.JobFilter, page models.Pagination) (*models.Page[models.Job], error)
	searchFn func(ctx context.Context, query string, location *string, page models.Pagination) (*models.Page[models.Job], error)
	getFn    func(ctx context.Context, id int64, actingUser *models.User) (*models.Job, error)
	createFn func(ctx context.Context, actingUser *models.User, req *services.CreateJobRequest) (*models.Job, error)
}

func (m *mockJobService) List(ctx context.Context, filter models.JobFilter, page models.Pagination) (*models.Page[models.Job], error) {
	return m.listFn(ctx, filter, page)
}

func (m *mockJobService) Search(ctx context.Context, query string, location *string, page models.Pagination) (*models.Page[models.Job], error) {
	return m.searchFn(ctx, query, location, page)
}

func (m *mockJobService) Stats(ctx context.Context) (*models.JobStats, error) {
	return &models.JobStats{}, nil
}

func (m *mockJobService) Get(ctx context.Context, id int64, actingUser *models.User) (*models.Job, error) {
	return m.getFn(ctx, id, actingUser)
}

func (m *mockJobService) Create(ctx context.Context, actingUser *models.User, req *services.CreateJobRequest) (*models.Job, error) {
	return m.createFn(ctx, actingUser, req)
}

func (m *mockJobService) Update(ctx context.Context, actingUser *models.User, id int64, req *services.UpdateJobRequest) (*models.Job, error) {
	panic("not used")
}

func (m *mockJobService) Delete(ctx context.Context, actingUser *models.User, id int64) error {
	panic("not used")
}

func (m *mockJobService) MyJobs(ctx context.Context, actingUser *models.User, page models.Pagination) (*models.Page[models.Job], error) {
	panic("not used")
}

func newTestController(job services.JobService) (*JobController, *mux.Router) {
	builder := response.NewBuilder(zap.NewNop())
	controller := NewJobController(&services.ServiceCollection{Job: job}, zap.NewNop(), builder)

	router := mux.NewRouter()
	router.HandleFunc("/api/jobs", controller.List).Methods(http.MethodGet)
	router.HandleFunc("/api/jobs/search", controller.Search).Methods(http.MethodGet)
	router.HandleFunc("/api/jobs/{id:[0-9]+}", controller.Get).Methods(http.MethodGet)
	router.HandleFunc("/api/jobs", controller.Create).Methods(http.MethodPost)
	return controller, router
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestListParsesFilters(t *testing.T) {
	var gotFilter models.JobFilter
	var gotPage models.Pagination
	service := &mockJobService{
		listFn: func(ctx context.Context, filter models.JobFilter, page models.Pagination) (*models.Page[models.Job], error) {
			gotFilter = filter
			gotPage = page
			return &models.Page[models.Job]{Items: []models.Job{{ID: 1}}, Total: 1}, nil
		},
	}
	_, router := newTestController(service)

	url := "/api/jobs?location=Nairobi&jobType=full-time&minSalary=50000&isRemote=true&sortBy=views:asc&page=2&limit=5"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotFilter.Location)
	assert.Equal(t, "Nairobi", *gotFilter.Location)
	require.NotNil(t, gotFilter.JobType)
	assert.Equal(t, "full-time", *gotFilter.JobType)
	require.NotNil(t, gotFilter.MinSalary)
	assert.EqualValues(t, 50000, *gotFilter.MinSalary)
	require.NotNil(t, gotFilter.Remote)
	assert.True(t, *gotFilter.Remote)
	assert.Equal(t, "views", gotFilter.SortBy)
	assert.Equal(t, "asc", gotFilter.SortOrder)
	assert.Equal(t, 2, gotPage.Page)
	assert.Equal(t, 5, gotPage.Limit)

	body := decode(t, rec)
	assert.EqualValues(t, 1, body["count"])
	assert.EqualValues(t, 2, body["currentPage"])
}

func TestListDefaultsSortOrder(t *testing.T) {
	var gotFilter models.JobFilter
	service := &mockJobService{
		listFn: func(ctx context.Context, filter models.JobFilter, page models.Pagination) (*models.Page[models.Job], error) {
			gotFilter = filter
			return &models.Page[models.Job]{}, nil
		},
	}
	_, router := newTestController(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))

	assert.Equal(t, "desc", gotFilter.SortOrder)
}

func TestSearchEchoesQuery(t *testing.T) {
	service := &mockJobService{
		searchFn: func(ctx context.Context, query string, location *string, page models.Pagination) (*models.Page[models.Job], error) {
			return &models.Page[models.Job]{Items: []models.Job{{ID: 1}}, Total: 1}, nil
		},
	}
	_, router := newTestController(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/search?q=golang", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "golang", body["query"])
}

func TestGetReturnsJob(t *testing.T) {
	service := &mockJobService{
		getFn: func(ctx context.Context, id int64, actingUser *models.User) (*models.Job, error) {
			assert.EqualValues(t, 7, id)
			assert.Nil(t, actingUser, "anonymous requests carry no user")
			return &models.Job{ID: id, Title: "Backend Engineer"}, nil
		},
	}
	_, router := newTestController(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/7", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	job := body["job"].(map[string]interface{})
	assert.Equal(t, "Backend Engineer", job["title"])
}

func TestGetNotFound(t *testing.T) {
	service := &mockJobService{
		getFn: func(ctx context.Context, id int64, actingUser *models.User) (*models.Job, error) {
			return nil, services.NewNotFoundError("job not found")
		},
	}
	_, router := newTestController(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/999", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRejectsNonNumericID(t *testing.T) {
	_, router := newTestController(&mockJobService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/not-a-number", nil))

	// The route pattern only matches numeric IDs.
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePassesActingUser(t *testing.T) {
	employer := &models.User{ID: 2, Role: models.RoleEmployer}
	service := &mockJobService{
		createFn: func(ctx context.Context, actingUser *models.User, req *services.CreateJobRequest) (*models.Job, error) {
			require.NotNil(t, actingUser)
			assert.Equal(t, employer.ID, actingUser.ID)
			return &models.Job{ID: 7, Title: req.Title, PostedBy: actingUser.ID}, nil
		},
	}
	_, router := newTestController(service)

	payload := `{"title":"Backend Engineer","description":"d","requirements":"r","location":"Nairobi","jobType":"full-time","category":"Technology","experienceLevel":"mid-level","salary":{"min":1,"max":2},"applicationDeadline":"2026-12-31T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(payload))
	req = req.WithContext(contextutils.WithUser(req.Context(), employer))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "job created", body["message"])
}

func TestCreateRejectsMalformedBody(t *testing.T) {
	_, router := newTestController(&mockJobService{})

	req := httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
