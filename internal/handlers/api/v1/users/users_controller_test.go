package users

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/githubscientist/jp-backend/internal/config"
	"github.com/githubscientist/jp-backend/internal/contextutils"
	"github.com/githubscientist/jp-backend/internal/models"
	"github.com/githubscientist/jp-backend/internal/response"
	"github.com/githubscientist/jp-backend/internal/services"
	"github.com/githubscientist/jp-backend/internal/storage"
)

// mockUserService is a simplified mock implementation for testing.
type mockUserService struct {
	getProfileFn    func(ctx context.Context, userID int64) (*models.User, error)
	listFavoritesFn func(ctx context.Context, actingUser *models.User, page models.Pagination) (*models.Page[models.Job], error)
	setResumeFn     func(ctx context.Context, actingUser *models.User, url string) (*models.User, error)
}

func (m *mockUserService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return m.getProfileFn(ctx, userID)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, actingUser *models.User, req *services.UpdateProfileRequest) (*models.User, error) {
	panic("not used")
}

func (m *mockUserService) SetResume(ctx context.Context, actingUser *models.User, url string) (*models.User, error) {
	return m.setResumeFn(ctx, actingUser, url)
}

func (m *mockUserService) SetProfilePicture(ctx context.Context, actingUser *models.User, url string) (*models.User, error) {
	panic("not used")
}

func (m *mockUserService) SetCompanyLogo(ctx context.Context, actingUser *models.User, url string) (*models.User, error) {
	panic("not used")
}

func (m *mockUserService) AddFavorite(ctx context.Context, actingUser *models.User, jobID int64) error {
	panic("not used")
}

func (m *mockUserService) RemoveFavorite(ctx context.Context, actingUser *models.User, jobID int64) error {
	panic("not used")
}

func (m *mockUserService) ListFavorites(ctx context.Context, actingUser *models.User, page models.Pagination) (*models.Page[models.Job], error) {
	return m.listFavoritesFn(ctx, actingUser, page)
}

func (m *mockUserService) DeleteAccount(ctx context.Context, actingUser *models.User) error {
	panic("not used")
}

type mockFileStorage struct {
	uploadFn func(ctx context.Context, file *multipart.FileHeader, kind storage.FileKind) (*storage.UploadResult, error)
}

func (m *mockFileStorage) UploadFile(ctx context.Context, file *multipart.FileHeader, kind storage.FileKind) (*storage.UploadResult, error) {
	return m.uploadFn(ctx, file, kind)
}

func (m *mockFileStorage) DeleteFile(ctx context.Context, id string) error {
	panic("not used")
}

func newTestController(user services.UserService, files storage.FileStorage) *UserController {
	builder := response.NewBuilder(zap.NewNop())
	cfg := &config.AuthConfig{CookieName: "token"}
	return NewUserController(&services.ServiceCollection{User: user}, files, cfg, zap.NewNop(), builder)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func authenticated(req *http.Request, user *models.User) *http.Request {
	return req.WithContext(contextutils.WithUser(req.Context(), user))
}

func TestGetProfileEmbedsFavorites(t *testing.T) {
	var gotPage models.Pagination
	service := &mockUserService{
		getProfileFn: func(ctx context.Context, userID int64) (*models.User, error) {
			return &models.User{ID: userID, Name: "Jane"}, nil
		},
		listFavoritesFn: func(ctx context.Context, actingUser *models.User, page models.Pagination) (*models.Page[models.Job], error) {
			gotPage = page
			return &models.Page[models.Job]{Items: []models.Job{{ID: 7}}, Total: 1}, nil
		},
	}
	controller := newTestController(service, nil)

	req := authenticated(httptest.NewRequest(http.MethodGet, "/api/users/profile", nil), &models.User{ID: 5})
	rec := httptest.NewRecorder()
	controller.GetProfile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, gotPage.Page)
	assert.Equal(t, profileFavoritesLimit, gotPage.Limit, "the embed should request the full cap, not the default page size")

	body := decode(t, rec)
	favorites := body["favorites"].([]interface{})
	assert.Len(t, favorites, 1)
}

func TestGetProfileSurvivesFavoritesFailure(t *testing.T) {
	service := &mockUserService{
		getProfileFn: func(ctx context.Context, userID int64) (*models.User, error) {
			return &models.User{ID: userID, Name: "Jane"}, nil
		},
		listFavoritesFn: func(ctx context.Context, actingUser *models.User, page models.Pagination) (*models.Page[models.Job], error) {
			return nil, services.NewInternalError("favorites unavailable", nil)
		},
	}
	controller := newTestController(service, nil)

	req := authenticated(httptest.NewRequest(http.MethodGet, "/api/users/profile", nil), &models.User{ID: 5})
	rec := httptest.NewRecorder()
	controller.GetProfile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.NotContains(t, body, "favorites")
}

func TestUploadResumePersistsURL(t *testing.T) {
	var gotURL string
	service := &mockUserService{
		setResumeFn: func(ctx context.Context, actingUser *models.User, url string) (*models.User, error) {
			gotURL = url
			return actingUser, nil
		},
	}
	files := &mockFileStorage{
		uploadFn: func(ctx context.Context, file *multipart.FileHeader, kind storage.FileKind) (*storage.UploadResult, error) {
			assert.Equal(t, storage.KindResume, kind)
			return &storage.UploadResult{URL: "/uploads/resumes/cv.pdf", ID: "resumes/cv.pdf"}, nil
		},
	}
	controller := newTestController(service, files)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("resume", "cv.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 resume"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/users/upload-resume", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req = authenticated(req, &models.User{ID: 5})

	rec := httptest.NewRecorder()
	controller.UploadResume(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/uploads/resumes/cv.pdf", gotURL)

	body := decode(t, rec)
	assert.Equal(t, "/uploads/resumes/cv.pdf", body["url"])
}

func TestUploadResumeRequiresFile(t *testing.T) {
	controller := newTestController(&mockUserService{}, &mockFileStorage{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/users/upload-resume", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req = authenticated(req, &models.User{ID: 5})

	rec := httptest.NewRecorder()
	controller.UploadResume(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
