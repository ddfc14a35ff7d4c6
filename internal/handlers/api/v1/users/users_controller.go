// file: internal/handlers/api/v1/users/users_controller.go
package users

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/githubscientist/jp-backend/internal/config"
	"github.com/githubscientist/jp-backend/internal/contextutils"
	"github.com/githubscientist/jp-backend/internal/models"
	"github.com/githubscientist/jp-backend/internal/response"
	"github.com/githubscientist/jp-backend/internal/services"
	"github.com/githubscientist/jp-backend/internal/storage"
)

const maxUploadFormSize = 10 << 20

// profileFavoritesLimit caps the favorites embedded in the profile
// payload. The favorites endpoint pages through the full set.
const profileFavoritesLimit = 100

type UserController struct {
	services *services.ServiceCollection
	storage  storage.FileStorage
	config   *config.AuthConfig
	logger   *zap.Logger
	builder  *response.Builder
}

// NewUserController creates a new user controller
func NewUserController(services *services.ServiceCollection, storage storage.FileStorage, cfg *config.AuthConfig, logger *zap.Logger, builder *response.Builder) *UserController {
	return &UserController{
		services: services,
		storage:  storage,
		config:   cfg,
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

// GetProfile handles GET /api/users/profile
func (c *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := contextutils.GetUser(r.Context())
	profile, err := c.services.User.GetProfile(r.Context(), user.ID)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}

	envelope := response.Envelope{"user": profile}
	if favorites, err := c.services.User.ListFavorites(r.Context(), user, models.Pagination{Page: 1, Limit: profileFavoritesLimit}); err == nil {
		envelope["favorites"] = favorites.Items
	} else {
		c.logger.Warn("Failed to load favorites for profile", zap.Int64("user_id", user.ID), zap.Error(err))
	}
	c.builder.Success(w, r, envelope)
}

// UpdateProfile handles PUT /api/users/profile
func (c *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	user, err := c.services.User.UpdateProfile(r.Context(), contextutils.GetUser(r.Context()), &req)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.SuccessMessage(w, r, "profile updated", response.Envelope{"user": user})
}

// upload stores one file from the named form field and applies it to
// the profile via the given setter.
func (c *UserController) upload(w http.ResponseWriter, r *http.Request, field string, kind storage.FileKind,
	set func(*models.User, string) (*models.User, error)) {

	if err := r.ParseMultipartForm(maxUploadFormSize); err != nil {
		c.builder.Error(w, r, services.NewValidationError("invalid multipart form", err))
		return
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		c.builder.Error(w, r, services.NewValidationError(field+" file is required", err))
		return
	}
	defer file.Close()

	stored, err := c.storage.UploadFile(r.Context(), header, kind)
	if err != nil {
		c.builder.Error(w, r, services.NewValidationError(err.Error(), err))
		return
	}

	user, err := set(contextutils.GetUser(r.Context()), stored.URL)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.SuccessMessage(w, r, "file uploaded", response.Envelope{"user": user, "url": stored.URL})
}

// UploadResume handles POST /api/users/upload-resume
func (c *UserController) UploadResume(w http.ResponseWriter, r *http.Request) {
	c.upload(w, r, "resume", storage.KindResume, func(u *models.User, url string) (*models.User, error) {
		return c.services.User.SetResume(r.Context(), u, url)
	})
}

// UploadProfilePicture handles POST /api/users/upload-profile-picture
func (c *UserController) UploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	c.upload(w, r, "profilePicture", storage.KindProfilePicture, func(u *models.User, url string) (*models.User, error) {
		return c.services.User.SetProfilePicture(r.Context(), u, url)
	})
}

// UploadCompanyLogo handles POST /api/users/upload-company-logo
func (c *UserController) UploadCompanyLogo(w http.ResponseWriter, r *http.Request) {
	c.upload(w, r, "companyLogo", storage.KindCompanyLogo, func(u *models.User, url string) (*models.User, error) {
		return c.services.User.SetCompanyLogo(r.Context(), u, url)
	})
}

// ===============================
// FAVORITES
// ===============================

// AddFavorite handles POST /api/users/favorites/{jobId}
func (c *UserController) AddFavorite(w http.ResponseWriter, r *http.Request) {
	jobID, err := strconv.ParseInt(mux.Vars(r)["jobId"], 10, 64)
	if err != nil {
		c.builder.Error(w, r, services.NewValidationError("invalid job id", err))
		return
	}

	if err := c.services.User.AddFavorite(r.Context(), contextutils.GetUser(r.Context()), jobID); err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.SuccessMessage(w, r, "job added to favorites", nil)
}

// RemoveFavorite handles DELETE /api/users/favorites/{jobId}
func (c *UserController) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	jobID, err := strconv.ParseInt(mux.Vars(r)["jobId"], 10, 64)
	if err != nil {
		c.builder.Error(w, r, services.NewValidationError("invalid job id", err))
		return
	}

	if err := c.services.User.RemoveFavorite(r.Context(), contextutils.GetUser(r.Context()), jobID); err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.SuccessMessage(w, r, "job removed from favorites", nil)
}

// ListFavorites handles GET /api/users/favorites
func (c *UserController) ListFavorites(w http.ResponseWriter, r *http.Request) {
	page := pagination(r)
	result, err := c.services.User.ListFavorites(r.Context(), contextutils.GetUser(r.Context()), page)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.List(w, r, "jobs", result.Items, page, result.Total, nil)
}

// DeleteAccount handles DELETE /api/users/account
func (c *UserController) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := c.services.User.DeleteAccount(r.Context(), contextutils.GetUser(r.Context())); err != nil {
		c.builder.Error(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.config.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	c.builder.SuccessMessage(w, r, "account deleted", nil)
}
