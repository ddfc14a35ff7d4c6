package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/githubscientist/jp-backend/internal/cache"
	"github.com/githubscientist/jp-backend/internal/config"
	"github.com/githubscientist/jp-backend/internal/database"
	adminhandler "github.com/githubscientist/jp-backend/internal/handlers/api/v1/admin"
	applicationshandler "github.com/githubscientist/jp-backend/internal/handlers/api/v1/applications"
	authhandler "github.com/githubscientist/jp-backend/internal/handlers/api/v1/auth"
	jobshandler "github.com/githubscientist/jp-backend/internal/handlers/api/v1/jobs"
	usershandler "github.com/githubscientist/jp-backend/internal/handlers/api/v1/users"
	"github.com/githubscientist/jp-backend/internal/middleware"
	"github.com/githubscientist/jp-backend/internal/models"
	"github.com/githubscientist/jp-backend/internal/response"
	"github.com/githubscientist/jp-backend/internal/services"
	"github.com/githubscientist/jp-backend/internal/storage"
)

// Dependencies carries everything the router needs to wire handlers.
type Dependencies struct {
	Config   *config.Config
	Services *services.ServiceCollection
	Storage  storage.FileStorage
	Database *database.Manager
	Cache    cache.Cache
	Logger   *zap.Logger
}

// New configures all HTTP routes and returns the root handler.
func New(deps *Dependencies) http.Handler {
	builder := response.NewBuilder(deps.Logger)
	auth := middleware.NewAuth(deps.Services.Auth, &deps.Config.Auth, deps.Logger)

	authController := authhandler.NewAuthController(deps.Services, &deps.Config.Auth, deps.Logger, builder)
	userController := usershandler.NewUserController(deps.Services, deps.Storage, &deps.Config.Auth, deps.Logger, builder)
	jobController := jobshandler.NewJobController(deps.Services, deps.Logger, builder)
	applicationController := applicationshandler.NewApplicationController(deps.Services, deps.Storage, deps.Logger, builder)
	adminController := adminhandler.NewAdminController(deps.Services, deps.Logger, builder)

	r := mux.NewRouter()
	r.Use(
		response.Middleware(builder),
		middleware.RequestID(deps.Logger),
		middleware.Recovery(deps.Logger),
	)
	r.NotFoundHandler = wrap(builder, builder.NotFoundHandler())
	r.MethodNotAllowedHandler = wrap(builder, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		builder.WriteJSON(w, r, http.StatusMethodNotAllowed, response.Envelope{
			"success": false,
			"message": "method not allowed",
		})
	}))

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", healthHandler(deps, builder)).Methods(http.MethodGet)

	// Auth
	authRoutes := api.PathPrefix("/auth").Subrouter()
	authRoutes.HandleFunc("/register", authController.Register).Methods(http.MethodPost)
	authRoutes.HandleFunc("/login", authController.Login).Methods(http.MethodPost)
	authRoutes.HandleFunc("/logout", authController.Logout).Methods(http.MethodGet)
	authRoutes.Handle("/me", auth.Protect(http.HandlerFunc(authController.Me))).Methods(http.MethodGet)

	// Jobs: reads are public (with optional session for view counting),
	// mutations require employer or admin.
	jobRoutes := api.PathPrefix("/jobs").Subrouter()
	jobRoutes.Handle("", auth.Optional(http.HandlerFunc(jobController.List))).Methods(http.MethodGet)
	jobRoutes.Handle("/search", auth.Optional(http.HandlerFunc(jobController.Search))).Methods(http.MethodGet)
	jobRoutes.Handle("/stats", auth.Optional(http.HandlerFunc(jobController.Stats))).Methods(http.MethodGet)
	jobRoutes.Handle("/employer/my-jobs", protected(auth, jobController.MyJobs, models.RoleEmployer, models.RoleAdmin)).Methods(http.MethodGet)
	jobRoutes.Handle("/{id:[0-9]+}", auth.Optional(http.HandlerFunc(jobController.Get))).Methods(http.MethodGet)
	jobRoutes.Handle("", protected(auth, jobController.Create, models.RoleEmployer, models.RoleAdmin)).Methods(http.MethodPost)
	jobRoutes.Handle("/{id:[0-9]+}", protected(auth, jobController.Update, models.RoleEmployer, models.RoleAdmin)).Methods(http.MethodPut)
	jobRoutes.Handle("/{id:[0-9]+}", protected(auth, jobController.Delete, models.RoleEmployer, models.RoleAdmin)).Methods(http.MethodDelete)

	// Applications: all session-protected, with role gates matching
	// each side of the lifecycle.
	appRoutes := api.PathPrefix("/applications").Subrouter()
	appRoutes.Use(auth.Protect)
	appRoutes.HandleFunc("/{jobId:[0-9]+}/apply", applicationController.Apply).Methods(http.MethodPost)
	appRoutes.Handle("/job/{jobId:[0-9]+}", auth.RequireRoles(models.RoleEmployer, models.RoleAdmin)(http.HandlerFunc(applicationController.ListForJob))).Methods(http.MethodGet)
	appRoutes.Handle("/my-applications", auth.RequireRoles(models.RoleJobseeker)(http.HandlerFunc(applicationController.MyApplications))).Methods(http.MethodGet)
	appRoutes.HandleFunc("/{id:[0-9]+}", applicationController.Get).Methods(http.MethodGet)
	appRoutes.Handle("/{id:[0-9]+}/status", auth.RequireRoles(models.RoleEmployer, models.RoleAdmin)(http.HandlerFunc(applicationController.UpdateStatus))).Methods(http.MethodPut)
	appRoutes.Handle("/{id:[0-9]+}/withdraw", auth.RequireRoles(models.RoleJobseeker)(http.HandlerFunc(applicationController.Withdraw))).Methods(http.MethodDelete)

	// Users: all session-protected.
	userRoutes := api.PathPrefix("/users").Subrouter()
	userRoutes.Use(auth.Protect)
	userRoutes.HandleFunc("/profile", userController.GetProfile).Methods(http.MethodGet)
	userRoutes.HandleFunc("/profile", userController.UpdateProfile).Methods(http.MethodPut)
	userRoutes.HandleFunc("/upload-resume", userController.UploadResume).Methods(http.MethodPost)
	userRoutes.HandleFunc("/upload-profile-picture", userController.UploadProfilePicture).Methods(http.MethodPost)
	userRoutes.HandleFunc("/upload-company-logo", userController.UploadCompanyLogo).Methods(http.MethodPost)
	userRoutes.HandleFunc("/favorites", userController.ListFavorites).Methods(http.MethodGet)
	userRoutes.HandleFunc("/favorites/{jobId:[0-9]+}", userController.AddFavorite).Methods(http.MethodPost)
	userRoutes.HandleFunc("/favorites/{jobId:[0-9]+}", userController.RemoveFavorite).Methods(http.MethodDelete)
	userRoutes.HandleFunc("/account", userController.DeleteAccount).Methods(http.MethodDelete)

	// Admin: admin role required.
	adminRoutes := api.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(auth.Protect, auth.RequireRoles(models.RoleAdmin))
	adminRoutes.HandleFunc("/users", adminController.ListUsers).Methods(http.MethodGet)
	adminRoutes.HandleFunc("/users/{id:[0-9]+}", adminController.GetUser).Methods(http.MethodGet)
	adminRoutes.HandleFunc("/users/{id:[0-9]+}/role", adminController.UpdateRole).Methods(http.MethodPut)
	adminRoutes.HandleFunc("/users/{id:[0-9]+}/deactivate", adminController.Deactivate).Methods(http.MethodPut)
	adminRoutes.HandleFunc("/users/{id:[0-9]+}/activate", adminController.Activate).Methods(http.MethodPut)
	adminRoutes.HandleFunc("/users/{id:[0-9]+}", adminController.DeleteUser).Methods(http.MethodDelete)
	adminRoutes.HandleFunc("/jobs", adminController.ListJobs).Methods(http.MethodGet)
	adminRoutes.HandleFunc("/applications", adminController.ListApplications).Methods(http.MethodGet)
	adminRoutes.HandleFunc("/stats", adminController.Stats).Methods(http.MethodGet)

	// Locally stored uploads.
	if deps.Config.Storage.Provider == "" || deps.Config.Storage.Provider == "local" {
		r.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.Config.Storage.UploadDir))))
	}

	return r
}

// protected chains session and role checks in front of a handler.
func protected(auth *middleware.Auth, handler http.HandlerFunc, roles ...string) http.Handler {
	return auth.Protect(auth.RequireRoles(roles...)(handler))
}

// wrap ensures NotFound-style handlers outside the middleware chain
// still carry the response builder.
func wrap(builder *response.Builder, next http.Handler) http.Handler {
	return response.Middleware(builder)(next)
}

func healthHandler(deps *Dependencies, builder *response.Builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbHealth := deps.Database.Health(r.Context())
		cacheErr := deps.Cache.Health(r.Context())

		status := http.StatusOK
		healthy := dbHealth.Healthy && cacheErr == nil
		if !healthy {
			status = http.StatusServiceUnavailable
		}

		envelope := response.Envelope{
			"success":  healthy,
			"database": dbHealth,
			"cache":    "ok",
		}
		if cacheErr != nil {
			envelope["cache"] = cacheErr.Error()
		}
		builder.WriteJSON(w, r, status, envelope)
	}
}
