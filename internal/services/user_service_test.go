package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/githubscientist/jp-backend/internal/models"
	"github.com/githubscientist/jp-backend/internal/repositories"
)

func newUserService(t *testing.T, users *mockUserRepo, jobs *mockJobRepo) UserService {
	t.Helper()
	if users == nil {
		users = &mockUserRepo{}
	}
	if jobs == nil {
		jobs = &mockJobRepo{}
	}
	return NewUserService(users, jobs, testCache(t), zap.NewNop())
}

func TestUpdateProfilePatchesOnlyProvidedFields(t *testing.T) {
	existingBio := "old bio"
	var saved *models.User
	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*models.User, error) {
			return &models.User{
				ID:      id,
				Name:    "Jane",
				Email:   "jane@example.com",
				Role:    models.RoleJobseeker,
				Profile: models.Profile{Bio: &existingBio, Skills: []string{"go"}},
			}, nil
		},
		updateProfileFn: func(ctx context.Context, user *models.User) error {
			saved = user
			return nil
		},
	}
	service := newUserService(t, users, nil)

	newName := "Jane Doe"
	skills := []string{"go", "postgres"}
	user, err := service.UpdateProfile(context.Background(), &models.User{ID: 11}, &UpdateProfileRequest{
		Name:    &newName,
		Profile: &ProfileRequest{Skills: skills},
	})
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Equal(t, "Jane Doe", user.Name)
	assert.Equal(t, skills, user.Profile.Skills)
	require.NotNil(t, user.Profile.Bio)
	assert.Equal(t, "old bio", *user.Profile.Bio, "omitted fields should be untouched")
	assert.Equal(t, models.RoleJobseeker, user.Role, "role is not patchable through the profile")
}

func TestUpdateProfileRejectsBlankName(t *testing.T) {
	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*models.User, error) {
			return &models.User{ID: id, Name: "Jane"}, nil
		},
	}
	service := newUserService(t, users, nil)

	blank := "   "
	_, err := service.UpdateProfile(context.Background(), &models.User{ID: 11}, &UpdateProfileRequest{Name: &blank})
	assert.True(t, IsValidationError(err), "expected a validation error, got %v", err)
}

func TestSetResume(t *testing.T) {
	var saved *models.User
	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		updateProfileFn: func(ctx context.Context, user *models.User) error {
			saved = user
			return nil
		},
	}
	service := newUserService(t, users, nil)

	user, err := service.SetResume(context.Background(), &models.User{ID: 11}, "/uploads/resumes/cv.pdf")
	require.NoError(t, err)
	require.NotNil(t, saved)
	require.NotNil(t, user.Profile.Resume)
	assert.Equal(t, "/uploads/resumes/cv.pdf", *user.Profile.Resume)
}

func TestAddFavorite(t *testing.T) {
	jobs := &mockJobRepo{
		getByIDFn: func(ctx context.Context, id int64) (*models.Job, error) {
			return &models.Job{ID: id}, nil
		},
	}
	added := false
	users := &mockUserRepo{
		addFavoriteFn: func(ctx context.Context, userID, jobID int64) error {
			added = true
			return nil
		},
	}
	service := newUserService(t, users, jobs)

	require.NoError(t, service.AddFavorite(context.Background(), &models.User{ID: 11}, 7))
	assert.True(t, added)
}

func TestAddFavoriteMissingJob(t *testing.T) {
	jobs := &mockJobRepo{
		getByIDFn: func(ctx context.Context, id int64) (*models.Job, error) {
			return nil, repositories.ErrNotFound
		},
	}
	service := newUserService(t, nil, jobs)

	err := service.AddFavorite(context.Background(), &models.User{ID: 11}, 999)
	assert.True(t, IsNotFoundError(err), "expected a not found error, got %v", err)
}

func TestAddFavoriteTwice(t *testing.T) {
	jobs := &mockJobRepo{
		getByIDFn: func(ctx context.Context, id int64) (*models.Job, error) {
			return &models.Job{ID: id}, nil
		},
	}
	users := &mockUserRepo{
		addFavoriteFn: func(ctx context.Context, userID, jobID int64) error {
			return repositories.ErrDuplicate
		},
	}
	service := newUserService(t, users, jobs)

	err := service.AddFavorite(context.Background(), &models.User{ID: 11}, 7)
	assert.True(t, IsConflictError(err), "expected a conflict error, got %v", err)
}

func TestRemoveFavoriteIsIdempotent(t *testing.T) {
	users := &mockUserRepo{
		removeFavoriteFn: func(ctx context.Context, userID, jobID int64) error {
			// The repository swallows absent rows.
			return nil
		},
	}
	service := newUserService(t, users, nil)

	assert.NoError(t, service.RemoveFavorite(context.Background(), &models.User{ID: 11}, 7))
	assert.NoError(t, service.RemoveFavorite(context.Background(), &models.User{ID: 11}, 7))
}

func TestDeleteAccount(t *testing.T) {
	deleted := false
	users := &mockUserRepo{
		deleteFn: func(ctx context.Context, id int64) error {
			deleted = true
			return nil
		},
	}
	service := newUserService(t, users, nil)

	require.NoError(t, service.DeleteAccount(context.Background(), &models.User{ID: 11}))
	assert.True(t, deleted)
}

func TestDeleteAccountWithJobPostings(t *testing.T) {
	users := &mockUserRepo{
		deleteFn: func(ctx context.Context, id int64) error {
			return repositories.ErrHasDependents
		},
	}
	service := newUserService(t, users, nil)

	err := service.DeleteAccount(context.Background(), &models.User{ID: 2, Role: models.RoleEmployer})
	require.True(t, IsConflictError(err), "expected a conflict error, got %v", err)
	assert.Contains(t, GetServiceError(err).Message, "job postings")
}

func TestDeleteAccountGuardsLastAdmin(t *testing.T) {
	users := &mockUserRepo{
		deleteFn: func(ctx context.Context, id int64) error {
			return repositories.ErrLastAdmin
		},
	}
	service := newUserService(t, users, nil)

	err := service.DeleteAccount(context.Background(), &models.User{ID: 500, Role: models.RoleAdmin})
	assert.True(t, IsConflictError(err), "expected a conflict error, got %v", err)
}
