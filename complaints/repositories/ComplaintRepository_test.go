package repositories_test

import (
	"testing"
	"time"

	"movein-backend/complaints/repositories"
	"movein-backend/db/models"
	"movein-backend/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedComplaint(t *testing.T, repo repositories.ComplaintRepository, userID uuid.UUID, title string, status models.ComplaintStatus, at time.Time) *models.Complaint {
	t.Helper()
	c, err := repo.Create(&models.Complaint{
		UserID:    userID,
		Title:     title,
		Content:   title + " details",
		Category:  models.NoiseCategory,
		Priority:  models.NormalPriority,
		Status:    status,
		CreatedAt: at,
	})
	require.NoError(t, err)
	return c
}

func TestEmptyResponseKeepsPreviousText(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewComplaintRepository(db)
	tenant := testutil.CreateProfile(t, db, "Kim Minsu", "kim@example.com", models.UserRole)
	admin := testutil.CreateProfile(t, db, "Manager", "admin@example.com", models.AdminRole)
	c := seedComplaint(t, repo, tenant.ID, "Loud fan", models.ComplaintPending, time.Now())

	first := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	answered, err := repo.Respond(c.ID, admin.ID, models.ComplaintInProgress, "Technician booked", first)
	require.NoError(t, err)
	require.NotNil(t, answered.AdminResponse)
	assert.Equal(t, "Technician booked", *answered.AdminResponse)

	second := first.Add(24 * time.Hour)
	for i := 0; i < 2; i++ {
		again, err := repo.Respond(c.ID, admin.ID, models.ComplaintResolved, "", second)
		require.NoError(t, err)
		require.NotNil(t, again.AdminResponse)
		assert.Equal(t, "Technician booked", *again.AdminResponse)
		assert.Equal(t, models.ComplaintResolved, again.Status)
		require.NotNil(t, again.AdminID)
		assert.Equal(t, admin.ID, *again.AdminID)
		require.NotNil(t, again.ResponseDate)
		assert.True(t, again.ResponseDate.Equal(second))
	}
}

func TestListFiltersByUserAndStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewComplaintRepository(db)
	kim := testutil.CreateProfile(t, db, "Kim Minsu", "kim@example.com", models.UserRole)
	lee := testutil.CreateProfile(t, db, "Lee Jiwoo", "lee@example.com", models.UserRole)

	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	seedComplaint(t, repo, kim.ID, "older", models.ComplaintPending, base)
	seedComplaint(t, repo, kim.ID, "newer", models.ComplaintResolved, base.Add(time.Hour))
	seedComplaint(t, repo, lee.ID, "other", models.ComplaintPending, base.Add(2*time.Hour))

	mine, err := repo.List(repositories.ComplaintFilter{UserID: &kim.ID})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "newer", mine[0].Title)

	pending, err := repo.List(repositories.ComplaintFilter{Status: models.ComplaintPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	minePending, err := repo.List(repositories.ComplaintFilter{UserID: &kim.ID, Status: models.ComplaintPending})
	require.NoError(t, err)
	require.Len(t, minePending, 1)
	assert.Equal(t, "older", minePending[0].Title)
}

func TestUpdateStatusAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewComplaintRepository(db)
	kim := testutil.CreateProfile(t, db, "Kim Minsu", "kim@example.com", models.UserRole)
	c := seedComplaint(t, repo, kim.ID, "Broken light", models.ComplaintPending, time.Now())

	updated, err := repo.UpdateStatus(c.ID, models.ComplaintInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.ComplaintInProgress, updated.Status)
	assert.Nil(t, updated.AdminResponse)

	_, err = repo.UpdateStatus(uuid.New(), models.ComplaintClosed)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	require.NoError(t, repo.Delete(c.ID))
	_, err = repo.GetByID(c.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(c.ID), repositories.ErrNotFound)
}

func TestAnonymousComplaintKeepsSubmitter(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewComplaintRepository(db)
	kim := testutil.CreateProfile(t, db, "Kim Minsu", "kim@example.com", models.UserRole)

	c, err := repo.Create(&models.Complaint{
		UserID:      kim.ID,
		Title:       "Neighbour noise",
		Content:     "Every night",
		Category:    models.NoiseCategory,
		Priority:    models.HighPriority,
		Status:      models.ComplaintPending,
		IsAnonymous: true,
	})
	require.NoError(t, err)
	assert.True(t, c.IsAnonymous)
	assert.Equal(t, kim.ID, c.UserID)

	mine, err := repo.List(repositories.ComplaintFilter{UserID: &kim.ID})
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
