package controllers_test

import (
	"testing"

	"movein-backend/complaints/controllers"
	"movein-backend/complaints/repositories"
	"movein-backend/complaints/routes"
	"movein-backend/complaints/services"
	"movein-backend/db/models"
	"movein-backend/internal/testutil"
	userRepositories "movein-backend/users/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	app      *fiber.App
	repo     repositories.ComplaintRepository
	notifier *testutil.RecordingNotifier
	tenant   *models.Profile
	other    *models.Profile
	admin    *models.Profile
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)

	f := &fixture{
		repo:     repositories.NewComplaintRepository(db),
		notifier: &testutil.RecordingNotifier{},
		tenant:   testutil.CreateProfile(t, db, "Kim Minsu", "kim@example.com", models.UserRole),
		other:    testutil.CreateProfile(t, db, "Lee Jiwoo", "lee@example.com", models.UserRole),
		admin:    testutil.CreateProfile(t, db, "Manager", "admin@example.com", models.AdminRole),
	}
	controller := &controllers.ComplaintController{
		Repo:     f.repo,
		UserRepo: userRepositories.NewUserRepository(db),
		Notifier: f.notifier,
	}

	f.app = fiber.New()
	routes.InitComplaintRoutes(f.app, controller, testutil.AuthByHeader(f.tenant, f.other, f.admin))
	return f
}

func (f *fixture) submit(t *testing.T, as *models.Profile, body string) services.ComplaintView {
	t.Helper()
	resp, env := testutil.Do(t, f.app, "POST", "/api/v1/complaints", body, as)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Error)
	var view services.ComplaintView
	env.DecodeData(t, &view)
	return view
}

func TestSubmitDefaultsAndValidation(t *testing.T) {
	f := newFixture(t)

	view := f.submit(t, f.tenant, `{"title":"Noisy vent","content":"Rattles at night","category":"noise"}`)
	assert.Equal(t, models.NormalPriority, view.Priority)
	assert.Equal(t, models.ComplaintPending, view.Status)
	assert.Equal(t, f.tenant.ID, view.UserID)
	require.NotNil(t, view.Submitter)
	assert.Equal(t, "Kim Minsu", view.Submitter.Name)

	resp, env := testutil.Do(t, f.app, "POST", "/api/v1/complaints", `{"title":"x","content":"y","category":"plumbing"}`, f.tenant)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var verr services.ValidationError
	env.DecodeData(t, &verr)
	assert.Equal(t, "category", verr.Field)

	resp, _ = testutil.Do(t, f.app, "POST", "/api/v1/complaints", `{"title":"x","content":"y","category":"noise"}`, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAnonymousOwnerStillSeesOwnComplaint(t *testing.T) {
	f := newFixture(t)
	view := f.submit(t, f.tenant, `{"title":"Neighbour","content":"Loud music","category":"noise","is_anonymous":true}`)
	assert.True(t, view.IsAnonymous)

	resp, env := testutil.Do(t, f.app, "GET", "/api/v1/complaints", "", f.tenant)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var mine []services.ComplaintView
	env.DecodeData(t, &mine)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Submitter)

	resp, _ = testutil.Do(t, f.app, "GET", "/api/v1/complaints/"+view.ID.String(), "", f.tenant)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, env = testutil.Do(t, f.app, "GET", "/api/v1/complaints/"+view.ID.String(), "", f.admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var asAdmin services.ComplaintView
	env.DecodeData(t, &asAdmin)
	assert.Nil(t, asAdmin.Submitter)
	assert.Equal(t, f.tenant.ID, asAdmin.UserID)
}

func TestOtherTenantIsDenied(t *testing.T) {
	f := newFixture(t)
	view := f.submit(t, f.tenant, `{"title":"Leak","content":"Bathroom","category":"facility"}`)

	resp, env := testutil.Do(t, f.app, "GET", "/api/v1/complaints/"+view.ID.String(), "", f.other)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "access_denied", env.Error)

	resp, env = testutil.Do(t, f.app, "GET", "/api/v1/complaints", "", f.other)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var theirs []services.ComplaintView
	env.DecodeData(t, &theirs)
	assert.Empty(t, theirs)

	resp, _ = testutil.Do(t, f.app, "GET", "/api/v1/admin/complaints", "", f.other)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRespondWithEmptyTextKeepsResponse(t *testing.T) {
	f := newFixture(t)
	view := f.submit(t, f.tenant, `{"title":"Elevator","content":"Stuck on 3F","category":"elevator","priority":"urgent"}`)
	path := "/api/v1/admin/complaints/" + view.ID.String() + "/respond"

	resp, env := testutil.Do(t, f.app, "POST", path, `{"status":"in_progress","response":"Engineer on the way"}`, f.admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)

	var got services.ComplaintView
	for i := 0; i < 2; i++ {
		resp, env = testutil.Do(t, f.app, "POST", path, `{"status":"resolved","response":""}`, f.admin)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)
		env.DecodeData(t, &got)
		require.NotNil(t, got.AdminResponse)
		assert.Equal(t, "Engineer on the way", *got.AdminResponse)
		assert.Equal(t, models.ComplaintResolved, got.Status)
		require.NotNil(t, got.Responder)
		assert.Equal(t, f.admin.ID, got.Responder.ID)
		assert.NotNil(t, got.ResponseDate)
	}
	assert.Len(t, f.notifier.AnsweredComplaints, 3)
}

func TestStatusMachineIsEnforced(t *testing.T) {
	f := newFixture(t)
	view := f.submit(t, f.tenant, `{"title":"Parking","content":"Blocked spot","category":"parking"}`)
	statusPath := "/api/v1/admin/complaints/" + view.ID.String() + "/status"

	resp, _ := testutil.Do(t, f.app, "POST", statusPath, `{"status":"closed"}`, f.admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, env := testutil.Do(t, f.app, "POST", statusPath, `{"status":"pending"}`, f.admin)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "invalid_transition", env.Error)

	resp, _ = testutil.Do(t, f.app, "POST", "/api/v1/admin/complaints/"+view.ID.String()+"/respond", `{"status":"in_progress","response":"reopen"}`, f.admin)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = testutil.Do(t, f.app, "POST", statusPath, `{"status":"done"}`, f.admin)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminListFiltersByStatus(t *testing.T) {
	f := newFixture(t)
	first := f.submit(t, f.tenant, `{"title":"A","content":"a","category":"cleaning"}`)
	f.submit(t, f.other, `{"title":"B","content":"b","category":"security","is_anonymous":true}`)

	resp, _ := testutil.Do(t, f.app, "POST", "/api/v1/admin/complaints/"+first.ID.String()+"/status", `{"status":"in_progress"}`, f.admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var all []services.ComplaintView
	resp, env := testutil.Do(t, f.app, "GET", "/api/v1/admin/complaints?status=all", "", f.admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	env.DecodeData(t, &all)
	assert.Len(t, all, 2)

	var inProgress []services.ComplaintView
	resp, env = testutil.Do(t, f.app, "GET", "/api/v1/admin/complaints?status=in_progress", "", f.admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	env.DecodeData(t, &inProgress)
	require.Len(t, inProgress, 1)
	assert.Equal(t, first.ID, inProgress[0].ID)

	resp, _ = testutil.Do(t, f.app, "GET", "/api/v1/admin/complaints?status=bogus", "", f.admin)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminDelete(t *testing.T) {
	f := newFixture(t)
	view := f.submit(t, f.tenant, `{"title":"Trash","content":"Not collected","category":"cleaning"}`)
	path := "/api/v1/admin/complaints/" + view.ID.String()

	resp, _ := testutil.Do(t, f.app, "DELETE", path, "", f.tenant)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = testutil.Do(t, f.app, "DELETE", path, "", f.admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = testutil.Do(t, f.app, "DELETE", path, "", f.admin)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
