package controllers_test

import (
	"sync"
	"testing"

	"movein-backend/db/models"
	"movein-backend/internal/testutil"
	"movein-backend/notices/controllers"
	"movein-backend/notices/repositories"
	"movein-backend/notices/routes"
	"movein-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingIndexer struct {
	mu      sync.Mutex
	indexed map[string]models.Notice
}

func (r *recordingIndexer) IndexNotice(notice models.Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexed[notice.ID.String()] = notice
	return nil
}

func (r *recordingIndexer) DeleteNotice(noticeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.indexed, noticeID)
	return nil
}

type fixture struct {
	app      *fiber.App
	repo     repositories.NoticeRepository
	notifier *testutil.RecordingNotifier
	index    *recordingIndexer
	tenant   *models.Profile
	admin    *models.Profile
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)

	f := &fixture{
		repo:     repositories.NewNoticeRepository(db),
		notifier: &testutil.RecordingNotifier{},
		index:    &recordingIndexer{indexed: map[string]models.Notice{}},
		tenant:   testutil.CreateProfile(t, db, "Kim Minsu", "kim@example.com", models.UserRole),
		admin:    testutil.CreateProfile(t, db, "Manager", "admin@example.com", models.AdminRole),
	}
	controller := &controllers.NoticeController{
		Repo:     f.repo,
		Notifier: f.notifier,
		Search:   f.index,
	}

	f.app = fiber.New()
	routes.InitNoticeRoutes(f.app, controller, testutil.AuthByHeader(f.tenant, f.admin))
	return f
}

func (f *fixture) create(t *testing.T, body string) models.Notice {
	t.Helper()
	resp, env := testutil.Do(t, f.app, "POST", "/api/v1/admin/notices", body, f.admin)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Error)
	var n models.Notice
	env.DecodeData(t, &n)
	return n
}

func TestCreateDefaultsToPublishedAndAnnounces(t *testing.T) {
	f := newFixture(t)
	n := f.create(t, `{"title":"Fire drill","content":"Friday at 3pm"}`)

	assert.True(t, n.IsPublished)
	assert.False(t, n.IsImportant)
	assert.Equal(t, f.admin.ID, n.AuthorID)
	assert.Len(t, f.notifier.PublishedNotices, 1)
	assert.Contains(t, f.index.indexed, n.ID.String())
}

func TestCreateDraftIsHiddenFromTenants(t *testing.T) {
	f := newFixture(t)
	draft := f.create(t, `{"title":"Draft","content":"not yet","is_published":false}`)
	assert.Empty(t, f.notifier.PublishedNotices)

	resp, env := testutil.Do(t, f.app, "GET", "/api/v1/notices/"+draft.ID.String(), "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", env.Error)

	resp, env = testutil.Do(t, f.app, "GET", "/api/v1/notices", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list []models.Notice
	env.DecodeData(t, &list)
	assert.Empty(t, list)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)

	resp, _ := testutil.Do(t, f.app, "POST", "/api/v1/admin/notices", `{"title":"","content":"x"}`, f.admin)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = testutil.Do(t, f.app, "POST", "/api/v1/admin/notices", `{"title":"x","content":"   "}`, f.admin)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = testutil.Do(t, f.app, "POST", "/api/v1/admin/notices", `{"title":"x","content":"y"}`, f.tenant)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestEachDetailViewCounts(t *testing.T) {
	f := newFixture(t)
	n := f.create(t, `{"title":"Water outage","content":"Tuesday"}`)

	var got models.Notice
	for i := 1; i <= 4; i++ {
		resp, env := testutil.Do(t, f.app, "GET", "/api/v1/notices/"+n.ID.String(), "", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		env.DecodeData(t, &got)
		assert.Equal(t, i, got.ViewCount)
	}
}

func TestToggleImportantTwiceRestores(t *testing.T) {
	f := newFixture(t)
	n := f.create(t, `{"title":"Elevator","content":"maintenance"}`)
	path := "/api/v1/admin/notices/" + n.ID.String() + "/toggle-important"

	var got models.Notice
	resp, env := testutil.Do(t, f.app, "POST", path, "", f.admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	env.DecodeData(t, &got)
	assert.True(t, got.IsImportant)

	resp, env = testutil.Do(t, f.app, "POST", path, "", f.admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	env.DecodeData(t, &got)
	assert.False(t, got.IsImportant)
}

func TestTogglePublishedAnnouncesOnlyWhenShown(t *testing.T) {
	f := newFixture(t)
	n := f.create(t, `{"title":"Parking","content":"repaint","is_published":false}`)
	path := "/api/v1/admin/notices/" + n.ID.String() + "/toggle-published"

	resp, _ := testutil.Do(t, f.app, "POST", path, "", f.admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, f.notifier.PublishedNotices, 1)

	resp, _ = testutil.Do(t, f.app, "POST", path, "", f.admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, f.notifier.PublishedNotices, 1)
}

func TestPublicListPutsImportantFirst(t *testing.T) {
	f := newFixture(t)
	f.create(t, `{"title":"Regular","content":"a"}`)
	f.create(t, `{"title":"Urgent","content":"b","is_important":true}`)

	resp, env := testutil.Do(t, f.app, "GET", "/api/v1/notices?limit=5", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list []models.Notice
	env.DecodeData(t, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "Urgent", list[0].Title)

	resp, _ = testutil.Do(t, f.app, "GET", "/api/v1/notices?limit=-1", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminListPaginatesWithDrafts(t *testing.T) {
	f := newFixture(t)
	f.create(t, `{"title":"One","content":"a"}`)
	f.create(t, `{"title":"Two","content":"b","is_published":false}`)
	f.create(t, `{"title":"Three","content":"c"}`)

	resp, env := testutil.Do(t, f.app, "GET", "/api/v1/admin/notices?page=1&page_size=2", "", f.admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var page pagination.Page[models.Notice]
	env.DecodeData(t, &page)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Pagination.TotalItems)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.NotNil(t, page.Pagination.NextPage)

	resp, _ = testutil.Do(t, f.app, "GET", "/api/v1/admin/notices?page=0", "", f.admin)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	n := f.create(t, `{"title":"Draft","content":"a","is_published":false}`)
	path := "/api/v1/admin/notices/" + n.ID.String()

	resp, env := testutil.Do(t, f.app, "PUT", path, `{"title":"Final","content":"b","is_published":true}`, f.admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)
	var got models.Notice
	env.DecodeData(t, &got)
	assert.Equal(t, "Final", got.Title)
	assert.True(t, got.IsPublished)
	assert.Len(t, f.notifier.PublishedNotices, 1)

	resp, _ = testutil.Do(t, f.app, "DELETE", path, "", f.admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotContains(t, f.index.indexed, n.ID.String())

	resp, _ = testutil.Do(t, f.app, "GET", path, "", f.admin)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = testutil.Do(t, f.app, "DELETE", "/api/v1/admin/notices/not-a-uuid", "", f.admin)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
