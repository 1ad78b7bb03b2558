package moderation

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/auth"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/database"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/middleware"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/model"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/service"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/store"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/testutil"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/workflow"
)

var (
	testDB   *database.DBinstanceStruct
	postings *service.PostingService
	mc       *ModerationController
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var midTeardown func(context.Context, ...testcontainers.TerminateOption) error
	midTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}

	ps := store.NewPostingStore(testDB)
	postings = service.NewPostingService(ps, workflow.DefaultVisibilityRule())
	mc = NewModerationController(service.NewModerationService(ps, 4), postings)

	code := m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if midTeardown != nil {
		_ = midTeardown(ctx)
	}
	os.Exit(code)
}

func newRouter() *gin.Engine {
	r := gin.New()
	authed := r.Group("", middleware.RequireAuth(testDB))
	authed.POST("/postings/:id/submit", mc.SubmitHandler)
	authed.GET("/moderation/postings", mc.QueueHandler)
	authed.POST("/moderation/postings/bulk-approve", mc.BulkApproveHandler)
	authed.POST("/moderation/postings/bulk-reject", mc.BulkRejectHandler)
	authed.POST("/moderation/postings/:id/approve", mc.ApproveHandler)
	authed.POST("/moderation/postings/:id/reject", mc.RejectHandler)
	authed.POST("/moderation/postings/:id/return", mc.ReturnHandler)
	return r
}

func token(t *testing.T, username string) string {
	t.Helper()
	tok, err := auth.GetAccessToken(t, testDB, username, database.TestSeedPassword)
	require.NoError(t, err)
	return tok
}

func newPosting(t *testing.T, title string) model.Posting {
	t.Helper()
	p, err := postings.Create(context.Background(), database.TestUserHR1.Principal(), service.PostingInput{
		Kind:                workflow.KindJob,
		EditablePostingInfo: model.EditablePostingInfo{Title: title},
	})
	require.NoError(t, err)
	return p
}

func TestSubmitAndApprove(t *testing.T) {
	r := newRouter()
	p := newPosting(t, "submit and approve")
	hr := token(t, database.TestUserHR1.Username)
	admin := token(t, database.TestAdminUser.Username)

	rec, resp := testutil.MakeJSONRequest(nil, hr, r, fmt.Sprintf("/postings/%d/submit", p.ID), http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "PENDING", resp["moderation_status"])
	assert.NotNil(t, resp["submitted_at"])

	rec, resp = testutil.MakeJSONRequest(nil, hr, r, fmt.Sprintf("/postings/%d/submit", p.ID), http.MethodPost)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INVALID_TRANSITION", resp["code"])

	rec, _ = testutil.MakeJSONRequest(nil, hr, r, fmt.Sprintf("/moderation/postings/%d/approve", p.ID), http.MethodPost)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp = testutil.MakeJSONRequest(nil, admin, r, fmt.Sprintf("/moderation/postings/%d/approve", p.ID), http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "APPROVED", resp["moderation_status"])
	assert.Equal(t, database.TestAdminUser.ID.String(), resp["moderated_by"])

	rec, resp = testutil.MakeJSONRequest(nil, admin, r, fmt.Sprintf("/moderation/postings/%d/approve", p.ID), http.MethodPost)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INVALID_TRANSITION", resp["code"])
}

func TestRejectAndReturn_Reason(t *testing.T) {
	r := newRouter()
	admin := token(t, database.TestAdminUser.Username)
	p := newPosting(t, "needs a reason")

	for _, action := range []string{"reject", "return"} {
		rec, resp := testutil.MakeJSONRequest(gin.H{"reason": "   "}, admin, r, fmt.Sprintf("/moderation/postings/%d/%s", p.ID, action), http.MethodPost)
		assert.Equal(t, http.StatusBadRequest, rec.Code, action)
		assert.Equal(t, "VALIDATION", resp["code"], action)
	}

	rec, resp := testutil.MakeJSONRequest(gin.H{"reason": "missing salary"}, admin, r, fmt.Sprintf("/moderation/postings/%d/return", p.ID), http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "RETURNED", resp["moderation_status"])
	assert.Equal(t, "missing salary", resp["moderation_reason"])

	rec, resp = testutil.MakeJSONRequest(gin.H{"reason": "spam"}, admin, r, fmt.Sprintf("/moderation/postings/%d/reject", p.ID), http.MethodPost)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INVALID_TRANSITION", resp["code"])

	rec, _ = testutil.MakeJSONRequest(gin.H{"reason": "spam"}, admin, r, "/moderation/postings/999999/reject", http.MethodPost)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBulkReject(t *testing.T) {
	r := newRouter()
	admin := token(t, database.TestAdminUser.Username)
	a := newPosting(t, "bulk a")
	b := newPosting(t, "bulk b")
	_, err := mc.Moderation.Approve(context.Background(), database.TestAdminUser.Principal(), b.ID)
	require.NoError(t, err)

	rec, resp := testutil.MakeJSONRequest(gin.H{"ids": []uint{a.ID, b.ID, 999999}, "reason": "duplicate"}, admin, r, "/moderation/postings/bulk-reject", http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(1), resp["succeeded"])
	assert.Equal(t, float64(2), resp["failed"])

	items := resp["items"].([]interface{})
	require.Len(t, items, 3)
	first := items[0].(map[string]interface{})
	assert.Equal(t, true, first["ok"])
	assert.Equal(t, "REJECTED", first["moderation_status"])
	assert.Equal(t, "INVALID_TRANSITION", items[1].(map[string]interface{})["code"])
	assert.Equal(t, "NOT_FOUND", items[2].(map[string]interface{})["code"])

	rec, _ = testutil.MakeJSONRequest(gin.H{"ids": []uint{a.ID}}, admin, r, "/moderation/postings/bulk-reject", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = testutil.MakeJSONRequest(gin.H{"ids": []uint{a.ID}, "reason": "x"}, token(t, database.TestUserHR1.Username), r, "/moderation/postings/bulk-reject", http.MethodPost)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBulkApprove(t *testing.T) {
	r := newRouter()
	admin := token(t, database.TestAdminUser.Username)
	a := newPosting(t, "bulk approve a")
	b := newPosting(t, "bulk approve b")

	rec, resp := testutil.MakeJSONRequest(gin.H{"ids": []uint{a.ID, b.ID}}, admin, r, "/moderation/postings/bulk-approve", http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(2), resp["succeeded"])
	assert.Equal(t, float64(0), resp["failed"])
}

func TestQueue(t *testing.T) {
	r := newRouter()
	admin := token(t, database.TestAdminUser.Username)
	p := newPosting(t, "queue entry")
	path := "/moderation/postings?kind=job&search=queue+entry"

	rec, resp := testutil.MakeJSONRequest(nil, admin, r, path, http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(0), resp["total"])

	rec, resp = testutil.MakeJSONRequest(nil, admin, r, path+"&moderation=pending&submitted=false", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(1), resp["total"])

	rec, _ = testutil.MakeJSONRequest(nil, token(t, database.TestUserHR1.Username), r, fmt.Sprintf("/postings/%d/submit", p.ID), http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, resp = testutil.MakeJSONRequest(nil, admin, r, path, http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	items := resp["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, float64(p.ID), items[0].(map[string]interface{})["id"])
	assert.Equal(t, "PENDING", items[0].(map[string]interface{})["moderation_status"])

	rec, _ = testutil.MakeJSONRequest(nil, admin, r, path+"&submitted=maybe", http.MethodGet)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, token(t, database.TestUserCandidate1.Username), r, "/moderation/postings", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
