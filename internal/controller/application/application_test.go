package application

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
	testDB     *database.DBinstanceStruct
	postings   *service.PostingService
	moderation *service.ModerationService
	ac         *ApplicationController
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
	rule := workflow.DefaultVisibilityRule()
	postings = service.NewPostingService(ps, rule)
	moderation = service.NewModerationService(ps, 4)
	ac = NewApplicationController(service.NewApplicationService(ps, store.NewApplicationStore(testDB), rule))

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
	authed.POST("/postings/:id/applications", ac.ApplyHandler)
	authed.GET("/postings/:id/applications", ac.ListForPostingHandler)
	authed.GET("/applications/mine", ac.ListMineHandler)
	authed.POST("/applications/:id/decision", ac.DecideHandler)
	authed.GET("/candidates/:candidate_id/applications", ac.ListForCandidateHandler)
	return r
}

func token(t *testing.T, username string) string {
	t.Helper()
	tok, err := auth.GetAccessToken(t, testDB, username, database.TestSeedPassword)
	require.NoError(t, err)
	return tok
}

// openJob creates an ACTIVE and APPROVED job owned by HR1.
func openJob(t *testing.T, title string) model.Posting {
	t.Helper()
	ctx := context.Background()
	owner := database.TestUserHR1.Principal()
	p, err := postings.Create(ctx, owner, service.PostingInput{
		Kind:                workflow.KindJob,
		EditablePostingInfo: model.EditablePostingInfo{Title: title},
	})
	require.NoError(t, err)
	_, err = postings.SetStatus(ctx, owner, p.ID, workflow.StatusActive)
	require.NoError(t, err)
	p, err = moderation.Approve(ctx, database.TestAdminUser.Principal(), p.ID)
	require.NoError(t, err)
	return p
}

func TestApply(t *testing.T) {
	r := newRouter()
	p := openJob(t, "apply here")
	candidate := token(t, database.TestUserCandidate1.Username)
	path := fmt.Sprintf("/postings/%d/applications", p.ID)

	rec, resp := testutil.MakeJSONRequest(gin.H{"cover_letter": "  I like Go  "}, candidate, r, path, http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "PENDING", resp["status"])
	assert.Equal(t, "I like Go", resp["cover_letter"])
	assert.Equal(t, database.TestUserCandidate1.ID.String(), resp["candidate_id"])

	rec, resp = testutil.MakeJSONRequest(nil, candidate, r, path, http.MethodPost)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DUPLICATE_APPLICATION", resp["code"])

	rec, resp = testutil.MakeJSONRequest(nil, token(t, database.TestUserHR2.Username), r, path, http.MethodPost)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", resp["code"])

	rec, _ = testutil.MakeJSONRequest(nil, candidate, r, "/postings/999999/applications", http.MethodPost)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApply_NotVisible(t *testing.T) {
	r := newRouter()
	candidate := token(t, database.TestUserCandidate2.Username)

	rec, resp := testutil.MakeJSONRequest(nil, candidate, r, fmt.Sprintf("/postings/%d/applications", database.TestDraftInternship.ID), http.MethodPost)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "POSTING_NOT_VISIBLE", resp["code"])
}

func TestDecide(t *testing.T) {
	r := newRouter()
	p := openJob(t, "decide here")
	owner := token(t, database.TestUserHR1.Username)

	rec, resp := testutil.MakeJSONRequest(nil, token(t, database.TestUserCandidate2.Username), r, fmt.Sprintf("/postings/%d/applications", p.ID), http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	path := fmt.Sprintf("/applications/%d/decision", uint(resp["id"].(float64)))

	rec, resp = testutil.MakeJSONRequest(gin.H{"decision": "MAYBE"}, owner, r, path, http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION", resp["code"])

	rec, _ = testutil.MakeJSONRequest(gin.H{"decision": "ACCEPTED"}, token(t, database.TestUserHR2.Username), r, path, http.MethodPost)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp = testutil.MakeJSONRequest(gin.H{"decision": "ACCEPTED"}, owner, r, path, http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "ACCEPTED", resp["status"])
	assert.Equal(t, database.TestUserHR1.ID.String(), resp["decided_by"])

	rec, resp = testutil.MakeJSONRequest(gin.H{"decision": "REJECTED"}, owner, r, path, http.MethodPost)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_DECIDED", resp["code"])
}

func TestListings(t *testing.T) {
	r := newRouter()
	first := openJob(t, "list one")
	second := openJob(t, "list two")
	candidate := token(t, database.TestUserCandidate2.Username)
	for _, p := range []model.Posting{first, second} {
		rec, _ := testutil.MakeJSONRequest(nil, candidate, r, fmt.Sprintf("/postings/%d/applications", p.ID), http.MethodPost)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, resp := testutil.MakeJSONRequest(nil, candidate, r, "/applications/mine?limit=1", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.GreaterOrEqual(t, resp["total"], float64(2))
	items := resp["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, float64(second.ID), items[0].(map[string]interface{})["posting_id"])

	rec, resp = testutil.MakeJSONRequest(nil, token(t, database.TestUserHR1.Username), r, fmt.Sprintf("/postings/%d/applications", first.ID), http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), resp["total"])

	rec, _ = testutil.MakeJSONRequest(nil, token(t, database.TestUserHR2.Username), r, fmt.Sprintf("/postings/%d/applications", first.ID), http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	candidatePath := fmt.Sprintf("/candidates/%s/applications", database.TestUserCandidate2.ID)
	rec, _ = testutil.MakeJSONRequest(nil, token(t, database.TestAdminUser.Username), r, candidatePath, http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, token(t, database.TestUserCandidate1.Username), r, candidatePath, http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, candidate, r, "/candidates/not-a-uuid/applications", http.MethodGet)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
