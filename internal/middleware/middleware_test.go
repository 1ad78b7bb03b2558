package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/auth"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/config"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/database"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/utilities"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/workflow"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var midTeardown func(context.Context, ...testcontainers.TerminateOption) error
	midTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	code := m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if midTeardown != nil {
		_ = midTeardown(ctx)
	}
	os.Exit(code)
}

func protectedEngine() *gin.Engine {
	r := gin.New()
	r.GET("/protected", RequireAuth(testDB), checkUserHandler)
	return r
}

func checkUserHandler(c *gin.Context) {
	u, exist := c.Get("user")
	if !exist {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false})
		return
	}
	principal, err := utilities.ExtractPrincipal(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u, "role": principal.Role})
}

func roleHandler(c *gin.Context) {
	principal, err := utilities.ExtractPrincipal(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Hello, " + string(principal.Role)})
}

func readBodyHandler(c *gin.Context) {
	if _, err := io.ReadAll(c.Request.Body); err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Entity too large"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func doRequest(engine *gin.Engine, method, path, token string, body io.Reader) (*httptest.ResponseRecorder, map[string]interface{}) {
	req, _ := http.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var resp map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func TestRequireAuth_Success(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestUserHR1.Username, database.TestSeedPassword)
	require.NoError(t, err)

	rec, body := doRequest(protectedEngine(), http.MethodGet, "/protected", token, nil)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, string(workflow.RoleHR), body["role"])
}

func TestRequireAuth_NoHeader(t *testing.T) {
	rec, body := doRequest(protectedEngine(), http.MethodGet, "/protected", "", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "Invalid authorization header")
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	token, _, err := auth.GenerateTokenWithDuration(database.TestUserHR1.ID, -1*time.Minute, auth.JwtIssuer)
	require.NoError(t, err)

	rec, body := doRequest(protectedEngine(), http.MethodGet, "/protected", token, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access token expired", body["error"])
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	// Signature mismatch
	validToken, _, err := auth.GenerateTokenWithDuration(database.TestUserHR1.ID, time.Hour, auth.JwtIssuer)
	require.NoError(t, err)

	rec, body := doRequest(protectedEngine(), http.MethodGet, "/protected", validToken+"x", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, body["error"], "Failed to validate token")
}

func TestRequireAuth_UnknownUser(t *testing.T) {
	token, _, err := auth.GenerateTokenWithDuration(uuid.New(), time.Hour, auth.JwtIssuer)
	require.NoError(t, err)

	rec, body := doRequest(protectedEngine(), http.MethodGet, "/protected", token, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, body["error"], "User not exist")
}

func TestRequireAuth_InvalidIssuer(t *testing.T) {
	token, _, err := auth.GenerateTokenWithDuration(database.TestUserHR1.ID, time.Hour, "invalid-issuer")
	require.NoError(t, err)

	rec, body := doRequest(protectedEngine(), http.MethodGet, "/protected", token, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
	assert.Contains(t, body["error"], "Invalid token issuer")
}

func TestCheckRole_NoRequireAuthBefore(t *testing.T) {
	engine := gin.New()
	engine.GET("/need-role", CheckRole(workflow.RoleAdmin), roleHandler)

	rec, body := doRequest(engine, http.MethodGet, "/need-role", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, body["error"], "User information not provided")
}

func TestCheckRole_WrongRole(t *testing.T) {
	engine := gin.New()
	engine.GET("/need-role", RequireAuth(testDB), CheckRole(workflow.RoleAdmin), roleHandler)
	token, err := auth.GetAccessToken(t, testDB, database.TestUserCandidate1.Username, database.TestSeedPassword)
	require.NoError(t, err)

	rec, body := doRequest(engine, http.MethodGet, "/need-role", token, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, body["error"], "User doesn't have permission to access")
}

func TestCheckRole_MultipleRoleCheck(t *testing.T) {
	engine := gin.New()
	engine.GET("/need-role", RequireAuth(testDB), CheckRole(workflow.RoleHR, workflow.RoleUniversity), roleHandler)

	cases := []struct {
		username string
		code     int
		message  string
	}{
		{database.TestUserHR1.Username, http.StatusOK, "Hello, HR"},
		{database.TestUserUniversity1.Username, http.StatusOK, "Hello, UNIVERSITY"},
		{database.TestUserCandidate1.Username, http.StatusForbidden, ""},
		{database.TestAdminUser.Username, http.StatusForbidden, ""},
	}

	for _, tc := range cases {
		t.Run(tc.username, func(t *testing.T) {
			token, err := auth.GetAccessToken(t, testDB, tc.username, database.TestSeedPassword)
			require.NoError(t, err)

			rec, body := doRequest(engine, http.MethodGet, "/need-role", token, nil)

			assert.Equal(t, tc.code, rec.Code, rec.Body.String())
			if tc.message != "" {
				assert.Equal(t, tc.message, body["message"])
			}
		})
	}
}

func TestSizeLimit(t *testing.T) {
	engine := gin.New()
	engine.POST("/upload", SizeLimit(1024), readBodyHandler)

	rec, body := doRequest(engine, http.MethodPost, "/upload", "", bytes.NewReader(make([]byte, 512)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])

	rec, _ = doRequest(engine, http.MethodPost, "/upload", "", bytes.NewReader(make([]byte, 1024)))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = doRequest(engine, http.MethodPost, "/upload", "", bytes.NewReader(make([]byte, 2048)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "Entity too large", body["error"])
}

func TestSizeLimit_UnknownLength(t *testing.T) {
	engine := gin.New()
	engine.POST("/upload", SizeLimit(1024), readBodyHandler)

	// MultiReader hides the length from http.NewRequest
	rec, _ := doRequest(engine, http.MethodPost, "/upload", "", io.MultiReader(strings.NewReader(strings.Repeat("a", 4096))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestSafeHeader(t *testing.T) {
	engine := gin.New()
	engine.Use(SafeHeader())
	engine.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	rec, _ := doRequest(engine, http.MethodGet, "/ping", "", nil)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'none'")
}

func TestRateLimiter(t *testing.T) {
	engine := gin.New()
	engine.Use(RateLimiterMiddleware(2))
	engine.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	for i := 0; i < 2; i++ {
		rec, _ := doRequest(engine, http.MethodGet, "/ping", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec, body := doRequest(engine, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, body["error"], "Too many requests")
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestConfigRateLimitMiddleware_InMemory(t *testing.T) {
	engine := gin.New()
	engine.Use(ConfigRateLimitMiddleware(config.Config{RateLimitPerSecond: 1}))
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec, _ := doRequest(engine, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = doRequest(engine, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestConfigUserRateLimitMiddleware_PerUser(t *testing.T) {
	engine := gin.New()
	engine.Use(RequireAuth(testDB), ConfigUserRateLimitMiddleware(config.Config{RateLimitPerSecond: 1}))
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	hr1, err := auth.GetAccessToken(t, testDB, database.TestUserHR1.Username, database.TestSeedPassword)
	require.NoError(t, err)
	hr2, err := auth.GetAccessToken(t, testDB, database.TestUserHR2.Username, database.TestSeedPassword)
	require.NoError(t, err)

	rec, _ := doRequest(engine, http.MethodGet, "/ping", hr1, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = doRequest(engine, http.MethodGet, "/ping", hr1, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Same address, different user, separate budget
	rec, _ = doRequest(engine, http.MethodGet, "/ping", hr2, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUserKey(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, ipKey(c), userKey(c))

	c.Set("user", database.TestUserCandidate1)
	assert.Equal(t, "user: "+database.TestUserCandidate1.ID.String(), userKey(c))
}
