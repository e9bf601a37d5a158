package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"websecurity/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authEngine(jwtManager *utils.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(jwtManager))
	r.GET("/me", func(c *gin.Context) {
		id, _ := GetUserID(c)
		name, _ := GetUsername(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "username": name, "admin": IsAdmin(c)})
	})
	r.GET("/admin", AdminMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func request(r *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("middleware-test", "HS256", time.Hour)
	r := authEngine(jwtManager)

	token, err := jwtManager.GenerateToken(7, "alice", false)
	require.NoError(t, err)

	w := request(r, "/me", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"username":"alice","admin":false}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, request(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(r, "/me", token).Code)
	assert.Equal(t, http.StatusUnauthorized, request(r, "/me", "Bearer "+token+"x").Code)

	other := utils.NewJWTManager("another-secret", "HS256", time.Hour)
	forged, err := other.GenerateToken(7, "alice", true)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, request(r, "/me", "Bearer "+forged).Code)
}

func TestAdminMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("middleware-test", "HS256", time.Hour)
	r := authEngine(jwtManager)

	user, err := jwtManager.GenerateToken(7, "alice", false)
	require.NoError(t, err)
	admin, err := jwtManager.GenerateToken(1, "root", true)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, request(r, "/admin", "Bearer "+user).Code)
	assert.Equal(t, http.StatusOK, request(r, "/admin", "Bearer "+admin).Code)
}
