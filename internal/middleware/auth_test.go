package middleware

import (
	"edu_quiz_backend/internal/config"
	"edu_quiz_backend/internal/model"
	"edu_quiz_backend/internal/util"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: secret}}

	r := gin.New()
	r.Use(AuthMiddleware(cfg))
	r.GET("/any", func(c *gin.Context) {
		util.Success(c, util.GetUserFromContext(c).UserID)
	})
	r.GET("/instructors", RoleMiddleware(model.Instructor), func(c *gin.Context) {
		util.Success(c, "ok")
	})
	return r
}

func token(t *testing.T, role model.UserRole, ttl time.Duration) string {
	t.Helper()
	user := &model.User{Email: "u@example.com", Role: role}
	user.ID = "user-1"
	tok, err := util.GenerateJWT(user, secret, ttl)
	require.NoError(t, err)
	return tok
}

func do(r *gin.Engine, path, authorization string) (*httptest.ResponseRecorder, util.Response) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body util.Response
	json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()

	w, body := do(r, "/any", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, util.CodeAuthMissing, body.ErrorCode)

	w, body = do(r, "/any", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, util.CodeAuthInvalid, body.ErrorCode)

	expired := &util.Claims{
		UserID: "user-1",
		Role:   model.Student,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	stale, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString([]byte(secret))
	require.NoError(t, err)
	w, body = do(r, "/any", "Bearer "+stale)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, util.CodeAuthInvalid, body.ErrorCode)

	w, body = do(r, "/any", "Bearer "+token(t, model.Student, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", body.Data)
}

func TestRoleMiddleware(t *testing.T) {
	r := newRouter()

	w, body := do(r, "/instructors", "Bearer "+token(t, model.Student, time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, util.CodeAuthorization, body.ErrorCode)

	w, _ = do(r, "/instructors", "Bearer "+token(t, model.Instructor, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
}
