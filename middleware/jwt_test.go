package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"meetgo/meetup-api/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newJWTTestRouter(t *testing.T) (*gin.Engine, model.User) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	viper.Set("jwt.secret", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.User{}))

	user := model.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	r := gin.New()
	r.Use(NewRequestIDMiddleware())
	r.GET("/protected", NewJWTMiddleware(db), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.MustGet("userID").(uint)})
	})

	return r, user
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return tok
}

func TestJWTMiddleware(t *testing.T) {
	r, user := newJWTTestRouter(t)

	do := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}

	t.Run("valid token passes and sets userID", func(t *testing.T) {
		tok := signToken(t, jwt.MapClaims{
			"user_id": user.ID,
			"iat":     time.Now().Unix(),
			"exp":     time.Now().Add(time.Hour).Unix(),
		})

		rr := do("Bearer " + tok)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"userID":1`)
	})

	t.Run("missing header", func(t *testing.T) {
		rr := do("")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		rr := do("Token abcdef")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("wrong signature", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": user.ID,
			"exp":     time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte("other-secret"))
		require.NoError(t, err)

		rr := do("Bearer " + tok)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		tok := signToken(t, jwt.MapClaims{
			"user_id": user.ID,
			"iat":     time.Now().Add(-2 * time.Hour).Unix(),
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})

		rr := do("Bearer " + tok)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("token for a deleted user", func(t *testing.T) {
		tok := signToken(t, jwt.MapClaims{
			"user_id": uint(4242),
			"iat":     time.Now().Unix(),
			"exp":     time.Now().Add(time.Hour).Unix(),
		})

		rr := do("Bearer " + tok)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
