package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"meetgo/meetup-api/middleware"
	"meetgo/meetup-api/model"
	"meetgo/meetup-api/security"
	"meetgo/meetup-api/service"
	"meetgo/meetup-api/storage"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gin-gonic/gin"
)

type fakeMail struct {
	mu   sync.Mutex
	sent []*service.SubscriptionMailPayload
}

func (f *fakeMail) EnqueueSubscriptionMail(_ context.Context, p *service.SubscriptionMailPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, p)
	return nil
}

func (f *fakeMail) Sent() []*service.SubscriptionMailPayload {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]*service.SubscriptionMailPayload{}, f.sent...)
}

func newTestAPI(t *testing.T) (*API, *fakeMail) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	viper.Set("jwt.secret", "test-secret")
	viper.Set("jwt.expires_in", "1h")
	viper.Set("upload.max_size", int64(5<<20))
	viper.Set("storage.path", t.TempDir())
	viper.Set("host.domain", "localhost")
	viper.Set("host.port", 3333)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(model.User{}, model.File{}, model.Meetup{}, model.Subscription{})
	require.NoError(t, err)

	st, err := storage.NewLocal()
	require.NoError(t, err)

	mail := &fakeMail{}

	a := &API{
		DB:      db,
		Argon:   security.New(),
		Storage: st,
		Mail:    mail,
	}

	router := gin.New()
	router.Use(middleware.NewRequestIDMiddleware())
	a.Router = router
	a.registerRoutes()

	return a, mail
}

func createUser(t *testing.T, a *API, name, email, password string) model.User {
	t.Helper()

	hash, err := a.Argon.GenerateFromPassword(password)
	require.NoError(t, err)

	user := model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	require.NoError(t, a.DB.Create(&user).Error)

	return user
}

func createBanner(t *testing.T, a *API) model.File {
	t.Helper()

	file := model.File{
		Name: "banner.png",
		Path: "banner-" + time.Now().Format("150405.000000000") + ".png",
		URL:  "http://localhost:3333/files/banner.png",
	}
	require.NoError(t, a.DB.Create(&file).Error)

	return file
}

func createMeetup(t *testing.T, a *API, organizer model.User, title string, date time.Time) model.Meetup {
	t.Helper()

	banner := createBanner(t, a)

	meetup := model.Meetup{
		Title:       title,
		Description: "a meetup",
		Location:    "somewhere",
		Date:        date.UTC(),
		BannerID:    banner.ID,
		UserID:      organizer.ID,
	}
	require.NoError(t, a.DB.Create(&meetup).Error)

	return meetup
}

func token(t *testing.T, userID uint) string {
	t.Helper()

	tok, err := makeToken(userID)
	require.NoError(t, err)

	return tok
}

func doRequest(t *testing.T, a *API, method, path, authToken string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")

	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)

	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))

	return out
}

func TestHeartbeat(t *testing.T) {
	a, _ := newTestAPI(t)

	rr := doRequest(t, a, http.MethodHead, "/heartbeat", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
}
