// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	"meetgo/meetup-api/db"
	"meetgo/meetup-api/middleware"
	"meetgo/meetup-api/security"
	"meetgo/meetup-api/service"
	"meetgo/meetup-api/storage"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

// Fixed page size for every paginated listing
const pageSize = 10

type API struct {
	DB      *gorm.DB
	Router  *gin.Engine
	Argon   *security.ArgonHash
	Storage storage.Storage
	Mail    service.MailEnqueuer
}

func NewRouter() (*API, error) {
	a := &API{
		Argon: security.New(),
		Mail:  service.NewAsynqEnqueuer(),
	}

	db, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = db

	st, err := storage.New(viper.GetString("storage.type"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage, %w", err)
	}
	a.Storage = st

	makeLogger()

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v, ok := c.Get("userID"); ok {
					fields = append(fields, zap.Any("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 5 << 20

	a.registerRoutes()

	return a, nil
}

// registerRoutes wires every endpoint onto the engine. Kept separate from
// NewRouter so tests can mount the same routes on their own deps.
func (a *API) registerRoutes() {
	jwt := middleware.NewJWTMiddleware(a.DB)
	limiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 10,
		Burst:             30,
	})
	maxUploadSize := viper.GetInt64("upload.max_size")
	cacheStore := persist.NewMemoryStore(time.Minute)

	r := a.Router

	// HEAD /heartbeat		-> Used to check if the server is alive
	r.HEAD("/heartbeat", a.Heartbeat)

	// HEAD /validate		-> Validates a JWT token
	r.HEAD("/validate", jwt, a.Validate)

	users := r.Group("/users", middleware.BodySizeLimiter(1<<20))
	{
		// POST /users			-> Registers a new user
		users.POST("", limiter, a.UserRegister)

		// PUT /users			-> Updates the authenticated user's profile
		users.PUT("", jwt, a.UserUpdate)
	}

	// POST /sessions		-> Verifies credentials and returns a JWT token
	r.POST("/sessions", middleware.BodySizeLimiter(1<<20), limiter, a.SessionStore)

	meetups := r.Group("/meetups", jwt)
	{
		// GET /meetups			-> Paginated meetup listing, optional date filter
		meetups.GET("", cache.CacheByRequestURI(cacheStore, 10*time.Second), a.MeetupIndex)

		// POST /meetups		-> Creates a meetup organized by the caller
		meetups.POST("", a.MeetupStore)

		// PUT /meetups/:id		-> Partially updates an upcoming meetup
		meetups.PUT("/:id", a.MeetupUpdate)

		// DELETE /meetups/:id		-> Deletes an upcoming meetup
		meetups.DELETE("/:id", a.MeetupDelete)

		// POST /meetups/:id/subscriptions -> Subscribes the caller to a meetup
		meetups.POST("/:id/subscriptions", a.SubscriptionStore)
	}

	// GET /subscriptions		-> The caller's upcoming subscriptions
	r.GET("/subscriptions", jwt, a.SubscriptionIndex)

	files := r.Group("/files")
	{
		// POST /files			-> Uploads a banner/avatar image
		files.POST("", jwt, middleware.BodySizeLimiter(maxUploadSize), a.FileUpload)

		// GET /files/:key		-> Serves or redirects to a stored file
		files.GET("/:key", a.FileServe)
	}
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}
