package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/inotebook/internal/common"
	"github.com/dmitrijs2005/inotebook/internal/logging"
	"github.com/dmitrijs2005/inotebook/internal/server/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Users   UserService
	Notes   NoteService
	Tokens  TokenDecoder
	Metrics *metrics.Metrics
	Logger  logging.Logger
}

// NewRouter builds the gin engine with every route of the API.
func NewRouter(d RouterDeps) *gin.Engine {
	useJSONFieldNames()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(d.Logger))
	r.Use(d.Metrics.Middleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", common.AuthTokenHeaderName},
		ExposeHeaders: []string{"Content-Length", "Content-Type", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	api := r.Group("/api")

	authHandler := NewAuthHandler(d.Users, d.Metrics, d.Logger)
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/me", RequireAuth(d.Tokens), authHandler.Me)

	notes := api.Group("/notes", RequireAuth(d.Tokens))
	noteHandler := NewNoteHandler(d.Notes, d.Logger)
	notes.GET("", noteHandler.List)
	notes.POST("", noteHandler.Create)
	notes.PUT("/:id", noteHandler.Update)
	notes.DELETE("/:id", noteHandler.Delete)
	notes.PUT("/:id/attachment", noteHandler.UploadAttachment)
	notes.GET("/:id/attachment", noteHandler.DownloadAttachment)

	return r
}
