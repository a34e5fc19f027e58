package rest

import (
	"net/http"

	"github.com/dfryer1193/markblog/blog/application"
	"github.com/dfryer1193/markblog/blog/persistence"
	"github.com/dfryer1193/markblog/internal/middleware"
	"github.com/dfryer1193/markblog/shared/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds a gin engine with the shared middleware stack. CORS headers
// are only added for the listed origins; with none the API is same-origin only.
func NewRouter(allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))

	if len(allowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: true,
		}))
	}

	return router
}

// NewApi registers every API route plus the static upload directory on router.
func NewApi(router *gin.Engine, posts *application.PostService, images *persistence.FileImageRepository, authn *auth.Authenticator) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.Static(images.URLPrefix(), images.Dir())

	apiV1 := router.Group("/api")
	{
		NewPostHandler(posts).RegisterRoutes(apiV1, authn)
		NewSearchHandler(posts).RegisterRoutes(apiV1)
		NewTaxonomyHandler(posts).RegisterRoutes(apiV1)
		NewAuthHandler(authn).RegisterRoutes(apiV1)
		NewUploadHandler(images).RegisterRoutes(apiV1, authn)
	}
}
