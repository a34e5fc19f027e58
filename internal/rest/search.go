package rest

import (
	"net/http"

	"github.com/dfryer1193/markblog/api"
	"github.com/dfryer1193/markblog/blog/application"
	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	posts *application.PostService
}

func NewSearchHandler(posts *application.PostService) *SearchHandler {
	return &SearchHandler{posts: posts}
}

func (h *SearchHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/search", h.Search)
}

func (h *SearchHandler) Search(c *gin.Context) {
	posts, err := h.posts.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err, "Failed to search posts")
		return
	}

	c.JSON(http.StatusOK, api.PostListResponse{Posts: toAPIPosts(posts)})
}
