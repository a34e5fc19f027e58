package rest

import (
	"net/http"
	"strconv"

	"github.com/dfryer1193/markblog/api"
	"github.com/dfryer1193/markblog/blog/application"
	"github.com/dfryer1193/markblog/internal/middleware"
	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	posts *application.PostService
}

func NewPostHandler(posts *application.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

func (h *PostHandler) RegisterRoutes(r gin.IRouter, sessions middleware.SessionVerifier) {
	optional := middleware.OptionalAuth(sessions)
	required := middleware.RequireAuth(sessions)

	r.GET("/posts", optional, h.ListPosts)
	r.GET("/posts/:slug", optional, h.GetPost)
	r.POST("/posts", required, h.SavePost)
	r.DELETE("/posts", required, h.DeletePost)
	r.DELETE("/posts/:slug", required, h.DeletePost)
}

// includeDrafts honours ?includeDrafts=true only for an authenticated admin.
func includeDrafts(c *gin.Context) bool {
	requested, _ := strconv.ParseBool(c.Query("includeDrafts"))
	return requested && middleware.IsAdmin(c)
}

func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context(), includeDrafts(c))
	if err != nil {
		respondError(c, err, "Failed to fetch posts")
		return
	}

	c.JSON(http.StatusOK, api.PostListResponse{Posts: toAPIPosts(posts)})
}

func (h *PostHandler) GetPost(c *gin.Context) {
	rendered, err := h.posts.RenderPost(c.Request.Context(), c.Param("slug"), includeDrafts(c))
	if err != nil {
		respondError(c, err, "Failed to fetch post")
		return
	}

	c.JSON(http.StatusOK, api.RenderedPostResponse{
		Post:    toAPIPost(rendered.Post),
		HTML:    rendered.HTML,
		Snippet: rendered.Snippet,
	})
}

func (h *PostHandler) SavePost(c *gin.Context) {
	req := &api.SavePostRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: bindingMessage(err)})
		return
	}

	slug, err := h.posts.Save(c.Request.Context(), req.Slug, toDomainFrontmatter(req.Frontmatter), req.Content)
	if err != nil {
		respondError(c, err, "Failed to save post")
		return
	}

	c.JSON(http.StatusOK, api.SavePostResponse{Success: true, Slug: slug})
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		slug = c.Query("slug")
	}
	if slug == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Slug is required"})
		return
	}

	if err := h.posts.Delete(c.Request.Context(), slug); err != nil {
		respondError(c, err, "Failed to delete post")
		return
	}

	c.JSON(http.StatusOK, api.DeletePostResponse{Success: true})
}
