package rest

import (
	"net/http"

	"github.com/dfryer1193/markblog/api"
	"github.com/dfryer1193/markblog/blog/application"
	"github.com/gin-gonic/gin"
)

// TaxonomyHandler serves the category and tag indexes. Drafts never appear here.
type TaxonomyHandler struct {
	posts *application.PostService
}

func NewTaxonomyHandler(posts *application.PostService) *TaxonomyHandler {
	return &TaxonomyHandler{posts: posts}
}

func (h *TaxonomyHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/categories", h.ListCategories)
	r.GET("/categories/:name", h.PostsByCategory)
	r.GET("/tags", h.ListTags)
	r.GET("/tags/:name", h.PostsByTag)
}

func (h *TaxonomyHandler) ListCategories(c *gin.Context) {
	categories, err := h.posts.AllCategories(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, api.CategoriesResponse{Categories: categories})
}

func (h *TaxonomyHandler) PostsByCategory(c *gin.Context) {
	posts, err := h.posts.ByCategory(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err, "Failed to fetch posts")
		return
	}

	c.JSON(http.StatusOK, api.PostListResponse{Posts: toAPIPosts(posts)})
}

func (h *TaxonomyHandler) ListTags(c *gin.Context) {
	tags, err := h.posts.AllTags(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch tags")
		return
	}

	c.JSON(http.StatusOK, api.TagsResponse{Tags: tags})
}

func (h *TaxonomyHandler) PostsByTag(c *gin.Context) {
	posts, err := h.posts.ByTag(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err, "Failed to fetch posts")
		return
	}

	c.JSON(http.StatusOK, api.PostListResponse{Posts: toAPIPosts(posts)})
}
