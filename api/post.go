package api

// Frontmatter mirrors the metadata block of a post on the wire.
type Frontmatter struct {
	Title      string   `json:"title"`
	Date       string   `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Author     string   `json:"author"`
	Excerpt    string   `json:"excerpt"`
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
	CoverImage string   `json:"coverImage"`
	Draft      bool     `json:"draft"`
}

type Post struct {
	Slug        string      `json:"slug"`
	Frontmatter Frontmatter `json:"frontmatter"`
	Content     string      `json:"content"`
}

// SavePostRequest is the body of POST /api/posts. An empty slug is derived from the title.
type SavePostRequest struct {
	Slug        string       `json:"slug"`
	Frontmatter *Frontmatter `json:"frontmatter" binding:"required"`
	Content     string       `json:"content" binding:"required"`
}

type SavePostResponse struct {
	Success bool   `json:"success"`
	Slug    string `json:"slug"`
}

type DeletePostResponse struct {
	Success bool `json:"success"`
}

type PostListResponse struct {
	Posts []Post `json:"posts"`
}

type RenderedPostResponse struct {
	Post    Post   `json:"post"`
	HTML    string `json:"html"`
	Snippet string `json:"snippet"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

type TagsResponse struct {
	Tags []string `json:"tags"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
