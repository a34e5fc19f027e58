package api

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Success bool `json:"success"`
}

type AuthCheckResponse struct {
	Authenticated bool `json:"authenticated"`
}

type UploadResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

type DeleteUploadResponse struct {
	Success bool `json:"success"`
}
