package dto

// CreatePostRequest represents blog post creation data
type CreatePostRequest struct {
	Title string `json:"title" binding:"required,min=3,max=200"`
	Body  string `json:"body" binding:"required"`
}

// UpdatePostRequest represents blog post update data
type UpdatePostRequest struct {
	Title string `json:"title" binding:"required,min=3,max=200"`
	Body  string `json:"body" binding:"required"`
}

// ToggleLikeResponse reports the resulting like state after a toggle
type ToggleLikeResponse struct {
	Liked bool  `json:"liked"`
	Likes int64 `json:"likes"`
}
