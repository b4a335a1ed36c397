package dto

// CreateCommentRequest attaches a comment to a piece of content. ParentID,
// when set, makes this a reply; replies are one level deep.
type CreateCommentRequest struct {
	ContentType string `json:"contentType" binding:"required,oneof=post lesson"`
	ContentID   int64  `json:"contentId" binding:"required,min=1"`
	Body        string `json:"body" binding:"required,min=1,max=5000"`
	ParentID    *int64 `json:"parentId,omitempty" binding:"omitempty,min=1"`
}

// UpdateCommentRequest edits a comment's body (author only)
type UpdateCommentRequest struct {
	Body string `json:"body" binding:"required,min=1,max=5000"`
}

// ReactionRequest toggles a like or dislike on a comment
type ReactionRequest struct {
	Kind string `json:"kind" binding:"required,oneof=like dislike"`
}

// ReportCommentRequest flags a comment for moderation
type ReportCommentRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=500"`
}

// SetCommentApprovalRequest hides or unhides a comment (admin only)
type SetCommentApprovalRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// ReactionResponse reports the resulting reaction state after a toggle
type ReactionResponse struct {
	Kind     string `json:"kind,omitempty"` // Empty when the toggle removed the reaction
	Likes    int    `json:"likes"`
	Dislikes int    `json:"dislikes"`
}
