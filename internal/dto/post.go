package dto

import "time"

// CreatePostRequest is accepted as JSON or as a multipart form with an
// optional "image" file.
type CreatePostRequest struct {
	Body   string  `json:"body" form:"body" binding:"required,min=1,max=2000"`
	PetIDs []int64 `json:"petIds" form:"petIds" binding:"max=10,dive,gt=0"`
}

type CreateCommentRequest struct {
	Body string `json:"body" binding:"required,min=1,max=500"`
}

type PostResponse struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"authorId"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Hashtags  []string  `json:"hashtags"`
	PetIDs    []int64   `json:"petIds"`
	Likes     int       `json:"likes"`
	Comments  int       `json:"comments"`
	LikedByMe bool      `json:"likedByMe"`
	CreatedAt time.Time `json:"createdAt"`
}

type FeedResponse struct {
	Items []PostResponse `json:"items"`
	// NextBefore is the cursor for the next page, 0 when there is none.
	NextBefore int64 `json:"nextBefore"`
}

type LikeResponse struct {
	PostID int64 `json:"postId"`
	Liked  bool  `json:"liked"`
	Likes  int   `json:"likes"`
}

type CommentResponse struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"postId"`
	AuthorID  int64     `json:"authorId"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListCommentsResponse struct {
	Items []CommentResponse `json:"items"`
}
