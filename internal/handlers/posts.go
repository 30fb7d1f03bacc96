package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/auth"
	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/dto"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/repo"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostHandler struct {
	svc    *service.PostService
	logger *zap.Logger
}

func NewPostHandler(svc *service.PostService, logger *zap.Logger) *PostHandler {
	return &PostHandler{svc: svc, logger: logger}
}

// Feed godoc
// @Summary      Social feed, newest first
// @Tags         posts
// @Produce      json
// @Security     CookieAuth
// @Param        before  query     int  false  "Cursor from nextBefore"
// @Param        limit   query     int  false  "Page size (default 20, max 100)"
// @Success      200     {object}  dto.FeedResponse
// @Router       /feed [get]
func (h *PostHandler) Feed(c *gin.Context) {
	h.feed(c, "")
}

// ByHashtag godoc
// @Summary      Posts with a hashtag
// @Tags         posts
// @Produce      json
// @Param        tag     path      string  true   "Hashtag without #"
// @Param        before  query     int     false  "Cursor from nextBefore"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  dto.FeedResponse
// @Router       /hashtags/{tag} [get]
func (h *PostHandler) ByHashtag(c *gin.Context) {
	h.feed(c, c.Param("tag"))
}

func (h *PostHandler) feed(c *gin.Context, hashtag string) {
	before, _ := strconv.ParseInt(c.Query("before"), 10, 64)
	posts, next, err := h.svc.Feed(c.Request.Context(), repo.FeedQuery{
		ViewerID: auth.UserIDFromContext(c),
		Before:   before,
		Limit:    queryInt(c, "limit", service.DefaultFeedLimit),
		Hashtag:  hashtag,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]dto.PostResponse, len(posts))
	for i := range posts {
		out[i] = postToResponse(posts[i])
	}
	c.JSON(http.StatusOK, dto.FeedResponse{Items: out, NextBefore: next})
}

// Create godoc
// @Summary      Create a post
// @Description  JSON body, or multipart form with body, petIds and an optional image
// @Tags         posts
// @Accept       json,mpfd
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreatePostRequest  true  "Post"
// @Success      201   {object}  dto.PostResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	var req dto.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}
	in := service.PostInput{Body: req.Body, PetIDs: req.PetIDs}
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if fh, err := c.FormFile("image"); err == nil {
			f, err := fh.Open()
			if err != nil {
				writeError(c, err)
				return
			}
			defer closeWithLog(f, "post image upload", h.logger)
			in.Image = f
		}
	}
	p, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, postToResponse(p))
}

// Get godoc
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  dto.PostResponse
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [get]
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id, auth.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, postToResponse(p))
}

// Delete godoc
// @Summary      Delete a post (author or admin)
// @Tags         posts
// @Security     CookieAuth
// @Param        id   path  int  true  "Post ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [delete]
// @Router       /admin/posts/{id} [delete]
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, _ := auth.PrincipalFrom(c)
	if err := h.svc.Delete(c.Request.Context(), p.UserID, p.IsAdmin(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Like godoc
// @Summary      Like a post
// @Tags         posts
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  dto.LikeResponse
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/like [post]
func (h *PostHandler) Like(c *gin.Context) {
	h.changeLike(c, true)
}

// Unlike godoc
// @Summary      Remove a like
// @Tags         posts
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  dto.LikeResponse
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/like [delete]
func (h *PostHandler) Unlike(c *gin.Context) {
	h.changeLike(c, false)
}

func (h *PostHandler) changeLike(c *gin.Context, like bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := auth.UserIDFromContext(c)
	var (
		n   int
		err error
	)
	if like {
		n, err = h.svc.Like(c.Request.Context(), id, userID)
	} else {
		n, err = h.svc.Unlike(c.Request.Context(), id, userID)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.LikeResponse{PostID: id, Liked: like, Likes: n})
}

// Comments godoc
// @Summary      List comments, oldest first
// @Tags         posts
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  dto.ListCommentsResponse
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/comments [get]
func (h *PostHandler) Comments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.svc.Comments(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]dto.CommentResponse, len(list))
	for i := range list {
		out[i] = commentToResponse(list[i])
	}
	c.JSON(http.StatusOK, dto.ListCommentsResponse{Items: out})
}

// AddComment godoc
// @Summary      Comment on a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Post ID"
// @Param        body  body      dto.CreateCommentRequest  true  "Comment"
// @Success      201   {object}  dto.CommentResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /posts/{id}/comments [post]
func (h *PostHandler) AddComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cm, err := h.svc.AddComment(c.Request.Context(), id, auth.UserIDFromContext(c), req.Body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, commentToResponse(cm))
}

// Image godoc
// @Summary      Post image
// @Tags         posts
// @Produce      image/jpeg,image/png,image/gif,image/webp
// @Param        id   path  int  true  "Post ID"
// @Success      200
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/image [get]
func (h *PostHandler) Image(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	rc, mime, err := h.svc.Image(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	defer closeWithLog(rc, "post image", h.logger)
	c.Header("Cache-Control", "public, max-age=3600")
	c.DataFromReader(http.StatusOK, -1, mime, rc, nil)
}

func postToResponse(p dom.Post) dto.PostResponse {
	out := dto.PostResponse{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Author:    p.Author,
		Body:      p.Body,
		Hashtags:  p.Hashtags,
		PetIDs:    p.PetIDs,
		Likes:     p.Likes,
		Comments:  p.Comments,
		LikedByMe: p.LikedByMe,
		CreatedAt: p.CreatedAt,
	}
	if out.Hashtags == nil {
		out.Hashtags = []string{}
	}
	if out.PetIDs == nil {
		out.PetIDs = []int64{}
	}
	if p.ImageKey != "" {
		out.ImageURL = "/api/posts/" + strconv.FormatInt(p.ID, 10) + "/image"
	}
	return out
}

func commentToResponse(c dom.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Author:    c.Author,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}
