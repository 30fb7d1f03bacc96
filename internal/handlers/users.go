package handlers

import (
	"net/http"

	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/auth"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/dto"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Profile godoc
// @Summary      Public profile with pets
// @Tags         users
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  dto.ProfileResponse
// @Failure      404       {object}  map[string]string
// @Router       /users/{username} [get]
func (h *UserHandler) Profile(c *gin.Context) {
	u, pets, err := h.svc.Profile(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	resp := userToResponse(u)
	resp.IsBanned = false
	c.JSON(http.StatusOK, dto.ProfileResponse{User: resp, Pets: petsToResponses(pets)})
}

// List godoc
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     CookieAuth
// @Param        limit   query     int  false  "Page size (default 50)"
// @Param        offset  query     int  false  "Offset"
// @Success      200     {object}  dto.ListUsersResponse
// @Router       /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]dto.UserResponse, len(list))
	for i := range list {
		out[i] = userToResponse(list[i])
	}
	c.JSON(http.StatusOK, dto.ListUsersResponse{Items: out})
}

// Ban godoc
// @Summary      Ban a user and revoke their sessions
// @Tags         admin
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  dto.UserResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{id}/ban [post]
func (h *UserHandler) Ban(c *gin.Context) {
	h.setBanned(c, true)
}

// Unban godoc
// @Summary      Lift a ban
// @Tags         admin
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{id}/unban [post]
func (h *UserHandler) Unban(c *gin.Context) {
	h.setBanned(c, false)
}

func (h *UserHandler) setBanned(c *gin.Context, banned bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	u, err := h.svc.SetBanned(c.Request.Context(), auth.UserIDFromContext(c), id, banned)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(u))
}
