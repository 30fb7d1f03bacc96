package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/auth"
	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/dto"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PetHandler struct {
	svc    *service.PetService
	logger *zap.Logger
}

func NewPetHandler(svc *service.PetService, logger *zap.Logger) *PetHandler {
	return &PetHandler{svc: svc, logger: logger}
}

// Create godoc
// @Summary      Create a pet
// @Tags         pets
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreatePetRequest  true  "Pet"
// @Success      201   {object}  dto.PetResponse
// @Failure      400   {object}  map[string]string
// @Router       /pets [post]
func (h *PetHandler) Create(c *gin.Context) {
	var req dto.CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), service.PetInput{
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		Birthdate: req.Birthdate.Ptr(),
		Bio:       req.Bio,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, petToResponse(p))
}

// ListMine godoc
// @Summary      List my pets
// @Tags         pets
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ListPetsResponse
// @Router       /pets [get]
func (h *PetHandler) ListMine(c *gin.Context) {
	list, err := h.svc.ListByOwner(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListPetsResponse{Items: petsToResponses(list)})
}

// Get godoc
// @Summary      Get a pet
// @Tags         pets
// @Produce      json
// @Param        id   path      int  true  "Pet ID"
// @Success      200  {object}  dto.PetResponse
// @Failure      404  {object}  map[string]string
// @Router       /pets/{id} [get]
func (h *PetHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, petToResponse(p))
}

// Update godoc
// @Summary      Update my pet
// @Tags         pets
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Pet ID"
// @Param        body  body      dto.UpdatePetRequest  true  "Partial update"
// @Success      200   {object}  dto.PetResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /pets/{id} [patch]
func (h *PetHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	var birthdate *time.Time
	if req.Birthdate != nil {
		birthdate = req.Birthdate.Ptr()
	}
	p, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id, service.PetPatch{
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		Birthdate: birthdate,
		Bio:       req.Bio,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, petToResponse(p))
}

// Delete godoc
// @Summary      Delete a pet (owner or admin)
// @Tags         pets
// @Security     CookieAuth
// @Param        id   path  int  true  "Pet ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /pets/{id} [delete]
// @Router       /admin/pets/{id} [delete]
func (h *PetHandler) Delete(c *gin.Context) {
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

// UploadAvatar godoc
// @Summary      Upload a pet avatar
// @Tags         pets
// @Accept       multipart/form-data
// @Produce      json
// @Security     CookieAuth
// @Param        id     path      int   true  "Pet ID"
// @Param        image  formData  file  true  "JPEG, PNG, GIF or WebP"
// @Success      200    {object}  dto.PetResponse
// @Failure      400    {object}  map[string]string
// @Failure      413    {object}  map[string]string
// @Router       /pets/{id}/avatar [post]
func (h *PetHandler) UploadAvatar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer closeWithLog(f, "avatar upload", h.logger)

	p, err := h.svc.SetAvatar(c.Request.Context(), auth.UserIDFromContext(c), id, f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, petToResponse(p))
}

// Avatar godoc
// @Summary      Pet avatar image
// @Tags         pets
// @Produce      image/jpeg,image/png,image/gif,image/webp
// @Param        id   path  int  true  "Pet ID"
// @Success      200
// @Failure      404  {object}  map[string]string
// @Router       /pets/{id}/avatar [get]
func (h *PetHandler) Avatar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	rc, mime, err := h.svc.Avatar(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	defer closeWithLog(rc, "avatar", h.logger)
	c.Header("Cache-Control", "public, max-age=3600")
	c.DataFromReader(http.StatusOK, -1, mime, rc, nil)
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *zap.Logger) {
	if err := c.Close(); err != nil {
		logger.Warn("failed to close resource", zap.String("label", label), zap.Error(err))
	}
}

func petToResponse(p dom.Pet) dto.PetResponse {
	out := dto.PetResponse{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		Birthdate: p.Birthdate,
		Bio:       p.Bio,
		CreatedAt: p.CreatedAt,
	}
	if p.AvatarKey != "" {
		out.AvatarURL = "/api/pets/" + strconv.FormatInt(p.ID, 10) + "/avatar"
	}
	return out
}

func petsToResponses(list []dom.Pet) []dto.PetResponse {
	out := make([]dto.PetResponse, len(list))
	for i := range list {
		out[i] = petToResponse(list[i])
	}
	return out
}
