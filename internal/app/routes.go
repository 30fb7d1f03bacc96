package app

import (
	"fmt"
	"net/http"

	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/auth"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/cache"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/config"
	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/geomap"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/handlers"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/photostore/local"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/repo"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client, logger *zap.Logger) error {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	photos, err := local.New(cfg.Storage.PhotoPath, logger.Named("photos"))
	if err != nil {
		return fmt.Errorf("photo store: %w", err)
	}

	userRepo := repo.NewPGUserRepo(db)
	petRepo := repo.NewPGPetRepo(db)
	listingCache := cache.NewListingCache(rdb, cfg.Redis.DefaultTTL.Duration())
	sessionStore := auth.NewStore(rdb, cfg.Session.TTL.Duration())
	svcLogger := logger.Named("service")

	analyticsSvc := service.NewAnalyticsService(repo.NewPGAnalyticsRepo(db), listingCache, svcLogger)
	userSvc := service.NewUserService(userRepo, petRepo, sessionStore, analyticsSvc, svcLogger)
	eventSvc := service.NewEventService(repo.NewPGEventRepo(db), listingCache, cfg.App.TimeLocation(), svcLogger)
	placeSvc := service.NewPlaceService(repo.NewPGPlaceRepo(db), listingCache, svcLogger)
	mapSvc := service.NewMapService(eventSvc, placeSvc, geomap.NewReconciler(mapOptions(cfg.Map)))
	petSvc := service.NewPetService(petRepo, photos, cfg.Storage.MaxUploadBytes, analyticsSvc, svcLogger)
	postSvc := service.NewPostService(repo.NewPGPostRepo(db), petRepo, photos, cfg.Storage.MaxUploadBytes, svcLogger)

	api := r.Group("/api")
	public := api.Group("", auth.OptionalSession(sessionStore, userRepo))
	protected := api.Group("", auth.RequireSession(sessionStore, userRepo))
	admin := api.Group("/admin", auth.RequireSession(sessionStore, userRepo), auth.RequireAdmin())

	registerAuthRoutes(api, protected, handlers.NewAuthHandler(sessionStore, userSvc, cfg.Session.SecureCookie))
	registerEventRoutes(public, protected, admin, handlers.NewEventHandler(eventSvc))
	registerPlaceRoutes(public, admin, handlers.NewPlaceHandler(placeSvc))
	registerMapRoutes(public, handlers.NewMapHandler(mapSvc, eventSvc))
	registerPetRoutes(public, protected, admin, handlers.NewPetHandler(petSvc, logger))
	registerUserRoutes(public, admin, handlers.NewUserHandler(userSvc))
	registerPostRoutes(public, protected, admin, handlers.NewPostHandler(postSvc, logger))
	admin.GET("/analytics/location", handlers.NewAnalyticsHandler(analyticsSvc).Location)
	return nil
}

func mapOptions(m config.MapConfig) geomap.Options {
	return geomap.Options{
		DefaultCenter: dom.Coordinates{Latitude: m.DefaultLat, Longitude: m.DefaultLng},
		DefaultZoom:   m.DefaultZoom,
		UserZoom:      m.UserZoom,
		FocusZoom:     m.FocusZoom,
		MaxZoom:       m.MaxZoom,
		WidthPx:       m.WidthPx,
		HeightPx:      m.HeightPx,
		PaddingPx:     m.PaddingPx,
	}
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "BarkAndMeow API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerAuthRoutes(api, protected *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/login", h.Login)
	api.POST("/auth/register", h.Register)
	api.POST("/auth/logout", h.Logout)
	protected.GET("/auth/me", h.Me)
}

func registerEventRoutes(public, protected, admin *gin.RouterGroup, h *handlers.EventHandler) {
	public.GET("/events", h.List)
	public.GET("/events/:id", h.Get)
	public.GET("/events/:id/ics", h.ICS)
	protected.POST("/events/:id/attend", h.Attend)
	protected.DELETE("/events/:id/attend", h.Unattend)
	admin.POST("/events", h.Create)
	admin.PATCH("/events/:id", h.Update)
	admin.DELETE("/events/:id", h.Delete)
}

func registerPlaceRoutes(public, admin *gin.RouterGroup, h *handlers.PlaceHandler) {
	public.GET("/services", h.List)
	public.GET("/services/:id", h.Get)
	admin.POST("/services", h.Create)
	admin.PATCH("/services/:id", h.Update)
	admin.DELETE("/services/:id", h.Delete)
}

func registerMapRoutes(public *gin.RouterGroup, h *handlers.MapHandler) {
	public.GET("/map/events", h.Events)
	public.GET("/map/services", h.Places)
}

func registerPetRoutes(public, protected, admin *gin.RouterGroup, h *handlers.PetHandler) {
	protected.GET("/pets", h.ListMine)
	protected.POST("/pets", h.Create)
	public.GET("/pets/:id", h.Get)
	protected.PATCH("/pets/:id", h.Update)
	protected.DELETE("/pets/:id", h.Delete)
	protected.POST("/pets/:id/avatar", h.UploadAvatar)
	public.GET("/pets/:id/avatar", h.Avatar)
	admin.DELETE("/pets/:id", h.Delete)
}

func registerUserRoutes(public, admin *gin.RouterGroup, h *handlers.UserHandler) {
	public.GET("/users/:username", h.Profile)
	admin.GET("/users", h.List)
	admin.POST("/users/:id/ban", h.Ban)
	admin.POST("/users/:id/unban", h.Unban)
}

func registerPostRoutes(public, protected, admin *gin.RouterGroup, h *handlers.PostHandler) {
	protected.GET("/feed", h.Feed)
	protected.POST("/posts", h.Create)
	protected.GET("/posts/:id", h.Get)
	protected.DELETE("/posts/:id", h.Delete)
	protected.POST("/posts/:id/like", h.Like)
	protected.DELETE("/posts/:id/like", h.Unlike)
	protected.GET("/posts/:id/comments", h.Comments)
	protected.POST("/posts/:id/comments", h.AddComment)
	public.GET("/posts/:id/image", h.Image)
	public.GET("/hashtags/:tag", h.ByHashtag)
	admin.DELETE("/posts/:id", h.Delete)
}
