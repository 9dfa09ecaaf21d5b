package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mariusw/photoframe/internal/config"
	"github.com/mariusw/photoframe/internal/handler"
	middie "github.com/mariusw/photoframe/internal/middleware"
	"github.com/mariusw/photoframe/internal/store"
)

// App represents the application
type App struct {
	server *echo.Echo
	config *config.Config
	store  *store.Store
}

// New creates an application from the config file named by CONFIG_PATH,
// falling back to defaults plus environment overrides when no file exists.
func New() (*App, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config.yaml"
	}

	var cfg *config.Config
	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a new application instance with the given config
func NewWithConfig(cfg *config.Config) (*App, error) {
	configData, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, err
	}
	log.Printf("Configuration:\n%s", string(configData))

	st, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	app := &App{
		server: e,
		config: cfg,
		store:  st,
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middie.SecurityHeaders())

	registerRoutes(e, app)
	return app, nil
}

// Start starts the application
func (a *App) Start() {
	serverAddr := fmt.Sprintf(":%d", a.config.Port)

	go func() {
		if err := a.server.Start(serverAddr); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	log.Printf("Server started on %s", serverAddr)
}

// Shutdown gracefully shuts down the server
func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// Store exposes the photo store, mainly for tests.
func (a *App) Store() *store.Store {
	return a.store
}

// Echo exposes the underlying server, mainly for tests.
func (a *App) Echo() *echo.Echo {
	return a.server
}

// registerRoutes registers all HTTP routes
func registerRoutes(e *echo.Echo, app *App) {
	// Whole-request cap: per-file limit times the per-request file count,
	// plus some slack for multipart framing
	e.Use(middleware.BodyLimit(
		fmt.Sprintf("%dM", int(app.config.MaxSize)*app.config.MaxFiles+1),
	))

	h := handler.NewHandler(app.store, app.config)

	e.GET("/api/photos", h.HandleListPhotos)
	e.POST("/api/photos/upload", h.HandleUpload)
	e.POST("/api/photos/empty-trash", h.HandleEmptyTrash)
	e.GET("/api/photos/:id", h.HandleGetPhoto)
	e.DELETE("/api/photos/:id", h.HandleDeletePhoto)
	e.PATCH("/api/photos/:id/trash", h.HandleMoveToTrash)
	e.PATCH("/api/photos/:id/restore", h.HandleRestoreFromTrash)

	e.GET("/api/slideshow/status", h.HandleSlideshowStatus)
	e.POST("/api/slideshow/control", h.HandleSlideshowControl)

	e.GET("/api/license", h.HandleLicenseStatus)
	e.POST("/api/license/activate", h.HandleLicenseActivate)

	if app.config.DevMode {
		e.POST("/api/test/expire-trial", h.HandleExpireTrial)
		e.POST("/api/test/reset-trial", h.HandleResetTrial)
	}

	uploads := e.Group("/uploads", middie.CacheForever())
	uploads.Static("/", app.config.UploadPath)
}
