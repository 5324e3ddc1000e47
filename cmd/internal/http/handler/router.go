package handler

import (
	"net/http"

	appmw "notetaker/cmd/internal/http/middleware"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	Categories *DefaultCategoryRoute
	Notes      *DefaultNoteRoute
	Users      *DefaultUserRoute
	Auth       echo.MiddlewareFunc

	// BodyLimit follows echo's size notation (e.g. "1M"), empty means no limit.
	BodyLimit string
	// LogRequests enables one log line per request.
	LogRequests bool
}

// NewRouter builds the echo instance serving the whole API.
func NewRouter(cfg *RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Clients may or may not send the trailing slash, both resolve to the same route.
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(appmw.NewMetricsMiddleware())

	if cfg.LogRequests {
		e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			LogMethod:  true,
			LogURI:     true,
			LogStatus:  true,
			LogLatency: true,
			LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
				log.Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
				return nil
			},
		}))
	}

	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}

	auth := cfg.Auth

	// Auth
	e.POST("/api/auth/register", cfg.Users.Register)
	e.POST("/api/auth/login", cfg.Users.Login)
	e.POST("/api/auth/token/refresh", cfg.Users.Refresh)
	e.POST("/api/auth/logout", cfg.Users.Logout, auth)
	e.GET("/api/auth/user", cfg.Users.GetCurrentUser, auth)
	e.DELETE("/api/auth/user", cfg.Users.DeleteAccount, auth)

	// Categories
	e.GET("/api/categories", cfg.Categories.GetCategories, auth)
	e.POST("/api/categories", cfg.Categories.CreateCategory, auth)
	e.GET("/api/categories/:id", cfg.Categories.GetCategory, auth)
	e.PUT("/api/categories/:id", cfg.Categories.UpdateCategory, auth)
	e.PATCH("/api/categories/:id", cfg.Categories.UpdateCategory, auth)
	e.DELETE("/api/categories/:id", cfg.Categories.DeleteCategory, auth)
	e.POST("/api/categories/:id/delete_with_notes", cfg.Categories.DeleteWithNotes, auth)
	e.POST("/api/categories/:id/move_notes_and_delete", cfg.Categories.MoveNotesAndDelete, auth)

	// Notes
	e.GET("/api/notes", cfg.Notes.GetNotes, auth)
	e.POST("/api/notes", cfg.Notes.CreateNote, auth)
	e.POST("/api/notes/bulk_move", cfg.Notes.BulkMove, auth)
	e.GET("/api/notes/:id", cfg.Notes.GetNote, auth)
	e.PUT("/api/notes/:id", cfg.Notes.UpdateNote, auth)
	e.PATCH("/api/notes/:id", cfg.Notes.UpdateNote, auth)
	e.DELETE("/api/notes/:id", cfg.Notes.DeleteNote, auth)

	// Docker Compose healthcheck
	e.GET("/health", healthCheckRoute)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}

func healthCheckRoute(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
