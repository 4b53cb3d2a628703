package comments

import (
	"github.com/gofiber/fiber/v2"

	"github.com/qolzam/telar/apps/photo-comments/comments/handlers"
	platformconfig "github.com/qolzam/telar/apps/photo-comments/internal/platform/config"
)

// CommentsHandlers holds all the handlers this router needs.
type CommentsHandlers struct {
	CommentHandler *handlers.CommentHandler
}

// RegisterRoutes is the single entry point for setting up comments routes.
func RegisterRoutes(app *fiber.App, h *CommentsHandlers, cfg *platformconfig.Config) {
	app.Get("/ping", handlers.Ping)

	baseRoute := "/api"
	if cfg != nil && cfg.Server.BaseRoute != "" {
		baseRoute = cfg.Server.BaseRoute
	}

	group := app.Group(baseRoute + "/comments")
	group.Post("/", h.CommentHandler.CreateComment)
	group.Get("/", h.CommentHandler.GetComments)
	group.Post("/_counts", h.CommentHandler.CountComments)
}
