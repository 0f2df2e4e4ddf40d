package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"microblog/internal/config"
	"microblog/internal/middleware"
	"microblog/internal/services"
)

// PageHandler serves the home page and the static pages.
type PageHandler struct {
	base
	micropostService *services.MicropostService
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(micropostService *services.MicropostService, cfg *config.Config, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		base:             base{siteTitle: cfg.SiteTitle, logger: logger},
		micropostService: micropostService,
	}
}

// RegisterRoutes registers the page routes with the Fiber app.
func (h *PageHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleRoot)

	staticPages := router.Group("/static_pages")
	staticPages.Get("/home", h.HandleHome)
	staticPages.Get("/help", h.static("static_pages/help", "Help"))
	staticPages.Get("/about", h.static("static_pages/about", "About"))
	staticPages.Get("/contact", h.static("static_pages/contact", "Contact"))

	router.Get("/help", h.static("static_pages/help", "Help"))
	router.Get("/about", h.static("static_pages/about", "About"))
	router.Get("/contact", h.static("static_pages/contact", "Contact"))
}

// HandleRoot renders the home page under the bare site title.
func (h *PageHandler) HandleRoot(c *fiber.Ctx) error {
	return h.RenderHome(c, "", nil)
}

// HandleHome renders the home page at its static path.
func (h *PageHandler) HandleHome(c *fiber.Ctx) error {
	return h.RenderHome(c, "Home", nil)
}

// RenderHome renders the home page. Signed-in users get their stats, the
// posting form and their feed; data carries form errors when re-rendering
// after a failed post.
func (h *PageHandler) RenderHome(c *fiber.Ctx, page string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if _, ok := data["Content"]; !ok {
		data["Content"] = ""
	}
	if user := middleware.CurrentUser(c); user != nil {
		feed, p, err := h.micropostService.Feed(user, c.QueryInt("page", 1))
		if err != nil {
			return err
		}
		data["Microposts"] = feed
		data["MicropostCount"] = int(p.Total)
		data["Page"] = p
		data["PagePath"] = "/"
		if c.Method() == fiber.MethodGet {
			data["PagePath"] = c.Path()
		}
	}
	return h.render(c, "static_pages/home", page, data)
}

func (h *PageHandler) static(view, page string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return h.render(c, view, page, nil)
	}
}
