package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"microblog/internal/config"
	"microblog/internal/middleware"
	"microblog/internal/services"
)

// MicropostHandler handles HTTP requests for microposts.
type MicropostHandler struct {
	base
	micropostService *services.MicropostService
	pages            *PageHandler
}

// NewMicropostHandler creates a new MicropostHandler. pages renders the home
// page again when a post is rejected.
func NewMicropostHandler(micropostService *services.MicropostService, pages *PageHandler, cfg *config.Config, logger *zap.Logger) *MicropostHandler {
	return &MicropostHandler{
		base:             base{siteTitle: cfg.SiteTitle, logger: logger},
		micropostService: micropostService,
		pages:            pages,
	}
}

// RegisterRoutes registers the micropost routes with the Fiber app.
func (h *MicropostHandler) RegisterRoutes(router fiber.Router) {
	signedIn := middleware.RequireSignIn()

	micropostRoutes := router.Group("/microposts", signedIn)
	micropostRoutes.Post("/", h.HandleCreate)
	micropostRoutes.Delete("/:id", h.HandleDestroy)
	micropostRoutes.Post("/:id", middleware.MethodOverride(fiber.MethodDelete, h.HandleDestroy))
}

// HandleCreate posts a micropost for the signed-in user.
func (h *MicropostHandler) HandleCreate(c *fiber.Ctx) error {
	var in services.MicropostInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if _, err := h.micropostService.Create(middleware.CurrentUser(c), in); err != nil {
		if messages := validationMessages(err); messages != nil {
			return h.pages.RenderHome(c, "", fiber.Map{
				"Content": in.Content,
				"Errors":  messages,
			})
		}
		return err
	}

	middleware.SetFlash(c, "success", "Micropost created!")
	return redirect(c, "/")
}

// HandleDestroy deletes one of the signed-in user's microposts.
func (h *MicropostHandler) HandleDestroy(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.micropostService.Delete(middleware.CurrentUser(c), id); err != nil {
		return err
	}
	return redirect(c, localReferer(c, "/"))
}
