package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"microblog/internal/config"
	"microblog/internal/middleware"
	"microblog/internal/services"
)

// SignInRequest represents the sign-in form.
type SignInRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// SessionHandler handles signing in and out.
type SessionHandler struct {
	base
	authService *services.AuthService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(authService *services.AuthService, cfg *config.Config, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		base:        base{siteTitle: cfg.SiteTitle, logger: logger},
		authService: authService,
	}
}

// RegisterRoutes registers the session routes with the Fiber app.
func (h *SessionHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/signin", h.HandleNew)
	router.Post("/sessions", h.HandleCreate)
	router.Delete("/signout", h.HandleDestroy)
	router.Post("/signout", middleware.MethodOverride(fiber.MethodDelete, h.HandleDestroy))
}

// HandleNew renders the sign-in form.
func (h *SessionHandler) HandleNew(c *fiber.Ctx) error {
	return h.render(c, "sessions/new", "Sign in", fiber.Map{"Email": ""})
}

// HandleCreate signs the user in and forwards them to the page they asked
// for, or their profile.
func (h *SessionHandler) HandleCreate(c *fiber.Ctx) error {
	var req SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	user, token, err := h.authService.SignIn(strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.logger.Info("Failed sign-in", zap.String("email", req.Email))
			return h.render(c, "sessions/new", "Sign in", fiber.Map{
				"Email": req.Email,
				"Flash": &middleware.Flash{Kind: "error", Message: "Invalid email/password combination"},
			})
		}
		return err
	}

	middleware.SetSessionCookie(c, token, h.authService.TokenDuration())
	return redirect(c, middleware.TakeReturnTo(c, fmt.Sprintf("/users/%d", user.ID)))
}

// HandleDestroy revokes the session token and clears the cookie.
func (h *SessionHandler) HandleDestroy(c *fiber.Ctx) error {
	if token := c.Cookies(middleware.SessionCookie); token != "" {
		if err := h.authService.SignOut(token); err != nil {
			return err
		}
	}
	middleware.ClearSessionCookie(c)
	middleware.SetCurrentUser(c, nil)
	return redirect(c, "/")
}
