package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"microblog/internal/config"
	"microblog/internal/middleware"
	"microblog/internal/services"
)

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	base
	userService      *services.UserService
	micropostService *services.MicropostService
	authService      *services.AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, micropostService *services.MicropostService, authService *services.AuthService, cfg *config.Config, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		base:             base{siteTitle: cfg.SiteTitle, logger: logger},
		userService:      userService,
		micropostService: micropostService,
		authService:      authService,
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	signedIn := middleware.RequireSignIn()

	router.Get("/signup", h.HandleNew)

	userRoutes := router.Group("/users")
	userRoutes.Post("/", h.HandleCreate)
	userRoutes.Get("/", signedIn, h.HandleIndex)
	userRoutes.Get("/:id", h.HandleShow)
	userRoutes.Get("/:id/edit", signedIn, h.HandleEdit)
	userRoutes.Patch("/:id", signedIn, h.HandleUpdate)
	userRoutes.Delete("/:id", signedIn, h.HandleDestroy)
	userRoutes.Post("/:id", signedIn,
		middleware.MethodOverride(fiber.MethodPatch, h.HandleUpdate),
		middleware.MethodOverride(fiber.MethodDelete, h.HandleDestroy))
}

// HandleNew renders the signup form.
func (h *UserHandler) HandleNew(c *fiber.Ctx) error {
	return h.render(c, "users/new", "Sign up", fiber.Map{"Form": services.UserInput{}})
}

// HandleCreate registers a new user and signs them in.
func (h *UserHandler) HandleCreate(c *fiber.Ctx) error {
	var in services.UserInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := h.userService.Create(in)
	if err != nil {
		if messages := validationMessages(err); messages != nil {
			return h.render(c, "users/new", "Sign up", fiber.Map{
				"Form":   blankPasswords(in),
				"Errors": messages,
			})
		}
		return err
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		return err
	}
	middleware.SetSessionCookie(c, token, h.authService.TokenDuration())
	middleware.SetFlash(c, "success", "Welcome to the Sample App!")
	return redirect(c, fmt.Sprintf("/users/%d", user.ID))
}

// HandleIndex lists every user, one page at a time.
func (h *UserHandler) HandleIndex(c *fiber.Ctx) error {
	users, page, err := h.userService.List(c.QueryInt("page", 1))
	if err != nil {
		return err
	}
	return h.render(c, "users/index", "All users", fiber.Map{
		"Users":    users,
		"Page":     page,
		"PagePath": "/users",
	})
}

// HandleShow renders a profile with the user's microposts.
func (h *UserHandler) HandleShow(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	user, err := h.userService.Get(id)
	if err != nil {
		return err
	}
	posts, page, err := h.micropostService.ListForUser(user.ID, c.QueryInt("page", 1))
	if err != nil {
		return err
	}
	return h.render(c, "users/show", user.Name, fiber.Map{
		"User":           user,
		"Microposts":     posts,
		"MicropostCount": int(page.Total),
		"Page":           page,
		"PagePath":       fmt.Sprintf("/users/%d", user.ID),
	})
}

// HandleEdit renders the profile form of the signed-in user.
func (h *UserHandler) HandleEdit(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	current := middleware.CurrentUser(c)
	if current.ID != id {
		return redirect(c, "/")
	}
	return h.render(c, "users/edit", "Edit user", fiber.Map{
		"User": current,
		"Form": services.UserInput{Name: current.Name, Email: current.Email},
	})
}

// HandleUpdate saves the profile form.
func (h *UserHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	current := middleware.CurrentUser(c)
	if current.ID != id {
		return redirect(c, "/")
	}

	var in services.UserInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := h.userService.Update(current, id, in)
	if err != nil {
		if messages := validationMessages(err); messages != nil {
			return h.render(c, "users/edit", "Edit user", fiber.Map{
				"User":   current,
				"Form":   blankPasswords(in),
				"Errors": messages,
			})
		}
		return err
	}

	middleware.SetCurrentUser(c, user)
	middleware.SetFlash(c, "success", "Profile updated")
	return redirect(c, fmt.Sprintf("/users/%d", user.ID))
}

// HandleDestroy deletes a user. Only admins get here with success.
func (h *UserHandler) HandleDestroy(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	current := middleware.CurrentUser(c)
	if err := h.userService.Delete(current, id); err != nil {
		if errors.Is(err, services.ErrForbidden) {
			h.logger.Warn("Refused user deletion", zap.Uint("requester", current.ID), zap.Uint("target", id))
			return redirect(c, "/")
		}
		return err
	}
	middleware.SetFlash(c, "success", "User destroyed.")
	return redirect(c, "/users")
}

func blankPasswords(in services.UserInput) services.UserInput {
	in.Password = ""
	in.PasswordConfirmation = ""
	return in
}
