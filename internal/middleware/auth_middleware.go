package middleware

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"microblog/internal/models"
	"microblog/internal/services"
)

// Cookie names
const (
	SessionCookie  = "remember_token"
	ReturnToCookie = "return_to"
	FlashCookie    = "flash"
)

const currentUserKey = "current_user"

// LoadCurrentUser resolves the session cookie into the signed-in user, if
// any. A stale or forged cookie is cleared and the request continues
// anonymously.
func LoadCurrentUser(authService *services.AuthService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookie)
		if token == "" {
			return c.Next()
		}

		user, err := authService.CurrentUser(token)
		if err != nil {
			if !errors.Is(err, services.ErrInvalidToken) {
				return err
			}
			logger.Debug("Ignoring session cookie", zap.Error(err))
			expireCookie(c, SessionCookie)
			return c.Next()
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// CurrentUser returns the signed-in user or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey).(*models.User)
	return user
}

// SetCurrentUser replaces the signed-in user for the rest of the request.
func SetCurrentUser(c *fiber.Ctx, user *models.User) {
	c.Locals(currentUserKey, user)
}

// RequireSignIn redirects anonymous visitors to the sign-in page. GET
// requests are remembered so sign-in can forward back to them.
func RequireSignIn() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) != nil {
			return c.Next()
		}
		if c.Method() == fiber.MethodGet {
			c.Cookie(&fiber.Cookie{
				Name:     ReturnToCookie,
				Value:    url.QueryEscape(c.OriginalURL()),
				Path:     "/",
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		SetFlash(c, "notice", "Please sign in.")
		return c.Redirect("/signin", fiber.StatusSeeOther)
	}
}

// TakeReturnTo returns and forgets the remembered location, or fallback.
// Only local paths are honoured.
func TakeReturnTo(c *fiber.Ctx, fallback string) string {
	raw := c.Cookies(ReturnToCookie)
	if raw == "" {
		return fallback
	}
	expireCookie(c, ReturnToCookie)
	target, err := url.QueryUnescape(raw)
	if err != nil || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return fallback
	}
	return target
}

// MethodOverride runs h when the form field _method names method, letting
// HTML forms issue PATCH and DELETE through POST. Other requests fall
// through to the next handler.
func MethodOverride(method string, h fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if strings.EqualFold(c.FormValue("_method"), method) {
			return h(c)
		}
		return c.Next()
	}
}

// SetSessionCookie stores the session token in an HttpOnly cookie.
func SetSessionCookie(c *fiber.Ctx, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearSessionCookie drops the session cookie.
func ClearSessionCookie(c *fiber.Ctx) {
	expireCookie(c, SessionCookie)
}

// expireCookie deletes a root-path cookie in the browser.
func expireCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
