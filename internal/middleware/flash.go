package middleware

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    string // success, notice or error
	Message string
}

// SetFlash stores a message for the next request.
func SetFlash(c *fiber.Ctx, kind, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     FlashCookie,
		Value:    url.QueryEscape(kind + "|" + message),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// TakeFlash returns the pending message, if any, and clears it.
func TakeFlash(c *fiber.Ctx) *Flash {
	raw := c.Cookies(FlashCookie)
	if raw == "" {
		return nil
	}
	expireCookie(c, FlashCookie)

	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}
	kind, message, ok := strings.Cut(decoded, "|")
	if !ok || message == "" {
		return nil
	}
	return &Flash{Kind: kind, Message: message}
}
