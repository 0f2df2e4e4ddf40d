package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"microblog/internal/middleware"
	"microblog/internal/repositories"
	"microblog/internal/services"
)

// base carries what every page handler needs to render.
type base struct {
	siteTitle string
	logger    *zap.Logger
}

// FullTitle builds the <title> of a page: the site title alone for an empty
// page name, otherwise "Site | Page".
func FullTitle(siteTitle, page string) string {
	if page == "" {
		return siteTitle
	}
	return siteTitle + " | " + page
}

// render executes view inside the main layout. data may be nil.
func (b *base) render(c *fiber.Ctx, view, page string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Title"] = FullTitle(b.siteTitle, page)
	data["SiteTitle"] = b.siteTitle
	data["CurrentUser"] = middleware.CurrentUser(c)
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = middleware.TakeFlash(c)
	}
	return c.Render(view, data)
}

func redirect(c *fiber.Ctx, location string) error {
	return c.Redirect(location, fiber.StatusSeeOther)
}

// idParam reads a positive numeric route parameter. Anything else is a 404.
func idParam(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.ErrNotFound
	}
	return uint(id), nil
}

// validationMessages returns the messages of a ValidationError, or nil for
// any other error.
func validationMessages(err error) []string {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return verr.Messages
	}
	return nil
}

// localReferer returns the path of the Referer header, or fallback when it
// is missing or points elsewhere.
func localReferer(c *fiber.Ctx, fallback string) string {
	ref, err := url.Parse(c.Get(fiber.HeaderReferer))
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != c.Hostname()) {
		return fallback
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

// TemplateFuncs are the helpers available to every view.
func TemplateFuncs() map[string]interface{} {
	return map[string]interface{}{
		"pluralize": Pluralize,
		"timeAgo":   TimeAgo,
	}
}

// Pluralize renders "1 micropost" or "2 microposts".
func Pluralize(count int, singular string) string {
	if count == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	return fmt.Sprintf("%d %ss", count, singular)
}

// TimeAgo describes the distance from t to now in words.
func TimeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "less than a minute"
	case d < time.Hour:
		return Pluralize(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return "about " + Pluralize(int(d/time.Hour), "hour")
	case d < 30*24*time.Hour:
		return Pluralize(int(d/(24*time.Hour)), "day")
	case d < 365*24*time.Hour:
		return Pluralize(int(d/(30*24*time.Hour)), "month")
	default:
		return "about " + Pluralize(int(d/(365*24*time.Hour)), "year")
	}
}

// NewErrorHandler renders failures as HTML status pages. Missing records
// become 404s; anything unexpected is logged and shown as a 500.
func NewErrorHandler(siteTitle string, logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		switch {
		case errors.As(err, &fe):
			code = fe.Code
		case errors.Is(err, repositories.ErrUserNotFound), errors.Is(err, repositories.ErrMicropostNotFound):
			code = fiber.StatusNotFound
		}

		message := "We're sorry, but something went wrong."
		switch code {
		case fiber.StatusNotFound:
			message = "The page you were looking for doesn't exist."
		case fiber.StatusMethodNotAllowed:
			message = "That action is not allowed here."
		}
		if code >= fiber.StatusInternalServerError {
			logger.Error("Request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
		}

		c.Status(code)
		renderErr := c.Render("errors/show", fiber.Map{
			"Title":       FullTitle(siteTitle, fmt.Sprintf("%d", code)),
			"SiteTitle":   siteTitle,
			"CurrentUser": middleware.CurrentUser(c),
			"Code":        code,
			"Message":     message,
		})
		if renderErr != nil {
			logger.Error("Failed to render error page", zap.Error(renderErr))
			return c.Status(code).SendString(message)
		}
		return nil
	}
}
