package vraseniors

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	siteRealm  = "VRA Seniors Website"
	adminRealm = "VRA Seniors Admin"
)

var assetSuffixes = []string{".js", ".css", ".svg", ".png", ".jpg", ".jpeg", ".gif", ".ico"}

// isAsset reports whether path is served without credentials.
func isAsset(path string) bool {
	if strings.HasPrefix(path, "/public/assets/") || strings.HasPrefix(path, "/favicon") {
		return true
	}
	lower := strings.ToLower(path)
	for _, s := range assetSuffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

func isAdminPath(path string) bool {
	return path == "/admin" || strings.HasPrefix(path, "/admin/")
}

// credentialsMatch compares both halves in constant time.
func credentialsMatch(user, pass, wantUser, wantPass string) bool {
	u := subtle.ConstantTimeCompare([]byte(user), []byte(wantUser))
	p := subtle.ConstantTimeCompare([]byte(pass), []byte(wantPass))
	return u&p == 1
}

// gate requires HTTP Basic credentials on every non-asset request: the
// admin pair under /admin, the member pair everywhere else.
func (a *App) gate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		if isAsset(path) {
			return next(c)
		}
		user, pass, ok := c.Request().BasicAuth()

		if isAdminPath(path) {
			if ok && credentialsMatch(user, pass, a.Config.AdminUsername, a.Config.AdminPassword) {
				return next(c)
			}
			return a.challenge(c, adminRealm, reason(ok), a.Views.AdminRequired(a.Config.View()))
		}

		if !ok {
			return a.challenge(c, siteRealm, reason(ok), a.Views.MembersOnly(a.Config.View()))
		}
		if !credentialsMatch(user, pass, a.Config.SiteUsername, a.Config.SitePassword) {
			return a.challenge(c, siteRealm, reason(ok), a.Views.InvalidCredentials(a.Config.View()))
		}
		return next(c)
	}
}

func reason(supplied bool) string {
	if supplied {
		return "invalid"
	}
	return "missing"
}

func (a *App) challenge(c echo.Context, realm, why string, page templ.Component) error {
	a.Metrics.denied(realm, why)
	if why == "invalid" {
		a.logger.Info("gate refused credentials",
			zap.String("realm", realm),
			zap.String("path", c.Request().URL.Path),
			zap.String("ip", c.RealIP()))
	}
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Basic realm="`+realm+`"`)
	return RenderStatus(c, http.StatusUnauthorized, page)
}
