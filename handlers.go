package vraseniors

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/CLAYYO/VRASeniors/content"
	"github.com/CLAYYO/VRASeniors/views"
)

const (
	latestOnHome   = 5
	hallOfFamePage = "hall_of_fame"
)

func (a *App) handleHome(c echo.Context) error {
	repo := a.Content.Repository()
	home, ok := repo.ByPage(content.HomePage)
	if !ok {
		home = content.ContentItem{Page: content.HomePage, Title: a.Config.Name}
	}
	return Render(c, a.Views.Home(a.Config.View(), home, repo.Latest(latestOnHome)))
}

func (a *App) handleSection(c echo.Context) error {
	sec, ok := content.ParseSection(c.Param("section"))
	if !ok {
		return echo.ErrNotFound
	}
	return Render(c, a.Views.Section(a.Config.View(), views.SectionPage{
		Section: sec,
		Items:   a.Content.Repository().BySection(sec),
	}))
}

func (a *App) handleItem(c echo.Context) error {
	sec, ok := content.ParseSection(c.Param("section"))
	if !ok {
		return echo.ErrNotFound
	}
	it, ok := a.Content.Repository().BySlug(sec, c.Param("slug"))
	if !ok {
		return echo.ErrNotFound
	}
	return Render(c, a.Views.Item(a.Config.View(), it, content.Breadcrumbs(string(sec), it.Title)))
}

func (a *App) handleHallOfFame(c echo.Context) error {
	it, ok := a.Content.Repository().ByPage(hallOfFamePage)
	if !ok {
		return echo.ErrNotFound
	}
	return Render(c, a.Views.Item(a.Config.View(), it, content.Breadcrumbs("hall-of-fame", "")))
}

func (a *App) handleContact(c echo.Context) error {
	return Render(c, a.Views.Contact(a.Config.View()))
}

func (a *App) handleSearch(c echo.Context) error {
	q := c.QueryParam("q")
	return Render(c, a.Views.Search(a.Config.View(), q, a.Content.Repository().Search(q)))
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, a.Content.Repository())
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.Content.Repository().Latest(feedItems))
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(filepath.Join(a.staticDir, "favicon.svg"))
}

// handleRobots serves the static robots.txt, or a disallow-all default
// since every page sits behind the member login.
func (a *App) handleRobots(c echo.Context) error {
	path := filepath.Join(a.staticDir, "robots.txt")
	if _, err := os.Stat(path); err == nil {
		return c.File(path)
	}
	return c.String(http.StatusOK, "User-agent: *\nDisallow: /\n")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Config.View()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.logger.Error("server error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
		_ = RenderStatus(c, code, a.Views.ServerError(a.Config.View()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
