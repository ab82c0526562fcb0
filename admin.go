package vraseniors

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/CLAYYO/VRASeniors/content"
	"github.com/CLAYYO/VRASeniors/editor"
	"github.com/CLAYYO/VRASeniors/views"
)

const (
	ctxEditorSession   = "editor.session"
	dashboardUploads   = 20
	dashboardPublishes = 10
	maxImportSize      = 5 << 20
)

// currentSession resolves the editor token in the session cookie to a live
// editing session.
func (a *App) currentSession(c echo.Context) (*editor.Session, bool) {
	id, err := a.Tokens.Verify(editorToken(c))
	if err != nil {
		return nil, false
	}
	return a.Sessions.Get(id)
}

// requireEditor rejects requests without a live editing session: API calls
// get a JSON 401, form posts are sent back to the login page.
func (a *App) requireEditor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s, ok := a.currentSession(c)
		if !ok {
			if strings.HasPrefix(c.Request().URL.Path, "/admin/api/") {
				return jsonError(c, http.StatusUnauthorized, "Not logged in")
			}
			return c.Redirect(http.StatusSeeOther, "/admin/")
		}
		c.Set(ctxEditorSession, s)
		return next(c)
	}
}

func sessionFrom(c echo.Context) *editor.Session {
	s, _ := c.Get(ctxEditorSession).(*editor.Session)
	return s
}

func (a *App) handleAdmin(c echo.Context) error {
	s, ok := a.currentSession(c)
	if !ok {
		return Render(c, a.Views.AdminLogin(a.Config.View(), false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, s, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		a.Metrics.login("limited")
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.EditorPassword)) != 1 {
		a.loginLimiter.Record(ip)
		a.Metrics.login("failure")
		return Render(c, a.Views.AdminLogin(a.Config.View(), true, CsrfToken(c)))
	}
	a.loginLimiter.Reset(ip)

	s, err := a.Sessions.Create(a.Content.Items(), a.now())
	if err != nil {
		return fmt.Errorf("open editing session: %w", err)
	}
	tok, err := a.Tokens.Issue(s.ID(), s.Created())
	if err != nil {
		a.Sessions.Delete(s.ID())
		return fmt.Errorf("issue editor token: %w", err)
	}
	if err := setEditorToken(c, tok); err != nil {
		a.Sessions.Delete(s.ID())
		return err
	}
	a.Metrics.login("success")
	a.logger.Info("editor logged in", zap.String("session", s.ID()), zap.String("ip", ip))
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminLogout(c echo.Context) error {
	if s, ok := a.currentSession(c); ok {
		a.Sessions.Delete(s.ID())
	}
	if err := clearEditorSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) renderAdminDashboard(c echo.Context, s *editor.Session, msg string) error {
	items, err := s.Items()
	if err != nil {
		return err
	}
	filter := ""
	if sec, ok := content.ParseSection(c.QueryParam("section")); ok {
		filter = string(sec)
	}
	rows := make([]views.AdminItem, 0, len(items))
	for i, it := range items {
		sec := content.SectionOf(it.Page)
		if filter != "" && string(sec) != filter {
			continue
		}
		rows = append(rows, views.AdminItem{Index: i, Item: it, Section: sec, Dirty: s.Dirty(i)})
	}

	uploads, err := a.Store.ListUploads("", dashboardUploads)
	if err != nil {
		return err
	}
	publishes, err := a.Store.ListPublishes(dashboardPublishes)
	if err != nil {
		return err
	}
	d := views.Dashboard{
		Items:      rows,
		Sections:   content.Sections(),
		Filter:     filter,
		Message:    msg,
		CSRF:       CsrfToken(c),
		DirtyCount: s.DirtyCount(),
		Total:      len(items),
		ExpiresAt:  s.Created().Add(a.Sessions.TTL()),
	}
	for _, u := range uploads {
		d.Uploads = append(d.Uploads, u.view())
	}
	for _, p := range publishes {
		d.Publishes = append(d.Publishes, p.view())
	}
	return Render(c, a.Views.AdminDashboard(a.Config.View(), d))
}

// backToDashboard redirects to the dashboard with a flash message,
// anchored at item i when i >= 0.
func backToDashboard(c echo.Context, msg string, i int) error {
	target := "/admin/?msg=" + url.QueryEscape(msg)
	if i >= 0 {
		target += "#item-" + strconv.Itoa(i)
	}
	return c.Redirect(http.StatusSeeOther, target)
}

// editorError maps editing session errors to HTTP errors.
func editorError(err error) error {
	switch {
	case errors.Is(err, editor.ErrIndexOutOfRange):
		return echo.NewHTTPError(http.StatusNotFound, "No such item")
	case errors.Is(err, editor.ErrImportNotConfirmed):
		return echo.NewHTTPError(http.StatusBadRequest, "Import must be confirmed")
	case errors.Is(err, editor.ErrInvalidDocument):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}

func indexParam(c echo.Context, name string) (int, error) {
	i, err := strconv.Atoi(c.Param(name))
	if err != nil || i < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid index")
	}
	return i, nil
}

func (a *App) handleItemSave(c echo.Context) error {
	s := sessionFrom(c)
	i, err := indexParam(c, "index")
	if err != nil {
		return err
	}
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Title is required")
	}
	cur, err := s.Item(i)
	if err != nil {
		return editorError(err)
	}
	if err := s.Edit(i, editor.Edit{
		Title:   title,
		Content: c.FormValue("content"),
		PDFs:    cur.PDFs,
	}); err != nil {
		return editorError(err)
	}
	return backToDashboard(c, "Saved "+title, i)
}

func (a *App) handleItemReset(c echo.Context) error {
	s := sessionFrom(c)
	i, err := indexParam(c, "index")
	if err != nil {
		return err
	}
	if err := s.Reset(i); err != nil {
		return editorError(err)
	}
	return backToDashboard(c, "Item reset", i)
}

func (a *App) handlePDFAdd(c echo.Context) error {
	s := sessionFrom(c)
	i, err := indexParam(c, "index")
	if err != nil {
		return err
	}
	pdf := content.PDF{
		Name:     strings.TrimSpace(c.FormValue("name")),
		Filename: strings.TrimSpace(c.FormValue("filename")),
		Year:     strings.TrimSpace(c.FormValue("year")),
	}
	if pdf.Name == "" || pdf.Filename == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Document name and filename are required")
	}
	if err := s.AddPDF(i, pdf); err != nil {
		return editorError(err)
	}
	return backToDashboard(c, "Added "+pdf.Name, i)
}

func (a *App) handlePDFDelete(c echo.Context) error {
	s := sessionFrom(c)
	i, err := indexParam(c, "index")
	if err != nil {
		return err
	}
	j, err := indexParam(c, "pdf")
	if err != nil {
		return err
	}
	if err := s.RemovePDF(i, j); err != nil {
		return editorError(err)
	}
	return backToDashboard(c, "Document removed", i)
}

func (a *App) handleResetAll(c echo.Context) error {
	sessionFrom(c).ResetAll()
	return backToDashboard(c, "All changes reset", -1)
}

func (a *App) handleExport(c echo.Context) error {
	s := sessionFrom(c)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="content.json"`)
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return s.ExportTo(c.Response())
}

func (a *App) handleImport(c echo.Context) error {
	s := sessionFrom(c)
	fh, err := c.FormFile("document")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No document provided")
	}
	if fh.Size > maxImportSize {
		return echo.NewHTTPError(http.StatusBadRequest, "Document too large")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	doc, err := io.ReadAll(io.LimitReader(f, maxImportSize))
	if err != nil {
		return err
	}
	confirmed := c.FormValue("confirm") != ""
	if err := s.Import(doc, confirmed); err != nil {
		return editorError(err)
	}
	a.logger.Info("content imported", zap.String("session", s.ID()), zap.Int("items", s.Len()))
	return backToDashboard(c, fmt.Sprintf("Imported %d items", s.Len()), -1)
}
