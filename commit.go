package vraseniors

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/CLAYYO/VRASeniors/publish"
)

const msgCommitted = "Changes committed and pushed successfully"

// commitRequest is the publish request body, sent as JSON or as a form.
type commitRequest struct {
	Message string `json:"message" form:"message"`
}

// handleCommitPush stages, commits and pushes the working tree. Every
// attempt is recorded in the store.
func (a *App) handleCommitPush(c echo.Context) error {
	var req commitRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		message = publish.DefaultMessage
	}

	out, err := a.Publisher.Publish(c.Request().Context(), message)
	rec := PublishRecord{
		Message:   message,
		Hash:      out.Hash,
		Committed: out.Committed,
		CreatedAt: a.now(),
	}
	if err != nil {
		rec.Error = publish.UserMessage(err)
	}
	if _, serr := a.Store.SavePublish(rec); serr != nil {
		a.logger.Warn("record publish", zap.Error(serr))
	}

	if err != nil {
		a.Metrics.publish(publish.KindOf(err).String())
		a.logger.Error("publish failed", zap.String("kind", publish.KindOf(err).String()), zap.Error(err))
		return jsonError(c, http.StatusInternalServerError, "Git operation failed: "+publish.UserMessage(err))
	}
	if !out.Committed {
		a.Metrics.publish("no_changes")
		return c.JSON(http.StatusOK, map[string]any{"success": true, "message": out.Message})
	}
	a.Metrics.publish("committed")
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": msgCommitted,
		"hash":    out.Hash,
	})
}
