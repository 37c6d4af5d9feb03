package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-portal/internal/domain/models"
	"github.com/mamadbah2/inventory-portal/internal/export"
	"github.com/mamadbah2/inventory-portal/internal/metrics"
	"github.com/mamadbah2/inventory-portal/internal/service/portal"
	"github.com/mamadbah2/inventory-portal/internal/service/session"
	"github.com/mamadbah2/inventory-portal/internal/validation"
	"github.com/mamadbah2/inventory-portal/internal/view"
	"github.com/mamadbah2/inventory-portal/pkg/clients/inventory"
)

// PortalHandler serves the gateway's session, admin and user endpoints.
type PortalHandler struct {
	svc        *portal.Service
	sessions   *session.Manager
	metrics    *metrics.Metrics
	sessionTTL time.Duration
	logger     *zap.Logger
}

// NewPortalHandler constructs the HTTP handler adapter.
func NewPortalHandler(svc *portal.Service, sessions *session.Manager, m *metrics.Metrics, sessionTTL time.Duration, logger *zap.Logger) *PortalHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PortalHandler{svc: svc, sessions: sessions, metrics: m, sessionTTL: sessionTTL, logger: logger}
}

func (h *PortalHandler) workspace(c *gin.Context) *portal.Workspace {
	return h.svc.Workspaces().Get(currentSession(c).Token)
}

// Login checks credentials and opens a session.
func (h *PortalHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	s, err := h.sessions.Login(c.Request.Context(), req)
	if err != nil {
		var (
			verr   *validation.ValidationError
			apiErr *inventory.APIError
		)
		switch {
		case errors.As(err, &verr):
			writeError(c, err)
		case errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError:
			c.JSON(http.StatusUnauthorized, gin.H{"error": apiErr.Message})
		default:
			h.logger.Error("login failed", zap.Error(err))
			writeError(c, err)
		}
		return
	}

	h.metrics.SetSessions(h.sessions.Len())
	setSessionCookie(c, s.Token, int(h.sessionTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{"token": s.Token, "session": s})
}

// Logout ends the current session.
func (h *PortalHandler) Logout(c *gin.Context) {
	if s := currentSession(c); s != nil {
		h.sessions.Logout(s.Token)
		h.metrics.SetSessions(h.sessions.Len())
	}
	setSessionCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

// Session returns the current session and its greeting data.
func (h *PortalHandler) Session(c *gin.Context) {
	s := currentSession(c)
	c.JSON(http.StatusOK, gin.H{"session": s, "dashboard": session.UserDashboard(*s)})
}

// UserDashboard returns the user area greeting.
func (h *PortalHandler) UserDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, session.UserDashboard(*currentSession(c)))
}

// Dashboard returns the admin dashboard.
func (h *PortalHandler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Dashboard(c.Request.Context()))
}

// Options returns the fixed form option lists.
func (h *PortalHandler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Options())
}

// View returns an enriched, filtered page. A page whose primary collection
// failed is still rendered, with status 502.
func (h *PortalHandler) View(c *gin.Context) {
	q, refresh := parseQuery(c)
	pv, err := h.svc.View(c.Request.Context(), h.workspace(c), c.Param("page"), q, refresh)
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusOK
	if pv.State == view.ListError {
		status = http.StatusBadGateway
	}
	c.JSON(status, pv)
}

// Export returns the filtered page as an XLSX workbook.
func (h *PortalHandler) Export(c *gin.Context) {
	q, _ := parseQuery(c)
	table, err := h.svc.Export(c.Request.Context(), h.workspace(c), c.Param("page"), q)
	if err != nil {
		writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, table); err != nil {
		h.logger.Error("xlsx export failed", zap.String("page", c.Param("page")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", table.Filename()))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

// LookupUser resolves a user id for the stock forms.
func (h *PortalHandler) LookupUser(c *gin.Context) {
	result, err := h.svc.LookupUser(c.Request.Context(), h.workspace(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Submit validates and submits a form.
func (h *PortalHandler) Submit(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := h.svc.Submit(c.Request.Context(), h.workspace(c), c.Param("form"), body)
	if err != nil {
		var verr *validation.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": verr.Fields, "status": res.Status})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Delete removes a record and drops it from the session's lists.
func (h *PortalHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), h.workspace(c), c.Param("resource"), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseQuery reads the search text, the refresh flag and every other query
// parameter as a facet selection.
func parseQuery(c *gin.Context) (view.Query, bool) {
	q := view.Query{Search: c.Query("q"), Selections: make(map[string]string)}
	refresh, _ := strconv.ParseBool(c.Query("refresh"))
	for key, values := range c.Request.URL.Query() {
		if key == "q" || key == "refresh" || len(values) == 0 {
			continue
		}
		q.Selections[key] = values[0]
	}
	return q, refresh
}
