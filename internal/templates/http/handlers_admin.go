package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/GoSim-25-26J-441/photogrid-backend/internal/adminauth"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/templates/domain"
	"github.com/gin-gonic/gin"
)

// maxImportBytes caps the size of an import payload.
const maxImportBytes = 10 << 20

// Login exchanges the admin password for a session token
func (h *Handler) Login(c *gin.Context) {
	if !h.limiter.Allow(c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts"})
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ok, err := h.credentials.Verify(c.Request.Context(), req.Password)
	if err != nil {
		h.logger(c).WithError(err).Error("failed to read admin password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify password"})
		return
	}
	if !ok {
		h.logger(c).WithField("client_ip", c.ClientIP()).Warn("admin login rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
		return
	}

	token, expiresAt := h.sessions.Issue()
	c.JSON(http.StatusOK, gin.H{"token": token, "expires_at": expiresAt})
}

// Logout revokes the caller's session
func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Revoke(c.GetString(adminauth.CtxAdminToken))
	c.Status(http.StatusNoContent)
}

// ChangePassword replaces the admin password. Every existing session is
// revoked and the caller receives a fresh token.
func (h *Handler) ChangePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.credentials.Change(c.Request.Context(), req.Password); err != nil {
		switch {
		case errors.Is(err, adminauth.ErrPasswordRequired), errors.Is(err, adminauth.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger(c).WithError(err).Error("failed to change admin password")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save password"})
		}
		return
	}

	h.sessions.RevokeAll()
	token, expiresAt := h.sessions.Issue()
	c.JSON(http.StatusOK, gin.H{"token": token, "expires_at": expiresAt})
}

// CreateTemplate adds a template
func (h *Handler) CreateTemplate(c *gin.Context) {
	var in domain.TemplateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	t, err := h.store.Add(c.Request.Context(), in)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"template": t})
}

// UpdateTemplate replaces the editable fields of a template
func (h *Handler) UpdateTemplate(c *gin.Context) {
	id := c.Param("id")

	var in domain.TemplateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	t, err := h.store.Update(c.Request.Context(), id, in)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"template": t})
}

// DeleteTemplate removes a template
func (h *Handler) DeleteTemplate(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearTemplates removes every template
func (h *Handler) ClearTemplates(c *gin.Context) {
	if err := h.store.Clear(c.Request.Context()); err != nil {
		writeStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportTemplates downloads the collection as an indented JSON file
func (h *Handler) ExportTemplates(c *gin.Context) {
	data, err := h.store.Export()
	if err != nil {
		h.logger(c).WithError(err).Error("failed to export templates")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export templates"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, domain.ExportFileName(h.now().UTC())))
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(data))
}

// ImportTemplates adds every named record of a JSON array body
func (h *Handler) ImportTemplates(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "import payload too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read import payload"})
		return
	}

	n, err := h.store.Import(c.Request.Context(), string(body))
	if err != nil {
		writeStoreError(c, err)
		return
	}

	h.logger(c).WithField("operation", "import").Infof("imported %d templates", n)
	c.JSON(http.StatusOK, gin.H{"imported": n})
}

// ReloadTemplates re-reads the persisted collection
func (h *Handler) ReloadTemplates(c *gin.Context) {
	if err := h.store.Reload(c.Request.Context()); err != nil {
		h.logger(c).WithError(err).Error("failed to reload templates")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reload templates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": h.store.Len()})
}

func writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "template name is required"})
	case errors.Is(err, domain.ErrInvalidImport):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid import payload: expected a JSON array"})
	case errors.Is(err, domain.ErrTemplateNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save templates"})
	}
}
