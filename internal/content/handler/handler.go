package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rifathmfm/portfolio-api/internal/auth"
	"github.com/rifathmfm/portfolio-api/internal/content"
	"github.com/rifathmfm/portfolio-api/internal/content/service"
	"github.com/rifathmfm/portfolio-api/internal/editor"
	"github.com/rifathmfm/portfolio-api/internal/view"
	"github.com/rifathmfm/portfolio-api/pkg/logger"
)

// maxImageBytes bounds multipart image attachments.
const maxImageBytes = 10 << 20

// Handler wires the content read surface and the editing flows onto gin.
type Handler struct {
	syncer  *service.Syncer
	editor  *editor.Editor
	deletes *editor.DeleteFlow
}

func New(syncer *service.Syncer, ed *editor.Editor, df *editor.DeleteFlow) *Handler {
	return &Handler{syncer: syncer, editor: ed, deletes: df}
}

// Register mounts routes under rg. requireAuth guards every mutating route;
// optionalAuth lets read routes see the session for affordance gating.
func (h *Handler) Register(rg *gin.RouterGroup, requireAuth, optionalAuth gin.HandlerFunc) {
	rg.GET("/collections/:collection", optionalAuth, h.Cards)
	rg.GET("/collections/:collection/records", optionalAuth, h.Records)

	rg.POST("/collections/:collection/drafts", requireAuth, h.OpenDraft)
	rg.GET("/collections/:collection/drafts/:draftID", requireAuth, h.GetDraft)
	rg.PATCH("/collections/:collection/drafts/:draftID", requireAuth, h.PatchDraft)
	rg.POST("/collections/:collection/drafts/:draftID/image", requireAuth, h.AttachImage)
	rg.POST("/collections/:collection/drafts/:draftID/submit", requireAuth, h.SubmitDraft)
	rg.DELETE("/collections/:collection/drafts/:draftID", requireAuth, h.CancelDraft)

	rg.POST("/collections/:collection/records/:id/delete-request", requireAuth, h.RequestDelete)
	rg.POST("/collections/:collection/records/:id/delete-confirm", requireAuth, h.ConfirmDelete)
	rg.POST("/collections/:collection/records/:id/delete-dismiss", requireAuth, h.DismissDelete)

	// contact form: open to anonymous visitors, write-only
	rg.POST("/messages", h.SubmitMessage)
}

func (h *Handler) collection(c *gin.Context) (content.Collection, bool) {
	name := c.Param("collection")
	col, ok := content.Lookup(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown collection", "collection": name})
		return content.Collection{}, false
	}
	return col, true
}

// readable rejects anonymous reads of read-restricted collections. Contact
// messages are write-only for visitors; only the owner may list them.
func (h *Handler) readable(c *gin.Context, col content.Collection) bool {
	if col.ReadRestricted && !auth.FromContext(c).Present() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return false
	}
	return true
}

// Cards returns the session-aware card list for a collection.
func (h *Handler) Cards(c *gin.Context) {
	col, ok := h.collection(c)
	if !ok {
		return
	}
	if !h.readable(c, col) {
		return
	}
	sess := auth.FromContext(c)
	list := view.BuildCardList(col.Name, h.syncer.Records(col.Name), h.syncer.Loading(col.Name), sess)
	c.JSON(http.StatusOK, list)
}

// Records returns the raw normalized records of a collection.
func (h *Handler) Records(c *gin.Context) {
	col, ok := h.collection(c)
	if !ok {
		return
	}
	if !h.readable(c, col) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"collection": col.Name, "records": h.syncer.Records(col.Name)})
}

// OpenDraft opens an editing draft: empty for Add, populated when the request
// names a record id for Edit.
func (h *Handler) OpenDraft(c *gin.Context) {
	col, ok := h.collection(c)
	if !ok {
		return
	}
	var req struct {
		RecordID string `json:"recordId"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	var (
		d   *editor.Draft
		err error
	)
	if req.RecordID == "" {
		d, err = h.editor.Open(c.Request.Context(), col.Name, nil)
	} else {
		d, err = h.editor.OpenFromID(c.Request.Context(), col.Name, req.RecordID)
	}
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, draftResponse(d))
}

// GetDraft returns the current draft state.
func (h *Handler) GetDraft(c *gin.Context) {
	d, err := h.editor.Draft(c.Request.Context(), c.Param("draftID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
		return
	}
	c.JSON(http.StatusOK, draftResponse(d))
}

// PatchDraft applies field edits to the draft.
func (h *Handler) PatchDraft(c *gin.Context) {
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := h.editor.SetFields(c.Request.Context(), c.Param("draftID"), fields)
	if err != nil {
		if errors.Is(err, editor.ErrDraftNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, draftResponse(d))
}

// AttachImage stores a pending image on the draft; the upload to the blob
// store happens at submit time.
func (h *Handler) AttachImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}
	if file.Size > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contentType := file.Header.Get("Content-Type")
	d, err := h.editor.ChooseImage(c.Request.Context(), c.Param("draftID"), file.Filename, contentType, data)
	if err != nil {
		if errors.Is(err, editor.ErrDraftNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, draftResponse(d))
}

// SubmitDraft runs the submit pipeline. Validation and upload failures leave
// the draft open; the response names the failing step.
func (h *Handler) SubmitDraft(c *gin.Context) {
	rec, err := h.editor.Submit(c.Request.Context(), c.Param("draftID"))
	if err != nil {
		var verr *content.ValidationError
		var uerr *content.UploadError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": verr.Fields})
		case errors.As(err, &uerr):
			logger.Errorf("image upload failed: %v", uerr)
			c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
		case errors.Is(err, editor.ErrDraftNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
		case errors.Is(err, editor.ErrSubmitInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": "submit already in flight"})
		default:
			logger.Errorf("submit failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "store write failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": rec})
}

// CancelDraft discards the draft without any store call.
func (h *Handler) CancelDraft(c *gin.Context) {
	if err := h.editor.Cancel(c.Request.Context(), c.Param("draftID")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestDelete marks a record for deletion; nothing is removed yet.
func (h *Handler) RequestDelete(c *gin.Context) {
	col, ok := h.collection(c)
	if !ok {
		return
	}
	if err := h.deletes.Request(col.Name, c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"collection": col.Name, "id": c.Param("id"), "pending": true})
}

// ConfirmDelete performs the pending delete and refetches the collection.
func (h *Handler) ConfirmDelete(c *gin.Context) {
	col, ok := h.collection(c)
	if !ok {
		return
	}
	err := h.deletes.Confirm(c.Request.Context(), col.Name, c.Param("id"))
	if err != nil {
		if errors.Is(err, editor.ErrNoPendingDelete) {
			c.JSON(http.StatusConflict, gin.H{"error": "delete was not requested"})
			return
		}
		logger.Errorf("delete failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "store delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

// DismissDelete clears the pending delete without touching the store.
func (h *Handler) DismissDelete(c *gin.Context) {
	col, ok := h.collection(c)
	if !ok {
		return
	}
	if err := h.deletes.Dismiss(col.Name, c.Param("id")); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "delete was not requested"})
		return
	}
	c.Status(http.StatusNoContent)
}

// SubmitMessage accepts a contact-form message from any visitor and persists
// it through the normal draft pipeline (open, fill, submit).
func (h *Handler) SubmitMessage(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Location string `json:"location"`
		Budget   string `json:"budget"`
		Message  string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	d, err := h.editor.Open(ctx, "messages", nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.editor.SetFields(ctx, d.ID, map[string]interface{}{
		"title":    "Message from " + req.Name,
		"name":     req.Name,
		"email":    req.Email,
		"location": req.Location,
		"budget":   req.Budget,
		"message":  req.Message,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	rec, err := h.editor.Submit(ctx, d.ID)
	if err != nil {
		logger.Errorf("contact message submit failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not store message"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": rec.ID})
}

func draftResponse(d *editor.Draft) gin.H {
	return gin.H{
		"draftId":    d.ID,
		"collection": d.Collection,
		"record":     d.Record,
		"hasImage":   len(d.Image) > 0,
		"imageName":  d.ImageName,
	}
}
