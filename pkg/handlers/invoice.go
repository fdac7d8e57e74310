package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"scan-in/pkg/models"
	"scan-in/pkg/repository"
	"scan-in/pkg/services/ocr"
)

// Processor extracts an invoice record from an uploaded file.
type Processor interface {
	Process(ctx context.Context, data []byte, contentType string) (models.InvoiceRecord, error)
}

// Store persists invoice records.
type Store interface {
	Create(ctx context.Context, rec models.InvoiceRecord) (models.InvoiceRecord, error)
	Get(ctx context.Context, id uint) (models.InvoiceRecord, error)
	List(ctx context.Context, skip, limit int) ([]models.InvoiceRecord, error)
}

// InvoiceHandler serves the invoice endpoints.
type InvoiceHandler struct {
	processor      Processor
	store          Store
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewInvoiceHandler creates the handler. store may be nil when no database
// is configured; the storage endpoints then answer 503.
func NewInvoiceHandler(processor Processor, store Store, maxUploadBytes int64, logger *zap.Logger) *InvoiceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceHandler{
		processor:      processor,
		store:          store,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Register adds the routes to r.
func (h *InvoiceHandler) Register(r gin.IRouter) {
	r.POST("/extract-invoice", h.ExtractInvoice)
	r.POST("/invoices", h.CreateInvoice)
	r.GET("/invoices", h.ListInvoices)
	r.GET("/invoices/:id", h.GetInvoice)
}

// ExtractInvoice reads the multipart "file" field and returns the
// extracted record without storing it.
func (h *InvoiceHandler) ExtractInvoice(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}

	rec, err := h.processor.Process(c.Request.Context(), data, fh.Header.Get("Content-Type"))
	if err != nil {
		h.fail(c, err, http.StatusBadGateway)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// CreateInvoice stores a record sent as JSON.
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	if !h.storageEnabled(c) {
		return
	}

	var rec models.InvoiceRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice: " + err.Error()})
		return
	}
	if rec.InvoiceNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invoiceNumber is required"})
		return
	}

	created, err := h.store.Create(c.Request.Context(), rec)
	if err != nil {
		h.fail(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListInvoices returns stored invoices, paginated by skip and limit.
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	if !h.storageEnabled(c) {
		return
	}

	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(repository.MaxListLimit)))
	skip, limit = repository.Page(skip, limit)

	invoices, err := h.store.List(c.Request.Context(), skip, limit)
	if err != nil {
		h.fail(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// GetInvoice returns one stored invoice.
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	if !h.storageEnabled(c) {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	rec, err := h.store.Get(c.Request.Context(), uint(id))
	if err != nil {
		h.fail(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *InvoiceHandler) storageEnabled(c *gin.Context) bool {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage is not configured"})
		return false
	}
	return true
}

// fail maps collaborator errors to status codes. Unknown errors get
// fallback.
func (h *InvoiceHandler) fail(c *gin.Context, err error, fallback int) {
	status := fallback
	msg := http.StatusText(fallback)
	switch {
	case errors.Is(err, ocr.ErrEmptyImage):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, ocr.ErrUnsupportedFormat):
		status, msg = http.StatusUnsupportedMediaType, err.Error()
	case errors.Is(err, ocr.ErrDecode):
		status, msg = http.StatusUnprocessableEntity, "invalid image"
	case errors.Is(err, context.DeadlineExceeded):
		status, msg = http.StatusGatewayTimeout, "text recognition timed out"
	case errors.Is(err, repository.ErrDuplicateInvoice):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, repository.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"error": msg})
}
