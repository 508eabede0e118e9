package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Adriano-luizello/Profeta-sub001/internal/csvadapter"
	"github.com/Adriano-luizello/Profeta-sub001/internal/service"
)

type UploadHandler struct {
	uploadService *service.UploadService
	maxBytes      int64
}

func NewUploadHandler(uploadService *service.UploadService, maxBytes int64) *UploadHandler {
	return &UploadHandler{uploadService: uploadService, maxBytes: maxBytes}
}

// Detect previews a file: detected format, headers, sample rows and the
// suggested mapping
func (h *UploadHandler) Detect(c *gin.Context) {
	name, data, err := h.readFile(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.uploadService.Detect(name, data)
	if err != nil {
		respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Import parses, normalizes and stores a file as a new analysis
func (h *UploadHandler) Import(c *gin.Context) {
	name, data, err := h.readFile(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := service.ImportRequest{
		OrganizationID:   c.PostForm("organization_id"),
		FileName:         name,
		Data:             data,
		ValueType:        csvadapter.ValueType(c.PostForm("value_type")),
		DateFormat:       csvadapter.DateFormat(c.PostForm("date_format")),
		DecimalSeparator: c.PostForm("decimal_separator"),
	}
	if req.OrganizationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "organization_id is required"})
		return
	}
	if raw := c.PostForm("mapping"); raw != "" {
		var mapping csvadapter.ColumnMapping
		if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mapping: " + err.Error()})
			return
		}
		req.Mapping = &mapping
	}

	result, err := h.uploadService.Import(c.Request.Context(), req)
	if err != nil {
		var extra gin.H
		if result != nil {
			extra = gin.H{"result": result}
		}
		respondError(c, err, extra)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetAnalysis reports the status of an import
func (h *UploadHandler) GetAnalysis(c *gin.Context) {
	analysis, err := h.uploadService.Analysis(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"analysis": analysis, "status_label": analysis.Status.Label()})
}

func (h *UploadHandler) readFile(c *gin.Context) (string, []byte, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return "", nil, errors.New("file is required")
	}
	if h.maxBytes > 0 && header.Size > h.maxBytes {
		return "", nil, fmt.Errorf("file is %s, the limit is %s",
			csvadapter.FormatFileSize(header.Size), csvadapter.FormatFileSize(h.maxBytes))
	}

	f, err := header.Open()
	if err != nil {
		return "", nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read upload: %w", err)
	}

	return header.Filename, data, nil
}
