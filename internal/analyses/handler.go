package analyses

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/extract"
	"resume-ats/internal/llm"
	"resume-ats/internal/shared/server/respond"
	"resume-ats/internal/shared/util"
)

const (
	DefaultMaxUploadBytes = 2 << 20
	// multipart framing and form fields on top of the file itself
	formOverheadBytes = 64 << 10
	defaultFileName   = "curriculo.pdf"

	msgInvalidData    = "Dados inválidos"
	msgAnalysisFailed = "Erro na análise do currículo"
	msgNotPDF         = "Por favor, envie um arquivo PDF"
	msgFileRequired   = "Nenhum arquivo enviado"
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler. A non-positive limit means DefaultMaxUploadBytes.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.Analyze)
	rg.POST("/analyze/upload", h.AnalyzeUpload)
	rg.POST("/extract", h.Extract)
}

// Analyze handles a JSON analysis request.
func (h *Handler) Analyze(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, msgInvalidData, []FieldError{
			{Field: "body", Issue: "invalid_json", Message: "O corpo da requisição deve ser um JSON válido"},
		})
		return
	}

	result, err := h.Svc.Analyze(WithRequestID(c.Request.Context(), c.GetString("requestId")), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.writeResult(c, result)
}

// AnalyzeUpload handles a multipart PDF upload: extraction followed by analysis.
func (h *Handler) AnalyzeUpload(c *gin.Context) {
	up, ok := h.readUpload(c, true)
	if !ok {
		return
	}
	req := Request{
		Industry:        c.PostForm("industry"),
		ExperienceLevel: c.PostForm("experienceLevel"),
		JobDescription:  c.PostForm("jobDescription"),
	}

	ctx := WithRequestID(c.Request.Context(), c.GetString("requestId"))
	result, err := h.Svc.AnalyzeDocument(ctx, up.data, up.mimeType, up.fileName, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.writeResult(c, result)
}

// Extract returns the text of an uploaded file without analyzing it.
func (h *Handler) Extract(c *gin.Context) {
	up, ok := h.readUpload(c, false)
	if !ok {
		return
	}

	doc, err := h.Svc.Extract(c.Request.Context(), up.data, up.mimeType, up.fileName)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, doc)
}

type upload struct {
	data     []byte
	fileName string
	mimeType string
}

// readUpload reads the "file" part within the size limit. With pdfOnly the
// declared content type must be application/pdf.
func (h *Handler) readUpload(c *gin.Context, pdfOnly bool) (upload, bool) {
	limit := h.MaxUploadBytes
	if limit <= 0 {
		limit = DefaultMaxUploadBytes
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+formOverheadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.fileTooLarge(c, limit)
			return upload{}, false
		}
		respond.Error(c, http.StatusBadRequest, ErrorCodeInvalidFile, msgFileRequired, []FieldError{
			{Field: "file", Issue: "required", Message: msgFileRequired},
		})
		return upload{}, false
	}

	declared := strings.ToLower(strings.TrimSpace(strings.SplitN(fileHeader.Header.Get("Content-Type"), ";", 2)[0]))
	if pdfOnly && declared != extract.MimePDF {
		respond.Error(c, http.StatusBadRequest, ErrorCodeInvalidFile, msgNotPDF, []FieldError{
			{Field: "file", Issue: "invalid_type", Message: msgNotPDF},
		})
		return upload{}, false
	}
	if fileHeader.Size > limit {
		h.fileTooLarge(c, limit)
		return upload{}, false
	}

	data, err := readPart(fileHeader, limit)
	if err != nil {
		if errors.Is(err, errPartTooLarge) {
			h.fileTooLarge(c, limit)
			return upload{}, false
		}
		respond.Error(c, http.StatusBadRequest, ErrorCodeInvalidFile, "Não foi possível ler o arquivo", nil)
		return upload{}, false
	}
	return upload{
		data:     data,
		fileName: util.SanitizeFileName(fileHeader.Filename, defaultFileName),
		mimeType: declared,
	}, true
}

var errPartTooLarge = errors.New("upload exceeds size limit")

func readPart(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errPartTooLarge
	}
	return data, nil
}

func (h *Handler) fileTooLarge(c *gin.Context, limit int64) {
	msg := fmt.Sprintf("O arquivo é muito grande. Por favor, envie um arquivo de até %s.", formatBytes(limit))
	respond.Error(c, http.StatusBadRequest, ErrorCodeFileTooLarge, msg, []FieldError{
		{Field: "file", Issue: "too_large", Message: msg},
	})
}

func (h *Handler) writeResult(c *gin.Context, result Result) {
	c.Set("analysisScore", result.Report.Score)
	c.Set("analysisFallback", result.Metadata.Fallback)
	respond.OK(c, result)
}

// writeError maps service errors to HTTP responses. Validation failures carry
// the itemized fields; upstream failures carry the sanitized cause.
func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, msgInvalidData, verr.Fields)
	case errors.Is(err, extract.ErrEngineInit):
		respond.Error(c, http.StatusServiceUnavailable, ErrorCodeExtractorInit, extract.UserMessage(err), nil)
	case errors.Is(err, extract.ErrTimeout):
		respond.Error(c, http.StatusGatewayTimeout, ErrorCodeExtractTimeout, extract.UserMessage(err), nil)
	case extract.IsExtractionError(err):
		respond.Error(c, http.StatusUnprocessableEntity, ErrorCodeExtraction, extract.UserMessage(err), nil)
	case errors.Is(err, ErrLLMNotConfigured):
		respond.Error(c, http.StatusServiceUnavailable, ErrorCodeUnavailable, "Serviço de análise indisponível", nil)
	default:
		status := llm.HTTPStatus(err)
		code, _ := classifyFailure(err)
		if status == http.StatusTooManyRequests {
			code = ErrorCodeRateLimited
		}
		respond.Error(c, status, code, msgAnalysisFailed, sanitizeError(err))
	}
}

func formatBytes(n int64) string {
	const mb = 1 << 20
	if n%mb == 0 {
		return fmt.Sprintf("%dMB", n/mb)
	}
	if n >= mb {
		return fmt.Sprintf("%.1fMB", float64(n)/mb)
	}
	return fmt.Sprintf("%dKB", (n+1023)/1024)
}
