// Package extract turns uploaded résumé files into plain text.
//
// PDF parsing uses github.com/ledongthuc/pdf. Formats are identified by content
// sniffing (github.com/gabriel-vasile/mimetype) with the declared MIME type as a
// hint, and Word documents are recognised with github.com/nguyenthenguyen/docx so
// they can be rejected with a conversion hint.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/nguyenthenguyen/docx"

	"resume-ats/internal/shared/telemetry"
)

const (
	MimePDF   = "application/pdf"
	mimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeDOC   = "application/msword"
	mimeText  = "text/plain"
	probeText = "ats probe"

	DefaultTimeout     = 60 * time.Second
	DefaultPageTimeout = 30 * time.Second
)

// Options bounds extraction time.
type Options struct {
	// Timeout bounds loading the document.
	Timeout time.Duration
	// PageTimeout bounds reading a single page.
	PageTimeout time.Duration
}

// Document is the extracted text and its basic statistics.
type Document struct {
	Text       string `json:"text"`
	Pages      int    `json:"pages"`
	Characters int    `json:"characters"`
	Words      int    `json:"words"`
}

// Extractor holds the PDF engine state. The engine is verified once with a
// self-test; a failed self-test is repeated on the next call.
type Extractor struct {
	opts  Options
	probe func(context.Context) error

	mu    sync.Mutex
	ready bool
}

// New returns an Extractor with zero options replaced by defaults.
func New(opts Options) *Extractor {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = DefaultPageTimeout
	}
	e := &Extractor{opts: opts}
	e.probe = e.selfTest
	return e
}

// Init runs the engine self-test unless it already succeeded.
func (e *Extractor) Init(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ready {
		return nil
	}
	if err := e.probe(ctx); err != nil {
		telemetry.Error("extract.init_failed", map[string]any{"error": err.Error()})
		return fmt.Errorf("%w: %v", ErrEngineInit, err)
	}
	e.ready = true
	return nil
}

// Ready reports whether the self-test has succeeded.
func (e *Extractor) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

func (e *Extractor) selfTest(ctx context.Context) error {
	text, _, err := e.readPDF(ctx, BuildPDF([]string{probeText}))
	if err != nil {
		return err
	}
	if !strings.Contains(text, probeText) {
		return fmt.Errorf("self-test returned %q", text)
	}
	return nil
}

// Extract returns the text of data. declaredMime and fileName are hints; the
// content decides the format.
func (e *Extractor) Extract(ctx context.Context, data []byte, declaredMime, fileName string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	if len(data) == 0 {
		return Document{}, fmt.Errorf("%w: empty file", ErrUnsupportedFormat)
	}

	start := time.Now()
	kind := detect(data, declaredMime)
	var (
		text  string
		pages int
		err   error
	)
	switch kind {
	case MimePDF:
		if err := e.Init(ctx); err != nil {
			return Document{}, err
		}
		text, pages, err = e.readPDF(ctx, data)
	case mimeText:
		text = collapseSpaces(string(data))
	case mimeDOCX:
		err = ErrWordDocument
	case "corrupt":
		err = fmt.Errorf("%w: content is not a pdf", ErrCorrupt)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind)
	}
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrNoText
	}
	if err != nil {
		telemetry.Warn("extract.failed", map[string]any{
			"file_name": fileName,
			"mime":      declaredMime,
			"detected":  kind,
			"error":     err.Error(),
		})
		return Document{}, err
	}

	doc := Document{
		Text:       text,
		Pages:      pages,
		Characters: utf8.RuneCountInString(text),
		Words:      len(strings.Fields(text)),
	}
	telemetry.Info("extract.completed", map[string]any{
		"file_name":   fileName,
		"detected":    kind,
		"pages":       doc.Pages,
		"characters":  doc.Characters,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return doc, nil
}

// detect classifies data as MimePDF, mimeDOCX, mimeText, "corrupt" (declared as
// PDF but something else) or the sniffed MIME type when unsupported.
func detect(data []byte, declaredMime string) string {
	declared := normalizeMimeType(declaredMime)
	sniffed := mimetype.Detect(data)
	switch {
	case sniffed.Is(MimePDF):
		return MimePDF
	case sniffed.Is(mimeDOCX), sniffed.Is(mimeDOC), declared == mimeDOCX, declared == mimeDOC, isDocx(data):
		return mimeDOCX
	case declared == MimePDF:
		return "corrupt"
	case sniffed.Is(mimeText):
		return mimeText
	default:
		return sniffed.String()
	}
}

func isDocx(data []byte) bool {
	if !bytes.HasPrefix(data, []byte("PK")) {
		return false
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	_ = doc.Close()
	return true
}

func normalizeMimeType(mimeType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
}

// IsExtractionError reports whether err is one of the document errors of this package.
func IsExtractionError(err error) bool {
	for _, target := range []error{ErrPasswordProtected, ErrCorrupt, ErrWordDocument, ErrUnsupportedFormat, ErrNoText} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
