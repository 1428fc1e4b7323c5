package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"resume-ats/internal/shared/telemetry"
)

var errPanic = errors.New("pdf engine panic")

// race runs fn on its own goroutine and returns its result, or ErrTimeout once
// limit elapses or ctx is done. A timed-out fn keeps running; its result is dropped.
func race[T any](ctx context.Context, limit time.Duration, fn func() (T, error)) (T, error) {
	type result struct {
		val T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				ch <- result{err: fmt.Errorf("%w: %v", errPanic, rec)}
			}
		}()
		v, err := fn()
		ch <- result{val: v, err: err}
	}()

	timer := time.NewTimer(limit)
	defer timer.Stop()

	var zero T
	select {
	case res := <-ch:
		return res.val, res.err
	case <-timer.C:
		return zero, ErrTimeout
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, ErrTimeout
		}
		return zero, ctx.Err()
	}
}

func (e *Extractor) readPDF(ctx context.Context, data []byte) (string, int, error) {
	reader, err := race(ctx, e.opts.Timeout, func() (*pdf.Reader, error) {
		return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrTimeout), errors.Is(err, context.Canceled):
			return "", 0, err
		case isPasswordError(err):
			return "", 0, fmt.Errorf("%w: %v", ErrPasswordProtected, err)
		default:
			return "", 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	}

	total := reader.NumPage()
	if total == 0 {
		return "", 0, fmt.Errorf("%w: document has no pages", ErrCorrupt)
	}
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		text, err := race(ctx, e.opts.PageTimeout, func() (string, error) {
			return pageText(reader.Page(i))
		})
		if err != nil {
			if errors.Is(err, ErrTimeout) || errors.Is(err, context.Canceled) {
				return "", total, fmt.Errorf("page %d: %w", i, err)
			}
			telemetry.Warn("extract.page_skipped", map[string]any{
				"page":  i,
				"error": err.Error(),
			})
			continue
		}
		if text != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n\n"), total, nil
}

// pageText returns the page's lines top to bottom, each with its tokens left to right.
func pageText(p pdf.Page) (string, error) {
	if p.V.IsNull() {
		return "", nil
	}
	rows, err := p.GetTextByRow()
	if err != nil {
		return "", err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Position > rows[j].Position
	})
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		tokens := row.Content
		sort.SliceStable(tokens, func(i, j int) bool {
			return tokens[i].X < tokens[j].X
		})
		parts := make([]string, 0, len(tokens))
		for _, t := range tokens {
			parts = append(parts, t.S)
		}
		if line := collapseSpaces(strings.Join(parts, " ")); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func isPasswordError(err error) bool {
	if errors.Is(err, pdf.ErrInvalidPassword) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "password") || strings.Contains(msg, "encrypt")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
