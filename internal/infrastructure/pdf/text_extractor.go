package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/jhoicas/talent-api/internal/application/ports"
)

var _ ports.TextExtractor = (*TextExtractor)(nil)

// TextExtractor reads plain text from .pdf and .txt uploads.
type TextExtractor struct{}

// NewTextExtractor builds the extractor.
func NewTextExtractor() *TextExtractor { return &TextExtractor{} }

// Extract dispatches on the file extension.
func (e *TextExtractor) Extract(ctx context.Context, fileName string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".txt":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("text file is not valid UTF-8")
		}
		return string(data), nil
	case ".pdf":
		return extractPDF(data)
	default:
		return "", fmt.Errorf("unsupported file type %q", filepath.Ext(fileName))
	}
}

// extractPDF reads the text layer. The reader panics on some malformed
// files, which is reported as an error.
func extractPDF(data []byte) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}
