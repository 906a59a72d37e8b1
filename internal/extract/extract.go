// Package extract pulls plain text out of CV files. Textual formats
// are parsed directly; scanned images go through the vision model.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"go.uber.org/zap"

	"github.com/nbnam/cv-agent/internal/ai"
)

const imageExtractionPrompt = "Extract all text from this CV image. " +
	"Preserve the reading order of sections and return plain text only, without commentary."

// Extractor reads supported CV files into plain text.
type Extractor struct {
	vision ai.Vision
	logger *zap.Logger
}

// New returns an Extractor. vision may be nil, in which case image
// files are rejected.
func New(vision ai.Vision, logger *zap.Logger) *Extractor {
	return &Extractor{vision: vision, logger: logger}
}

// ExtractFile reads the file at path and returns its cleaned text.
// The format is chosen by file extension: pdf, docx, txt, md and the
// common image formats are supported.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	e.logger.Debug("extracting file", zap.String("path", path), zap.String("ext", ext))

	var text string
	switch ext {
	case ".pdf":
		text, err = extractPDFText(data)
	case ".docx":
		text, err = extractDocxText(data)
	case ".txt", ".md":
		text = string(data)
	case ".png", ".jpg", ".jpeg":
		text, err = e.extractImageText(ctx, ext, data)
	default:
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}
	if err != nil {
		return "", err
	}

	cleaned := Clean(text)
	if cleaned == "" {
		return "", fmt.Errorf("no text found in %s", path)
	}
	return cleaned, nil
}

func extractPDFText(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(reader.Len()))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var builder strings.Builder
	for i := 1; i <= pdfReader.NumPage(); i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, _ := page.GetPlainText(nil)
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	// GetContent returns the document body as WordprocessingML.
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	return xmlTagPattern.ReplaceAllString(content, ""), nil
}

func (e *Extractor) extractImageText(ctx context.Context, ext string, data []byte) (string, error) {
	if e.vision == nil {
		return "", fmt.Errorf("image extraction requires a vision model")
	}
	return e.vision.AnalyzeImage(ctx, imageExtractionPrompt, MIMETypeForExt(ext), data)
}

// MIMETypeForExt maps a lowercase file extension to its mime type.
func MIMETypeForExt(ext string) string {
	switch ext {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

var (
	crlfPattern    = regexp.MustCompile(`\r\n?`)
	spacesPattern  = regexp.MustCompile(`[ \t]+`)
	newlinePattern = regexp.MustCompile(`\n{3,}`)
)

// Clean normalizes extracted text: line endings become \n, runs of
// spaces collapse to one, and runs of blank lines collapse to a
// single blank line.
func Clean(text string) string {
	text = crlfPattern.ReplaceAllString(text, "\n")
	text = spacesPattern.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	text = newlinePattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
