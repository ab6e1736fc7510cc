// Package docpipe turns uploaded documents into plain text and fixed-size chunks.
package docpipe

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
)

// Kind is the detected document format.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindHTML Kind = "html"
	KindText Kind = "text"
)

// Detect picks the extractor from the content type, then the file extension.
func Detect(filename, contentType string) Kind {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch ct {
	case "application/pdf":
		return KindPDF
	case "text/html", "application/xhtml+xml":
		return KindHTML
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return KindPDF
	case ".html", ".htm", ".xhtml":
		return KindHTML
	}
	return KindText
}

// Extractor converts raw uploads to text. Zero value is not usable; use NewExtractor.
type Extractor struct {
	policy *bluemonday.Policy
	md     *converter.Converter
}

func NewExtractor() *Extractor {
	return &Extractor{
		policy: bluemonday.UGCPolicy(),
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Extract returns the document text for the detected kind.
func (e *Extractor) Extract(filename, contentType string, data []byte) (string, Kind, error) {
	kind := Detect(filename, contentType)
	switch kind {
	case KindPDF:
		text, err := extractPDF(data)
		return text, kind, err
	case KindHTML:
		text, err := e.extractHTML(data)
		return text, kind, err
	}
	if !utf8.Valid(data) {
		return strings.ToValidUTF8(string(data), "�"), kind, nil
	}
	return string(data), kind, nil
}

// extractHTML sanitises first so scripts and styles never reach the index.
func (e *Extractor) extractHTML(data []byte) (string, error) {
	clean := e.policy.SanitizeBytes(data)
	md, err := e.md.ConvertString(string(clean))
	if err != nil {
		return "", fmt.Errorf("html to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}
