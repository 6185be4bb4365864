// Package intake turns uploaded document bytes into text for the validator.
// Real parsing and OCR are out of scope: non-text documents get canned term
// sheets chosen from the file name.
package intake

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"termsheet-workers/internal/common/logger"
	"termsheet-workers/internal/termsheet"
)

// DefaultMaxDocumentBytes matches the 10MB upload limit.
const DefaultMaxDocumentBytes int64 = 10 << 20

// DefaultExtractionDelay is the simulated OCR latency for non-text documents.
const DefaultExtractionDelay = 1500 * time.Millisecond

var (
	ErrUnreadableDocument = errors.New("document is not readable as text")
	ErrDocumentTooLarge   = errors.New("document exceeds the maximum size")
	ErrEmptyDocumentName  = errors.New("document name is empty")
)

// Document is an uploaded file.
type Document struct {
	Name    string
	Content []byte
}

// Type derives the document type from the name's extension.
func (d Document) Type() termsheet.DocumentType {
	return DetermineDocumentType(d.Name)
}

// Extractor converts a document into plain text.
type Extractor interface {
	Extract(ctx context.Context, doc Document) (string, error)
}

// DetermineDocumentType maps a file extension to a document type; anything
// unrecognised, including no extension, is Text.
func DetermineDocumentType(fileName string) termsheet.DocumentType {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	switch ext {
	case "pdf":
		return termsheet.DocumentTypePDF
	case "doc", "docx":
		return termsheet.DocumentTypeDOCX
	case "jpg", "jpeg", "png":
		return termsheet.DocumentTypeImage
	case "xls", "xlsx":
		return termsheet.DocumentTypeExcel
	default:
		return termsheet.DocumentTypeText
	}
}

// SampleKindFor picks the canned text for a file name.
func SampleKindFor(fileName string) termsheet.SampleKind {
	name := strings.ToLower(fileName)
	switch {
	case strings.Contains(name, "equity"):
		return termsheet.SampleEquitySwap
	case strings.Contains(name, "interest"):
		return termsheet.SampleInterestRateSwap
	case strings.Contains(name, "fx"), strings.Contains(name, "forex"):
		return termsheet.SampleFXForward
	default:
		return termsheet.SampleGeneric
	}
}

// MockExtractor reads text documents as UTF-8 and answers every other type
// with a canned term sheet after a simulated delay.
type MockExtractor struct {
	delay    termsheet.Delay
	maxBytes int64
	log      logger.Logger
}

type MockOption func(*MockExtractor)

func WithDelay(d termsheet.Delay) MockOption {
	return func(m *MockExtractor) {
		if d != nil {
			m.delay = d
		}
	}
}

// WithMaxBytes sets the size limit; zero or less disables it.
func WithMaxBytes(n int64) MockOption {
	return func(m *MockExtractor) { m.maxBytes = n }
}

func WithLogger(l logger.Logger) MockOption {
	return func(m *MockExtractor) {
		if l != nil {
			m.log = l
		}
	}
}

func NewMockExtractor(opts ...MockOption) *MockExtractor {
	m := &MockExtractor{
		delay:    termsheet.FixedDelay(DefaultExtractionDelay),
		maxBytes: DefaultMaxDocumentBytes,
		log:      logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MockExtractor) Extract(ctx context.Context, doc Document) (string, error) {
	if strings.TrimSpace(doc.Name) == "" {
		return "", ErrEmptyDocumentName
	}
	if m.maxBytes > 0 && int64(len(doc.Content)) > m.maxBytes {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrDocumentTooLarge, len(doc.Content), m.maxBytes)
	}

	docType := doc.Type()
	if docType == termsheet.DocumentTypeText {
		if !utf8.Valid(doc.Content) {
			return "", ErrUnreadableDocument
		}
		return string(doc.Content), nil
	}

	if err := m.delay.Wait(ctx); err != nil {
		return "", err
	}

	kind := SampleKindFor(doc.Name)
	m.log.Debug("simulated extraction", map[string]interface{}{
		"documentName": doc.Name,
		"documentType": string(docType),
		"sampleKind":   string(kind),
	})
	return termsheet.SampleText(kind), nil
}
