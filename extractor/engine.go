package extractor

import (
	"mercadolivre-sync/internal/types"

	"github.com/PuerkitoBio/goquery"
)

// Result is an extracted product along with one diagnostic per field extractor.
type Result struct {
	Product     types.ExtractedProduct
	Diagnostics []Diagnostic
}

// Engine turns a listing document into a product record.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	fields       []FieldExtractor
	availability AvailabilityCheck
}

// Option configures an Engine
type Option func(*Engine)

// WithFields replaces the default field extractors
func WithFields(fields ...FieldExtractor) Option {
	return func(e *Engine) {
		e.fields = fields
	}
}

// WithAvailabilityCheck replaces the default availability check
func WithAvailabilityCheck(check AvailabilityCheck) Option {
	return func(e *Engine) {
		e.availability = check
	}
}

// NewEngine creates an engine with the Mercado Livre field extractors
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		fields:       DefaultFields(),
		availability: DefaultAvailabilityCheck,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs the availability check and then every field extractor once.
// Missing fields never fail the extraction; an unavailable page returns an
// *types.ExtractionFailure and no record.
func (e *Engine) Extract(doc *goquery.Document, canonicalURL string) (Result, error) {
	page := NewPage(doc, canonicalURL)

	if e.availability != nil {
		if reason, unavailable := e.availability(page); unavailable {
			return Result{}, &types.ExtractionFailure{URL: canonicalURL, Reason: reason}
		}
	}

	builder := NewBuilder(canonicalURL)
	diags := make([]Diagnostic, 0, len(e.fields))
	for _, field := range e.fields {
		diags = append(diags, field.Apply(page, builder))
	}

	return Result{Product: builder.Build(), Diagnostics: diags}, nil
}
