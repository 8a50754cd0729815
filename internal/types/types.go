package types

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ExtractedProduct is the record the extraction engine builds from one listing page.
// Nil pointers mean the field could not be extracted.
type ExtractedProduct struct {
	SourceID          *string          `json:"mercadoLivreId"`
	SourceURL         string           `json:"mercadoLivreUrl"`
	Title             *string          `json:"productTitle"`
	Description       *string          `json:"fullDescription"`
	Brand             *string          `json:"productBrand"`
	Condition         *string          `json:"productCondition"`
	CurrentPrice      *decimal.Decimal `json:"currentPrice"`
	OriginalPrice     *decimal.Decimal `json:"originalPrice"`
	DiscountLabel     *string          `json:"discountPercentage"`
	InstallmentCount  *int             `json:"installments"`
	InstallmentAmount *decimal.Decimal `json:"installmentValue"`
	GalleryImageURLs  []string         `json:"galleryImageUrls"`
	StockStatus       string           `json:"stockStatus"`
}

// CatalogProduct is a stored catalog entry as returned by the catalog backend.
type CatalogProduct struct {
	ProductID         string           `json:"productId"`
	Category          *string          `json:"productCategory,omitempty"`
	Promotional       *bool            `json:"isPromotional,omitempty"`
	SourceID          *string          `json:"mercadoLivreId"`
	SourceURL         *string          `json:"mercadoLivreUrl"`
	Title             *string          `json:"productTitle"`
	Description       *string          `json:"fullDescription"`
	Brand             *string          `json:"productBrand"`
	Condition         *string          `json:"productCondition"`
	CurrentPrice      *decimal.Decimal `json:"currentPrice"`
	OriginalPrice     *decimal.Decimal `json:"originalPrice"`
	DiscountLabel     *string          `json:"discountPercentage"`
	InstallmentCount  *int             `json:"installments"`
	InstallmentAmount *decimal.Decimal `json:"installmentValue"`
	GalleryImageURLs  []string         `json:"galleryImageUrls"`
	StockStatus       *string          `json:"stockStatus"`
}

// MarshalJSON writes amounts as plain numbers with two fractional digits.
func (p ExtractedProduct) MarshalJSON() ([]byte, error) {
	type record ExtractedProduct
	return json.Marshal(struct {
		record
		CurrentPrice      *json.Number `json:"currentPrice"`
		OriginalPrice     *json.Number `json:"originalPrice"`
		InstallmentAmount *json.Number `json:"installmentValue"`
	}{
		record:            record(p),
		CurrentPrice:      amountJSON(p.CurrentPrice),
		OriginalPrice:     amountJSON(p.OriginalPrice),
		InstallmentAmount: amountJSON(p.InstallmentAmount),
	})
}

// MarshalJSON writes amounts as plain numbers with two fractional digits.
func (p CatalogProduct) MarshalJSON() ([]byte, error) {
	type record CatalogProduct
	return json.Marshal(struct {
		record
		CurrentPrice      *json.Number `json:"currentPrice"`
		OriginalPrice     *json.Number `json:"originalPrice"`
		InstallmentAmount *json.Number `json:"installmentValue"`
	}{
		record:            record(p),
		CurrentPrice:      amountJSON(p.CurrentPrice),
		OriginalPrice:     amountJSON(p.OriginalPrice),
		InstallmentAmount: amountJSON(p.InstallmentAmount),
	})
}

// AmountNumber renders an amount as a JSON number with two fractional digits.
func AmountNumber(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func amountJSON(d *decimal.Decimal) *json.Number {
	if d == nil {
		return nil
	}
	n := AmountNumber(*d)
	return &n
}

// Change is one field that differs between the stored and the extracted record.
type Change struct {
	Field  string
	Label  string
	Stored interface{}
	Value  interface{}
}

// UpdatePayload is the sparse set of changed fields for one catalog entry.
type UpdatePayload struct {
	ProductID string
	Changes   []Change
}

// Empty reports whether no field changed.
func (p UpdatePayload) Empty() bool {
	return len(p.Changes) == 0
}

// Fields returns the payload as the field map sent to the catalog backend.
// The correlation id is added last and only when something changed.
func (p UpdatePayload) Fields() map[string]interface{} {
	fields := make(map[string]interface{}, len(p.Changes)+1)
	for _, c := range p.Changes {
		fields[c.Field] = c.Value
	}
	if len(fields) > 0 {
		fields["productId"] = p.ProductID
	}
	return fields
}

// Config holds the configuration for fetching listing pages
type Config struct {
	RequestDelay          time.Duration
	MaxRetries            int
	Timeout               time.Duration
	MaxConcurrentRequests int
	UseHeadlessBrowser    bool
	UserAgent             string
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		RequestDelay:          250 * time.Millisecond,
		MaxRetries:            2,
		Timeout:               15 * time.Second,
		MaxConcurrentRequests: 1,
		UseHeadlessBrowser:    false,
		UserAgent:             "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

// Logger defines the logging interface
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}
