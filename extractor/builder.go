package extractor

import (
	"github.com/shopspring/decimal"
	"mercadolivre-sync/internal/types"
)

// Builder accumulates extracted fields. Only Build hands out a product,
// so a partially filled record never escapes an extraction.
type Builder struct {
	product types.ExtractedProduct
}

// NewBuilder starts a record for the listing at canonicalURL.
func NewBuilder(canonicalURL string) *Builder {
	return &Builder{product: types.ExtractedProduct{SourceURL: canonicalURL}}
}

func (b *Builder) SourceID(v string)    { b.product.SourceID = &v }
func (b *Builder) Title(v string)       { b.product.Title = &v }
func (b *Builder) Description(v string) { b.product.Description = &v }
func (b *Builder) Brand(v string)       { b.product.Brand = &v }
func (b *Builder) Condition(v string)   { b.product.Condition = &v }
func (b *Builder) Discount(v string)    { b.product.DiscountLabel = &v }
func (b *Builder) StockStatus(v string) { b.product.StockStatus = v }

func (b *Builder) CurrentPrice(v decimal.Decimal)  { b.product.CurrentPrice = &v }
func (b *Builder) OriginalPrice(v decimal.Decimal) { b.product.OriginalPrice = &v }

// Installments sets both halves of the installment plan together.
func (b *Builder) Installments(count int, amount decimal.Decimal) {
	b.product.InstallmentCount = &count
	b.product.InstallmentAmount = &amount
}

// Gallery stores a copy of urls.
func (b *Builder) Gallery(urls []string) {
	b.product.GalleryImageURLs = append([]string(nil), urls...)
}

// Build returns the finished record. The gallery is never nil.
func (b *Builder) Build() types.ExtractedProduct {
	p := b.product
	p.GalleryImageURLs = append(make([]string, 0, len(b.product.GalleryImageURLs)), b.product.GalleryImageURLs...)
	if p.StockStatus == "" {
		p.StockStatus = StockUnknown
	}
	return p
}
