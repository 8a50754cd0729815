package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"mercadolivre-sync/utils"
)

// Field names used in diagnostics.
const (
	FieldSourceID      = "sourceId"
	FieldTitle         = "title"
	FieldDescription   = "description"
	FieldBrand         = "brand"
	FieldCondition     = "condition"
	FieldCurrentPrice  = "currentPrice"
	FieldOriginalPrice = "originalPrice"
	FieldDiscount      = "discountLabel"
	FieldInstallments  = "installments"
	FieldGallery       = "galleryImageUrls"
	FieldStockStatus   = "stockStatus"
)

// Inferred stock statuses.
const (
	StockInferredAvailable = "in stock"
	StockUnknown           = "stock status unavailable"
)

// MinDescriptionLength is the length below which the content paragraph is not trusted.
const MinDescriptionLength = 100

const (
	selTitle              = "h1.ui-pdp-title"
	selDescriptionContent = "p[data-testid='content']"
	selDescriptionBlock   = "div.ui-pdp-description__content"
	selSpecRows           = "div.ui-vpp-striped-specs__table tr, table.andes-table tr, section.ui-pdp-specs__table-container tr"
	selSpecHeader         = "th.andes-table__header, th"
	selSpecValue          = "td.andes-table__column--value"
	selBrandLink          = "span.ui-pdp-seller__brand-title span.ui-pdp-family--SEMIBOLD"
	selSubtitle           = "span.ui-pdp-subtitle"
	selPriceMeta          = "meta[itemprop='price']"
	selPriceSecondLine    = "div.ui-pdp-price__second-line"
	selMoneyFraction      = "span.andes-money-amount__fraction"
	selMoneyCents         = "span.andes-money-amount__cents"
	selMoneyAmount        = ".andes-money-amount"
	selOriginalPrice      = "s.ui-pdp-price__original-value"
	selDiscountLabel      = "span.ui-pdp-price__second-line__label span.andes-money-amount__discount"
	selDiscountAny        = "span.andes-money-amount__discount"
	selGalleryZoom        = "figure.ui-pdp-gallery__figure img[data-zoom]"
	selGalleryThumb       = "span.ui-pdp-gallery__thumbnail-wrapper img.ui-pdp-gallery__thumbnail-img"
	selStockStatus        = "p.ui-pdp-stock-information__title"
	selPrimaryAction      = "button.andes-button.ui-pdp-action--primary"

	brandLabel = "Marca"
)

var (
	sourceIDPattern    = regexp.MustCompile(`MLB-?(\d+)`)
	installmentPattern = regexp.MustCompile(`(\d+)\s*x\s*(?:de\s+)?R\$\s*([\d.,]+)`)
	thumbSizePattern   = regexp.MustCompile(`-(\d+x\d+|\d+xN)\.(jpe?g|png|webp)$`)
)

const zoomedThumbSize = "400xN"

// FieldExtractor applies one field's chain to a page and stores the result in a builder.
type FieldExtractor struct {
	Field string
	apply func(p *Page, b *Builder) Diagnostic
}

// Apply runs the extractor.
func (f FieldExtractor) Apply(p *Page, b *Builder) Diagnostic {
	return f.apply(p, b)
}

// NewFieldExtractor binds a chain to the builder setter that receives its value.
func NewFieldExtractor[T any](chain Chain[T], set func(*Builder, T)) FieldExtractor {
	return FieldExtractor{
		Field: chain.Field,
		apply: func(p *Page, b *Builder) Diagnostic {
			value, diag := chain.Run(p)
			if diag.Found {
				set(b, value)
			}
			return diag
		},
	}
}

// DefaultFields returns the extractors for a Mercado Livre listing in the order they run.
func DefaultFields() []FieldExtractor {
	return []FieldExtractor{
		NewFieldExtractor(SourceIDChain(), (*Builder).SourceID),
		NewFieldExtractor(TitleChain(), (*Builder).Title),
		NewFieldExtractor(DescriptionChain(), (*Builder).Description),
		NewFieldExtractor(BrandChain(), (*Builder).Brand),
		NewFieldExtractor(ConditionChain(), (*Builder).Condition),
		NewFieldExtractor(CurrentPriceChain(), (*Builder).CurrentPrice),
		NewFieldExtractor(OriginalPriceChain(), (*Builder).OriginalPrice),
		NewFieldExtractor(DiscountChain(), (*Builder).Discount),
		NewFieldExtractor(InstallmentChain(), func(b *Builder, plan InstallmentPlan) {
			b.Installments(plan.Count, plan.Amount)
		}),
		NewFieldExtractor(GalleryChain(), (*Builder).Gallery),
		NewFieldExtractor(StockStatusChain(), (*Builder).StockStatus),
	}
}

// SourceIDChain reads the marketplace code from the canonical URL.
func SourceIDChain() Chain[string] {
	return Chain[string]{
		Field: FieldSourceID,
		Strategies: []Strategy[string]{{
			Name: "url-pattern",
			Extract: func(p *Page) (string, string, bool) {
				m := sourceIDPattern.FindStringSubmatch(p.URL)
				if m == nil {
					return "", p.URL, false
				}
				return "MLB" + m[1], p.URL, true
			},
		}},
	}
}

// TitleChain reads the listing heading.
func TitleChain() Chain[string] {
	return Chain[string]{
		Field:      FieldTitle,
		Strategies: []Strategy[string]{textStrategy("heading", selTitle)},
	}
}

// DescriptionChain prefers the content paragraph when it is long enough, then the
// description container, and finally keeps a short content paragraph over nothing.
func DescriptionChain() Chain[string] {
	return Chain[string]{
		Field: FieldDescription,
		Strategies: []Strategy[string]{
			{
				Name: "content-paragraph",
				Extract: func(p *Page) (string, string, bool) {
					text := descriptionText(p, selDescriptionContent)
					return text, text, len([]rune(text)) >= MinDescriptionLength
				},
			},
			{
				Name: "description-container",
				Extract: func(p *Page) (string, string, bool) {
					text := descriptionText(p, selDescriptionBlock)
					return text, text, text != ""
				},
			},
			{
				Name: "short-content-paragraph",
				Extract: func(p *Page) (string, string, bool) {
					text := descriptionText(p, selDescriptionContent)
					return text, text, text != ""
				},
			},
		},
	}
}

func descriptionText(p *Page, selector string) string {
	s := p.Doc.Find(selector).First()
	if s.Length() == 0 {
		return ""
	}
	return utils.CleanText(s.Text())
}

// BrandChain looks up the "Marca" row of the specifications table, then the brand link.
func BrandChain() Chain[string] {
	return Chain[string]{
		Field: FieldBrand,
		Strategies: []Strategy[string]{
			{
				Name: "specs-table",
				Extract: func(p *Page) (string, string, bool) {
					value := SpecValue(p.Doc, brandLabel)
					return value, value, value != ""
				},
			},
			textStrategy("brand-link", selBrandLink),
		},
	}
}

// SpecValue scans the specification rows for a header equal to label, ignoring
// case, and returns the value cell of that row.
func SpecValue(doc *goquery.Document, label string) string {
	var value string
	doc.Find(selSpecRows).EachWithBreak(func(i int, row *goquery.Selection) bool {
		header := selectionText(row.Find(selSpecHeader).First())
		if !strings.EqualFold(header, label) {
			return true
		}
		cell := row.Find(selSpecValue).First()
		if cell.Length() == 0 {
			cell = row.Find("td").First()
		}
		value = selectionText(cell)
		return false
	})
	return value
}

// ConditionChain keeps the part of "Novo | +1000 vendidos" before the pipe.
func ConditionChain() Chain[string] {
	return Chain[string]{
		Field: FieldCondition,
		Strategies: []Strategy[string]{{
			Name: "subtitle",
			Extract: func(p *Page) (string, string, bool) {
				text := p.Text(selSubtitle)
				condition := strings.TrimSpace(strings.SplitN(text, "|", 2)[0])
				return condition, text, condition != ""
			},
		}},
	}
}

// CurrentPriceChain prefers the machine readable price, then the price widget, then
// the first money amount on the page that is not struck through.
func CurrentPriceChain() Chain[decimal.Decimal] {
	return Chain[decimal.Decimal]{
		Field: FieldCurrentPrice,
		Strategies: []Strategy[decimal.Decimal]{
			{
				Name: "meta-price",
				Extract: func(p *Page) (decimal.Decimal, string, bool) {
					content, ok := p.Attr(selPriceMeta, "content")
					if !ok || content == "" {
						return decimal.Decimal{}, "", false
					}
					d, err := decimal.NewFromString(content)
					if err != nil {
						return decimal.Decimal{}, content, false
					}
					return d, content, true
				},
			},
			moneyStrategy("price-widget", func(p *Page) *goquery.Selection {
				return p.Doc.Find(selPriceSecondLine).Find(selMoneyFraction)
			}),
			moneyStrategy("money-amount", func(p *Page) *goquery.Selection {
				return p.Doc.Find(selMoneyFraction).FilterFunction(func(i int, s *goquery.Selection) bool {
					return s.Closest("s").Length() == 0
				})
			}),
		},
	}
}

// OriginalPriceChain reads the struck-through price shown next to a discount.
func OriginalPriceChain() Chain[decimal.Decimal] {
	return Chain[decimal.Decimal]{
		Field: FieldOriginalPrice,
		Strategies: []Strategy[decimal.Decimal]{
			moneyStrategy("strikethrough-amount", func(p *Page) *goquery.Selection {
				return p.Doc.Find(selOriginalPrice).Find(selMoneyFraction)
			}),
		},
	}
}

// moneyStrategy composes whole and cents fragments of the first fraction element
// returned by find.
func moneyStrategy(name string, find func(p *Page) *goquery.Selection) Strategy[decimal.Decimal] {
	return Strategy[decimal.Decimal]{
		Name: name,
		Extract: func(p *Page) (decimal.Decimal, string, bool) {
			fraction := find(p).First()
			if fraction.Length() == 0 {
				return decimal.Decimal{}, "", false
			}
			amount := fraction.Closest(selMoneyAmount)
			if amount.Length() == 0 {
				amount = fraction.Parent()
			}
			whole := selectionText(fraction)
			cents := selectionText(amount.Find(selMoneyCents).First())

			d, ok := ComposeAmount(whole, cents)
			return d, strings.TrimSpace(whole + " " + cents), ok
		},
	}
}

// ComposeAmount builds an amount from displayed whole and cents fragments.
// Thousands separators in whole are ignored; missing cents count as "00".
func ComposeAmount(whole, cents string) (decimal.Decimal, bool) {
	whole = utils.DigitsOnly(whole)
	if whole == "" {
		return decimal.Decimal{}, false
	}
	cents = utils.DigitsOnly(cents)
	if cents == "" {
		cents = "00"
	}
	d, err := decimal.NewFromString(whole + "." + cents)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// DiscountChain keeps the discount label verbatim.
func DiscountChain() Chain[string] {
	return Chain[string]{
		Field: FieldDiscount,
		Strategies: []Strategy[string]{
			textStrategy("price-label", selDiscountLabel),
			{
				Name: "discount-badge",
				Extract: func(p *Page) (string, string, bool) {
					badge := p.Doc.Find(selDiscountAny).FilterFunction(func(i int, s *goquery.Selection) bool {
						return s.Closest("s").Length() == 0
					})
					text := selectionText(badge.First())
					return text, text, text != ""
				},
			},
		},
	}
}

// InstallmentPlan is a parsed "12x de R$ 45,67" offer.
type InstallmentPlan struct {
	Count  int
	Amount decimal.Decimal
}

// InstallmentChain scans the body text for the first installment offer.
func InstallmentChain() Chain[InstallmentPlan] {
	return Chain[InstallmentPlan]{
		Field: FieldInstallments,
		Strategies: []Strategy[InstallmentPlan]{{
			Name: "body-text",
			Extract: func(p *Page) (InstallmentPlan, string, bool) {
				plan, raw, ok := ParseInstallments(p.BodyText())
				return plan, raw, ok
			},
		}},
	}
}

// ParseInstallments finds the first installment offer in text. The amount uses
// "." for thousands and "," for decimals. When either half fails to parse the
// whole plan is rejected.
func ParseInstallments(text string) (InstallmentPlan, string, bool) {
	m := installmentPattern.FindStringSubmatch(text)
	if m == nil {
		return InstallmentPlan{}, "", false
	}

	count, err := strconv.Atoi(m[1])
	if err != nil || count < 1 {
		return InstallmentPlan{}, m[0], false
	}

	raw := strings.TrimRight(m[2], ".,")
	raw = strings.ReplaceAll(raw, ".", "")
	raw = strings.Replace(raw, ",", ".", 1)
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return InstallmentPlan{}, m[0], false
	}

	return InstallmentPlan{Count: count, Amount: amount}, m[0], true
}

// GalleryChain collects zoom images, falling back to upscaled thumbnails.
func GalleryChain() Chain[[]string] {
	return Chain[[]string]{
		Field: FieldGallery,
		Strategies: []Strategy[[]string]{
			{
				Name: "zoom-images",
				Extract: func(p *Page) ([]string, string, bool) {
					var urls []string
					p.Doc.Find(selGalleryZoom).Each(func(i int, img *goquery.Selection) {
						zoom, _ := img.Attr("data-zoom")
						if resolved := p.Resolve(zoom); resolved != "" {
							urls = append(urls, resolved)
						}
					})
					return urls, "", len(urls) > 0
				},
			},
			{
				Name: "thumbnails",
				Extract: func(p *Page) ([]string, string, bool) {
					var urls []string
					p.Doc.Find(selGalleryThumb).Each(func(i int, img *goquery.Selection) {
						src, _ := img.Attr("src")
						if strings.TrimSpace(src) == "" {
							src, _ = img.Attr("data-src")
						}
						if resolved := p.Resolve(src); resolved != "" {
							urls = append(urls, UpscaleThumbnail(resolved))
						}
					})
					return urls, "", len(urls) > 0
				},
			},
		},
	}
}

// UpscaleThumbnail swaps the size marker of a thumbnail filename for a larger one.
func UpscaleThumbnail(src string) string {
	return thumbSizePattern.ReplaceAllString(src, "-"+zoomedThumbSize+".$2")
}

// StockStatusChain reads the stock message or infers a status from the buy button.
// The last strategy always succeeds.
func StockStatusChain() Chain[string] {
	return Chain[string]{
		Field: FieldStockStatus,
		Strategies: []Strategy[string]{
			textStrategy("stock-message", selStockStatus),
			{
				Name: "inferred",
				Extract: func(p *Page) (string, string, bool) {
					if p.Doc.Find(selPrimaryAction).Length() > 0 {
						return StockInferredAvailable, "", true
					}
					return StockUnknown, "", true
				},
			},
		},
	}
}
