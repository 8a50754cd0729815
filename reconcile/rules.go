package reconcile

import (
	"github.com/shopspring/decimal"
	"mercadolivre-sync/internal/types"
	"mercadolivre-sync/utils"
)

// Rule compares one field of a stored and an extracted record.
type Rule struct {
	Field string
	Label string
	Diff  func(stored types.CatalogProduct, extracted types.ExtractedProduct) (types.Change, bool)
}

// CommercialRules compare the fields that move with the listing's offer.
func CommercialRules() []Rule {
	return []Rule{
		AmountRule("currentPrice", "Current Price",
			func(s types.CatalogProduct) *decimal.Decimal { return s.CurrentPrice },
			func(e types.ExtractedProduct) *decimal.Decimal { return e.CurrentPrice }),
		AmountRule("originalPrice", "Original Price",
			func(s types.CatalogProduct) *decimal.Decimal { return s.OriginalPrice },
			func(e types.ExtractedProduct) *decimal.Decimal { return e.OriginalPrice }),
		IntRule("installments", "Installments",
			func(s types.CatalogProduct) *int { return s.InstallmentCount },
			func(e types.ExtractedProduct) *int { return e.InstallmentCount }),
		AmountRule("installmentValue", "Installment Value",
			func(s types.CatalogProduct) *decimal.Decimal { return s.InstallmentAmount },
			func(e types.ExtractedProduct) *decimal.Decimal { return e.InstallmentAmount }),
		DigitsRule("discountPercentage", "Discount (%)",
			func(s types.CatalogProduct) *string { return s.DiscountLabel },
			func(e types.ExtractedProduct) *string { return e.DiscountLabel }),
	}
}

// CatalogRules compare the descriptive fields of the listing. They never propose
// clearing a stored value because extraction found nothing.
func CatalogRules() []Rule {
	return []Rule{
		TextRule("mercadoLivreId", "Marketplace ID",
			func(s types.CatalogProduct) *string { return s.SourceID },
			func(e types.ExtractedProduct) *string { return e.SourceID }),
		TextRule("productTitle", "Title",
			func(s types.CatalogProduct) *string { return s.Title },
			func(e types.ExtractedProduct) *string { return e.Title }),
		TextRule("fullDescription", "Description",
			func(s types.CatalogProduct) *string { return s.Description },
			func(e types.ExtractedProduct) *string { return e.Description }),
		TextRule("productBrand", "Brand",
			func(s types.CatalogProduct) *string { return s.Brand },
			func(e types.ExtractedProduct) *string { return e.Brand }),
		TextRule("productCondition", "Condition",
			func(s types.CatalogProduct) *string { return s.Condition },
			func(e types.ExtractedProduct) *string { return e.Condition }),
		ListRule("galleryImageUrls", "Gallery Images",
			func(s types.CatalogProduct) []string { return s.GalleryImageURLs },
			func(e types.ExtractedProduct) []string { return e.GalleryImageURLs }),
		TextRule("stockStatus", "Stock Status",
			func(s types.CatalogProduct) *string { return s.StockStatus },
			func(e types.ExtractedProduct) *string { return &e.StockStatus }),
	}
}

// AllRules is the commercial rule set followed by the catalog rule set.
func AllRules() []Rule {
	return append(CommercialRules(), CatalogRules()...)
}

// AmountRule treats amounts with the same whole-currency part as equal.
func AmountRule(field, label string, stored func(types.CatalogProduct) *decimal.Decimal, extracted func(types.ExtractedProduct) *decimal.Decimal) Rule {
	return Rule{
		Field: field,
		Label: label,
		Diff: func(s types.CatalogProduct, e types.ExtractedProduct) (types.Change, bool) {
			old, val := stored(s), extracted(e)
			if !AmountsDiffer(old, val) {
				return types.Change{}, false
			}
			return types.Change{Field: field, Label: label, Stored: amountValue(old), Value: amountValue(val)}, true
		},
	}
}

// AmountsDiffer compares the integer parts of two optional amounts.
func AmountsDiffer(a, b *decimal.Decimal) bool {
	if a == nil && b == nil {
		return false
	}
	if a == nil || b == nil {
		return true
	}
	return a.IntPart() != b.IntPart()
}

func amountValue(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return *d
}

// IntRule compares optional integers exactly.
func IntRule(field, label string, stored func(types.CatalogProduct) *int, extracted func(types.ExtractedProduct) *int) Rule {
	return Rule{
		Field: field,
		Label: label,
		Diff: func(s types.CatalogProduct, e types.ExtractedProduct) (types.Change, bool) {
			old, val := stored(s), extracted(e)
			if old == nil && val == nil {
				return types.Change{}, false
			}
			if old != nil && val != nil && *old == *val {
				return types.Change{}, false
			}
			return types.Change{Field: field, Label: label, Stored: intValue(old), Value: intValue(val)}, true
		},
	}
}

func intValue(i *int) interface{} {
	if i == nil {
		return nil
	}
	return *i
}

// DigitsRule compares labels by their decimal digits only and writes the
// extracted label verbatim.
func DigitsRule(field, label string, stored func(types.CatalogProduct) *string, extracted func(types.ExtractedProduct) *string) Rule {
	return Rule{
		Field: field,
		Label: label,
		Diff: func(s types.CatalogProduct, e types.ExtractedProduct) (types.Change, bool) {
			old, val := stored(s), extracted(e)
			if LabelsEqual(old, val) {
				return types.Change{}, false
			}
			return types.Change{Field: field, Label: label, Stored: stringValue(old), Value: stringValue(val)}, true
		},
	}
}

// LabelsEqual reports whether two optional labels carry the same digits.
func LabelsEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return utils.DigitsOnly(*a) == utils.DigitsOnly(*b)
}

// TextRule compares strings exactly; an absent or empty extracted value never differs.
func TextRule(field, label string, stored func(types.CatalogProduct) *string, extracted func(types.ExtractedProduct) *string) Rule {
	return Rule{
		Field: field,
		Label: label,
		Diff: func(s types.CatalogProduct, e types.ExtractedProduct) (types.Change, bool) {
			old, val := stored(s), extracted(e)
			if val == nil || *val == "" {
				return types.Change{}, false
			}
			if old != nil && *old == *val {
				return types.Change{}, false
			}
			return types.Change{Field: field, Label: label, Stored: stringValue(old), Value: *val}, true
		},
	}
}

func stringValue(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// ListRule compares ordered lists exactly; an empty extracted list never differs.
func ListRule(field, label string, stored func(types.CatalogProduct) []string, extracted func(types.ExtractedProduct) []string) Rule {
	return Rule{
		Field: field,
		Label: label,
		Diff: func(s types.CatalogProduct, e types.ExtractedProduct) (types.Change, bool) {
			old, val := stored(s), extracted(e)
			if len(val) == 0 || equalLists(old, val) {
				return types.Change{}, false
			}
			return types.Change{Field: field, Label: label, Stored: old, Value: append([]string(nil), val...)}, true
		},
	}
}

func equalLists(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
