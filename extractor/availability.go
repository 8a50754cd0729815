package extractor

import (
	"strings"
)

// AvailabilityCheck inspects a page before any field is extracted. It returns a
// reason and true when the listing must be treated as gone.
type AvailabilityCheck func(p *Page) (reason string, unavailable bool)

var unavailableSelectors = []string{
	".ui-vip-error",
	".ui-pdp-container__row--item-status-message",
}

var unavailablePhrases = []string{
	"publicação pausada",
	"publicação finalizada",
	"esta publicação está pausada",
	"anúncio pausado",
	"anúncio finalizado",
	"anúncio não está mais disponível",
	"produto não está mais disponível",
}

const (
	selBuyAction = "button.andes-button.ui-pdp-action--primary, .ui-pdp-actions button, form.ui-pdp-buybox__form button"
)

// DefaultAvailabilityCheck flags explicit removed/paused/ended markers, and pages
// that show neither a buy action nor a price.
func DefaultAvailabilityCheck(p *Page) (string, bool) {
	for _, selector := range unavailableSelectors {
		if p.Doc.Find(selector).Length() > 0 {
			return "status marker " + selector, true
		}
	}

	body := strings.ToLower(p.BodyText())
	for _, phrase := range unavailablePhrases {
		if strings.Contains(body, phrase) {
			return "status message \"" + phrase + "\"", true
		}
	}

	if p.Doc.Find(selBuyAction).Length() == 0 && !hasVisiblePrice(p) {
		return "no buy action and no price", true
	}
	return "", false
}

func hasVisiblePrice(p *Page) bool {
	if content, ok := p.Attr(selPriceMeta, "content"); ok && content != "" {
		return true
	}
	return p.Text(selMoneyFraction) != ""
}
