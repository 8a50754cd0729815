package extractor

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingURL = "https://produto.mercadolivre.com.br/MLB-3456789012-smart-tv-50-4k"

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func mustPage(t *testing.T, html string) *Page {
	t.Helper()
	return NewPage(mustDoc(t, html), listingURL)
}

func assertAmount(t *testing.T, want string, got *decimal.Decimal) {
	t.Helper()
	require.NotNil(t, got)
	assert.True(t, decimal.RequireFromString(want).Equal(*got), "want %s, got %s", want, got.String())
}

const longDescription = "Smart TV Samsung 50 polegadas com resolução 4K, HDR10+, processador Crystal 4K, " +
	"sistema Tizen, Wi-Fi integrado, três entradas HDMI e controle remoto único."

const fullListingHTML = `<html><head><title>Smart TV</title></head><body>
<span class="ui-pdp-subtitle">Novo  |  +1000 vendidos</span>
<h1 class="ui-pdp-title">Smart TV Samsung 50 Crystal UHD 4K</h1>
<meta itemprop="price" content="1809.90">
<s class="ui-pdp-price__original-value andes-money-amount"><span class="andes-money-amount__currency-symbol">R$</span><span class="andes-money-amount__fraction">2.010</span><span class="andes-money-amount__cents">50</span></s>
<div class="ui-pdp-price__second-line">
  <span class="andes-money-amount"><span class="andes-money-amount__currency-symbol">R$</span><span class="andes-money-amount__fraction">1.809</span><span class="andes-money-amount__cents">90</span></span>
  <span class="ui-pdp-price__second-line__label"><span class="andes-money-amount__discount">10% OFF</span></span>
</div>
<p id="pricing_price_subtitle">em 10x de R$ 180,99 sem juros</p>
<figure class="ui-pdp-gallery__figure"><img data-zoom="https://http2.mlstatic.com/D_NQ_NP_1-F.jpg" src="https://http2.mlstatic.com/D_NQ_NP_1-O.jpg"></figure>
<figure class="ui-pdp-gallery__figure"><img data-zoom="//http2.mlstatic.com/D_NQ_NP_2-F.jpg"></figure>
<p class="ui-pdp-stock-information__title">Estoque disponível</p>
<button class="andes-button ui-pdp-action--primary">Comprar agora</button>
<div class="ui-vpp-striped-specs__table"><table><tbody>
  <tr><th class="andes-table__header">Modelo</th><td class="andes-table__column--value">UN50CU7700</td></tr>
  <tr><th class="andes-table__header"> marca </th><td class="andes-table__column--value">Samsung</td></tr>
</tbody></table></div>
<div class="ui-pdp-description__content"><p data-testid="content">` + longDescription + `</p></div>
</body></html>`
