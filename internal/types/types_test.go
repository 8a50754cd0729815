package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestExtractedProduct_MarshalJSON(t *testing.T) {
	title := "Fone"
	count := 24
	p := ExtractedProduct{
		SourceURL:         "https://produto.mercadolivre.com.br/MLB-1",
		Title:             &title,
		CurrentPrice:      amount("199.9"),
		InstallmentCount:  &count,
		InstallmentAmount: amount("9.99"),
		GalleryImageURLs:  []string{},
		StockStatus:       "in stock",
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `"currentPrice":199.90`)
	assert.Contains(t, out, `"originalPrice":null`)
	assert.Contains(t, out, `"installmentValue":9.99`)
	assert.Contains(t, out, `"installments":24`)
	assert.Contains(t, out, `"productTitle":"Fone"`)
	assert.Contains(t, out, `"galleryImageUrls":[]`)
	assert.Equal(t, 1, strings.Count(out, `"currentPrice"`))
}

func TestCatalogProduct_MarshalJSONRoundTrip(t *testing.T) {
	p := CatalogProduct{ProductID: "p-1", CurrentPrice: amount("1809")}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"currentPrice":1809.00`)

	var back CatalogProduct
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "p-1", back.ProductID)
	require.NotNil(t, back.CurrentPrice)
	assert.True(t, decimal.RequireFromString("1809").Equal(*back.CurrentPrice))
	assert.Nil(t, back.OriginalPrice)
}

func TestUpdatePayload_Fields(t *testing.T) {
	assert.Empty(t, UpdatePayload{ProductID: "p-1"}.Fields())

	fields := UpdatePayload{ProductID: "p-1", Changes: []Change{{Field: "installments", Value: 10}}}.Fields()
	assert.Equal(t, map[string]interface{}{"installments": 10, "productId": "p-1"}, fields)
}
