package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips query and fragment", "https://produto.mercadolivre.com.br/MLB-123456-tv?tracking_id=abc#polycard", "https://produto.mercadolivre.com.br/MLB-123456-tv"},
		{"trims spaces", "  https://www.mercadolivre.com.br/p/MLB987  ", "https://www.mercadolivre.com.br/p/MLB987"},
		{"keeps plain url", "https://www.mercadolivre.com.br/tv/p/MLB555", "https://www.mercadolivre.com.br/tv/p/MLB555"},
		{"drops empty query marker", "https://www.mercadolivre.com.br/p/MLB1?", "https://www.mercadolivre.com.br/p/MLB1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalURL(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalURL_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "ftp://host/file", "not a url", "https://"} {
		_, err := CanonicalURL(in)
		assert.Error(t, err, in)
	}
}

func TestResolveURL(t *testing.T) {
	base, err := url.Parse("https://produto.mercadolivre.com.br/MLB-1-item")
	require.NoError(t, err)

	assert.Equal(t, "https://http2.mlstatic.com/D_NQ_NP_1-O.jpg", ResolveURL(base, "https://http2.mlstatic.com/D_NQ_NP_1-O.jpg"))
	assert.Equal(t, "https://http2.mlstatic.com/a.jpg", ResolveURL(base, "//http2.mlstatic.com/a.jpg"))
	assert.Equal(t, "https://produto.mercadolivre.com.br/img/a.jpg", ResolveURL(base, "/img/a.jpg"))
	assert.Empty(t, ResolveURL(base, "  "))
}
