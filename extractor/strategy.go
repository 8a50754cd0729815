package extractor

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"mercadolivre-sync/utils"
)

// NoStrategy names the outcome of a chain where every strategy came up empty.
const NoStrategy = "none"

const snippetLength = 120

// Page is a parsed listing page together with its canonical URL.
type Page struct {
	Doc *goquery.Document
	URL string

	base *url.URL
	body string
}

// NewPage wraps a parsed document. canonicalURL is used to resolve relative links.
func NewPage(doc *goquery.Document, canonicalURL string) *Page {
	base, _ := url.Parse(canonicalURL)
	return &Page{Doc: doc, URL: canonicalURL, base: base}
}

// hiddenContent matches elements whose text is never rendered.
const hiddenContent = "script, style, noscript, template"

// BodyText returns the whitespace-collapsed visible text of the whole body.
// Embedded scripts and styles are left out.
func (p *Page) BodyText() string {
	if p.body == "" {
		body := p.Doc.Find("body").Clone()
		body.Find(hiddenContent).Remove()
		p.body = utils.CollapseSpaces(body.Text())
	}
	return p.body
}

// Text returns the collapsed text of the first match of selector, or "" when absent.
func (p *Page) Text(selector string) string {
	return selectionText(p.Doc.Find(selector).First())
}

// Attr returns the trimmed attribute of the first match of selector.
func (p *Page) Attr(selector, attribute string) (string, bool) {
	value, ok := p.Doc.Find(selector).First().Attr(attribute)
	return strings.TrimSpace(value), ok
}

// Resolve turns a possibly relative reference into an absolute URL.
func (p *Page) Resolve(ref string) string {
	return utils.ResolveURL(p.base, ref)
}

func selectionText(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}
	return utils.CollapseSpaces(s.Text())
}

// Strategy is one way of reading a value from a page. Extract returns the
// value, the raw text it inspected and whether it produced a usable value.
type Strategy[T any] struct {
	Name    string
	Extract func(p *Page) (value T, raw string, ok bool)
}

// Chain is an ordered fallback list for one field; the first strategy that succeeds wins.
type Chain[T any] struct {
	Field      string
	Strategies []Strategy[T]
}

// Run applies the strategies in order and reports which one produced the value.
func (c Chain[T]) Run(p *Page) (T, Diagnostic) {
	var (
		zero T
		raw  string
	)
	for _, s := range c.Strategies {
		value, inspected, ok := s.Extract(p)
		if ok {
			return value, Diagnostic{Field: c.Field, Strategy: s.Name, Found: true}
		}
		if inspected != "" {
			raw = inspected
		}
	}
	return zero, Diagnostic{Field: c.Field, Strategy: NoStrategy, Snippet: utils.Snippet(raw, snippetLength)}
}

// textStrategy reads the collapsed text of the first element matching selector.
func textStrategy(name, selector string) Strategy[string] {
	return Strategy[string]{
		Name: name,
		Extract: func(p *Page) (string, string, bool) {
			text := p.Text(selector)
			return text, text, text != ""
		},
	}
}
