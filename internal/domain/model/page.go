// Package model defines the core domain entities for the navigation service.
package model

import (
	"encoding/hex"
	"encoding/json"

	"github.com/zeebo/blake3"
)

// CategoryProperty is the name of the multi-value property holding a page's tags.
const CategoryProperty = "Category"

// Page is a single directory entry returned by the content source.
//
// Only the identifier and the category labels are interpreted. The upstream
// document is kept verbatim and written back unchanged when the page is
// serialized, so fields this service does not know about reach the client.
type Page struct {
	ID         string
	Categories []string
	raw        json.RawMessage
}

// categoryOption is one entry of a multi_select property.
type categoryOption struct {
	Name string `json:"name"`
}

// pageDocument is the subset of an upstream page document the service reads.
type pageDocument struct {
	ID         string                     `json:"id"`
	Properties map[string]json.RawMessage `json:"properties"`
}

// NewPage builds a page in the upstream document shape.
func NewPage(id string, categories ...string) Page {
	p := Page{ID: id, Categories: append([]string(nil), categories...)}
	p.raw, _ = json.Marshal(p.document())
	return p
}

// Raw returns the upstream document as received.
func (p Page) Raw() json.RawMessage {
	return p.raw
}

// HasCategory reports whether the page carries the given label.
func (p Page) HasCategory(tag string) bool {
	for _, c := range p.Categories {
		if c == tag {
			return true
		}
	}
	return false
}

// UnmarshalJSON decodes an upstream page document.
// A missing or malformed Category property yields a page without tags.
func (p *Page) UnmarshalJSON(data []byte) error {
	p.raw = append(json.RawMessage(nil), data...)
	p.ID = ""
	p.Categories = nil

	var doc pageDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	p.ID = doc.ID
	p.Categories = parseCategories(doc.Properties[CategoryProperty])
	return nil
}

// MarshalJSON writes the upstream document back unchanged.
func (p Page) MarshalJSON() ([]byte, error) {
	if len(p.raw) > 0 {
		return p.raw, nil
	}
	return json.Marshal(p.document())
}

func (p Page) document() map[string]interface{} {
	options := make([]categoryOption, 0, len(p.Categories))
	for _, c := range p.Categories {
		options = append(options, categoryOption{Name: c})
	}
	return map[string]interface{}{
		"object": "page",
		"id":     p.ID,
		"properties": map[string]interface{}{
			CategoryProperty: map[string]interface{}{
				"type":         "multi_select",
				"multi_select": options,
			},
		},
	}
}

func parseCategories(property json.RawMessage) []string {
	if len(property) == 0 {
		return nil
	}

	var field struct {
		MultiSelect []json.RawMessage `json:"multi_select"`
	}
	if err := json.Unmarshal(property, &field); err != nil {
		return nil
	}

	var categories []string
	for _, item := range field.MultiSelect {
		var opt categoryOption
		if err := json.Unmarshal(item, &opt); err != nil || opt.Name == "" {
			continue
		}
		categories = append(categories, opt.Name)
	}
	return categories
}

// PageCollection is one query result from the content source: an ordered
// list of pages plus pagination metadata. It is never mutated after it has
// been returned by a repository.
//
// @Description Page list returned by the content source
type PageCollection struct {
	Object     string `json:"object" example:"list"`
	Results    []Page `json:"results" swaggertype:"array,object"`
	HasMore    bool   `json:"has_more" example:"false"`
	NextCursor string `json:"next_cursor,omitempty"`
	// ETag is the fingerprint of the collection, set when it is cached.
	ETag string `json:"-"`
} // @name PageCollection

// Len returns the number of pages in the collection.
func (c *PageCollection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Results)
}

// Fingerprint returns a strong HTTP entity tag for the collection contents.
func Fingerprint(c *PageCollection) string {
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	sum := blake3.Sum256(data)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}
