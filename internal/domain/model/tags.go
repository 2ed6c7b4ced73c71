package model

// ExtractTags returns the distinct category labels present in the
// collection, in order of first appearance. Empty labels are skipped.
func ExtractTags(c *PageCollection) []string {
	tags := []string{}
	if c == nil {
		return tags
	}

	seen := make(map[string]struct{})
	for _, page := range c.Results {
		for _, tag := range page.Categories {
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags
}

// FilterByTag returns a new collection holding, in order, the pages of c
// whose categories contain tag. Pagination metadata is carried over.
func FilterByTag(c *PageCollection, tag string) *PageCollection {
	if c == nil {
		return &PageCollection{Object: "list", Results: []Page{}}
	}

	results := make([]Page, 0, len(c.Results))
	for _, page := range c.Results {
		if page.HasCategory(tag) {
			results = append(results, page)
		}
	}

	return &PageCollection{
		Object:     c.Object,
		Results:    results,
		HasMore:    c.HasMore,
		NextCursor: c.NextCursor,
	}
}
