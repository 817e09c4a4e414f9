// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the metascholar pipeline.
package types

// Author is one entry in a paper's author list, in source order.
type Author struct {
	// AuthorID is the source-assigned author identifier, when known.
	AuthorID string `json:"author_id,omitempty" yaml:"author_id,omitempty"`

	// Name is the author's display name as returned by the source.
	Name string `json:"name" yaml:"name"`
}

// Paper holds the metadata for one retrieved paper. A paper is never
// dropped for having gaps: unknown numeric fields are nil pointers and
// unknown strings are empty. The retrieved collection preserves source
// order, and every derived view indexes back into it by position.
type Paper struct {
	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract, possibly empty.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Year is the publication year, nil when unknown or unparseable.
	Year *int `json:"year" yaml:"year"`

	// CitationCount is the citation total, nil when unknown or unparseable.
	CitationCount *int `json:"citation_count" yaml:"citation_count"`

	// Authors lists the paper authors in source order.
	Authors []Author `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Venue is the journal or conference name, empty when unknown.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// URL points at the paper's landing page, empty when unknown.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// CleanText is the normalized title+abstract token string. It is
	// filled in during corpus building and is the only field the
	// analytics stages write back onto the paper.
	CleanText string `json:"clean_text,omitempty" yaml:"clean_text,omitempty"`
}

// AuthorNames returns the non-empty author names in order.
func (p Paper) AuthorNames() []string {
	names := make([]string, 0, len(p.Authors))
	for _, a := range p.Authors {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return names
}

// IntPtr returns a pointer to v. Convenience for building paper records
// with known year or citation values.
func IntPtr(v int) *int { return &v }
