// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textproc

import (
	"strings"

	"github.com/meshintel/metascholar/pkg/types"
)

// BuildCorpus normalizes each paper's title and abstract into one
// cleaned document and returns the documents in paper order. The
// cleaned string is also recorded on the paper as CleanText; that is
// the one sanctioned mutation of the paper table in the whole
// pipeline. The returned corpus has exactly len(papers) entries and
// never reorders or drops a paper.
func BuildCorpus(papers []types.Paper) []string {
	corpus := make([]string, len(papers))
	for i := range papers {
		combined := strings.TrimSpace(papers[i].Title + ". " + papers[i].Abstract)
		clean := Normalize(combined)
		papers[i].CleanText = clean
		corpus[i] = clean
	}
	return corpus
}
