// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"strings"
)

// maxBarWidth is the width in characters of the longest chart bar.
const maxBarWidth = 40

// barChart renders label/value pairs as a fixed-width horizontal bar
// chart inside a fenced code block. Bars scale linearly against the
// largest value; valueFmt formats the number printed after each bar.
// The chart is plain text, so the report stays a single self-contained
// Markdown file.
func barChart(labels []string, values []float64, valueFmt string) []string {
	if len(labels) == 0 || len(labels) != len(values) {
		return nil
	}

	maxVal := values[0]
	labelWidth := len(labels[0])
	for i := range labels {
		if values[i] > maxVal {
			maxVal = values[i]
		}
		if len(labels[i]) > labelWidth {
			labelWidth = len(labels[i])
		}
	}

	lines := []string{"```text"}
	for i := range labels {
		width := 0
		if maxVal > 0 {
			width = int(values[i] / maxVal * maxBarWidth)
		}
		if width < 1 && values[i] > 0 {
			width = 1
		}
		lines = append(lines, fmt.Sprintf("%-*s  %s %s",
			labelWidth, labels[i], strings.Repeat("#", width), fmt.Sprintf(valueFmt, values[i])))
	}
	lines = append(lines, "```")
	return lines
}
