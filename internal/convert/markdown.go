// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// MarkdownConverter renders markdown through goldmark and flattens the
// structural output to a single line.
type MarkdownConverter struct {
	md goldmark.Markdown
}

// NewMarkdownConverter returns a converter with GitHub-flavored tables
// and strikethrough enabled, matching the dialect documentation corpora
// typically use.
func NewMarkdownConverter() *MarkdownConverter {
	return &MarkdownConverter{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Convert renders src to its structural form and joins the rendered
// lines with single spaces, stripping the line breaks the renderer
// introduces. The engine ingests one line per document.
func (c *MarkdownConverter) Convert(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return Flatten(buf.String()), nil
}

// Flatten joins the lines of rendered output into one space-separated
// line, dropping blanks.
func Flatten(rendered string) string {
	lines := strings.Split(rendered, "\n")
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}
