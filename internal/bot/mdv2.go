// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bot

import (
	"fmt"
	"regexp"
	"strings"
)

// FormatMarkdownV2 converts the markdown dialect the engine emits into
// Telegram's MarkdownV2 dialect: code fences and inline code survive,
// **bold** becomes *bold*, headings become bold lines, links are kept,
// and every other reserved character is escaped so Telegram renders it
// literally instead of rejecting the message.
func FormatMarkdownV2(md string) string {
	segments := strings.Split(md, "```")
	var b strings.Builder
	for i, seg := range segments {
		if i%2 == 1 {
			// Fenced code block. The first line may carry a language
			// tag, which MarkdownV2 also supports.
			b.WriteString("```")
			b.WriteString(escapeCode(seg))
			b.WriteString("```")
			continue
		}
		b.WriteString(formatText(seg))
	}
	return b.String()
}

var (
	inlineCodeRe = regexp.MustCompile("`([^`\n]+)`")
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	boldRe       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	headingRe    = regexp.MustCompile(`^#{1,6}\s+(.*)$`)
)

// formatText renders one non-code segment. Entities are lifted out into
// placeholders, the remaining text is escaped, and the placeholders are
// restored in reverse order (later placeholders may contain earlier
// ones).
func formatText(s string) string {
	var rendered []string
	put := func(r string) string {
		token := fmt.Sprintf("\x00%d\x00", len(rendered))
		rendered = append(rendered, r)
		return token
	}

	s = inlineCodeRe.ReplaceAllStringFunc(s, func(m string) string {
		inner := strings.Trim(m, "`")
		return put("`" + escapeCode(inner) + "`")
	})

	s = linkRe.ReplaceAllStringFunc(s, func(m string) string {
		parts := linkRe.FindStringSubmatch(m)
		return put("[" + escapeMarkdownV2(parts[1]) + "](" + escapeLinkURL(parts[2]) + ")")
	})

	s = boldRe.ReplaceAllStringFunc(s, func(m string) string {
		parts := boldRe.FindStringSubmatch(m)
		return put("*" + escapeMarkdownV2(parts[1]) + "*")
	})

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if parts := headingRe.FindStringSubmatch(line); parts != nil {
			lines[i] = put("*" + escapeMarkdownV2(parts[1]) + "*")
		}
	}
	s = escapeMarkdownV2(strings.Join(lines, "\n"))

	for i := len(rendered) - 1; i >= 0; i-- {
		s = strings.ReplaceAll(s, fmt.Sprintf("\x00%d\x00", i), rendered[i])
	}
	return s
}

// markdownV2Specials are the characters MarkdownV2 reserves outside
// entities.
const markdownV2Specials = "_*[]()~`>#+-=|{}.!"

func escapeMarkdownV2(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\\' || strings.ContainsRune(markdownV2Specials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// escapeCode escapes the characters reserved inside code entities.
func escapeCode(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "`", "\\`")
}

// escapeLinkURL escapes the characters reserved inside link targets.
func escapeLinkURL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, ")", `\)`)
}
