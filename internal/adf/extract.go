// Package adf extracts plain text from Atlassian Document Format trees.
//
// ADF is a recursive tree of typed nodes. Extraction runs two distinct
// traversals: a block walk that introduces paragraph, heading and list
// spacing, and an inline collection that concatenates leaf text without any
// block separators. List items and table cells use the inline traversal so
// multi-paragraph content flattens onto a single line.
package adf

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Node is a single node in an ADF document. Unrecognized node types are
// valid: the block walk recurses into their children, the inline walk
// concatenates them.
type Node struct {
	Type    string         `json:"type"`
	Text    string         `json:"text,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []Node         `json:"content,omitempty"`
}

// Extract renders an ADF tree as plain text. Blocks are joined by newlines
// and the result is trimmed. A nil root yields an empty string.
func Extract(root *Node) string {
	if root == nil {
		return ""
	}
	var parts []string
	walk(*root, &parts)
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// ExtractJSON decodes raw ADF JSON and extracts its text. Malformed or
// empty input yields an empty string, never an error.
func ExtractJSON(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var root Node
	if err := json.Unmarshal(raw, &root); err != nil {
		return ""
	}
	return Extract(&root)
}

// ExtractValue extracts text from a decoded JSON value, typically the
// description field of an API payload. Maps are treated as ADF documents,
// strings pass through unchanged, anything else yields an empty string.
func ExtractValue(v any) string {
	switch doc := v.(type) {
	case nil:
		return ""
	case string:
		return doc
	case map[string]any:
		raw, err := json.Marshal(doc)
		if err != nil {
			return ""
		}
		return ExtractJSON(raw)
	default:
		return ""
	}
}

func walk(node Node, parts *[]string) {
	switch node.Type {
	case "text":
		*parts = append(*parts, node.Text)

	case "hardBreak":
		*parts = append(*parts, "\n")

	case "heading":
		level := node.attrInt("level", 1)
		if level < 1 {
			level = 1
		}
		prefix := strings.Repeat("#", level)
		*parts = append(*parts, fmt.Sprintf("\n%s %s\n", prefix, inline(node)))

	case "codeBlock":
		*parts = append(*parts, fmt.Sprintf("\n```\n%s\n```\n", inline(node)))

	case "blockquote":
		for _, line := range strings.Split(inline(node), "\n") {
			*parts = append(*parts, "> "+line)
		}

	case "bulletList", "orderedList":
		for i, item := range node.Content {
			marker := "- "
			if node.Type == "orderedList" {
				marker = fmt.Sprintf("%d. ", i+1)
			}
			*parts = append(*parts, marker+inline(item))
		}
		*parts = append(*parts, "")

	case "table":
		for _, row := range node.Content {
			cells := make([]string, 0, len(row.Content))
			for _, cell := range row.Content {
				cells = append(cells, inline(cell))
			}
			*parts = append(*parts, strings.Join(cells, " | "))
		}
		*parts = append(*parts, "")

	case "paragraph":
		*parts = append(*parts, inline(node))

	default:
		for _, child := range node.Content {
			walk(child, parts)
		}
	}
}

// inline concatenates the text of a node's children without block spacing.
func inline(node Node) string {
	var b strings.Builder
	for _, child := range node.Content {
		switch child.Type {
		case "text":
			b.WriteString(child.Text)
		case "hardBreak":
			b.WriteString("\n")
		case "mention":
			b.WriteString(child.attrString("text"))
		case "emoji":
			b.WriteString(child.attrString("shortName"))
		case "inlineCard":
			b.WriteString(child.attrString("url"))
		default:
			b.WriteString(inline(child))
		}
	}
	return b.String()
}

func (n Node) attrString(key string) string {
	if s, ok := n.Attrs[key].(string); ok {
		return s
	}
	return ""
}

func (n Node) attrInt(key string, fallback int) int {
	// JSON numbers decode as float64.
	if f, ok := n.Attrs[key].(float64); ok {
		return int(f)
	}
	return fallback
}
