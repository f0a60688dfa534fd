package docmodel

import "strings"

// ContentNode is one piece of free-text documentation. The set is closed:
// plain text, paragraphs, and inline emphasis.
type ContentNode interface {
	contentNode()
}

// Text is a run of plain prose preserved verbatim.
type Text string

func (Text) contentNode() {}

// Paragraph groups inline nodes into one block.
type Paragraph struct {
	Children []ContentNode
}

func (*Paragraph) contentNode() {}

// Emphasis marks its children as emphasized.
type Emphasis struct {
	Children []ContentNode
}

func (*Emphasis) contentNode() {}

// Content is an ordered sequence of content blocks attached to a node.
type Content struct {
	nodes []ContentNode
}

// Append adds blocks to the end of the content.
func (c *Content) Append(nodes ...ContentNode) {
	c.nodes = append(c.nodes, nodes...)
}

// Nodes returns the content blocks in order.
func (c *Content) Nodes() []ContentNode {
	return c.nodes
}

// IsEmpty reports whether the content holds no blocks.
func (c *Content) IsEmpty() bool {
	return c == nil || len(c.nodes) == 0
}

// TextContent builds content from raw prose, splitting on blank lines so
// each paragraph becomes one block.
func TextContent(s string) *Content {
	c := &Content{}
	for _, para := range strings.Split(s, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		c.Append(&Paragraph{Children: []ContentNode{Text(para)}})
	}
	return c
}

// TestString renders content as a flat string for assertions: paragraphs
// are separated by blank lines and emphasis is wrapped in *...*.
func (c *Content) TestString() string {
	if c == nil {
		return ""
	}
	var sb strings.Builder
	for i, n := range c.nodes {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		renderTestString(&sb, n)
	}
	return sb.String()
}

func renderTestString(sb *strings.Builder, n ContentNode) {
	switch v := n.(type) {
	case Text:
		sb.WriteString(string(v))
	case *Paragraph:
		for _, child := range v.Children {
			renderTestString(sb, child)
		}
	case *Emphasis:
		sb.WriteString("*")
		for _, child := range v.Children {
			renderTestString(sb, child)
		}
		sb.WriteString("*")
	}
}
