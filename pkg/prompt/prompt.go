// Package prompt models structured LLM prompts and flattens them to markdown.
package prompt

// Node is a piece of a prompt. External packages can implement this interface
// to add custom prompt shapes, but most prompts are built from Text, List,
// and Doc.
type Node interface {
	NodeKind() string
}

// Text is a plain text node.
type Text struct {
	Text string
}

func (t Text) NodeKind() string { return "text" }

// List renders its items as markdown bullets.
type List struct {
	Items []Node
}

func (l List) NodeKind() string { return "list" }

// Section is a titled part of a Doc.
type Section struct {
	Title string
	Body  Node
}

// Doc is an ordered document of titled sections. Intro, when set, is compiled
// before the sections without a heading of its own.
type Doc struct {
	Intro    Node
	Sections []Section
}

func (d Doc) NodeKind() string { return "doc" }

// WithSection returns a copy of the Doc with an extra section appended.
// The receiver is left untouched.
func (d Doc) WithSection(title string, body Node) Doc {
	sections := make([]Section, len(d.Sections), len(d.Sections)+1)
	copy(sections, d.Sections)

	return Doc{
		Intro:    d.Intro,
		Sections: append(sections, Section{Title: title, Body: body}),
	}
}
