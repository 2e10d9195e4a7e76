package prompt

import "strings"

// Compile flattens a prompt into a markdown string ready for transmission to
// a provider. Section titles become headings, one level deeper per nesting
// level. Compile is pure: it never mutates the node, and a nil node compiles
// to the empty string.
func Compile(n Node) string {
	return compile(n, 1)
}

func compile(n Node, depth int) string {
	switch v := n.(type) {
	case Text:
		return strings.TrimSpace(v.Text) + "\n"

	case List:
		var b strings.Builder
		for _, item := range v.Items {
			b.WriteString("- ")
			b.WriteString(strings.TrimSpace(compile(item, depth)))
			b.WriteString("\n")
		}
		b.WriteString("\n")

		return b.String()

	case Doc:
		var parts []string
		if v.Intro != nil {
			parts = append(parts, compile(v.Intro, depth))
		}

		heading := strings.Repeat("#", depth)
		for _, s := range v.Sections {
			parts = append(parts, heading+" "+s.Title+"\n")
			parts = append(parts, compile(s.Body, depth+1))
		}

		return strings.Join(parts, "\n")

	default:
		return ""
	}
}
