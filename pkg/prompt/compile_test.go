package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompile_Nil(t *testing.T) {
	assert.Empty(t, Compile(nil))
}

func TestCompile_Text(t *testing.T) {
	assert.Equal(t, "hello\n", Compile(Text{Text: "hello"}))
}

func TestCompile_Text_Trims(t *testing.T) {
	assert.Equal(t, "hello\n", Compile(Text{Text: "  hello \n\n"}))
}

func TestCompile_List(t *testing.T) {
	l := List{Items: []Node{
		Text{Text: "first"},
		Text{Text: "second"},
	}}

	assert.Equal(t, "- first\n- second\n\n", Compile(l))
}

func TestCompile_Doc(t *testing.T) {
	d := Doc{Sections: []Section{
		{Title: "Task", Body: Text{Text: "do the thing"}},
	}}

	assert.Equal(t, "# Task\n\ndo the thing\n", Compile(d))
}

func TestCompile_Doc_NestedHeadings(t *testing.T) {
	d := Doc{Sections: []Section{
		{
			Title: "Outer",
			Body: Doc{Sections: []Section{
				{Title: "Inner", Body: Text{Text: "x"}},
			}},
		},
	}}

	assert.Equal(t, "# Outer\n\n## Inner\n\nx\n", Compile(d))
}

func TestCompile_Doc_Intro(t *testing.T) {
	d := Doc{
		Intro: Text{Text: "preamble"},
		Sections: []Section{
			{Title: "Rules", Body: Text{Text: "be brief"}},
		},
	}

	assert.Equal(t, "preamble\n\n# Rules\n\nbe brief\n", Compile(d))
}

func TestCompile_Doc_SectionOrder(t *testing.T) {
	d := Doc{Sections: []Section{
		{Title: "A", Body: Text{Text: "1"}},
		{Title: "B", Body: Text{Text: "2"}},
		{Title: "C", Body: Text{Text: "3"}},
	}}

	assert.Equal(t, "# A\n\n1\n\n# B\n\n2\n\n# C\n\n3\n", Compile(d))
}

func TestDoc_WithSection_DoesNotMutate(t *testing.T) {
	base := Doc{Sections: []Section{
		{Title: "A", Body: Text{Text: "1"}},
	}}

	derived := base.WithSection("B", Text{Text: "2"})

	assert.Len(t, base.Sections, 1)
	assert.Len(t, derived.Sections, 2)
	assert.Equal(t, "B", derived.Sections[1].Title)
}

func TestCompile_ListOfLists(t *testing.T) {
	l := List{Items: []Node{
		Text{Text: "top"},
		List{Items: []Node{Text{Text: "nested"}}},
	}}

	assert.Equal(t, "- top\n- - nested\n\n", Compile(l))
}
