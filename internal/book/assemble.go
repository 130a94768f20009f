package book

import (
	"fmt"
	"strings"

	"github.com/tomehq/tome/internal/planner"
)

// Banner is the fixed generation notice placed under the document title.
const Banner = "*Generated by Tome*"

// rule separates the table of contents and each chapter.
const rule = "---"

// Assemble concatenates the document title, banner, table of contents, and
// expanded chapters into one markdown document.
//
// Pure and deterministic: the same chapters and texts always produce
// byte-identical output. Chapters render in planner order, each as a level-1
// heading followed by its prose and a horizontal rule. texts must be
// parallel to chapters.
func Assemble(topic string, chapters []planner.ChapterDescriptor, texts []string) string {
	var b strings.Builder

	b.WriteString("# " + topic + "\n\n")
	b.WriteString(Banner + "\n\n")

	b.WriteString("## Table of Contents\n\n")
	for i, c := range chapters {
		fmt.Fprintf(&b, "%d. %s (%d pp.)\n", i+1, c.Title, c.Pages)
	}
	b.WriteString("\n" + rule + "\n\n")

	for i, c := range chapters {
		b.WriteString("# " + c.Title + "\n\n")
		b.WriteString(strings.TrimSpace(texts[i]))
		b.WriteString("\n\n" + rule + "\n\n")
	}

	return b.String()
}
