// Package describe holds the prompts for backfilling a missing chapter
// description ahead of expansion.
package describe

import (
	"bytes"
	_ "embed"
	"text/template"
)

//go:embed system.tmpl
var systemPrompt string

//go:embed user.tmpl
var userPromptTmpl string

var userTemplate = template.Must(template.New("user").Parse(userPromptTmpl))

// SystemPrompt returns the system prompt for description synthesis.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt builds the user prompt for description synthesis.
func UserPrompt(topic, title string, pages int) string {
	var buf bytes.Buffer
	data := struct {
		Topic string
		Title string
		Pages int
	}{Topic: topic, Title: title, Pages: pages}
	if err := userTemplate.Execute(&buf, data); err != nil {
		return userPromptTmpl
	}
	return buf.String()
}
