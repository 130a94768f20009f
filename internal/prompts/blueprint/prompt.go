// Package blueprint holds the prompts for per-chapter section outlining.
package blueprint

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

// SystemPrompt returns the system prompt for chapter blueprint generation.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt builds the user prompt for chapter blueprint generation.
func UserPrompt(title string, pages int, description string) string {
	var buf bytes.Buffer
	data := struct {
		Title       string
		Pages       int
		Description string
	}{Title: title, Pages: pages, Description: description}
	if err := userTemplate.Execute(&buf, data); err != nil {
		return userPromptTmpl
	}
	return buf.String()
}
