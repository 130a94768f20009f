// Package chapter holds the prompts for full-chapter prose expansion.
package chapter

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

// SystemPrompt returns the system prompt for chapter expansion.
func SystemPrompt() string {
	return systemPrompt
}

// UserPromptData carries the template inputs for one chapter expansion.
type UserPromptData struct {
	Title         string
	Description   string
	Pages         int
	Words         int
	BlueprintJSON string
}

// UserPrompt builds the user prompt for chapter expansion.
func UserPrompt(data UserPromptData) string {
	var buf bytes.Buffer
	if err := userTemplate.Execute(&buf, data); err != nil {
		return userPromptTmpl
	}
	return buf.String()
}
