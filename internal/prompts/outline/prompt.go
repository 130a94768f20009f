// Package outline holds the prompts for table-of-contents planning.
package outline

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

// SystemPrompt returns the system prompt for outline planning.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt builds the user prompt for outline planning.
func UserPrompt(topic string, totalPages int) string {
	var buf bytes.Buffer
	data := struct {
		Topic      string
		TotalPages int
	}{Topic: topic, TotalPages: totalPages}
	if err := userTemplate.Execute(&buf, data); err != nil {
		return userPromptTmpl
	}
	return buf.String()
}

// CorrectivePrompt asks the backend to re-emit only the JSON array from a
// previous response that could not be parsed.
func CorrectivePrompt(previous string) string {
	return "Extract and return only the JSON array from the following text. " +
		"Respond with the array itself and nothing else.\n\n" + previous
}
