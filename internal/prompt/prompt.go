// Package prompt assembles the character-development system prompt.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/chubflix/character-creator/internal/types"
)

// notDefined is substituted for any character field that is still empty.
const notDefined = "Not yet defined"

const systemTemplateText = `You are helping to create a character named {{.Name}}.
Character Description: {{.Description}}
Personality Traits: {{.Personality}}
Background: {{.Background}}

Your role is to help the user develop this character by asking insightful questions and providing suggestions.
Focus on building a rich, consistent character suitable for TavernAI and ChubAI.`

var systemTemplate = template.Must(template.New("system").Parse(systemTemplateText))

// BuildSystemPrompt renders the system message for a character chat.
func BuildSystemPrompt(c *types.Character) (string, error) {
	if c == nil {
		return "", fmt.Errorf("character is required")
	}

	data := struct {
		Name        string
		Description string
		Personality string
		Background  string
	}{
		Name:        c.Name,
		Description: orDefault(c.Description),
		Personality: orDefault(strings.Join(c.Personality, ", ")),
		Background:  orDefault(c.Background),
	}

	var buf bytes.Buffer
	if err := systemTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}
	return buf.String(), nil
}

func orDefault(s string) string {
	if s == "" {
		return notDefined
	}
	return s
}
