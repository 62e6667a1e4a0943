package types

import "strings"

// CharacterCard is the export document consumed by TavernAI and ChubAI.
// Field names and defaults are a compatibility contract; every field is
// serialized even when empty.
type CharacterCard struct {
	Name                    string         `json:"name"`
	Description             string         `json:"description"`
	Personality             string         `json:"personality"`
	FirstMes                string         `json:"first_mes"`
	MesExample              string         `json:"mes_example"`
	Scenario                string         `json:"scenario"`
	CreatorNotes            string         `json:"creator_notes"`
	SystemPrompt            string         `json:"system_prompt"`
	PostHistoryInstructions string         `json:"post_history_instructions"`
	Tags                    []string       `json:"tags"`
	Creator                 string         `json:"creator"`
	CharacterVersion        string         `json:"character_version"`
	Extensions              map[string]any `json:"extensions"`
}

const cardCreator = "Chubflix Character Creator"

// NewCharacterCard maps a character onto the card format. Personality is
// flattened to a comma-joined string; the reverse transform is never
// applied.
func NewCharacterCard(c *Character) *CharacterCard {
	traits := c.Traits
	if traits == nil {
		traits = map[string]any{}
	}
	return &CharacterCard{
		Name:                    c.Name,
		Description:             c.Description,
		Personality:             strings.Join(c.Personality, ", "),
		FirstMes:                c.FirstMes,
		MesExample:              c.MesExample,
		Scenario:                c.Scenario,
		CreatorNotes:            "Created with " + cardCreator,
		SystemPrompt:            "",
		PostHistoryInstructions: "",
		Tags:                    []string{},
		Creator:                 cardCreator,
		CharacterVersion:        "1.0",
		Extensions:              traits,
	}
}
