package prompt

import (
	"strings"
	"testing"

	"github.com/chubflix/character-creator/internal/types"
)

func TestBuildSystemPromptInterpolatesFields(t *testing.T) {
	c := &types.Character{
		Name:        "Aria",
		Description: "a sailor",
		Personality: []string{"brave", "kind"},
		Background:  "raised at sea",
	}

	got, err := BuildSystemPrompt(c)
	if err != nil {
		t.Fatalf("BuildSystemPrompt returned error: %v", err)
	}

	for _, want := range []string{
		"a character named Aria",
		"Character Description: a sailor",
		"Personality Traits: brave, kind",
		"Background: raised at sea",
		"TavernAI and ChubAI",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestBuildSystemPromptDefaults(t *testing.T) {
	got, err := BuildSystemPrompt(&types.Character{Name: "Aria"})
	if err != nil {
		t.Fatalf("BuildSystemPrompt returned error: %v", err)
	}

	if strings.Count(got, "Not yet defined") != 3 {
		t.Fatalf("expected description, personality, and background to default, got:\n%s", got)
	}
}

func TestBuildSystemPromptNilCharacter(t *testing.T) {
	if _, err := BuildSystemPrompt(nil); err == nil {
		t.Fatal("expected error for nil character")
	}
}
