package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Persona represents a system prompt configuration
type Persona struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	SystemPrompt string `json:"system_prompt"`
	Model        string `json:"model,omitempty"` // Preferred model (optional)
}

// PersonaConfig stores all personas
type PersonaConfig struct {
	Personas       []Persona `json:"personas"`
	DefaultPersona string    `json:"default_persona,omitempty"`
}

// CompanionPersonaName is the built-in persona new installs start with
const CompanionPersonaName = "companion"

const personaDateLayout = "Monday, January 2, 2006"

// CompanionPersona returns the built-in companion system prompt. The only
// parameter is the calendar date at session-creation time; models drift on
// "today" otherwise.
func CompanionPersona(today time.Time) string {
	return fmt.Sprintf(`You are a warm, attentive personal assistant.
Answer in a gentle, friendly tone and keep replies conversational.
When documents or voice recordings are shared with you, read or listen to
them carefully before answering.
Remember: today's actual date is %s.`, today.Format(personaDateLayout))
}

// DefaultPersonas returns the pre-configured personas
func DefaultPersonas(today time.Time) []Persona {
	return []Persona{
		{
			Name:         CompanionPersonaName,
			Description:  "Warm personal assistant (default)",
			SystemPrompt: CompanionPersona(today),
		},
		{
			Name:         "default",
			Description:  "No system prompt",
			SystemPrompt: "",
		},
		{
			Name:        "analyst",
			Description: "Structured document analyst",
			SystemPrompt: `You are a careful document analyst. When files are attached:
- Summarize each document before answering questions about it
- Quote the passages your conclusions rest on
- Say clearly when the documents do not contain an answer`,
		},
	}
}

// GetPersonasPath returns the path to the personas file
func GetPersonasPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "personas.json"), nil
}

// LoadPersonas loads the persona configuration, merging user-defined
// personas over the built-in set. User personas win on name collision.
func LoadPersonas(today time.Time) (*PersonaConfig, error) {
	cfg := &PersonaConfig{
		Personas:       DefaultPersonas(today),
		DefaultPersona: CompanionPersonaName,
	}

	personasPath, err := GetPersonasPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(personasPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read personas file: %w", err)
	}

	var userCfg PersonaConfig
	if err := json.Unmarshal(data, &userCfg); err != nil {
		return nil, fmt.Errorf("failed to parse personas file: %w", err)
	}

	for _, persona := range userCfg.Personas {
		cfg.upsert(persona)
	}
	if userCfg.DefaultPersona != "" {
		cfg.DefaultPersona = userCfg.DefaultPersona
	}
	return cfg, nil
}

func (pc *PersonaConfig) upsert(persona Persona) {
	for i, existing := range pc.Personas {
		if existing.Name == persona.Name {
			pc.Personas[i] = persona
			return
		}
	}
	pc.Personas = append(pc.Personas, persona)
}

// Get returns a persona by name
func (pc *PersonaConfig) Get(name string) (Persona, bool) {
	for _, persona := range pc.Personas {
		if persona.Name == name {
			return persona, true
		}
	}
	return Persona{}, false
}

// ResolveSystemPrompt returns the system prompt for the named persona,
// falling back to the configured default when name is empty. Unknown names
// fall back to the built-in companion persona.
func ResolveSystemPrompt(name string, today time.Time) (string, error) {
	cfg, err := LoadPersonas(today)
	if err != nil {
		return "", err
	}

	if name == "" {
		name = cfg.DefaultPersona
	}
	if persona, ok := cfg.Get(name); ok {
		return persona.SystemPrompt, nil
	}
	return CompanionPersona(today), nil
}
