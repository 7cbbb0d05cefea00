package model

import (
	gconfig "github.com/Laisky/go-config/v2"
)

// ModelEntry is the provider metadata for one model identifier.
type ModelEntry struct {
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// Registry maps model identifiers to provider metadata. Unknown or empty
// identifiers resolve to the default entry, never to an error.
type Registry struct {
	entries   map[string]ModelEntry
	defaultID string
}

// builtinModels ships a usable registry when the settings file carries none.
var builtinModels = map[string]ModelEntry{
	"gpt-4o":            {Name: "GPT-4o", Provider: "OpenAI"},
	"claude-3-5-sonnet": {Name: "Claude 3.5 Sonnet", Provider: "Anthropic"},
	"gemini-1.5-pro":    {Name: "Gemini 1.5 Pro", Provider: "Google"},
	"deepseek-chat":     {Name: "DeepSeek Chat", Provider: "DeepSeek"},
}

const builtinDefaultModelID = "gpt-4o"

// NewRegistry builds the registry from built-in entries overlaid with
// `settings.builder.models.<id>.{name,provider}` from the settings tree.
func NewRegistry() *Registry {
	entries := make(map[string]ModelEntry, len(builtinModels))
	for id, entry := range builtinModels {
		entries[id] = entry
	}

	for id := range gconfig.Shared.GetStringMap("settings.builder.models") {
		prefix := "settings.builder.models." + id
		entry := ModelEntry{
			Name:     gconfig.Shared.GetString(prefix + ".name"),
			Provider: gconfig.Shared.GetString(prefix + ".provider"),
		}
		if entry.Name == "" {
			entry.Name = id
		}
		entries[id] = entry
	}

	defaultID := gconfig.Shared.GetString("settings.builder.default_model")
	if _, ok := entries[defaultID]; !ok {
		defaultID = builtinDefaultModelID
	}

	return &Registry{entries: entries, defaultID: defaultID}
}

// Lookup resolves the identifier, falling back to the default entry.
// The returned id is the identifier that actually resolved.
func (r *Registry) Lookup(modelID string) (id string, entry ModelEntry) {
	if entry, ok := r.entries[modelID]; ok {
		return modelID, entry
	}

	return r.defaultID, r.entries[r.defaultID]
}

// DefaultID returns the fallback model identifier.
func (r *Registry) DefaultID() string {
	return r.defaultID
}
