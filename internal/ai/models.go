package ai

import "strings"

// UI model aliases and the provider models they resolve to.
const (
	ChatModel          = "chat-model"
	ChatModelReasoning = "chat-model-reasoning"
	TitleModel         = "title-model"
	TranslationModel   = "translation-model"
)

var modelAliases = map[string]string{
	ChatModel:          "gpt-4o",
	ChatModelReasoning: "o3-mini",
	TitleModel:         "gpt-4o-mini",
	TranslationModel:   "gpt-4o-mini",
}

// ResolveModel maps a UI alias to the provider model name. Unknown aliases
// fall back to the default chat model.
func ResolveModel(alias string) string {
	if m, ok := modelAliases[strings.TrimSpace(alias)]; ok {
		return m
	}
	return modelAliases[ChatModel]
}

// KnownModel reports whether the alias is one the UI may select for chat.
func KnownModel(alias string) bool {
	switch alias {
	case ChatModel, ChatModelReasoning:
		return true
	}
	return false
}
