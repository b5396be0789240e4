package assistant

import (
	"strings"

	"knowledge-assistant/internal/data/entity"
)

// DefaultSystemPrompt is prepended to every prompt sent to the provider.
const DefaultSystemPrompt = "You are a helpful AI Knowledge Assistant. Provide accurate, detailed responses. " +
	"When context is provided, use it to enhance your answers."

// MaxHistory is the number of prior messages carried into a prompt.
const MaxHistory = 5

type Turn struct {
	Role    entity.MessageRole
	Content string
}

type PromptInput struct {
	System  string
	Context string
	// History is newest-first, the order the message store returns it in.
	History []Turn
	Message string
}

// BuildPrompt renders the input into the single text payload handed to the
// provider. Empty history and context sections are left out entirely.
func BuildPrompt(in PromptInput) string {
	system := in.System
	if system == "" {
		system = DefaultSystemPrompt
	}

	parts := []string{system}

	history := in.History
	if len(history) > MaxHistory {
		history = history[:MaxHistory]
	}
	if len(history) > 0 {
		parts = append(parts, "\nConversation History:")
		for i := len(history) - 1; i >= 0; i-- {
			parts = append(parts, roleLabel(history[i].Role)+": "+history[i].Content)
		}
	}

	if in.Context != "" {
		parts = append(parts, "\nContext from Knowledge Base: "+in.Context)
	}

	parts = append(parts, "\nUser: "+in.Message, "\nAssistant:")

	return strings.Join(parts, "\n")
}

func roleLabel(role entity.MessageRole) string {
	if role == entity.MessageRoleUser {
		return "User"
	}
	return "Assistant"
}
