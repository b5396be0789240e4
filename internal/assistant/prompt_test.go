package assistant

import (
	"fmt"
	"strings"
	"testing"

	"knowledge-assistant/internal/data/entity"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt_MessageOnly(t *testing.T) {
	got := BuildPrompt(PromptInput{System: "SYS", Message: "hello"})

	assert.Equal(t, "SYS\n\nUser: hello\n\nAssistant:", got)
	assert.NotContains(t, got, "Conversation History")
	assert.NotContains(t, got, "Context from Knowledge Base")
}

func TestBuildPrompt_DefaultSystem(t *testing.T) {
	got := BuildPrompt(PromptInput{Message: "hi"})
	assert.True(t, strings.HasPrefix(got, DefaultSystemPrompt))
}

func TestBuildPrompt_HistoryTrimmedAndChronological(t *testing.T) {
	// newest first: m7 .. m1
	var history []Turn
	for i := 7; i >= 1; i-- {
		role := entity.MessageRoleUser
		if i%2 == 0 {
			role = entity.MessageRoleAssistant
		}
		history = append(history, Turn{Role: role, Content: fmt.Sprintf("m%d", i)})
	}

	got := BuildPrompt(PromptInput{System: "SYS", History: history, Message: "next"})

	want := strings.Join([]string{
		"SYS",
		"\nConversation History:",
		"User: m3",
		"Assistant: m4",
		"User: m5",
		"Assistant: m6",
		"User: m7",
		"\nUser: next",
		"\nAssistant:",
	}, "\n")
	assert.Equal(t, want, got)
	assert.NotContains(t, got, "m2")
	assert.NotContains(t, got, "m1\n")
}

func TestBuildPrompt_ContextAfterHistory(t *testing.T) {
	got := BuildPrompt(PromptInput{
		System:  "SYS",
		Context: "\n\nArticle: Go\nchannels...",
		History: []Turn{{Role: entity.MessageRoleAssistant, Content: "earlier"}},
		Message: "q",
	})

	history := strings.Index(got, "Conversation History:")
	ctx := strings.Index(got, "Context from Knowledge Base:")
	user := strings.LastIndex(got, "User: q")
	assert.True(t, history < ctx && ctx < user)
	assert.Contains(t, got, "Article: Go\nchannels...")
	assert.True(t, strings.HasSuffix(got, "\nAssistant:"))
}
