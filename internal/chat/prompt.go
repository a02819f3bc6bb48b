package chat

import (
	"github.com/at-ishikawa/langtutor/internal/inference"
	"github.com/at-ishikawa/langtutor/internal/progression"
)

const (
	explanationPrompt = "You are an expert English language tutor. Your role is to explain English grammar, vocabulary, idioms, and usage clearly and concisely. Provide helpful examples. Keep responses friendly and educational."
	practicePrompt    = "You are an English language practice partner. Help users practice their English by engaging in conversation, correcting their mistakes gently, and suggesting improvements. Be encouraging and supportive."
	generalPrompt     = "You are a friendly English language tutor. Help users learn English through conversation, explanations, and practice. Be supportive and encouraging."
)

func systemPrompt(mode string) string {
	switch mode {
	case progression.ModeExplanation:
		return explanationPrompt
	case progression.ModePractice:
		return practicePrompt
	default:
		return generalPrompt
	}
}

// buildConversation replays history as user/assistant turns after the system prompt and ends with message.
func buildConversation(mode string, history []LogEntry, message string) []inference.Message {
	messages := make([]inference.Message, 0, 2*len(history)+2)
	messages = append(messages, inference.SystemMessage(systemPrompt(mode)))
	for _, entry := range history {
		messages = append(messages, inference.UserMessage(entry.Message))
		if entry.Response != nil && *entry.Response != "" {
			messages = append(messages, inference.AssistantMessage(*entry.Response))
		}
	}
	return append(messages, inference.UserMessage(message))
}
