package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// Expert is a chat session primed with a computed capital-gains report,
// able to answer questions about its disposals and matches.
type Expert struct {
	ModelName string
	Config    *genai.GenerateContentConfig
	chat      *genai.Chat
}

// NewExpert creates an expert whose system instruction embeds the
// rendered tax report.
func NewExpert(report string) *Expert {
	instruction := "You are a UK capital-gains tax assistant. Answer questions " +
		"about the following report: the disposals it lists, how each was matched " +
		"(same-day, 30-day, Section 104 pool), and its tax-year totals. " +
		"Do not give tax advice beyond the report's content.\n\n" + report

	return &Expert{
		ModelName: defaultModel,
		Config: &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: instruction}},
			},
		},
	}
}

// Start opens the underlying chat session.
func (e *Expert) Start(ctx context.Context, client *genai.Client) error {
	chat, err := client.Chats.Create(ctx, e.ModelName, e.Config, nil)
	if err != nil {
		return err
	}
	e.chat = chat
	return nil
}

// Ask sends a question and returns the expert's text answer.
func (e *Expert) Ask(ctx context.Context, question string) (string, error) {
	resp, err := e.chat.Send(ctx, &genai.Part{Text: question})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from the report expert")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
