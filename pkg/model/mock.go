package model

import (
	"context"
	"time"

	"germseval/pkg/core"
)

// MockModel returns a fixed completion, or a per-prompt completion from
// Responses, or echoes the prompt. Used by tests and dry runs.
type MockModel struct {
	NameValue    string
	ResponseText string
	Responses    map[string]string
}

func (m MockModel) Name() string {
	if m.NameValue == "" {
		return "mock"
	}
	return m.NameValue
}

func (m MockModel) Generate(_ context.Context, prompt string, _ core.GenerateOptions) (core.Response, error) {
	start := time.Now()
	content := prompt
	if m.ResponseText != "" {
		content = m.ResponseText
	}
	if text, ok := m.Responses[prompt]; ok {
		content = text
	}
	return core.Response{
		Content: content,
		Latency: time.Since(start),
	}, nil
}
