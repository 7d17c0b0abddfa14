package translate

import (
	"context"
	"os"
	"strings"
	"testing"
)

func TestFactoryReturnsAnthropicTranslator(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "English"}
	translator, err := Factory(ctx, ProviderAnthropic, "fake-key", opts)
	if err != nil {
		t.Fatalf("Factory(ProviderAnthropic) returned error: %v", err)
	}
	if _, ok := translator.(*AnthropicTranslator); !ok {
		t.Errorf("expected *AnthropicTranslator, got %T", translator)
	}
}

func TestFactoryReturnsOpenAITranslator(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "Spanish"}
	translator, err := Factory(ctx, ProviderOpenAI, "fake-key", opts)
	if err != nil {
		t.Fatalf("Factory(ProviderOpenAI) returned error: %v", err)
	}
	if _, ok := translator.(*OpenAITranslator); !ok {
		t.Errorf("expected *OpenAITranslator, got %T", translator)
	}
}

func TestFactoryRequiresTargetLanguage(t *testing.T) {
	ctx := context.Background()
	_, err := Factory(ctx, ProviderAnthropic, "fake-key", Options{})
	if err == nil {
		t.Error("expected error for missing target language")
	}
}

func TestFactoryRejectsUnknownProvider(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "French"}
	_, err := Factory(ctx, Provider("unknown"), "fake-key", opts)
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestFactoryRequiresAPIKey(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "English"}
	if _, err := Factory(ctx, ProviderAnthropic, "", opts); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestBuildPrompt(t *testing.T) {
	opts := Options{
		InputLanguage:  "Italian",
		TargetLanguage: "English",
	}
	items := []TranslationItem{
		{Index: 0, Text: "Ciao"},
		{Index: 1, Text: "come stai"},
	}

	prompt := BuildPrompt(opts, items)

	for _, want := range []string{"Italian", "English", "Ciao", "come stai", `"index": 0`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptWithoutInputLanguage(t *testing.T) {
	opts := Options{TargetLanguage: "English"}
	prompt := BuildPrompt(opts, []TranslationItem{{Index: 0, Text: "Ciao"}})

	if !strings.Contains(prompt, "subtitle texts to English") {
		t.Error("prompt should name the target language")
	}
}

func TestExtractTranslationResults(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantCount int
		wantErr   bool
	}{
		{
			name:      "plain array",
			text:      `[{"index":0,"text":"Hello"},{"index":1,"text":"Bye"}]`,
			wantCount: 2,
		},
		{
			name:      "fenced code block",
			text:      "```json\n[{\"index\":0,\"text\":\"Hello\"}]\n```",
			wantCount: 1,
		},
		{
			name:      "wrapper object",
			text:      `{"translations":[{"index":0,"text":"Hello"}]}`,
			wantCount: 1,
		},
		{
			name:      "leading prose before JSON",
			text:      `Here you go: [{"index":0,"text":"Hello"}]`,
			wantCount: 1,
		},
		{
			name:      "invalid SRT escape preserved",
			text:      `[{"index":0,"text":"line one\Nline two"}]`,
			wantCount: 1,
		},
		{
			name:    "no JSON at all",
			text:    "sorry, I cannot translate that",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// fenced blocks are stripped before extraction in providers
			results, err := extractTranslationResults(cleanJSONResponse(tt.text))
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) != tt.wantCount {
				t.Errorf("got %d results, want %d", len(results), tt.wantCount)
			}
		})
	}
}

func TestExtractTranslationResultsKeepsEscapes(t *testing.T) {
	results, err := extractTranslationResults(
		`[{"index":0,"text":"uno\Ndue"}]`,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Text != `uno\Ndue` {
		t.Errorf("text = %q, want literal backslash-N preserved", results[0].Text)
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("short", 10); got != "short" {
		t.Errorf("truncateString(short) = %q", got)
	}
	if got := truncateString("abcdefghij", 4); got != "abcd..." {
		t.Errorf("truncateString = %q, want abcd...", got)
	}
}

// Integration test: only runs if ANTHROPIC_API_KEY is set
func TestAnthropicTranslatorIntegration(t *testing.T) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		t.Skip("ANTHROPIC_API_KEY not set; skipping integration test")
	}

	ctx := context.Background()
	opts := Options{InputLanguage: "Italian", TargetLanguage: "English"}
	translator, err := NewAnthropicTranslator(ctx, apiKey, opts)
	if err != nil {
		t.Fatalf("NewAnthropicTranslator error: %v", err)
	}

	items := []TranslationItem{
		{Index: 0, Text: "Ciao"},
		{Index: 1, Text: "Arrivederci"},
	}

	results, err := translator.Translate(ctx, items)
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Text == "" {
			t.Errorf("result index %d has empty text", r.Index)
		}
	}
}
