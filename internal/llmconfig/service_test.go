package llmconfig

import (
	"context"
	"errors"
	"testing"
)

func TestSaveDeactivatesPrevious(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.Save(ctx, SaveInput{ProviderName: "openai", ModelName: "gpt-4o", APIKey: "sk-1111"}, "u-1")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := svc.Save(ctx, SaveInput{ProviderName: "DeepSeek", ModelName: "deepseek-chat", APIKey: "sk-2222"}, "u-1")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if first.ProviderName != ProviderOpenAI || second.ProviderName != ProviderDeepSeek {
		t.Fatalf("expected canonical providers, got %s and %s", first.ProviderName, second.ProviderName)
	}

	active, err := svc.Active(ctx)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active.ID != second.ID {
		t.Fatalf("expected second config active")
	}
	all, _ := repo.List(ctx)
	activeCount := 0
	for _, c := range all {
		if c.IsActive {
			activeCount++
		}
	}
	if activeCount != 1 {
		t.Fatalf("expected exactly one active config, got %d", activeCount)
	}
}

func TestSaveValidation(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	cases := []SaveInput{
		{ProviderName: "acme", ModelName: "m", APIKey: "k"},
		{ProviderName: "openai", APIKey: "k"},
		{ProviderName: "openai", ModelName: "m"},
		{ProviderName: "custom", ModelName: "m", APIKey: "k"},
	}
	for i, in := range cases {
		if _, err := svc.Save(context.Background(), in, "u-1"); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestMaskKey(t *testing.T) {
	cases := map[string]string{
		"":              "",
		"abc":           "****",
		"sk-abcdef1234": "****1234",
	}
	for in, want := range cases {
		if got := MaskKey(in); got != want {
			t.Fatalf("MaskKey(%q) = %q, want %q", in, got, want)
		}
	}
}
