package llm

import (
	"errors"
	"fmt"
	"testing"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{name: "bare", in: `{"a":1}`, want: `{"a":1}`, ok: true},
		{name: "prose", in: "Here you go:\n{\"a\":{\"b\":2}}\nThanks", want: "{\"a\":{\"b\":2}}", ok: true},
		{name: "fenced", in: "```json\n{\"a\":1}\n```", want: "{\"a\":1}", ok: true},
		{name: "none", in: "no json here", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("ExtractJSONObject(%q) = %q,%v want %q,%v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

type flakyErr struct{ temp bool }

func (e flakyErr) Error() string   { return "provider" }
func (e flakyErr) Temporary() bool { return e.temp }

func TestTemporary(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
		{name: "temporary", err: flakyErr{temp: true}, want: true},
		{name: "permanent", err: flakyErr{temp: false}, want: false},
		{name: "wrapped", err: fmt.Errorf("summarize: %w", flakyErr{temp: true}), want: true},
	}
	for _, tt := range tests {
		if got := Temporary(tt.err); got != tt.want {
			t.Fatalf("%s: Temporary = %v, want %v", tt.name, got, tt.want)
		}
	}
}
