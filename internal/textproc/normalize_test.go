// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textproc

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "  \t\n ", ""},
		{"lowercases", "Deep Learning", "deep learning"},
		{"strips punctuation", "graph-based (neural) networks!", "graph based neural networks"},
		{"collapses whitespace", "deep   \t learning\n\nmodels", "deep learning models"},
		{"drops stopwords", "the impact of exercise on depression", "impact exercise depression"},
		{"drops boilerplate terms", "this study presents results using a novel method", "presents novel method"},
		{"keeps digits", "gpt 4 outperforms gpt 3", "gpt 4 outperforms gpt 3"},
		{"non-ascii becomes space", "café résumé", "caf r sum"},
		{"all stopwords", "the of and a an", ""},
		{"all punctuation", "!?!... ---", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.raw); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	raw := "Attention Is All You Need: Transformers for NLP."
	first := Normalize(raw)
	for i := 0; i < 5; i++ {
		if got := Normalize(raw); got != first {
			t.Fatalf("Normalize not deterministic: %q vs %q", got, first)
		}
	}
}

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"simple", "Neural Networks", []string{"neural", "networks"}},
		{"stopwords removed", "a model of the brain", []string{"model", "brain"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Tokens(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokens(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestIsStopword(t *testing.T) {
	for _, word := range []string{"the", "using", "study", "paper", "results"} {
		if !IsStopword(word) {
			t.Errorf("IsStopword(%q) = false, want true", word)
		}
	}
	for _, word := range []string{"neural", "depression", "transformer"} {
		if IsStopword(word) {
			t.Errorf("IsStopword(%q) = true, want false", word)
		}
	}
}
