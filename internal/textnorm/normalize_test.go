package textnorm_test

import (
	"testing"

	"marquee/internal/textnorm"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple", input: "Juan", want: "juan"},
		{name: "diacritics", input: "José Peña", want: "jose-pena"},
		{name: "punctuation runs", input: "O'Brien,  Jr.", want: "o-brien-jr"},
		{name: "leading trailing separators", input: "--hello world--", want: "hello-world"},
		{name: "digits kept", input: "Club 2024", want: "club-2024"},
		{name: "empty", input: "", want: ""},
		{name: "only symbols", input: "@#$%", want: ""},
		{name: "mixed case unicode", input: "Łukasz ŻÓŁW", want: "ukasz-zow"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := textnorm.Slugify(tc.input); got != tc.want {
				t.Fatalf("Slugify(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	inputs := []string{"María José", "mária jose", "maria-jose"}
	want := "maria-jose"
	for _, input := range inputs {
		first := textnorm.Slugify(input)
		second := textnorm.Slugify(input)
		if first != second {
			t.Fatalf("Slugify(%q) not deterministic: %q vs %q", input, first, second)
		}
		if first != want {
			t.Fatalf("Slugify(%q) = %q, want %q", input, first, want)
		}
	}
}

func TestSlugifyMax(t *testing.T) {
	long := "a very long participant display name that exceeds the cap by a lot"
	got := textnorm.SlugifyMax(long, 50)
	if len(got) > 50 {
		t.Fatalf("SlugifyMax returned %d bytes: %q", len(got), got)
	}
	if got[len(got)-1] == '-' {
		t.Fatalf("SlugifyMax left a trailing hyphen: %q", got)
	}
	if textnorm.SlugifyMax("juan", 50) != "juan" {
		t.Fatal("short names must pass through unchanged")
	}
	if textnorm.SlugifyMax("juan", 0) != "juan" {
		t.Fatal("zero cap means uncapped")
	}
}

func TestCompactKey(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "Juan Pérez", want: "juanperez"},
		{input: "juan-perez", want: "juanperez"},
		{input: "J.P. 99", want: "jp99"},
		{input: "", want: ""},
	}
	for _, tc := range cases {
		if got := textnorm.CompactKey(tc.input); got != tc.want {
			t.Fatalf("CompactKey(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestStripHandleMarker(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "@juan", want: "juan"},
		{input: "@@juan", want: "juan"},
		{input: "  @ juan  ", want: "juan"},
		{input: "juan", want: "juan"},
		{input: "@", want: ""},
	}
	for _, tc := range cases {
		if got := textnorm.StripHandleMarker(tc.input); got != tc.want {
			t.Fatalf("StripHandleMarker(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeNewlines(t *testing.T) {
	got := textnorm.NormalizeNewlines("a\r\nb\rc\nd")
	if got != "a\nb\nc\nd" {
		t.Fatalf("NormalizeNewlines = %q", got)
	}
}
