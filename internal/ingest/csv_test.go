package ingest

import (
	"strings"
	"testing"
)

func TestParseMentionsCSV(t *testing.T) {
	input := strings.Join([]string{
		`1,The Shawshank Redemption,@ana,https://www.imdb.com/title/tt0111161/,solid`,
		`,,,,`,
		`2,Fight Club,@juan,tt0137523,"loved it", and the ending too`,
		`3,El Topo,@rosa,tt0067866`,
	}, "\n")

	rows, err := ParseMentionsCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseMentionsCSV failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	if rows[0].Position != 1 || rows[0].Handle != "@ana" || rows[0].Review != "solid" {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Review != "loved it, and the ending too" {
		t.Fatalf("review columns not rejoined: %q", rows[1].Review)
	}
	if rows[1].Line != 3 {
		t.Fatalf("blank record should still advance line numbers, got %d", rows[1].Line)
	}
	if rows[2].Review != "" {
		t.Fatalf("missing review should be empty, got %q", rows[2].Review)
	}
}

func TestParseMentionsCSVRejectsShortRows(t *testing.T) {
	if _, err := ParseMentionsCSV(strings.NewReader("1,only,two\n")); err == nil {
		t.Fatal("expected error for row with too few columns")
	}
}

func TestParseRankingsCSVSpanishHeaders(t *testing.T) {
	input := strings.Join([]string{
		`Participante,Película,Link IMDB,Categoría,Posición,Reseña`,
		`Ana García,Sueño de fuga,https://imdb.com/title/tt0111161,Top,1,imprescindible`,
		`@juan,El club de la pelea,tt0137523,Mejor del año,1,`,
	}, "\n")

	rows, err := ParseRankingsCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseRankingsCSV failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Name != "Ana García" || rows[0].Position != 1 || rows[0].Review != "imprescindible" {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Category != "Mejor del año" {
		t.Fatalf("unexpected category: %q", rows[1].Category)
	}
}

func TestParseRankingsCSVHeaderFallback(t *testing.T) {
	// Headers with embedded line breaks and decorations fall through to the
	// pattern match.
	input := "\"Nombre del\nparticipante\",\"Título (original)\",\"Enlace\",,\n" +
		"Rosa,Roma,tt6155172,,\n"

	rows, err := ParseRankingsCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseRankingsCSV failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Rosa" || rows[0].Link != "tt6155172" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestParseRankingsCSVRequiresCoreColumns(t *testing.T) {
	input := "foo,bar,baz\n1,2,3\n"
	if _, err := ParseRankingsCSV(strings.NewReader(input)); err == nil {
		t.Fatal("expected error for unmatched header")
	}
}

func TestParseRankingsCSVEmptyFile(t *testing.T) {
	rows, err := ParseRankingsCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseRankingsCSV failed: %v", err)
	}
	if rows != nil {
		t.Fatalf("expected no rows, got %+v", rows)
	}
}
