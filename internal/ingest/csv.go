package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"marquee/internal/textnorm"
)

// MentionRow is one record of the header-less positional export used by the
// special-mention import: position, title, handle, link, review. Everything
// from the review column onward is rejoined, since hand-written reviews
// routinely contain unescaped commas.
type MentionRow struct {
	Line     int
	Position int
	Title    string
	Handle   string
	Link     string
	Review   string
}

// ParseMentionsCSV reads the positional layout.
func ParseMentionsCSV(r io.Reader) ([]MentionRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows []MentionRow
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		if isBlankRecord(record) {
			continue
		}
		if len(record) < 4 {
			return nil, fmt.Errorf("csv line %d: expected at least 4 columns, got %d", line, len(record))
		}
		row := MentionRow{
			Line:   line,
			Title:  strings.TrimSpace(record[1]),
			Handle: strings.TrimSpace(record[2]),
			Link:   strings.TrimSpace(record[3]),
		}
		if position, err := strconv.Atoi(strings.TrimSpace(record[0])); err == nil {
			row.Position = position
		}
		if len(record) > 4 {
			row.Review = strings.TrimSpace(textnorm.NormalizeNewlines(strings.Join(record[4:], ",")))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// RankingRow is one record of the header-keyed export used by the annual
// ranking import.
type RankingRow struct {
	Line     int
	Name     string
	Title    string
	Link     string
	Category string
	Position int
	Review   string
}

// headerVariants lists the exact header spellings seen across export runs,
// per logical field, plus a fallback pattern tolerant of the inconsistent
// whitespace and line breaks some exports produce.
var headerVariants = map[string]struct {
	exact   []string
	pattern *regexp.Regexp
}{
	"name": {
		exact:   []string{"participante", "participant", "nombre", "name"},
		pattern: regexp.MustCompile(`(?i)\bparticipan|\bnombre|\bname\b`),
	},
	"title": {
		exact:   []string{"película", "pelicula", "title", "movie", "titulo", "título"},
		pattern: regexp.MustCompile(`(?i)\bpel[ií]cula|\btitle\b|\bt[ií]tulo`),
	},
	"link": {
		exact:   []string{"imdb", "link", "enlace", "url", "link imdb"},
		pattern: regexp.MustCompile(`(?i)\bimdb|\blink\b|\benlace|\burl\b`),
	},
	"category": {
		exact:   []string{"categoría", "categoria", "category"},
		pattern: regexp.MustCompile(`(?i)\bcategor`),
	},
	"position": {
		exact:   []string{"posición", "posicion", "position", "puesto", "rank"},
		pattern: regexp.MustCompile(`(?i)\bposici[oó]n|\bpuesto\b|\brank`),
	},
	"review": {
		exact:   []string{"reseña", "resena", "review", "comentario"},
		pattern: regexp.MustCompile(`(?i)\brese[ñn]a|\breview\b|\bcomentario`),
	},
}

// ParseRankingsCSV reads the header-keyed layout, locating columns by known
// header spellings first and regex fallback second.
func ParseRankingsCSV(r io.Reader) ([]RankingRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	columns, err := matchHeader(header)
	if err != nil {
		return nil, err
	}

	var rows []RankingRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		if isBlankRecord(record) {
			continue
		}
		row := RankingRow{
			Line:     line,
			Name:     fieldAt(record, columns["name"]),
			Title:    fieldAt(record, columns["title"]),
			Link:     fieldAt(record, columns["link"]),
			Category: fieldAt(record, columns["category"]),
			Review:   textnorm.NormalizeNewlines(fieldAt(record, columns["review"])),
		}
		if raw := fieldAt(record, columns["position"]); raw != "" {
			if position, err := strconv.Atoi(raw); err == nil {
				row.Position = position
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// matchHeader maps logical fields to column indices. Name, title, and link
// are mandatory; category, position, and review are optional columns.
func matchHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(headerVariants))
	for field := range headerVariants {
		columns[field] = -1
	}

	for i, raw := range header {
		normalized := normalizeHeader(raw)
		for field, variants := range headerVariants {
			if columns[field] >= 0 {
				continue
			}
			for _, exact := range variants.exact {
				if normalized == exact {
					columns[field] = i
					break
				}
			}
		}
	}
	for i, raw := range header {
		normalized := normalizeHeader(raw)
		for field, variants := range headerVariants {
			if columns[field] >= 0 {
				continue
			}
			if variants.pattern.MatchString(normalized) {
				columns[field] = i
			}
		}
	}

	for _, required := range []string{"name", "title", "link"} {
		if columns[required] < 0 {
			return nil, fmt.Errorf("csv header: no column matched %q (header was %q)", required, strings.Join(header, ","))
		}
	}
	return columns, nil
}

// normalizeHeader lowercases a header cell and collapses all interior
// whitespace, including the line breaks some spreadsheet exports embed.
func normalizeHeader(raw string) string {
	fields := strings.Fields(strings.ToLower(raw))
	return strings.Join(fields, " ")
}

func fieldAt(record []string, index int) string {
	if index < 0 || index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}

func isBlankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
