package logging_test

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"marquee/internal/logging"
)

func TestNewConsoleWritesComponentPrefix(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "debug",
		Format:      "console",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logging.WithComponent(logger, "ingest").Info("row resolved", "participant", "juan", "movie", "tt1234567")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := strings.TrimSpace(string(data))
	if !strings.Contains(line, "[ingest]") {
		t.Fatalf("expected component prefix in %q", line)
	}
	if !strings.Contains(line, "participant=juan") || !strings.Contains(line, "movie=tt1234567") {
		t.Fatalf("expected attrs in %q", line)
	}
}

func TestNewJSONEmitsStructuredRecords(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "out.json")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("movie created", "imdb_id", "tt0111161")
	logger.Debug("suppressed at info level")

	file, err := os.Open(logPath)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var lines []map[string]any
	for scanner.Scan() {
		var record map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("invalid JSON line %q: %v", scanner.Text(), err)
		}
		lines = append(lines, record)
	}
	if len(lines) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(lines))
	}
	if lines[0]["msg"] != "movie created" || lines[0]["imdb_id"] != "tt0111161" {
		t.Fatalf("unexpected record: %v", lines[0])
	}
	if lines[0]["level"] != "info" {
		t.Fatalf("unexpected level: %v", lines[0]["level"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
