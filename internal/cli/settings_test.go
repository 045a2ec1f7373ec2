package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/randomtoy/arcano/internal/domain"
)

func TestLoadSettings_BlankValuesFallBack(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("default_spread = \"herradura\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.DefaultSpread != "herradura" {
		t.Errorf("expected herradura, got %s", s.DefaultSpread)
	}
	if s.HistoryDB != filepath.Join("/data", "arcano", "history.db") || s.Entropy != "auto" {
		t.Errorf("expected defaults for blank keys, got %+v", s)
	}
}

func TestLoadSettings_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("default_deck = \"rws\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadSettings(path)
	if err == nil || !strings.Contains(err.Error(), "default_deck") {
		t.Errorf("expected unknown key error, got %v", err)
	}
}

func TestLoadSettings_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("default_spread = \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSettings(path); err == nil {
		t.Error("expected decode error")
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("uno dos tres cuatro cinco", 9)
	want := []string{"uno dos", "tres", "cuatro", "cinco"}
	if len(lines) != len(want) {
		t.Fatalf("expected %v, got %v", want, lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}

	if got := wrapText("supercalifragilístico", 5); len(got) != 1 {
		t.Errorf("long word should stay on one line, got %v", got)
	}
	if got := wrapText("   ", 10); got != nil {
		t.Errorf("expected nil for blank text, got %v", got)
	}
	if got := wrapText("añoñería ñu", 11); len(got) != 1 {
		t.Errorf("width must count runes, got %v", got)
	}
}

func TestShareText(t *testing.T) {
	rec := domain.Record{
		SpreadName: "Tres Cartas",
		Question:   "¿Viaje?",
		Cards: []domain.RecordCard{
			{Index: 1, Position: "Pasado", Name: "El Loco", Orientation: domain.Upright},
			{Index: 2, Position: "Presente", Name: "El Mago", Orientation: domain.Reversed},
		},
	}
	want := "🔮 Mi lectura de Tarot - Tres Cartas\n\nPregunta: ¿Viaje?\n\n1. Pasado: El Loco\n2. Presente: El Mago (Invertida)\n"
	if got := ShareText(rec); got != want {
		t.Errorf("unexpected share text:\n%q\nwant\n%q", got, want)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("corto", 10); got != "corto" {
		t.Errorf("unexpected %q", got)
	}
	if got := truncate("¿será un buen año?", 6); got != "¿será…" {
		t.Errorf("unexpected %q", got)
	}
}
