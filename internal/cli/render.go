package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/randomtoy/arcano/internal/domain"
)

// Output formats accepted by --format.
const (
	FormatText  = "text"
	FormatShare = "share"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

const (
	defaultWidth = 80
	minWidth     = 40
	indent       = "    "
)

var (
	titleStyle    = color.New(color.FgHiMagenta, color.Bold)
	labelStyle    = color.New(color.FgCyan)
	reversedStyle = color.New(color.FgYellow)
	headingStyle  = color.New(color.FgHiWhite, color.Bold)
	dimStyle      = color.New(color.Faint)
)

// terminalWidth reports the width of w when it is a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return max(width, minWidth)
}

// WriteRecord renders rec in the given format.
func WriteRecord(w io.Writer, rec domain.Record, format string) error {
	switch format {
	case FormatText, "":
		return writeText(w, rec, terminalWidth(w))
	case FormatShare:
		_, err := io.WriteString(w, ShareText(rec))
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rec); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want text, share, json or yaml)", format)
	}
}

// ShareText is the short plain summary meant for pasting elsewhere.
func ShareText(rec domain.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔮 Mi lectura de Tarot - %s\n\n", rec.SpreadName)
	if rec.Question != "" {
		fmt.Fprintf(&b, "Pregunta: %s\n\n", rec.Question)
	}
	for _, c := range rec.Cards {
		fmt.Fprintf(&b, "%d. %s: %s", c.Index, c.Position, c.Name)
		if c.Orientation == domain.Reversed {
			b.WriteString(" (Invertida)")
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func writeText(w io.Writer, rec domain.Record, width int) error {
	var b strings.Builder

	titleStyle.Fprintf(&b, "🔮 %s\n", rec.SpreadName)
	if rec.Question != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Sprint("Pregunta:"), rec.Question)
	}
	if rec.ID != "" {
		dimStyle.Fprintf(&b, "%s · %s\n", rec.Timestamp.Local().Format("2006-01-02 15:04"), rec.ID)
	}
	b.WriteByte('\n')

	for _, c := range rec.Cards {
		name := c.Name
		if c.Orientation == domain.Reversed {
			name += " " + reversedStyle.Sprint("(Invertida)")
		}
		fmt.Fprintf(&b, "%2d. %s %s\n", c.Index, labelStyle.Sprint(c.Position+":"), name)
		for _, line := range wrapText(c.Meaning, width-len(indent)) {
			b.WriteString(indent + line + "\n")
		}
		if len(c.Keywords) > 0 {
			dimStyle.Fprintf(&b, "%s%s\n", indent, strings.Join(c.Keywords, ", "))
		}
	}

	writeSection(&b, "Interpretación", rec.Interpretation, width)
	if rec.Narrative != "" {
		writeSection(&b, "Narración", rec.Narrative, width)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSection(b *strings.Builder, heading, body string, width int) {
	b.WriteByte('\n')
	headingStyle.Fprintln(b, heading)
	for i, para := range strings.Split(body, "\n\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, line := range wrapText(para, width) {
			b.WriteString(line + "\n")
		}
	}
}

// wrapText splits text into lines of at most width runes, breaking on spaces.
// Words longer than width get a line of their own.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var (
		lines []string
		line  strings.Builder
		n     int
	)
	for _, word := range words {
		wl := len([]rune(word))
		if n > 0 && n+1+wl > width {
			lines = append(lines, line.String())
			line.Reset()
			n = 0
		}
		if n > 0 {
			line.WriteByte(' ')
			n++
		}
		line.WriteString(word)
		n += wl
	}
	return append(lines, line.String())
}

func writeSpreads(w io.Writer, spreads []domain.Spread) error {
	for _, sp := range spreads {
		fmt.Fprintf(w, "%s  %s\n", labelStyle.Sprintf("%-12s", sp.Key), headingStyle.Sprintf("%s (%d)", sp.Name, sp.Size()))
		if sp.Description != "" {
			fmt.Fprintf(w, "%s%s\n", indent, sp.Description)
		}
		fmt.Fprintf(w, "%s%s\n", indent, dimStyle.Sprint(strings.Join(sp.Positions, " · ")))
	}
	return nil
}

func writeHistory(w io.Writer, recs []domain.Record) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFECHA\tTIRADA\tPREGUNTA")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			r.ID,
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			r.SpreadKey,
			truncate(r.Question, 40),
		)
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
