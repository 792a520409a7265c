package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

type point struct{ x, y int }

func (p point) LogValue() slog.Value {
	return slog.GroupValue(slog.Int("x", p.x), slog.Int("y", p.y))
}

func TestPrettyText(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatText), WithTimeLayout("none"))
	l.Warn("moved", slog.Any("to", point{1, 2}), slog.Bool("ok", true))

	if got, want := buf.String(), "WARN moved to.x=1 to.y=2 ok=true\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestPrettyText_NoColorForBuffer(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatText)).Error("x")

	if strings.Contains(buf.String(), "\033[") {
		t.Errorf("escape codes written to a non-terminal: %q", buf.String())
	}
}

func TestPrettyText_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatText), WithTimeLayout("none"))
	h := l.Handler().WithAttrs([]slog.Attr{slog.String("a", "1")}).WithGroup("g")

	slog.New(h).Warn("msg", slog.String("b", "2"))

	if got, want := buf.String(), "WARN msg a=1 g.b=2\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestPrettyJSON(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatJSON), WithTimeLayout("none"))
	l.Error("failed", slog.String("file", "a.bm"), slog.Int("line", 3))

	want := "{\n" +
		"  \"level\": \"ERROR\",\n" +
		"  \"msg\": \"failed\",\n" +
		"  \"file\": \"a.bm\",\n" +
		"  \"line\": 3\n" +
		"}\n"

	if got := buf.String(); got != want {
		t.Errorf("output =\n%s\nwant\n%s", got, want)
	}
}

func TestFlatten(t *testing.T) {
	attrs := flatten(nil, "p", slog.Group("", slog.String("a", "1"), slog.Group("b", slog.Int("c", 2))))

	if len(attrs) != 2 {
		t.Fatalf("got %d attrs, want 2", len(attrs))
	}

	if attrs[0].Key != "p.a" || attrs[1].Key != "p.b.c" {
		t.Errorf("keys = %q, %q", attrs[0].Key, attrs[1].Key)
	}
}
