package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// palette wraps text in color codes, or leaves it plain when disabled.
type palette struct {
	enabled bool
}

func makePalette(enabled bool) palette { return palette{enabled: enabled} }

func (p palette) paint(buf *bytes.Buffer, color, text string) {
	if !p.enabled {
		buf.WriteString(text)

		return
	}

	buf.WriteString(color)
	buf.WriteString(text)
	buf.WriteString(colorReset)
}

// level writes the level name, quoted for JSON.
func (p palette) level(buf *bytes.Buffer, level slog.Level, quote bool) {
	color := colorBlue

	switch {
	case level >= slog.LevelError:
		color = colorRed

	case level >= slog.LevelWarn:
		color = colorYellow

	case level >= slog.LevelInfo:
		color = colorGreen
	}

	name := strings.ToUpper(Level(level).String())
	if quote {
		name = strconv.Quote(name)
	}

	p.paint(buf, color, name)
}

// scalar writes a resolved, non-group value.
func (p palette) scalar(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		p.paint(buf, colorCyan, v.String())

	case slog.KindInt64:
		p.paint(buf, colorYellow, strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		p.paint(buf, colorYellow, strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		p.paint(buf, colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			p.paint(buf, colorGreen, "true")
		} else {
			p.paint(buf, colorRed, "false")
		}

	case slog.KindDuration:
		p.paint(buf, colorMagenta, v.Duration().String())

	case slog.KindTime:
		p.paint(buf, colorBlue, v.Time().String())

	default:
		if v.Any() == nil {
			p.paint(buf, colorGray, "null")

			return
		}

		p.paint(buf, colorCyan, fmt.Sprint(v.Any()))
	}
}

// common holds the state shared by both pretty handlers.
type common struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	palette    palette
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr // from WithAttrs, already qualified by group
	group      string      // dot-joined WithGroup prefix
}

func (h *common) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// collect returns every attribute of r, flattened to dotted keys.
func (h *common) collect(r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		attrs = flatten(attrs, h.group, a)

		return true
	})

	return attrs
}

func (h *common) source(r slog.Record) string {
	if !h.opts.AddSource {
		return ""
	}

	src := r.Source()
	if src == nil {
		return ""
	}

	return src.File + ":" + strconv.Itoa(src.Line)
}

func (h *common) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *common) withAttrs(attrs []slog.Attr) common {
	c := *h
	c.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	c.attrs = append(c.attrs, h.attrs...)

	for _, a := range attrs {
		c.attrs = flatten(c.attrs, h.group, a)
	}

	return c
}

func (h *common) withGroup(name string) common {
	c := *h
	if name != "" {
		c.group = qualify(h.group, name)
	}

	return c
}

// flatten appends a to attrs, resolving LogValuers and expanding groups into
// dotted keys.
func flatten(attrs []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() != slog.KindGroup {
		if a.Equal(slog.Attr{}) {
			return attrs
		}

		return append(attrs, slog.Attr{Key: qualify(prefix, a.Key), Value: a.Value})
	}

	// An inline group (empty key) adds its members at the current level.
	if a.Key != "" {
		prefix = qualify(prefix, a.Key)
	}

	for _, member := range a.Value.Group() {
		attrs = flatten(attrs, prefix, member)
	}

	return attrs
}

func qualify(prefix, key string) string {
	if prefix == "" {
		return key
	}

	return prefix + "." + key
}

// prettyTextHandler writes key=value lines without quoting.
type prettyTextHandler struct {
	common
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
	p palette,
) *prettyTextHandler {
	return &prettyTextHandler{common{
		opts:       *opts,
		formatTime: formatTime,
		palette:    p,
		mu:         &sync.Mutex{},
		w:          w,
	}}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			h.palette.paint(buf, colorGray, ts)
			buf.WriteByte(' ')
		}
	}

	h.palette.level(buf, r.Level, false)

	if src := h.source(r); src != "" {
		buf.WriteByte(' ')
		h.palette.paint(buf, colorGray, src)
	}

	buf.WriteByte(' ')
	buf.WriteString(r.Message)

	for _, a := range h.collect(r) {
		buf.WriteByte(' ')
		h.palette.paint(buf, colorGray, a.Key)
		buf.WriteByte('=')
		h.palette.scalar(buf, a.Value)
	}

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler writes one indented JSON-like object per record.
type prettyJSONHandler struct {
	common
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
	p palette,
) *prettyJSONHandler {
	return &prettyJSONHandler{common{
		opts:       *opts,
		formatTime: formatTime,
		palette:    p,
		mu:         &sync.Mutex{},
		w:          w,
	}}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)
	buf.WriteString("{")

	first := true
	field := func(key string, write func()) {
		if !first {
			buf.WriteByte(',')
		}

		first = false

		buf.WriteString("\n  ")
		h.palette.paint(buf, colorGray, strconv.Quote(key))
		buf.WriteString(": ")
		write()
	}

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			field(slog.TimeKey, func() { h.palette.paint(buf, colorBlue, strconv.Quote(ts)) })
		}
	}

	field(slog.LevelKey, func() { h.palette.level(buf, r.Level, true) })

	if src := h.source(r); src != "" {
		field(slog.SourceKey, func() { h.palette.paint(buf, colorGray, strconv.Quote(src)) })
	}

	field(slog.MessageKey, func() { buf.WriteString(strconv.Quote(r.Message)) })

	for _, a := range h.collect(r) {
		field(a.Key, func() { h.value(buf, a.Value) })
	}

	buf.WriteString("\n}")

	return h.write(buf)
}

// value writes strings quoted, everything else as the text handler does.
func (h *prettyJSONHandler) value(buf *bytes.Buffer, v slog.Value) {
	if v.Kind() == slog.KindString {
		h.palette.paint(buf, colorCyan, strconv.Quote(v.String()))

		return
	}

	h.palette.scalar(buf, v)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}
