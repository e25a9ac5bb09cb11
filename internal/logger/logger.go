// Package logger configures slog for the console: a compact text layout
// while developing and JSON in production.
package logger

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

const (
	formatJSON = "json"
	formatText = "text"
)

// ComponentKey is lifted out of the attributes and printed as [name] by
// the text handler.
const ComponentKey = "component"

// Logger wraps slog.Logger.
type Logger struct {
	*slog.Logger
}

// Config holds logger configuration.
type Config struct {
	Writer      io.Writer
	Format      string
	Environment string
	Level       slog.Level
	AddSource   bool
	// Color forces ANSI colors on or off. Nil colors only terminals and
	// honors NO_COLOR.
	Color *bool
}

// New creates a logger. Production defaults to JSON, everything else to
// the text handler.
func New(cfg Config) *Logger {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Format == "" {
		cfg.Format = formatText
		if cfg.Environment == "production" {
			cfg.Format = formatJSON
		}
	}

	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if source, ok := a.Value.Any().(*slog.Source); ok && a.Key == slog.SourceKey {
				source.File = filepath.Base(source.File)
			}
			return a
		},
	}

	if cfg.Format == formatJSON {
		return &Logger{Logger: slog.New(slog.NewJSONHandler(cfg.Writer, opts))}
	}

	color := useColor(cfg.Writer)
	if cfg.Color != nil {
		color = *cfg.Color
	}
	return &Logger{Logger: slog.New(NewTextHandler(cfg.Writer, opts, color))}
}

func useColor(w io.Writer) bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// ParseLevel converts a string to slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything. Used by tests and CLI
// commands that only print results.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// TextHandler writes one line per record:
//
//	15:04:05.000 WRN [store] slow write key=Footer
type TextHandler struct {
	opts      slog.HandlerOptions
	color     bool
	mu        *sync.Mutex
	w         io.Writer
	component string
	// preformatted holds attributes from With, already rendered.
	preformatted []byte
	group        string
}

// NewTextHandler creates a text handler. color adds ANSI escapes.
func NewTextHandler(w io.Writer, opts *slog.HandlerOptions, color bool) *TextHandler {
	h := &TextHandler{w: w, color: color, mu: &sync.Mutex{}}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *TextHandler) Enabled(_ context.Context, level slog.Level) bool {
	if h.opts.Level == nil {
		return level >= slog.LevelInfo
	}
	return level >= h.opts.Level.Level()
}

// Handle formats and writes the record.
func (h *TextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	h.paint(&buf, ansiDim, r.Time.Format("15:04:05.000"))
	buf.WriteByte(' ')

	label, color := levelLabel(r.Level)
	h.paint(&buf, color, label)
	buf.WriteByte(' ')

	component := h.component
	var attrs bytes.Buffer
	attrs.Write(h.preformatted)
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == ComponentKey && h.group == "" {
			component = a.Value.String()
			return true
		}
		h.appendAttr(&attrs, h.group, a)
		return true
	})

	if component != "" {
		h.paint(&buf, ansiBlue, "["+component+"]")
		buf.WriteByte(' ')
	}
	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		h.paint(&buf, ansiDim, filepath.Base(frame.File)+":"+strconv.Itoa(frame.Line))
		buf.WriteByte(' ')
	}

	buf.WriteString(r.Message)
	if attrs.Len() > 0 {
		h.paint(&buf, ansiCyan, attrs.String())
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

// WithAttrs returns a handler that prints attrs on every record.
func (h *TextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	var buf bytes.Buffer
	buf.Write(h.preformatted)
	for _, a := range attrs {
		if a.Key == ComponentKey && h.group == "" {
			next.component = a.Value.String()
			continue
		}
		h.appendAttr(&buf, h.group, a)
	}
	next.preformatted = buf.Bytes()
	return &next
}

// WithGroup returns a handler that prefixes later keys with name.
func (h *TextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = h.group + name + "."
	return &next
}

func (h *TextHandler) appendAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			h.appendAttr(buf, prefix, ga)
		}
		return
	}

	buf.WriteByte(' ')
	buf.WriteString(prefix)
	buf.WriteString(a.Key)
	buf.WriteByte('=')
	buf.WriteString(formatValue(a.Value))
}

func (h *TextHandler) paint(buf *bytes.Buffer, color, s string) {
	if !h.color {
		buf.WriteString(s)
		return
	}
	buf.WriteString(color)
	buf.WriteString(s)
	buf.WriteString(ansiReset)
}

const (
	ansiReset   = "\033[0m"
	ansiRed     = "\033[31m"
	ansiGreen   = "\033[32m"
	ansiYellow  = "\033[33m"
	ansiBlue    = "\033[34m"
	ansiMagenta = "\033[35m"
	ansiCyan    = "\033[36m"
	ansiDim     = "\033[2m"
)

func levelLabel(level slog.Level) (string, string) {
	switch {
	case level >= slog.LevelError:
		return "ERR", ansiRed
	case level >= slog.LevelWarn:
		return "WRN", ansiYellow
	case level >= slog.LevelInfo:
		return "INF", ansiGreen
	default:
		return "DBG", ansiMagenta
	}
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindString:
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\n\"=") {
			return strconv.Quote(s)
		}
		return s
	default:
		return v.String()
	}
}

// Component returns a child logger tagged with the subsystem name.
func (l *Logger) Component(name string) *slog.Logger {
	return l.With(ComponentKey, name)
}
