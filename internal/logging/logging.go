package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"time"

	clilogger "github.com/go-core-fx/cli-logger"
	"github.com/mattn/go-isatty"
)

const (
	timeFormat = time.DateTime

	componentKey = "component"
)

// New returns the application logger. Informational records go to stdout,
// warnings and errors to stderr.
func New(debug bool) (*slog.Logger, error) {
	return NewWithWriters(os.Stdout, os.Stderr, debug)
}

func NewWithWriters(stdout, stderr io.Writer, debug bool) (*slog.Logger, error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	out, err := newLogger(stdout, level)
	if err != nil {
		return nil, fmt.Errorf("can't create stdout logger: %w", err)
	}
	errOut, err := newLogger(stderr, level)
	if err != nil {
		return nil, fmt.Errorf("can't create stderr logger: %w", err)
	}

	return slog.New(&splitHandler{
		out:    out,
		err:    errOut,
		level:  level,
		fields: clilogger.Fields{},
	}), nil
}

func newLogger(w io.Writer, level slog.Level) (clilogger.Logger, error) {
	return clilogger.New(clilogger.Config{
		Level:        toLogLevel(level),
		Format:       clilogger.FormatHuman,
		Output:       w,
		EnableColors: shouldColorize(w),
		TimeFormat:   timeFormat,
	})
}

func shouldColorize(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func toLogLevel(level slog.Level) clilogger.LogLevel {
	switch {
	case level < slog.LevelInfo:
		return clilogger.LogLevelDebug
	case level < slog.LevelWarn:
		return clilogger.LogLevelInfo
	case level < slog.LevelError:
		return clilogger.LogLevelWarn
	default:
		return clilogger.LogLevelError
	}
}

// splitHandler adapts slog records to a pair of loggers: records below
// warning level go to out, the rest to err.
type splitHandler struct {
	out   clilogger.Logger
	err   clilogger.Logger
	level slog.Level

	component string
	prefix    string
	fields    clilogger.Fields
}

func (h *splitHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *splitHandler) Handle(ctx context.Context, record slog.Record) error {
	fields := make(clilogger.Fields, len(h.fields)+record.NumAttrs())
	maps.Copy(fields, h.fields)
	record.Attrs(func(a slog.Attr) bool {
		addAttr(fields, h.prefix, a)
		return true
	})

	if h.component != "" {
		ctx = clilogger.WithComponent(ctx, h.component)
	}

	switch toLogLevel(record.Level) {
	case clilogger.LogLevelDebug:
		h.out.Debug(ctx, record.Message, fields)
	case clilogger.LogLevelInfo:
		h.out.Info(ctx, record.Message, fields)
	case clilogger.LogLevelWarn:
		h.err.Warn(ctx, record.Message, fields)
	default:
		h.err.Error(ctx, record.Message, takeError(fields), fields)
	}

	return nil
}

func (h *splitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, a := range attrs {
		if h.prefix == "" && a.Key == componentKey {
			next.component = a.Value.String()
			continue
		}
		addAttr(next.fields, h.prefix, a)
	}
	return next
}

func (h *splitHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.prefix = h.prefix + name + "."
	return next
}

func (h *splitHandler) clone() *splitHandler {
	next := *h
	next.fields = maps.Clone(h.fields)
	return &next
}

func addAttr(fields clilogger.Fields, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			addAttr(fields, prefix, ga)
		}
		return
	}

	fields[prefix+a.Key] = a.Value.Any()
}

// takeError moves the error attribute of an error record into the logger's
// own error slot.
func takeError(fields clilogger.Fields) error {
	v, ok := fields["error"]
	if !ok {
		return nil
	}

	var err error
	switch e := v.(type) {
	case error:
		err = e
	case string:
		err = errors.New(e)
	default:
		return nil
	}

	delete(fields, "error")
	return err
}
