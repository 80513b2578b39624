package logger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureHandler struct {
	logs  *[]string
	attrs []slog.Attr
}

func (h *captureHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (h *captureHandler) Handle(_ context.Context, record slog.Record) error {
	parts := []string{record.Message}
	for _, attr := range h.attrs {
		parts = append(parts, fmt.Sprintf("%s=%v", attr.Key, attr.Value))
	}
	record.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, fmt.Sprintf("%s=%v", attr.Key, attr.Value))
		return true
	})
	*h.logs = append(*h.logs, strings.Join(parts, " "))
	return nil
}

func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &captureHandler{logs: h.logs, attrs: merged}
}

func (h *captureHandler) WithGroup(_ string) slog.Handler {
	return h
}

func newCaptureLogger() (Logger, *[]string) {
	var logs []string
	return &SlogLogger{logger: slog.New(&captureHandler{logs: &logs})}, &logs
}

func TestNew_Success(t *testing.T) {
	log := New("test-package")

	assert.NotNil(t, log)
	assert.IsType(t, &SlogLogger{}, log)
}

func TestNewWithConfig_Formats(t *testing.T) {
	tests := []struct {
		name   string
		format Format
	}{
		{name: "json", format: FormatJSON},
		{name: "text", format: FormatText},
		{name: "unknown falls back to json", format: Format("yaml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithConfig(Config{
				Name:   "petshop",
				Format: tt.format,
				Level:  slog.LevelDebug,
				Writer: &buf,
			})

			log.Info("hello", "key", "value")

			assert.Contains(t, buf.String(), "hello")
			assert.Contains(t, buf.String(), "petshop")
		})
	}
}

func TestNewWithConfig_JSONIsStructured(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithConfig(Config{Name: "jobs", Format: FormatJSON, Writer: &buf})

	log.Function("CreateJob").Info("created", "jobID", 7)

	out := buf.String()
	assert.Contains(t, out, `"package":"jobs"`)
	assert.Contains(t, out, `"function":"CreateJob"`)
	assert.Contains(t, out, `"jobID":7`)
}

func TestFileAndFunction_AddAttributes(t *testing.T) {
	log, logs := newCaptureLogger()

	log.File("job.controller").Function("UpdateJob").Info("updating")

	require.Len(t, *logs, 1)
	assert.Contains(t, (*logs)[0], "file=job.controller")
	assert.Contains(t, (*logs)[0], "function=UpdateJob")
}

func TestErr_ReturnsOriginalError(t *testing.T) {
	log, logs := newCaptureLogger()
	original := errors.New("boom")

	err := log.Err("failed", original, "id", 1)

	assert.Same(t, original, err)
	require.Len(t, *logs, 1)
	assert.Contains(t, (*logs)[0], "error=boom")
}

func TestErrorWithType_WrapsSentinel(t *testing.T) {
	log, _ := newCaptureLogger()
	sentinel := errors.New("permission denied")

	err := log.ErrorWithType(sentinel, "pet does not belong to customer")

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, "permission denied: pet does not belong to customer", err.Error())
}

func TestErrorAndErrMsg_ReturnMessage(t *testing.T) {
	log, logs := newCaptureLogger()

	assert.EqualError(t, log.Error("bad thing", "k", "v"), "bad thing")
	assert.EqualError(t, log.ErrMsg("other thing"), "other thing")
	log.Er("void", nil)

	assert.Len(t, *logs, 3)
}

func TestTraceFromContext(t *testing.T) {
	t.Run("with trace id", func(t *testing.T) {
		log, logs := newCaptureLogger()
		ctx := ContextWithTraceID(context.Background(), "trace-123")

		log.TraceFromContext(ctx).Info("traced")

		require.Len(t, *logs, 1)
		assert.Contains(t, (*logs)[0], "traceID=trace-123")
	})

	t.Run("without trace id", func(t *testing.T) {
		log, logs := newCaptureLogger()

		traced := log.TraceFromContext(context.Background())
		traced.Info("plain")

		assert.Same(t, log, traced)
		require.Len(t, *logs, 1)
		assert.NotContains(t, (*logs)[0], "traceID")
	})
}

func TestTraceIDFromContext(t *testing.T) {
	assert.Equal(t, "", TraceIDFromContext(context.Background()))
	assert.Equal(t, "abc", TraceIDFromContext(ContextWithTraceID(context.Background(), "abc")))
}

func TestNewWithContext_NoTraceID(t *testing.T) {
	log := NewWithContext(context.Background(), "test-service")

	assert.NotNil(t, log)
}

func TestTimer_LogsCompletion(t *testing.T) {
	log, logs := newCaptureLogger()

	done := log.Timer("list jobs")
	done()

	require.NotEmpty(t, *logs)
	assert.Contains(t, (*logs)[len(*logs)-1], "operation=list jobs")
}
