package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/goliatone/go-uimodel/pkg/model"
)

// LoadModel reads a JSON or YAML UI model fixture. Testing helpers fail the
// test on error to keep contract tests concise.
func LoadModel(t *testing.T, path string) *model.UIModel {
	t.Helper()

	node, err := LoadModelFromPath(path)
	if err != nil {
		t.Fatalf("load model: %v", err)
	}
	return node
}

// LoadModelFromPath returns a UI model without requiring testing.T, allowing
// callers to wire fixtures in setup functions.
func LoadModelFromPath(path string) (*model.UIModel, error) {
	if path == "" {
		return nil, errors.New("testsupport: model path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read model: %w", err)
	}
	node, err := model.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("testsupport: decode model: %w", err)
	}
	return node, nil
}

// MustLoadData reads a JSON or YAML data model fixture.
func MustLoadData(t *testing.T, path string) any {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("load data: %v", err)
	}
	out, err := model.DecodeData(data)
	if err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return out
}

// WriteModel writes a UI model golden when UPDATE_GOLDENS is enabled.
func WriteModel(t *testing.T, path string, value *model.UIModel) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := model.Encode(value)
	if err != nil {
		t.Fatalf("marshal model: %v", err)
	}
	writeFile(t, path, append(payload, '\n'))
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	writeFile(t, path, payload)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	writeFile(t, path, data)
	return true
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// Tracing returns a tracer provider recording every ended span.
func Tracing(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})
	return provider, recorder
}

// SpanNames lists the names of the spans a recorder has seen end.
func SpanNames(recorder *tracetest.SpanRecorder) []string {
	var names []string
	for _, span := range recorder.Ended() {
		names = append(names, span.Name())
	}
	return names
}

// CaptureLogger returns a text logger writing into the returned buffer.
func CaptureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, &buf
}
