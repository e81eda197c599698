package filters

import (
	"bytes"
	"context"
	"image"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogs routes the package logger into a buffer for the test.
func captureLogs(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})))
	return &buf
}

func TestNopHandler(t *testing.T) {
	h := nopHandler{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		assert.False(t, h.Enabled(context.Background(), level), level.String())
	}
	assert.NoError(t, h.Handle(context.Background(), slog.Record{}))
	assert.IsType(t, nopHandler{}, h.WithAttrs([]slog.Attr{slog.String("k", "v")}))
	assert.IsType(t, nopHandler{}, h.WithGroup("g"))
}

func TestLogger_DefaultSilent(t *testing.T) {
	l := Logger()
	require.NotNil(t, l)
	assert.False(t, l.Enabled(context.Background(), slog.LevelWarn))
}

func TestSetLogger(t *testing.T) {
	buf := captureLogs(t, slog.LevelDebug)

	prog := NewProgram("logger-test", "@fragment\nfn fs_main(in: VSOutput) -> @location(0) vec4<f32> { return sampleInput(in.uv); }\n", nil)
	_, err := prog.Compile(BackendWGSL)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "program=logger-test")

	SetLogger(nil)
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError), "nil restores the silent logger")
}

func TestDeprecateOnce(t *testing.T) {
	t.Cleanup(func() { deprecationsSeen.Clear() })
	deprecationsSeen.Clear()
	buf := captureLogs(t, slog.LevelInfo)

	deprecate("TwistFilter", "old form")
	deprecate("TwistFilter", "old form")
	deprecate("DotFilter", "old form")

	assert.Equal(t, 2, strings.Count(buf.String(), "old form"), "one notice per key")
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestColorGradient_TruncationWarns(t *testing.T) {
	buf := captureLogs(t, slog.LevelWarn)
	stops := make([]ColorStop, maxGradientStops+3)
	for i := range stops {
		stops[i] = ColorStop{Offset: float32(i) / float32(len(stops)), Color: Hex(0xffffff)}
	}
	f := NewColorGradientFilter(func(o *ColorGradientOptions) { o.Stops = stops })
	assert.Len(t, f.Stops(), maxGradientStops)
	assert.Contains(t, buf.String(), "stops truncated")
}

func TestLogger_ConcurrentAccess(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			Logger().Debug("concurrent read")
			NewImageTexture(image.NewRGBA(image.Rect(0, 0, 1, 1))).Invalidate()
		}()
		go func() {
			defer wg.Done()
			SetLogger(slog.Default())
			SetLogger(nil)
		}()
	}
	wg.Wait()
	assert.NotNil(t, Logger())
}

func BenchmarkLoggerDisabledLog(b *testing.B) {
	l := Logger()
	b.ReportAllocs()
	for b.Loop() {
		l.Debug("message", "key", "value")
	}
}
