package telemetry

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/panjf2000/ants/v2"
)

const defaultDispatchPoolSize = 4

// Logger emits leveled log records, custom events and dependency records,
// all stamped with the trace id carried by the calling context.
//
// Records always reach the local slog sink. Event and dependency envelopes
// are additionally shipped to an optional remote Sink on a worker pool;
// remote failures degrade to local-only logging and are never surfaced to
// the pipeline.
type Logger struct {
	local *slog.Logger
	sink  Sink
	pool  *ants.Pool
}

// Option configures a Logger.
type Option func(*Logger) error

// WithLocal sets the local slog logger.
// Default is slog.Default().
func WithLocal(local *slog.Logger) Option {
	return func(l *Logger) error {
		if local == nil {
			local = slog.Default()
		}
		l.local = local
		return nil
	}
}

// WithSink sets the remote telemetry sink.
// Default is none (local-only logging).
func WithSink(sink Sink) Option {
	return func(l *Logger) error {
		l.sink = sink
		return nil
	}
}

// WithDispatchPoolSize sets the size of the async dispatch pool.
func WithDispatchPoolSize(size int) Option {
	return func(l *Logger) error {
		if size < 1 {
			size = 1
		}
		if l.pool != nil {
			l.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		l.pool = pool
		return nil
	}
}

// NewLogger creates a logger writing to the local slog sink and, when a
// sink is configured, shipping envelopes to it asynchronously.
func NewLogger(opts ...Option) (*Logger, error) {
	pool, err := ants.NewPool(defaultDispatchPoolSize)
	if err != nil {
		return nil, err
	}

	l := &Logger{
		local: slog.Default(),
		pool:  pool,
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			pool.Release()
			return nil, err
		}
	}
	return l, nil
}

// Close releases the dispatch pool and closes the remote sink if present.
// In-flight envelopes may be dropped; telemetry is best-effort by contract.
func (l *Logger) Close() error {
	l.pool.Release()
	if l.sink != nil {
		return l.sink.Close()
	}
	return nil
}

func (l *Logger) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if id := TraceID(ctx); id != "" {
		args = append(args, "trace_id", id)
	}
	l.local.Log(ctx, level, msg, args...)
}

// Debug logs a debug record stamped with the current trace id.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelDebug, msg, args...)
}

// Info logs an info record stamped with the current trace id.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelInfo, msg, args...)
}

// Warn logs a warning record stamped with the current trace id.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelWarn, msg, args...)
}

// Error logs an error record stamped with the current trace id.
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelError, msg, args...)
}

// Exception logs an error record carrying the error text and a captured
// stack trace.
func (l *Logger) Exception(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "err", err, "stack", string(debug.Stack()))
	l.log(ctx, slog.LevelError, msg, args...)
}

// Event emits a named custom event with string-keyed properties and numeric
// measurements.
func (l *Logger) Event(ctx context.Context, name string, properties map[string]any, measurements map[string]float64) {
	l.log(ctx, slog.LevelInfo, "custom event",
		"event_name", name,
		"properties", properties,
		"measurements", measurements,
	)

	l.submit(Envelope{
		Kind:         KindEvent,
		Time:         time.Now().UTC(),
		TraceID:      TraceID(ctx),
		Name:         name,
		Properties:   properties,
		Measurements: measurements,
	})
}

// Dependency emits a record describing one external call: its name, the
// attempted command, how long it took and whether it succeeded.
func (l *Logger) Dependency(ctx context.Context, name, command string, duration time.Duration, success bool, resultCode string) {
	l.log(ctx, slog.LevelInfo, "dependency call",
		"dependency_name", name,
		"command", command,
		"duration_ms", float64(duration.Microseconds())/1000.0,
		"success", success,
		"result_code", resultCode,
	)

	l.submit(Envelope{
		Kind:    KindDependency,
		Time:    time.Now().UTC(),
		TraceID: TraceID(ctx),
		Name:    name,
		Dependency: &DependencyData{
			Command:    command,
			DurationMS: float64(duration.Microseconds()) / 1000.0,
			Success:    success,
			ResultCode: resultCode,
		},
	})
}

// submit ships an envelope to the remote sink without ever blocking or
// failing the caller.
func (l *Logger) submit(e Envelope) {
	if l.sink == nil {
		return
	}

	task := func() {
		if err := l.sink.Track(e); err != nil {
			l.local.Debug("remote telemetry sink rejected envelope", "kind", e.Kind, "name", e.Name, "err", err)
		}
	}
	if err := l.pool.Submit(task); err != nil {
		l.local.Debug("telemetry dispatch pool rejected envelope", "kind", e.Kind, "name", e.Name, "err", err)
	}
}
