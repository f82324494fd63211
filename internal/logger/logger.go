package logger

import (
	"context"
	"log/slog"
	"os"
)

type ctxKey string

const requestIDKey = ctxKey("request_id")
const loggerKey = ctxKey("logger")

var base *slog.Logger

// Init настраивает глобальный логгер. В production пишем JSON,
// в остальных окружениях - текст с уровнем debug.
func Init(env string) {
	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	base = slog.New(handler)
	slog.SetDefault(base)
}

func std() *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	return base
}

// WithRequestID кладет request id в контекст и привязывает к нему логгер,
// чтобы все записи запроса несли один и тот же request_id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return context.WithValue(ctx, loggerKey, std().With("request_id", requestID))
}

// FromContext возвращает логгер запроса или глобальный, если его нет.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return std()
}

// RequestIDFromContext возвращает request id запроса, если он есть.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// --- Глобальные хелперы (вне контекста запроса) ---

func Info(msg string, args ...any)  { std().Info(msg, args...) }
func Warn(msg string, args ...any)  { std().Warn(msg, args...) }
func Error(msg string, args ...any) { std().Error(msg, args...) }

func Fatal(msg string, args ...any) {
	std().Error(msg, args...)
	os.Exit(1)
}

// --- Контекстные хелперы (внутри запроса) ---

func CtxInfo(ctx context.Context, msg string, args ...any)  { FromContext(ctx).Info(msg, args...) }
func CtxWarn(ctx context.Context, msg string, args ...any)  { FromContext(ctx).Warn(msg, args...) }
func CtxError(ctx context.Context, msg string, args ...any) { FromContext(ctx).Error(msg, args...) }

// CtxWithError - ошибка плюс произвольные поля
func CtxWithError(ctx context.Context, msg string, err error, args ...any) {
	FromContext(ctx).Error(msg, append([]any{"error", err}, args...)...)
}
