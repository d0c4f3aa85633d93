package middleware

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor logs one line per RPC with the procedure and duration.
// Failures with a code other than Internal or Unknown are caller mistakes
// (bad rows, missing records) and log at WARN.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"duration_ms", time.Since(start).Milliseconds(),
			}

			if err == nil {
				slog.Info("RPC ok", attrs...)
				return resp, nil
			}

			code := connect.CodeOf(err)
			attrs = append(attrs, "code", code.String(), "error", err)
			switch code {
			case connect.CodeInternal, connect.CodeUnknown:
				slog.Error("RPC failed", attrs...)
			default:
				slog.Warn("RPC rejected", attrs...)
			}
			return resp, err
		}
	}
}
