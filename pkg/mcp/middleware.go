package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/shapespec/pkg/mcplog"
)

// callInfo is filled in by handlers and read back by the middleware.
type callInfo struct {
	cacheHit   bool
	generation uint64
	errKind    mcplog.ErrorKind
	errMsg     string
}

type callInfoKey struct{}

// infoFrom returns the call's info, or a throwaway value when the handler
// runs outside the middleware (as in tests).
func infoFrom(ctx context.Context) *callInfo {
	if info, ok := ctx.Value(callInfoKey{}).(*callInfo); ok {
		return info
	}
	return &callInfo{}
}

// instrumentMiddleware records every tool call in metrics, the debug log and,
// when configured, the JSONL call log.
func (s *Server) instrumentMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			info := &callInfo{}
			ctx = context.WithValue(ctx, callInfoKey{}, info)

			start := mcplog.Now()
			result, err := next(ctx, req)
			elapsed := time.Since(start)

			if err != nil && info.errKind == "" {
				info.errKind = mcplog.KindInternal
				info.errMsg = err.Error()
			}

			tool := req.Params.Name
			s.metrics.observeCall(tool, info.errKind, elapsed)
			s.logger.Debug("tool call",
				"tool", tool,
				"duration", elapsed,
				"cache_hit", info.cacheHit,
				"error_kind", string(info.errKind))

			if s.callLog != nil {
				var errStr *string
				if info.errMsg != "" {
					msg := info.errMsg
					errStr = &msg
				}
				_ = s.callLog.Write(mcplog.LogEntry{
					Ts:            start.UTC().Format(time.RFC3339),
					Tool:          tool,
					Params:        mcplog.SanitizeParams(req.GetArguments()),
					DurationMs:    elapsed.Milliseconds(),
					ResponseBytes: mcplog.ResponseBytes(result),
					CacheHit:      info.cacheHit,
					Generation:    info.generation,
					ErrorKind:     info.errKind,
					Error:         errStr,
				})
			}

			return result, err
		}
	}
}
