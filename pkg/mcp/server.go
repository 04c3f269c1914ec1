package mcp

import (
	"errors"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/shapespec/pkg/mcplog"
	"github.com/gnana997/shapespec/pkg/shape"
	"github.com/gnana997/shapespec/pkg/style"
	"github.com/gnana997/shapespec/pkg/util"
)

const serverVersion = "0.1.0-dev"

// DefaultCacheSize holds the full request matrix with room to spare.
const DefaultCacheSize = 4096

// ContextSource supplies the resolution context for each call.
// Snapshot returns a context and the generation that produced it as one
// consistent pair. *tokenwatch.Provider implements it.
type ContextSource interface {
	Snapshot() (*shape.Context, uint64)
}

type staticSource struct{ c *shape.Context }

func (s staticSource) Snapshot() (*shape.Context, uint64) { return s.c, 1 }

// Static wraps a fixed context as a ContextSource at generation 1.
func Static(c *shape.Context) ContextSource { return staticSource{c: c} }

// Config configures a Server.
type Config struct {
	// Source is required.
	Source ContextSource

	// CacheSize bounds the resolve_shape cache. 0 uses DefaultCacheSize;
	// negative disables caching.
	CacheSize int

	// Metrics is optional.
	Metrics *Metrics

	// CallLog, if non-nil, receives one JSONL entry per tool call.
	CallLog *mcplog.Logger

	Logger  *slog.Logger
	Version string
}

type cacheKey struct {
	req        style.Request
	generation uint64
}

// Server implements the MCP server for shapespec, exposing resolution tools.
type Server struct {
	mcpServer *server.MCPServer
	source    ContextSource
	cache     *lru.Cache[cacheKey, shape.ShapeToken] // nil when disabled
	metrics   *Metrics
	callLog   *mcplog.Logger
	logger    *slog.Logger
}

// NewServer creates a new MCP server resolving against cfg.Source.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Source == nil {
		return nil, errors.New("mcp: context source is required")
	}
	if c, _ := cfg.Source.Snapshot(); c == nil {
		return nil, errors.New("mcp: context source is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = util.NopLogger()
	}
	version := cfg.Version
	if version == "" {
		version = serverVersion
	}

	s := &Server{
		source:  cfg.Source,
		metrics: cfg.Metrics,
		callLog: cfg.CallLog,
		logger:  logger,
	}

	size := cfg.CacheSize
	if size == 0 {
		size = DefaultCacheSize
	}
	if size > 0 {
		cache, err := lru.New[cacheKey, shape.ShapeToken](size)
		if err != nil {
			return nil, fmt.Errorf("mcp: create cache: %w", err)
		}
		s.cache = cache
	}

	s.mcpServer = server.NewMCPServer(
		"shapespec",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(s.instrumentMiddleware()),
	)
	s.mcpServer.AddTools(s.tools()...)

	return s, nil
}

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: resolveShapeTool(), Handler: s.handleResolveShape},
		{Tool: resolvePaletteTool(), Handler: s.handleResolvePalette},
		{Tool: resolveTokenNameTool(), Handler: s.handleResolveTokenName},
		{Tool: lookupColorTool(), Handler: s.handleLookupColor},
		{Tool: surfaceBackgroundTool(), Handler: s.handleSurfaceBackground},
		{Tool: listTokensTool(), Handler: s.handleListTokens},
		{Tool: auditTokensTool(), Handler: s.handleAuditTokens},
	}
}

// MCPServer exposes the underlying server for alternative transports.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	_, gen := s.source.Snapshot()
	s.logger.Info("serving MCP over stdio", "generation", gen)
	return server.ServeStdio(s.mcpServer)
}
