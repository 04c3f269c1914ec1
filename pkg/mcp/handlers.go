package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/shapespec/pkg/audit"
	"github.com/gnana997/shapespec/pkg/mcplog"
	"github.com/gnana997/shapespec/pkg/semantic"
	"github.com/gnana997/shapespec/pkg/shape"
	"github.com/gnana997/shapespec/pkg/style"
	"github.com/gnana997/shapespec/pkg/tokenstore"
)

// snapshot pins one context for the whole call so that a concurrent reload
// cannot mix tables from two generations.
func (s *Server) snapshot(ctx context.Context) (*shape.Context, uint64) {
	c, gen := s.source.Snapshot()
	infoFrom(ctx).generation = gen
	return c, gen
}

// toolError reports err as an MCP error result and records its kind.
func toolError(ctx context.Context, err error) (*mcp.CallToolResult, error) {
	info := infoFrom(ctx)
	info.errKind = mcplog.Classify(err)
	info.errMsg = err.Error()
	return mcp.NewToolResultError(err.Error()), nil
}

func jsonResult(ctx context.Context, v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return toolError(ctx, fmt.Errorf("encode result: %w", err))
	}
	return mcp.NewToolResultText(string(data)), nil
}

// --- resolve_shape ---

type resolveShapeResponse struct {
	Request            style.Request    `json:"request"`
	EffectiveHierarchy style.Hierarchy  `json:"effective_hierarchy"`
	Shape              shape.ShapeToken `json:"shape"`
	Generation         uint64           `json:"generation"`
}

func (s *Server) handleResolveShape(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r, err := style.ParseRequest(
		req.GetString("surface", ""),
		req.GetString("hierarchy", ""),
		req.GetBool("high_priority", false),
		req.GetString("input", ""),
		req.GetString("size", ""),
		req.GetString("state", ""),
		req.GetString("intent", ""),
	)
	if err != nil {
		return toolError(ctx, err)
	}

	c, gen := s.snapshot(ctx)
	token, hit, err := s.resolveCached(c, gen, r)
	if err != nil {
		return toolError(ctx, err)
	}
	infoFrom(ctx).cacheHit = hit

	return jsonResult(ctx, resolveShapeResponse{
		Request:            r,
		EffectiveHierarchy: r.EffectiveHierarchy(),
		Shape:              token,
		Generation:         gen,
	})
}

// resolveCached consults the cache before resolving. Errors are not cached.
func (s *Server) resolveCached(c *shape.Context, gen uint64, r style.Request) (shape.ShapeToken, bool, error) {
	if s.cache == nil {
		token, err := c.Resolve(r)
		return token, false, err
	}

	key := cacheKey{req: r, generation: gen}
	if token, ok := s.cache.Get(key); ok {
		s.metrics.observeCache(true)
		return token, true, nil
	}
	s.metrics.observeCache(false)

	token, err := c.Resolve(r)
	if err != nil {
		return shape.ShapeToken{}, false, err
	}
	s.cache.Add(key, token)
	return token, false, nil
}

// --- resolve_palette ---

func (s *Server) handleResolvePalette(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	surface, err := style.ParseSurface(req.GetString("surface", ""))
	if err != nil {
		return toolError(ctx, err)
	}
	hierarchy, err := style.ParseHierarchy(req.GetString("hierarchy", ""))
	if err != nil {
		return toolError(ctx, err)
	}
	high := req.GetBool("high_priority", false)

	c, _ := s.snapshot(ctx)
	palette, err := c.ResolvePalette(surface, hierarchy, high)
	if err != nil {
		return toolError(ctx, err)
	}

	effective := style.Request{Hierarchy: hierarchy, HighPriority: high}.EffectiveHierarchy()
	return jsonResult(ctx, map[string]any{
		"surface":             surface,
		"effective_hierarchy": effective,
		"palette":             palette,
	})
}

// --- resolve_token_name ---

func (s *Server) handleResolveTokenName(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hierarchy, err := style.ParseHierarchy(req.GetString("hierarchy", ""))
	if err != nil {
		return toolError(ctx, err)
	}
	state := style.StateDefault
	if raw := req.GetString("state", ""); raw != "" {
		if state, err = style.ParseState(raw); err != nil {
			return toolError(ctx, err)
		}
	}
	part := semantic.Part(strings.TrimSpace(req.GetString("part", "")))

	c, _ := s.snapshot(ctx)
	name, err := c.ResolveTokenName(hierarchy, part, state)
	if err != nil {
		return toolError(ctx, err)
	}
	return jsonResult(ctx, map[string]any{
		"hierarchy": hierarchy,
		"part":      part,
		"state":     state,
		"token":     name,
	})
}

// --- lookup_color ---

func (s *Server) handleLookupColor(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := strings.TrimSpace(req.GetString("name", ""))
	surface, err := style.ParseSurface(req.GetString("surface", ""))
	if err != nil {
		return toolError(ctx, err)
	}

	c, _ := s.snapshot(ctx)
	color, err := c.Tokens().LookupColor(name, surface)
	if err != nil {
		return toolError(ctx, err)
	}
	return jsonResult(ctx, map[string]any{
		"token":   name,
		"surface": surface,
		"mode":    tokenstore.ModeKey(surface),
		"color":   color,
	})
}

// --- surface_background ---

func (s *Server) handleSurfaceBackground(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	surface, err := style.ParseSurface(req.GetString("surface", ""))
	if err != nil {
		return toolError(ctx, err)
	}

	c, _ := s.snapshot(ctx)
	color, err := c.SurfaceBackground(surface)
	if err != nil {
		return toolError(ctx, err)
	}
	return jsonResult(ctx, map[string]any{
		"surface": surface,
		"dark":    surface.Dark(),
		"token":   shape.SurfaceBackgroundToken,
		"color":   color,
	})
}

// --- list_tokens ---

type tokenEntry struct {
	Name         string                `json:"name"`
	Colors       tokenstore.ModeRecord `json:"colors"`
	ReferencedBy []semantic.Reference  `json:"referenced_by,omitempty"`
}

func (s *Server) handleListTokens(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prefix := req.GetString("prefix", "")
	referencedOnly := req.GetBool("referenced_only", false)

	c, gen := s.snapshot(ctx)
	refs := c.Semantic().References()

	entries := []tokenEntry{}
	for _, name := range c.Tokens().Names() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if referencedOnly && len(refs[name]) == 0 {
			continue
		}
		rec, _ := c.Tokens().Record(name)
		entries = append(entries, tokenEntry{Name: name, Colors: rec, ReferencedBy: refs[name]})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	return jsonResult(ctx, map[string]any{
		"source":     c.Tokens().Source(),
		"generation": gen,
		"count":      len(entries),
		"tokens":     entries,
	})
}

// --- audit_tokens ---

func (s *Server) handleAuditTokens(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, _ := s.snapshot(ctx)
	report := audit.Run(c.Tokens(), c.Semantic())
	return jsonResult(ctx, map[string]any{
		"ok":     report.OK(),
		"report": report,
	})
}
