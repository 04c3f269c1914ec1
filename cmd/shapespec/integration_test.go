package main

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// binaryPath is set by TestMain after building the binary.
var binaryPath string

func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	tmp, err := os.MkdirTemp("", "shapespec-integration-*")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(tmp, "shapespec")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		os.RemoveAll(tmp)
		panic("failed to build binary: " + err.Error())
	}

	code := m.Run()
	os.RemoveAll(tmp)
	os.Exit(code)
}

func skipIfNotIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run integration tests")
	}
}

// startServer launches shapespec serve as a subprocess and returns an
// initialized MCP client.
func startServer(t *testing.T, args ...string) *client.Client {
	t.Helper()

	serveArgs := append([]string{"--config", filepath.Join(t.TempDir(), "config.yaml"), "serve"}, args...)
	c, err := client.NewStdioMCPClient(binaryPath, nil, serveArgs...)
	require.NoError(t, err, "failed to start MCP server")
	t.Cleanup(func() { c.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "shapespec-integration-test", Version: "1.0.0"}

	result, err := c.Initialize(ctx, initReq)
	require.NoError(t, err, "failed to initialize MCP session")
	assert.Equal(t, "shapespec", result.ServerInfo.Name)
	return c
}

func callTool(t *testing.T, c *client.Client, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	if args != nil {
		req.Params.Arguments = args
	}
	result, err := c.CallTool(ctx, req)
	require.NoError(t, err, "CallTool(%s) failed", name)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return text.Text
}

func TestIntegration_ListTools(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	tools, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	require.NoError(t, err)

	names := make([]string, len(tools.Tools))
	for i, tool := range tools.Tools {
		names[i] = tool.Name
	}
	assert.ElementsMatch(t, []string{
		"resolve_shape",
		"resolve_palette",
		"resolve_token_name",
		"lookup_color",
		"surface_background",
		"list_tokens",
		"audit_tokens",
	}, names)
}

func TestIntegration_ResolveShape(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	args := map[string]any{
		"surface":       "bright_solid",
		"hierarchy":     "primary",
		"high_priority": true,
		"input":         "sw",
		"size":          "large",
		"state":         "default",
	}
	result := callTool(t, c, "resolve_shape", args)
	require.False(t, result.IsError, resultText(t, result))

	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	assert.Equal(t, "high", resp["effective_hierarchy"])
	shape := resp["shape"].(map[string]any)
	assert.Equal(t, float64(50), shape["font_size"])

	t.Run("invalid intent", func(t *testing.T) {
		args["intent"] = "celebratory"
		result := callTool(t, c, "resolve_shape", args)
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "invalid intent")
	})
}

func TestIntegration_AuditTokens(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	result := callTool(t, c, "audit_tokens", nil)
	require.False(t, result.IsError)

	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	assert.Equal(t, true, resp["ok"])
	report := resp["report"].(map[string]any)
	assert.Equal(t, "embedded", report["source"])
	assert.NotContains(t, report, "missing")
}

func TestIntegration_CallLog(t *testing.T) {
	skipIfNotIntegration(t)
	logPath := filepath.Join(t.TempDir(), "calls.jsonl")
	c := startServer(t, "--log-file", logPath)

	callTool(t, c, "surface_background", map[string]any{"surface": "dark_solid"})
	require.NoError(t, c.Close())

	assert.Eventually(t, func() bool {
		data, err := os.ReadFile(logPath)
		return err == nil && len(data) > 0
	}, 5*time.Second, 50*time.Millisecond)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(data[:len(data)-1], &entry))
	assert.Equal(t, "surface_background", entry["tool"])
}
