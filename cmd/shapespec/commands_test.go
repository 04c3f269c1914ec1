package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/shapespec/catalogs"
	"github.com/gnana997/shapespec/pkg/shape"
	"github.com/gnana997/shapespec/pkg/style"
)

// run executes the root command in-process with no project config.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.yaml")}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestVersionCmd(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "shapespec version "+version+"\n", out)
}

func TestResolveCmd(t *testing.T) {
	out, _, err := run(t, "resolve",
		"--surface", "dark_solid",
		"--hierarchy", "primary",
		"--high-priority",
		"--input", "hw",
		"--size", "small",
		"--state", "hover")
	require.NoError(t, err)

	var got shape.ShapeToken
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	c, err := shape.DefaultContext()
	require.NoError(t, err)
	want, err := c.Resolve(style.Request{
		Surface:      style.SurfaceDarkSolid,
		Hierarchy:    style.HierarchyPrimary,
		HighPriority: true,
		Input:        style.InputHardware,
		Size:         style.SizeSmall,
		State:        style.StateHover,
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveCmd_InvalidIntent(t *testing.T) {
	out, _, err := run(t, "resolve", "--intent", "celebratory")
	require.Error(t, err)
	assert.ErrorIs(t, err, style.ErrInvalidIntent)
	assert.Empty(t, out)
}

func TestResolveCmd_UnknownSurface(t *testing.T) {
	_, _, err := run(t, "resolve", "--surface", "neon")
	require.Error(t, err)
	assert.ErrorIs(t, err, style.ErrInvalidRequest)
}

func TestResolveCmd_MissingTokenFile(t *testing.T) {
	_, _, err := run(t, "--tokens", filepath.Join(t.TempDir(), "absent.json"), "resolve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read token file")
}

func TestResolveCmd_DimensionsOverride(t *testing.T) {
	dims := writeFile(t, t.TempDir(), "dims.yaml", `large:
  fontSize: 60
  radius: 10
  paddingX: 40
  paddingY: 20
  paddingBottom: 16
medium:
  fontSize: 40
  radius: 8
  paddingX: 32
  paddingY: 16
  paddingBottom: 12
small:
  fontSize: 28
  radius: 6
  paddingX: 24
  paddingY: 12
  paddingBottom: 8
`)
	out, _, err := run(t, "--dimensions", dims, "resolve", "--size", "medium")
	require.NoError(t, err)

	var got shape.ShapeToken
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 40, got.FontSize)
	assert.Equal(t, 32, got.PaddingX)
}

func TestPaletteCmd(t *testing.T) {
	out, _, err := run(t, "palette", "--surface", "bright_dynamic", "--hierarchy", "tertiary")
	require.NoError(t, err)

	var got shape.Palette
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	c, err := shape.DefaultContext()
	require.NoError(t, err)
	want, err := c.ResolvePalette(style.SurfaceBrightDynamic, style.HierarchyTertiary, false)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPaletteCmd_Swatch(t *testing.T) {
	out, _, err := run(t, "palette", "--swatch")
	require.NoError(t, err)
	assert.Contains(t, out, "bg default")
	assert.Contains(t, out, "label disabled")
}

func TestPreviewCmd(t *testing.T) {
	out, _, err := run(t, "preview", "--label", "Continue", "--size", "small")
	require.NoError(t, err)
	assert.Contains(t, out, "Continue")
}

func TestMatrixCmd(t *testing.T) {
	out, _, err := run(t, "matrix", "--workers", "4")
	require.NoError(t, err)

	var summary matrixSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 2304, summary.Total)
	assert.Equal(t, 2304, summary.Resolved)
	assert.Equal(t, 0, summary.Failed)
	assert.Empty(t, summary.Results)
}

func TestMatrixCmd_ReportsFailures(t *testing.T) {
	tokens := writeFile(t, t.TempDir(), "tokens.json",
		`{"variableCollection": {"bgL1": {"brightSolid": "#FFFFFF", "darkSolid": "#000000", "darkDynamic": "#101010", "brightDynamic": "#F0F0F0"}}}`)

	out, _, err := run(t, "--tokens", tokens, "matrix")
	require.Error(t, err)

	var summary matrixSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 2304, summary.Failed)
	assert.Equal(t, 0, summary.Resolved)
	require.NotEmpty(t, summary.Failures)
	assert.Contains(t, summary.Failures[0].Error, "missing token")
}

func TestAuditCmd_Embedded(t *testing.T) {
	out, _, err := run(t, "audit")
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "embedded")
}

func TestAuditCmd_Files(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "design/button-tokens.json", string(catalogs.ButtonTokensJSON))
	bad := writeFile(t, dir, "legacy/old-tokens.json",
		`{"variableCollection": {"bgL1": {"brightSolid": "#FFFFFF", "darkSolid": "#000000", "darkDynamic": "#101010", "brightDynamic": "#F0F0F0"}}}`)
	writeFile(t, dir, "node_modules/pkg/tokens.json", "not json")

	out, _, err := run(t, "audit", "--root", dir, "--json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 exports failed")

	var reports []jsonReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 2)

	byPath := map[string]jsonReport{}
	for _, r := range reports {
		byPath[r.Path] = r
	}
	assert.True(t, byPath[good].OK)
	assert.False(t, byPath[bad].OK)
	require.NotNil(t, byPath[bad].Report)
	assert.NotEmpty(t, byPath[bad].Report.Missing)
}

func TestAuditCmd_Unreadable(t *testing.T) {
	bad := writeFile(t, t.TempDir(), "tokens.json", "{")

	out, _, err := run(t, "audit", bad)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL "+bad)
}
