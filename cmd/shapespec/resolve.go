package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gnana997/shapespec/pkg/preview"
	"github.com/gnana997/shapespec/pkg/style"
)

// requestFlags binds the request fields to command flags.
type requestFlags struct {
	surface      string
	hierarchy    string
	highPriority bool
	input        string
	size         string
	state        string
	intent       string
}

func (f *requestFlags) bindPalette(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.surface, "surface", string(style.SurfaceBrightSolid), "Surface: bright_solid, dark_solid, dark_dynamic, bright_dynamic")
	cmd.Flags().StringVar(&f.hierarchy, "hierarchy", string(style.HierarchyPrimary), "Hierarchy: high, primary, secondary, tertiary")
	cmd.Flags().BoolVar(&f.highPriority, "high-priority", false, "Escalate a primary control to the high tier")
}

func (f *requestFlags) bind(cmd *cobra.Command) {
	f.bindPalette(cmd)
	cmd.Flags().StringVar(&f.input, "input", string(style.InputSoftware), "Input modality: sw, hw")
	cmd.Flags().StringVar(&f.size, "size", string(style.SizeMedium), "Size: large, medium, small")
	cmd.Flags().StringVar(&f.state, "state", string(style.StateDefault), "State: default, hover, pressed, disabled")
	cmd.Flags().StringVar(&f.intent, "intent", string(style.IntentNeutral), "Intent: neutral, additive, destructive")
}

func (f *requestFlags) request() (style.Request, error) {
	return style.ParseRequest(f.surface, f.hierarchy, f.highPriority, f.input, f.size, f.state, f.intent)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newResolveCmd(a *app) *cobra.Command {
	var f requestFlags
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve one button configuration to its shape record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request()
			if err != nil {
				return err
			}
			c, err := a.loadContext()
			if err != nil {
				return err
			}
			token, err := c.Resolve(req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), token)
		},
	}
	f.bind(cmd)
	return cmd
}

func newPaletteCmd(a *app) *cobra.Command {
	var (
		f      requestFlags
		swatch bool
	)
	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Show every color channel for a surface and hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			surface, err := style.ParseSurface(f.surface)
			if err != nil {
				return err
			}
			hierarchy, err := style.ParseHierarchy(f.hierarchy)
			if err != nil {
				return err
			}
			c, err := a.loadContext()
			if err != nil {
				return err
			}
			palette, err := c.ResolvePalette(surface, hierarchy, f.highPriority)
			if err != nil {
				return err
			}
			if swatch {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), preview.RenderPalette(palette))
				return err
			}
			return writeJSON(cmd.OutOrStdout(), palette)
		},
	}
	f.bindPalette(cmd)
	cmd.Flags().BoolVar(&swatch, "swatch", false, "Draw color swatches instead of JSON")
	return cmd
}

func newPreviewCmd(a *app) *cobra.Command {
	var (
		f     requestFlags
		label string
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Draw a resolved button in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request()
			if err != nil {
				return err
			}
			c, err := a.loadContext()
			if err != nil {
				return err
			}
			token, err := c.Resolve(req)
			if err != nil {
				return err
			}
			bg, err := c.SurfaceBackground(req.Surface)
			if err != nil {
				return err
			}
			a.logger.Debug("rendering preview", "surface_bg", bg, "effective_hierarchy", req.EffectiveHierarchy())
			_, err = fmt.Fprintln(cmd.OutOrStdout(), preview.RenderOnSurface(token, label, bg))
			return err
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&label, "label", preview.DefaultLabel, "Button label")
	return cmd
}
