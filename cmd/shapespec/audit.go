package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gnana997/shapespec/pkg/audit"
	"github.com/gnana997/shapespec/pkg/semantic"
	"github.com/gnana997/shapespec/pkg/tokenstore"
	"github.com/gnana997/shapespec/pkg/util"
)

func newAuditCmd(a *app) *cobra.Command {
	var (
		root     string
		includes []string
		excludes []string
		asJSON   bool
		workers  int
	)
	cmd := &cobra.Command{
		Use:   "audit [export.json ...]",
		Short: "Check token exports against the button token map",
		Long: `Reports token names the button map references but an export lacks, colors
that do not parse, and label/background pairs below WCAG AA contrast.

With no arguments and no --root, audits the configured export (or the
embedded one). Exits non-zero if any export is missing tokens, has invalid
colors, or cannot be read. Contrast findings are warnings only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			paths := args
			if root != "" {
				found, err := audit.DiscoverExports(root, includes, excludes)
				if err != nil {
					return err
				}
				paths = append(paths, found...)
			}

			var reports []audit.FileReport
			if len(paths) == 0 {
				reports = []audit.FileReport{a.auditConfigured()}
			} else {
				files := util.NewFileCache(&util.FileCacheConfig{Logger: a.logger})
				defer files.Close()
				scanner := audit.NewScanner(semantic.Standard(), files, audit.ScannerConfig{
					Workers: workers,
					Logger:  a.logger,
				})
				reports = scanner.ScanFiles(cmd.Context(), paths)
			}

			if asJSON {
				if err := writeJSON(out, jsonReports(reports)); err != nil {
					return err
				}
			} else {
				printReports(out, reports)
			}

			failed := 0
			for _, r := range reports {
				if !r.OK() {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d exports failed the audit", failed, len(reports))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "Discover exports under this directory")
	cmd.Flags().StringSliceVar(&includes, "include", audit.DefaultIncludes, "Glob patterns for exports under --root")
	cmd.Flags().StringSliceVar(&excludes, "exclude", audit.DefaultExcludes, "Glob patterns to skip under --root")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print reports as JSON")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent file audits (default: based on CPU count)")
	return cmd
}

func (a *app) auditConfigured() audit.FileReport {
	var (
		store *tokenstore.Store
		err   error
	)
	if a.settings.TokensPath == "" {
		store, err = tokenstore.Default()
	} else {
		store, err = tokenstore.LoadFromFile(a.settings.TokensPath)
	}
	if err != nil {
		return audit.FileReport{Path: a.settings.TokensPath, Err: err}
	}
	return audit.FileReport{Path: store.Source(), Report: audit.Run(store, semantic.Standard())}
}

type jsonReport struct {
	Path   string        `json:"path"`
	OK     bool          `json:"ok"`
	Error  string        `json:"error,omitempty"`
	Report *audit.Report `json:"report,omitempty"`
}

func jsonReports(reports []audit.FileReport) []jsonReport {
	out := make([]jsonReport, len(reports))
	for i, r := range reports {
		out[i] = jsonReport{Path: r.Path, OK: r.OK()}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
			continue
		}
		report := r.Report
		out[i].Report = &report
	}
	return out
}

func printReports(w io.Writer, reports []audit.FileReport) {
	for _, r := range reports {
		if r.Err != nil {
			fmt.Fprintf(w, "FAIL %s: %v\n", r.Path, r.Err)
			continue
		}
		status := "ok  "
		if !r.OK() {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%s %s\n", status, r.Report.Summary())
		for _, m := range r.Report.Missing {
			if len(m.ReferencedBy) == 0 {
				fmt.Fprintf(w, "  missing %s (surface background)\n", m.Name)
				continue
			}
			for _, ref := range m.ReferencedBy {
				fmt.Fprintf(w, "  missing %s (%s %s)\n", m.Name, ref.Hierarchy, ref.Part)
			}
		}
		for _, ic := range r.Report.InvalidColors {
			fmt.Fprintf(w, "  invalid color %s.%s = %q\n", ic.Token, tokenstore.ModeKey(ic.Surface), ic.Value)
		}
		for _, lc := range r.Report.LowContrast {
			fmt.Fprintf(w, "  warning: %s/%s/%s label %s on %s contrast %.2f\n",
				lc.Hierarchy, lc.Surface, lc.State, lc.Label, lc.Background, lc.Ratio)
		}
	}
}
