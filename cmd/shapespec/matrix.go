package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/shapespec/pkg/shape"
	"github.com/gnana997/shapespec/pkg/style"
)

type matrixFailure struct {
	Request style.Request `json:"request"`
	Error   string        `json:"error"`
}

type matrixEntry struct {
	Request style.Request    `json:"request"`
	Shape   shape.ShapeToken `json:"shape"`
}

type matrixSummary struct {
	Total    int             `json:"total"`
	Resolved int             `json:"resolved"`
	Failed   int             `json:"failed"`
	Failures []matrixFailure `json:"failures,omitempty"`
	Results  []matrixEntry   `json:"results,omitempty"`
}

func newMatrixCmd(a *app) *cobra.Command {
	var (
		workers int
		full    bool
	)
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Resolve every request combination and report failures",
		Long: `Resolves the full cross product of surface, hierarchy, high priority, input,
size, state and intent against the loaded tables. Exits non-zero if any
combination fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadContext()
			if err != nil {
				return err
			}

			reqs := shape.AllRequests()
			results, failures, err := shape.ResolveAll(cmd.Context(), c, reqs, workers, a.logger)
			if err != nil {
				return err
			}

			summary := matrixSummary{
				Total:    len(reqs),
				Resolved: len(results),
				Failed:   len(failures),
			}
			for _, f := range failures {
				summary.Failures = append(summary.Failures, matrixFailure{Request: f.Request, Error: f.Err.Error()})
			}
			if full {
				for _, r := range results {
					summary.Results = append(summary.Results, matrixEntry{Request: r.Request, Shape: r.Token})
				}
			}
			if err := writeJSON(cmd.OutOrStdout(), summary); err != nil {
				return err
			}

			if len(failures) > 0 {
				return fmt.Errorf("%d of %d requests failed", len(failures), len(reqs))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker count (default: based on CPU count)")
	cmd.Flags().BoolVar(&full, "full", false, "Include every resolved record in the output")
	return cmd
}
