package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/powerplan/core/dispatch"
	"github.com/kilianp07/powerplan/core/model"
	"github.com/kilianp07/powerplan/pkg/export"
)

var (
	planFile    string
	planFormat  string
	planVerbose bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute a production plan from a payload file and print it",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planFile, "file", "f", "-", "payload file, - reads stdin")
	planCmd.Flags().StringVar(&planFormat, "format", export.FormatJSON, "output format: json or csv")
	planCmd.Flags().BoolVar(&planVerbose, "verbose", false, "print the plan cost and the costed plants as JSON")
	rootCmd.AddCommand(planCmd)
}

type planSummary struct {
	Plan      model.Plan             `json:"plan"`
	TotalCost float64                `json:"total_cost"`
	Fallback  bool                   `json:"fallback"`
	Plants    []dispatch.CostedPlant `json:"plants"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	req, err := readPayload(cmd.InOrStdin(), planFile)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if d := cfg.Dispatch.ComputeTimeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	res, err := dispatch.Compute(ctx, req.PowerPlants, req.Fuels, req.Load, cfg.Dispatch.Options())
	if err != nil {
		return err
	}

	if planVerbose {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(planSummary{Plan: res.Plan, TotalCost: res.TotalCost, Fallback: res.Fallback, Plants: res.Plants})
	}
	return export.Write(cmd.OutOrStdout(), planFormat, res.Plan)
}

func readPayload(stdin io.Reader, path string) (model.Payload, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return model.Payload{}, fmt.Errorf("open payload: %w", err)
		}
		defer f.Close()
		r = f
	}
	var req model.Payload
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return model.Payload{}, fmt.Errorf("decode payload: %w", err)
	}
	return req, nil
}
