package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/2beens/fitnesstracking/internal/analytics"
	"github.com/2beens/fitnesstracking/internal/client"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatCSV  = "csv"
)

type rootOptions struct {
	addr    string
	timeout time.Duration
	output  string
}

func (o *rootOptions) client() *client.Client {
	return client.New(o.addr, o.timeout)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "fitnessctl",
		Short:         "Query workout analytics from the fitness tracking service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.addr, "addr", "http://localhost:9000", "fitness service base URL")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", formatJSON, "output format [json | yaml]")

	root.AddCommand(
		newAnalyticsCmd(opts),
		newFeaturesCmd(opts),
		newExportCmd(opts),
	)

	return root
}

func newAnalyticsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics <userId>",
		Short: "Show the analytics report of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}

			report, err := opts.client().Analytics(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, report)
		},
	}
}

func newFeaturesCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "features <userId>",
		Short: "Show the feature vectors of a user's workouts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}

			vectors, err := opts.client().Features(cmd.Context(), userID)
			if err != nil {
				return err
			}

			if format == "" {
				format = opts.output
			}
			if format == formatCSV {
				return analytics.WriteFeaturesCSV(cmd.OutOrStdout(), vectors)
			}
			return render(cmd.OutOrStdout(), format, vectors)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "output format [json | yaml | csv], defaults to --output")

	return cmd
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <userId>",
		Short: "Export a user's feature set as CSV to object storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}

			exported, err := opts.client().Export(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, exported)
		},
	}
}

func parseUserID(arg string) (int, error) {
	userID, err := strconv.Atoi(arg)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("invalid user id: %s", arg)
	}
	return userID, nil
}

func render(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
