// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ManuGH/mkvcaps/internal/mediatype"
	"github.com/ManuGH/mkvcaps/internal/metrics"
	"github.com/ManuGH/mkvcaps/internal/support"
)

// parseTypeArgs joins the arguments so an unquoted `type; codecs=...`
// split by the shell still parses, then appends --codecs.
func parseTypeArgs(args []string, codecs []string) (mediatype.ContainerType, error) {
	ct, err := mediatype.Parse(strings.Join(args, " "))
	if err != nil {
		return ct, &exitCodeError{code: exitError, err: err}
	}
	for _, c := range codecs {
		ct.Codecs = append(ct.Codecs, mediatype.SplitCodecs(c)...)
	}
	return ct, nil
}

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var (
		codecs  []string
		asJSON  bool
		noAV1   bool
		noMKV   bool
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "check <mime-type>",
		Short: "Check whether a container type is playable",
		Long: `Check resolves the declared container type against the configured
capability backend and prints the canPlayType answer ("", "maybe" or "probably").

Exit status is 0 when supported, 1 when not supported and 2 on errors.`,
		Example: `  mkvcaps check 'video/x-matroska; codecs="vp09.00.10.08, opus"'
  mkvcaps check video/mkv --codecs vp8,vorbis`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if noMKV {
				cfg.Features.Matroska = false
			}
			if noAV1 {
				cfg.Features.AV1 = false
			}

			ct, err := parseTypeArgs(args, codecs)
			if err != nil {
				return err
			}
			resolver, _ := buildResolver(cfg)
			v, err := resolver.Resolve(cmd.Context(), ct)
			if err != nil {
				return &exitCodeError{code: exitError, err: err}
			}
			metrics.RecordSupportDecision("cli", ct.Type, v.Supported, string(v.Reason))

			out := cmd.OutOrStdout()
			answer := support.CanPlayAnswer(v, ct)
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(checkOutput{CanPlay: answer, VerdictSummary: v.Summary()}); err != nil {
					return &exitCodeError{code: exitError, err: err}
				}
			} else {
				fmt.Fprintf(out, "%q\n", answer)
				if verbose {
					printVerdict(cmd, v)
				}
			}

			if !v.Supported {
				return &exitCodeError{code: exitUnsupported}
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&codecs, "codecs", nil, "additional codec tokens (comma separated)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the verdict as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print reason and tracks")
	cmd.Flags().BoolVar(&noMKV, "disable-matroska", false, "treat the Matroska container as disabled")
	cmd.Flags().BoolVar(&noAV1, "disable-av1", false, "do not recognise AV1 codec strings")
	return cmd
}

type checkOutput struct {
	CanPlay string `json:"canPlay"`
	support.VerdictSummary
}

func printVerdict(cmd *cobra.Command, v support.Verdict) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "reason: %s\n", v.Reason)
	for i, t := range v.Tracks {
		fmt.Fprintf(out, "track %d: %s\n", i, t.MIMEType)
	}
	if v.Rejected != nil {
		fmt.Fprintf(out, "rejected: %s\n", v.Rejected.MIMEType)
	}
	if v.ClassifyErr != nil {
		fmt.Fprintf(out, "classify: %v\n", v.ClassifyErr)
	}
}

func newTracksCmd(opts *rootOptions) *cobra.Command {
	var codecs []string
	cmd := &cobra.Command{
		Use:   "tracks <mime-type>",
		Short: "Print the tracks a container type declares",
		Long: `Tracks classifies each codec token and prints the resulting track
descriptors as JSON. Unknown tokens are reported on stderr and the
command exits 1.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			ct, err := parseTypeArgs(args, codecs)
			if err != nil {
				return err
			}

			resolver, _ := buildResolver(cfg)
			tracks, cerr := resolver.Classifier().GetTracksInfo(ct)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(nonNil(tracks)); err != nil {
				return &exitCodeError{code: exitError, err: err}
			}
			if cerr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", cerr)
				return &exitCodeError{code: exitUnsupported}
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&codecs, "codecs", nil, "additional codec tokens (comma separated)")
	return cmd
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
