// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ManuGH/mkvcaps/internal/capability"
	"github.com/ManuGH/mkvcaps/internal/config"
	xglog "github.com/ManuGH/mkvcaps/internal/log"
)

func newDecodersCmd(opts *rootOptions) *cobra.Command {
	var (
		probe bool
		all   bool
	)
	cmd := &cobra.Command{
		Use:   "decoders",
		Short: "List the decoder MIME types the capability backend knows",
		Long: `Decoders prints one line per decoder MIME type. With the ffmpeg or any
backend (or --probe) the local ffmpeg binary is probed and the decoder
names serving each MIME type are listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if cfg.Oracle.Backend == config.BackendStatic && !probe {
				mimes := capability.NewStatic(cfg.Oracle.StaticRules()).MIMETypes()
				sort.Strings(mimes)
				for _, m := range mimes {
					fmt.Fprintln(out, m)
				}
				return nil
			}

			ffmpeg := capability.NewFFmpeg(cfg.Oracle.FFmpegBin, cfg.Oracle.ProbeTimeout,
				capability.WithLogger(xglog.WithComponent("capability")))
			decoders, err := ffmpeg.Decoders(cmd.Context())
			if err != nil {
				return &exitCodeError{code: exitError, err: err}
			}

			byMIME := map[string][]string{}
			for _, d := range decoders {
				m := d.MIMEType()
				if m == "" {
					if !all {
						continue
					}
					m = "(" + d.Codec + ")"
				}
				byMIME[m] = append(byMIME[m], d.Name)
			}
			keys := make([]string, 0, len(byMIME))
			for k := range byMIME {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				names := byMIME[k]
				sort.Strings(names)
				fmt.Fprintf(out, "%s\t%s\n", k, strings.Join(names, ","))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&probe, "probe", false, "probe ffmpeg even when the static backend is configured")
	cmd.Flags().BoolVar(&all, "all", false, "include decoders without a known MIME type")
	return cmd
}
