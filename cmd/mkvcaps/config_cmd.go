// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ManuGH/mkvcaps/internal/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Validate, dump or create configuration files",
	}
	cmd.AddCommand(newConfigValidateCmd(opts), newConfigDumpCmd(opts), newConfigInitCmd(opts))
	return cmd
}

func requireConfigPath(opts *rootOptions) (string, error) {
	path := strings.TrimSpace(opts.configPath)
	if path == "" {
		return "", &exitCodeError{code: exitError, err: errors.New("--config is required")}
	}
	return path, nil
}

func newConfigValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := requireConfigPath(opts)
			if err != nil {
				return err
			}
			if _, err := config.NewLoader(path, version).Load(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Configuration error in %s:\n  %v\n", path, err)
				return &exitCodeError{code: exitUnsupported}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", path)
			return nil
		},
	}
}

func newConfigDumpCmd(opts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration (defaults + file + env)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewLoader(strings.TrimSpace(opts.configPath), version).Load()
			if err != nil {
				return &exitCodeError{code: exitUnsupported, err: err}
			}
			fc := config.ToFileConfig(cfg)

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(fc)
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				defer func() { _ = enc.Close() }()
				return enc.Encode(fc)
			default:
				return &exitCodeError{code: exitError, err: fmt.Errorf("unsupported format %q (yaml|json)", format)}
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or json")
	return cmd
}

func newConfigInitCmd(opts *rootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := requireConfigPath(opts)
			if err != nil {
				return err
			}
			if err := config.WriteDefault(path, force); err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					return &exitCodeError{code: exitUnsupported, err: fmt.Errorf("%w (use --force to overwrite)", err)}
				}
				return &exitCodeError{code: exitError, err: err}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
