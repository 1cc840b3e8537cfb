// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package cmd implements the molview commands.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gviegas/molview/config"
	"github.com/gviegas/molview/globals"
)

type rootFlags struct {
	config    string
	debug     bool
	query     string
	userAgent string
	strict    bool
	logLevel  string
	logFormat string
}

// app holds the state shared by the subcommands.
type app struct {
	flags rootFlags
	g     *globals.Globals
}

// NewRootCmd creates the molview command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "molview",
		Short: "Instanced molecular geometry builder",
		Long: `molview builds cone and cylinder instance buffers from
instance data (JSON, YAML or TOML, optionally gzip or zstd
compressed) and exports them as glTF.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	f := root.PersistentFlags()
	f.StringVar(&a.flags.config, "config", "", "config file (.toml, .yaml)")
	f.BoolVar(&a.flags.debug, "debug", false, "enable debug mode")
	f.StringVar(&a.flags.query, "query", "", "URL query parameters (e.g. debug=1)")
	f.StringVar(&a.flags.userAgent, "user-agent", "", "user agent used for browser detection")
	f.BoolVar(&a.flags.strict, "strict", false, "reject duplicate registrations")
	f.StringVar(&a.flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	f.StringVar(&a.flags.logFormat, "log-format", "", "log format (text, json)")

	root.AddCommand(
		newBuildCmd(a),
		newRegistryCmd(a),
		newCapsCmd(a),
		newShaderCmd(a),
	)
	return root
}

// Execute runs the command tree with the process arguments.
func Execute() error {
	return NewRootCmd().Execute()
}

// setup creates the globals context from the configuration
// file, if any, and the persistent flags, which take
// precedence.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if a.flags.config != "" {
		var err error
		if cfg, err = config.Load(a.flags.config); err != nil {
			return err
		}
	}
	fs := cmd.Flags()
	if fs.Changed("debug") {
		cfg.Debug = a.flags.debug
	}
	if fs.Changed("query") {
		cfg.Query = a.flags.query
	}
	if fs.Changed("user-agent") {
		cfg.UserAgent = a.flags.userAgent
	}
	if fs.Changed("strict") {
		cfg.StrictRegistries = a.flags.strict
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = a.flags.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Log.Format = a.flags.logFormat
	}
	g, err := globals.New(cfg, globals.Output(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	a.g = g
	return nil
}
