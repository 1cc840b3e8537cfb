// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gviegas/molview/shader"
)

type lister interface {
	Name() string
	Names() []string
}

func newRegistryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "registry [name]",
		Short: "List registered implementations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := a.g
			regs := []lister{
				g.Colormaker,
				g.Component,
				g.Datasource,
				g.Decompressor,
				g.Parser,
				g.Representation,
				g.Shader,
				g.Worker,
			}
			w := cmd.OutOrStdout()
			found := false
			for _, r := range regs {
				if len(args) > 0 && args[0] != r.Name() {
					continue
				}
				found = true
				fmt.Fprintf(w, "%s: %s\n", r.Name(), strings.Join(r.Names(), " "))
			}
			if !found {
				return fmt.Errorf("unknown registry %q", args[0])
			}
			return nil
		},
	}
}

func newCapsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "caps",
		Short: "Print capability flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g := a.g
			browser := g.Browser()
			if browser == "" {
				browser = "none"
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "context                  %s\n", g.ID)
			fmt.Fprintf(w, "browser                  %s\n", browser)
			fmt.Fprintf(w, "mobile                   %t\n", g.Mobile())
			fmt.Fprintf(w, "supportsReadPixelsFloat  %t\n", g.SupportsReadPixelsFloat())
			fmt.Fprintf(w, "extensionFragDepth       %t\n", g.ExtensionFragDepth())
			fmt.Fprintf(w, "debug                    %t\n", g.Debug())
			return nil
		},
	}
}

func newShaderCmd(a *app) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "shader <key>",
		Short: "Print a registered shader with its includes resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src string
			if raw {
				var ok bool
				if src, ok = a.g.Shader.Get(args[0]); !ok {
					return fmt.Errorf("shader %q not registered", args[0])
				}
			} else {
				var err error
				if src, err = shader.Source(a.g.Shader, args[0]); err != nil {
					return err
				}
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), src)
			return err
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "do not resolve #include directives")
	return cmd
}
