package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xonecas/mermedit/internal/constants"
)

type flags struct {
	configPath string
	addr       string
	noPreview  bool
	logFile    string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:   constants.AppName + " [file]",
		Short: "Terminal editor for Mermaid diagrams with a live browser preview",
		Long: `mermedit edits a Mermaid diagram in the terminal and renders it on every
change. The rendered SVG is pushed to a local page with pan and zoom.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), f, args)
		},
	}

	pf := root.Flags()
	pf.StringVar(&f.configPath, "config", "", "config file (default ~/.config/mermedit/config.toml)")
	pf.StringVar(&f.addr, "addr", "", "preview server listen address")
	pf.BoolVar(&f.noPreview, "no-preview", false, "disable the browser preview server")
	pf.StringVar(&f.logFile, "log-file", "", "log file (default ~/.config/mermedit/mermedit.log)")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of mermedit",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", constants.AppName, constants.Version)
		},
	}
}
