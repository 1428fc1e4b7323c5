package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"resume-ats/internal/shared/telemetry"
)

var (
	version = "dev" // Overwritten at build time
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	rootCmd := &cobra.Command{
		Use:   "atsctl",
		Short: "Análise de currículos para sistemas ATS",
		Long: `atsctl extrai o texto de currículos em PDF, solicita uma análise de
compatibilidade ATS ao modelo configurado e exibe o relatório no terminal.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var w io.Writer = io.Discard
			if verbose {
				w = cmd.ErrOrStderr()
			}
			telemetry.SetOutput(w)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print structured logs to stderr")

	rootCmd.AddCommand(
		newExtractCmd(),
		newAnalyzeCmd(),
		newParseCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "atsctl version %s\n", version)
		},
	}
}
