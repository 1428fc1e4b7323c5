package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"resume-ats/internal/analyses"
	"resume-ats/internal/bootstrap"
	"resume-ats/internal/extract"
	"resume-ats/internal/llm"
	"resume-ats/internal/parser"
	"resume-ats/internal/report"
	"resume-ats/internal/shared/config"
)

func newExtractCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Print the text extracted from a résumé",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}
			extractor := bootstrap.BuildExtractor(config.Load())
			doc, err := extractor.Extract(cmd.Context(), data, mimeFromExt(args[0]), filepath.Base(args[0]))
			if err != nil {
				return fmt.Errorf("%s (%w)", extract.UserMessage(err), err)
			}
			if output == report.FormatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(doc)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), doc.Text)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text, json)")
	return cmd
}

type analyzeOptions struct {
	industry           string
	level              string
	jobDescriptionFile string
	provider           string
	model              string
	output             string
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Analyze a résumé for ATS compatibility",
		Long: `Extract the résumé text, send it to the configured model and render the report.

Examples:
  # Analyze for a technology position
  atsctl analyze curriculo.pdf --industry TI --level PLENO

  # Compare against a job posting and print JSON
  atsctl analyze curriculo.pdf --job-description-file vaga.txt -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.industry, "industry", "GERAL", "Area: GERAL, TI, SAUDE, VENDAS, ADMINISTRATIVO, ENGENHARIA")
	cmd.Flags().StringVar(&opts.level, "level", "PLENO", "Experience level: ESTAGIO, JUNIOR, PLENO, SENIOR")
	cmd.Flags().StringVar(&opts.jobDescriptionFile, "job-description-file", "", "File with the job description (optional)")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "LLM provider (deepseek, openai, gemini)")
	cmd.Flags().StringVar(&opts.model, "model", "", "LLM model")
	cmd.Flags().StringVarP(&opts.output, "output", "o", report.FormatHuman, "Output format (human, json, yaml)")
	return cmd
}

func runAnalyze(cmd *cobra.Command, path string, opts *analyzeOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := loadConfig(opts.provider)
	if opts.model != "" {
		cfg.LLMModel = opts.model
	}

	req := analyses.Request{Industry: opts.industry, ExperienceLevel: opts.level}
	if opts.jobDescriptionFile != "" {
		jd, err := os.ReadFile(opts.jobDescriptionFile)
		if err != nil {
			return fmt.Errorf("read job description: %w", err)
		}
		req.JobDescription = strings.TrimSpace(string(jd))
	}

	client, model, err := bootstrap.BuildLLM(ctx, cfg)
	if err != nil {
		return err
	}
	svc := analyses.NewService(client, bootstrap.BuildExtractor(cfg), cfg.LLMProvider, model)

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
	s.Suffix = " Lendo o arquivo..."
	s.Start()
	data, err := os.ReadFile(path)
	if err != nil {
		s.Stop()
		return fmt.Errorf("read file: %w", err)
	}
	doc, err := svc.Extract(ctx, data, mimeFromExt(path), filepath.Base(path))
	s.Stop()
	if err != nil {
		return fmt.Errorf("%s (%w)", extract.UserMessage(err), err)
	}
	printSuccess(cmd.ErrOrStderr(), fmt.Sprintf("Texto extraído: %d páginas, %d caracteres", doc.Pages, doc.Characters))

	req.Text = llm.Truncate(doc.Text, analyses.MaxTextChars)

	s.Suffix = " Análise em andamento..."
	s.Start()
	result, err := svc.Analyze(ctx, req)
	s.Stop()
	if err != nil {
		return describeError(err)
	}
	printSuccess(cmd.ErrOrStderr(), fmt.Sprintf("Análise concluída em %dms (%s)", result.Metadata.ProcessingTime, result.Metadata.Model))
	if result.Metadata.Fallback {
		printWarning(cmd.ErrOrStderr(), "A resposta do modelo não seguiu o formato esperado; exibindo análise padrão")
	}
	return report.Render(cmd.OutOrStdout(), result.Report, opts.output)
}

func newParseCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Parse a saved model reply and render the report",
		Long:  "Parse a raw ATS report saved from a previous analysis. Use - to read from stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read reply: %w", err)
			}

			body := parser.Body(string(raw))
			structured, cause := parser.SafeParse(parser.Markers{}, body)
			if cause != nil {
				printWarning(cmd.ErrOrStderr(), fmt.Sprintf("Resposta fora do formato esperado: %v", cause))
			}
			return report.Render(cmd.OutOrStdout(), report.Build(structured, cause != nil), output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", report.FormatHuman, "Output format (human, json, yaml)")
	return cmd
}

// loadConfig reads the environment, with provider overriding LLM_PROVIDER so the
// matching API key variable is picked up.
func loadConfig(provider string) config.Config {
	cfg := config.Load()
	if provider == "" {
		return cfg
	}
	return config.FromEnv(func(key string) string {
		if key == "LLM_PROVIDER" {
			return provider
		}
		return os.Getenv(key)
	})
}

func describeError(err error) error {
	var verr *analyses.ValidationError
	if errors.As(err, &verr) {
		msgs := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			msgs = append(msgs, f.Message)
		}
		return fmt.Errorf("dados inválidos: %s", strings.Join(msgs, "; "))
	}
	return fmt.Errorf("erro na análise do currículo: %w", err)
}

func mimeFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extract.MimePDF
	case ".txt", ".md":
		return "text/plain"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return ""
	}
}

func printSuccess(w io.Writer, msg string) {
	green := color.New(color.FgGreen)
	green.Fprintf(w, "✓ %s\n", msg)
}

func printWarning(w io.Writer, msg string) {
	yellow := color.New(color.FgYellow)
	yellow.Fprintf(w, "! %s\n", msg)
}
