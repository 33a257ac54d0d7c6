package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/offerlab/internal/config"
	"github.com/cleared-dev/offerlab/internal/importer"
	"github.com/cleared-dev/offerlab/internal/present"
	"github.com/cleared-dev/offerlab/internal/underwrite"
)

func newAnalyzeCommand() *cobra.Command {
	var format, configPath, output string

	cmd := &cobra.Command{
		Use:   "analyze <file|glob>...",
		Short: "Underwrite statement exports and print the report",
		Long: `Underwrite one account from one or more statement exports. Transactions from
every file are combined before analysis; quote glob patterns such as
'statements/**/*.csv' so the shell does not expand them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.OutOrStdout(), cmd.ErrOrStderr(), args, format, configPath, output)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "input format: chase or json (default: from file extension)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: ./offerlab.yaml if present)")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output: json (full report) or csv (monthly table)")

	return cmd
}

func runAnalyze(out, errOut io.Writer, args []string, format, configPath, output string) error {
	if output != "json" && output != "csv" {
		return fmt.Errorf("unknown output %q (want json or csv)", output)
	}

	opts, err := loadOptions(configPath)
	if err != nil {
		return err
	}

	paths, err := importer.ExpandPaths(args)
	if err != nil {
		return err
	}
	txns, err := importer.DefaultRegistry().ParseFiles(paths, format)
	if err != nil {
		return err
	}
	slog.Info("imported transactions", "files", len(paths), "count", len(txns))
	for _, verr := range importer.Validate(txns) {
		slog.Warn("input check failed", "index", verr.Index, "check", verr.Check, "detail", verr.Description)
	}

	report := underwrite.Run(txns, opts)

	if output == "csv" {
		if err := present.WriteCSV(out, report.Table); err != nil {
			return fmt.Errorf("writing table: %w", err)
		}
		for _, f := range report.Findings {
			fmt.Fprintf(errOut, "%s: %s %s\n", f.Severity, f.Code, f.Message)
		}
		return nil
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// loadConfig reads configPath, or ./offerlab.yaml when configPath is empty
// and that file exists. With neither, the defaults apply and the built-in
// classifier taxonomy is used. The second result is the directory relative
// rule paths resolve against.
func loadConfig(configPath string) (*config.Config, string, error) {
	if configPath == "" {
		if _, err := os.Stat(config.FileName); err != nil {
			cfg := config.Default()
			cfg.Classifier.RulesFile = ""
			return cfg, ".", nil
		}
		configPath = config.FileName
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, "", err
	}
	return cfg, filepath.Dir(configPath), nil
}

func loadOptions(configPath string) (underwrite.Options, error) {
	cfg, baseDir, err := loadConfig(configPath)
	if err != nil {
		return underwrite.Options{}, err
	}
	c, err := cfg.NewClassifier(baseDir)
	if err != nil {
		return underwrite.Options{}, err
	}
	return underwrite.Options{
		Classifier: c,
		Decline:    cfg.Decline,
		Offers:     cfg.Offers,
		Logger:     slog.Default(),
	}, nil
}
