package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/offerlab/internal/model"
)

func newClassifyCommand() *cobra.Command {
	var typ, configPath string

	cmd := &cobra.Command{
		Use:   "classify <description>...",
		Short: "Print the tag a transaction description classifies as",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd.OutOrStdout(), strings.Join(args, " "), typ, configPath)
		},
	}

	cmd.Flags().StringVar(&typ, "type", "", "credit or debit (default: print both)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: ./offerlab.yaml if present)")

	return cmd
}

func runClassify(out io.Writer, desc, typ, configPath string) error {
	cfg, baseDir, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	c, err := cfg.NewClassifier(baseDir)
	if err != nil {
		return err
	}

	if typ == "" {
		fmt.Fprintf(out, "credit: %s\n", c.ClassifyCredit(desc))
		fmt.Fprintf(out, "debit: %s\n", c.ClassifyDebit(desc))
		return nil
	}

	t, err := model.ParseTxnType(typ)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, c.Classify(t, desc))
	return nil
}
