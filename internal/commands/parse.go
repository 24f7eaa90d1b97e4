package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/tally-statement-converter/internal/extractor"
	"github.com/insightdelivered/tally-statement-converter/internal/models"
	"github.com/insightdelivered/tally-statement-converter/internal/parser"
	"github.com/insightdelivered/tally-statement-converter/internal/writer"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
)

func newParseCommand(env *environment) *cobra.Command {
	var format, output string
	var header bool

	cmd := &cobra.Command{
		Use:   "parse <statement.csv|statement.xlsx> [more...]",
		Short: "Parse JK Bank statements into transactions",
		Example: `  # Parse to statement.json next to the input
  tallyconv parse statement.csv

  # CSV with metadata rows, written to stdout
  tallyconv parse --format csv --output - statement.xlsx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != formatJSON && format != formatCSV {
				return fmt.Errorf("unknown format %q, expected json or csv", format)
			}
			if output != "" && output != "-" && len(args) > 1 {
				return fmt.Errorf("--output names a single file but %d inputs were given", len(args))
			}

			_, logger, err := env.load()
			if err != nil {
				return err
			}

			for _, inputPath := range args {
				res, err := parseFile(cmd.ErrOrStderr(), inputPath, parser.WithLogger(logger))
				if err != nil {
					return fmt.Errorf("processing %s: %w", inputPath, err)
				}

				outPath := output
				if outPath == "" {
					outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + "." + format
				}
				if err := writeStatement(cmd.OutOrStdout(), outPath, format, header, res); err != nil {
					return err
				}
				if outPath != "-" {
					fmt.Fprintf(cmd.ErrOrStderr(), "  Output: %s\n", outPath)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", `output path, "-" for stdout (defaults to the input name with the format's extension)`)
	cmd.Flags().BoolVar(&header, "header", true, "include account metadata rows in CSV output")
	return cmd
}

// parseFile reads and parses one statement, printing a short summary to log.
func parseFile(log io.Writer, inputPath string, opts ...parser.Option) (*models.StatementResult, error) {
	if !extractor.IsSupported(inputPath) {
		return nil, fmt.Errorf("expected .csv or .xlsx file, got %q", filepath.Ext(inputPath))
	}
	content, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	fmt.Fprintf(log, "Processing: %s\n", inputPath)

	rows, err := extractor.ExtractRows(inputPath, content)
	if err != nil {
		return nil, err
	}
	p, err := parser.Detect(rows, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing failed: %w", err)
	}
	fmt.Fprintf(log, "  Using %s parser\n", p.BankName())

	res, err := p.Parse(rows)
	if err != nil {
		return nil, fmt.Errorf("parsing failed: %w", err)
	}

	d := res.BasicDetails
	fmt.Fprintf(log, "  Found %d transaction(s)\n", len(res.ParsedData))
	if len(res.Diagnostics) > 0 {
		fmt.Fprintf(log, "  Skipped %d row(s)\n", len(res.Diagnostics))
	}
	if d.AccountHolder != "" {
		fmt.Fprintf(log, "  Account holder: %s\n", d.AccountHolder)
	}
	if d.AccountNumber != "" {
		fmt.Fprintf(log, "  Account number: %s\n", d.AccountNumber)
	}
	if d.StatementPeriod != "" {
		fmt.Fprintf(log, "  Period: %s\n", d.StatementPeriod)
	}
	fmt.Fprintf(log, "  Opening balance: %s, closing balance: %s\n", d.OpeningBalance, d.ClosingBalance)
	return res, nil
}

func writeStatement(stdout io.Writer, outPath, format string, header bool, res *models.StatementResult) error {
	var buf bytes.Buffer
	var err error
	switch format {
	case formatCSV:
		w := &writer.CSVWriter{IncludeHeader: header}
		err = w.Write(&buf, res)
	default:
		err = writer.WriteJSON(&buf, res)
	}
	if err != nil {
		return err
	}
	return writeOutput(stdout, outPath, buf.Bytes())
}

// writeOutput sends data to stdout for "-" and to the named file otherwise.
func writeOutput(stdout io.Writer, outPath string, data []byte) error {
	if outPath == "-" {
		_, err := stdout.Write(data)
		return err
	}
	return writer.WriteFile(outPath, data)
}
