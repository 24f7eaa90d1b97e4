package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/tally-statement-converter/internal/parser"
	"github.com/insightdelivered/tally-statement-converter/internal/voucher"
)

const (
	modeBank   = "bank"
	modeMapped = "mapped"
)

func newXMLCommand(env *environment) *cobra.Command {
	var ledger, mode, output string

	cmd := &cobra.Command{
		Use:   "xml <parsed.json|statement.csv|statement.xlsx>",
		Short: "Write Tally import XML for parsed or mapped transactions",
		Long: `Reads transactions and writes Tally "Import Data" XML.

The input is either a statement export, which is parsed first, or JSON:
the output of "tallyconv parse", an object with a "transactions" list,
or a bare list of {date, narration, amount, type} objects.

Modes:
  bank    all vouchers in one TALLYMESSAGE, as exported from a statement
  mapped  one TALLYMESSAGE per voucher with a voucher-level AMOUNT;
          amounts like "1,000.00" are accepted and zero amounts skipped`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts voucher.Options
			switch strings.ToLower(mode) {
			case modeBank:
				opts = voucher.BankLedger()
			case modeMapped:
				opts = voucher.Mapped()
			default:
				return fmt.Errorf("unknown mode %q, expected bank or mapped", mode)
			}

			cfg, logger, err := env.load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("ledger") {
				ledger = cfg.Tally.DefaultPartyLedger
			}

			inputPath := args[0]
			txns, err := loadTransactions(cmd, inputPath, parser.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("processing %s: %w", inputPath, err)
			}

			res, err := voucher.NewBuilder(opts, logger).Build(txns, strings.TrimSpace(ledger))
			if err != nil {
				return err
			}

			outPath := output
			if outPath == "" {
				outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".xml"
			}
			if err := writeOutput(cmd.OutOrStdout(), outPath, res.XML); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "  Vouchers written: %d\n", res.Written)
			for _, d := range res.Skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "  Skipped transaction %d: %s %s\n", d.Index, d.Reason, d.Detail)
			}
			if outPath != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "  Output: %s\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&ledger, "ledger", "l", "", "bank ledger name in Tally (default DEFAULT_PARTY_LEDGER)")
	cmd.Flags().StringVarP(&mode, "mode", "m", modeBank, "document mode: bank or mapped")
	cmd.Flags().StringVarP(&output, "output", "o", "", `output path, "-" for stdout (defaults to the input name with .xml)`)
	return cmd
}

func loadTransactions(cmd *cobra.Command, path string, opts ...parser.Option) ([]voucher.TransactionInput, error) {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		res, err := parseFile(cmd.ErrOrStderr(), path, opts...)
		if err != nil {
			return nil, err
		}
		return voucher.FromTransactions(res.ParsedData), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	var txns []voucher.TransactionInput
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &txns); err != nil {
			return nil, fmt.Errorf("decoding transactions: %w", err)
		}
		return txns, nil
	}

	var doc struct {
		ParsedData   []voucher.TransactionInput `json:"parsedData"`
		Transactions []voucher.TransactionInput `json:"transactions"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding transactions: %w", err)
	}
	txns = doc.ParsedData
	if len(txns) == 0 {
		txns = doc.Transactions
	}
	if len(txns) == 0 {
		return nil, fmt.Errorf("no transactions in %s", path)
	}
	return txns, nil
}
