package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/tally-statement-converter/internal/gst"
	"github.com/insightdelivered/tally-statement-converter/internal/writer"
)

func newGSTCommand(env *environment) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "gst <gstr2a.csv> [more.csv...]",
		Short: "Extract taxed invoice rows from GSTR-2A CSV exports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := env.load()
			if err != nil {
				return err
			}

			files := make([]gst.File, 0, len(args))
			for _, path := range args {
				content, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading %s: %w", path, err)
				}
				files = append(files, gst.File{Name: path, Content: content})
			}

			res, err := gst.Extract(files, gst.WithLogger(logger))
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := writer.WriteJSON(&buf, res); err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), output, buf.Bytes()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "  Invoice rows: %d\n", res.Count)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", `output path, "-" for stdout`)
	return cmd
}
