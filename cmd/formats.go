package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gstexport/internal/export"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the supported export formats",
	Long: `List every supported export format with its MIME type and the file
extension of the generated artifact.`,
	RunE: runFormats,
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func runFormats(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FORMAT\tCONTENT TYPE\tEXTENSION")

	for _, kind := range export.Kinds() {
		enc, err := export.NewEncoder(kind, export.EncoderOptions{})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t.%s\n", enc.Kind(), enc.ContentType(), enc.Extension())
	}

	return w.Flush()
}
