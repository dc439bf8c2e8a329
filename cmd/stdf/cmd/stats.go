package cmd

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ssargent/stdfkit/pkg/di"
	"github.com/ssargent/stdfkit/pkg/record"
	"github.com/ssargent/stdfkit/pkg/stdfile"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "Count the records of an STDF file by type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printStats(cmd.OutOrStdout(), container, args[0])
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// scanFile reads path to the end and returns what the reader counted.
func scanFile(c *di.Container, path string) (stdfile.Stats, error) {
	rd, err := stdfile.Open(c.Registry(), c.ReaderConfig(path))
	if err != nil {
		return stdfile.Stats{}, err
	}
	defer rd.Close()

	it := rd.Iterator()
	for it.Next() {
	}
	if err := it.Err(); err != nil {
		return rd.Stats(), err
	}
	return rd.Stats(), nil
}

func printStats(w io.Writer, c *di.Container, path string) error {
	stats, err := scanFile(c, path)
	if err != nil {
		return err
	}

	codes := make([]record.TypeCode, 0, len(stats.ByType))
	for code := range stats.ByType {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File:\t%s\n", path)
	fmt.Fprintf(tw, "Byte order:\t%s\n", stats.ByteOrder)
	fmt.Fprintf(tw, "Bytes:\t%d\n", stats.Bytes)
	fmt.Fprintf(tw, "Records:\t%d\n", stats.Records)
	fmt.Fprintf(tw, "Unknown:\t%d\n", stats.Unknown)
	fmt.Fprintf(tw, "Malformed:\t%d\n", stats.Malformed)
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "TYPE\tCODE\tCOUNT\n")
	for _, code := range codes {
		fmt.Fprintf(tw, "%s\t%d/%d\t%d\n", code, code.Type(), code.Sub(), stats.ByType[code])
	}
	return tw.Flush()
}
