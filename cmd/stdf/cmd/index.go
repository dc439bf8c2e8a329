package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/stdfkit/pkg/index"
	"github.com/ssargent/stdfkit/pkg/record"
)

// indexCmd represents the index command group
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the record offset index",
	Long: `The index remembers where every record of an STDF file starts so single
records can be read back without decoding the whole file. Its location is the
index.dir configuration setting.`,
}

var indexAddCmd = &cobra.Command{
	Use:   "add <file>...",
	Short: "Index one or more STDF files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := container.Index()
		if err != nil {
			return err
		}
		for _, path := range args {
			meta, err := idx.Add(path)
			if err != nil {
				return errors.Wrapf(err, "failed to index %s", path)
			}
			cmd.Printf("%s\t%s\t%d records\n", meta.ID, meta.Path, meta.Records)
		}
		return nil
	},
}

var indexListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := container.Index()
		if err != nil {
			return err
		}
		files, err := idx.Files()
		if err != nil {
			return err
		}
		return printFiles(cmd.OutOrStdout(), files)
	},
}

var indexRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Drop a file from the index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := container.Index()
		if err != nil {
			return err
		}
		if err := idx.Remove(args[0]); err != nil {
			return err
		}
		cmd.Printf("Removed %s\n", args[0])
		return nil
	},
}

var indexEntriesCmd = &cobra.Command{
	Use:   "entries <id> <type>",
	Short: "List the offsets of one record type in an indexed file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, ok := record.ParseTypeCode(args[1])
		if !ok {
			return errors.Newf("unknown record type %q", args[1])
		}
		idx, err := container.Index()
		if err != nil {
			return err
		}
		if _, err := idx.File(args[0]); err != nil {
			return err
		}
		entries, err := idx.Entries(args[0], code)
		if err != nil {
			return err
		}
		return printEntries(cmd.OutOrStdout(), entries)
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexAddCmd, indexListCmd, indexRemoveCmd, indexEntriesCmd)
}

func printFiles(w io.Writer, files []index.FileMeta) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tRECORDS\tSIZE\tORDER\tINDEXED\tPATH\n")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\n",
			f.ID, f.Records, f.Size, f.ByteOrder, f.IndexedAt.Format(time.RFC3339), f.Path)
	}
	return tw.Flush()
}

func printEntries(w io.Writer, entries []index.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "SEQ\tOFFSET\tLENGTH\n")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%d\t%d\n", e.Seq, e.Offset, e.Length)
	}
	return tw.Flush()
}
