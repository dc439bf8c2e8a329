package cmd

import (
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/ssargent/stdfkit/pkg/api"
	"github.com/ssargent/stdfkit/pkg/di"
	"github.com/ssargent/stdfkit/pkg/record"
	"github.com/ssargent/stdfkit/pkg/schema"
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query <id> <type> <seq>",
	Short: "Read one record of an indexed file",
	Long: `Read the seq-th record of the given type (counting from zero) from a file
added with 'stdf index add'. Only that record is decoded.

Examples:
  stdf query 2abc...XYZ PTR 0
  stdf query 2abc...XYZ PRR 12 --json`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		code, ok := record.ParseTypeCode(args[1])
		if !ok {
			return errors.Newf("unknown record type %q", args[1])
		}
		seq, err := strconv.ParseUint(args[2], 10, 32)
		if err != nil {
			return errors.Wrap(err, "invalid sequence number")
		}
		return queryRecord(cmd.OutOrStdout(), container, args[0], code, uint32(seq), asJSON)
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().Bool("json", false, "Print the record as JSON")
}

func queryRecord(w io.Writer, c *di.Container, id string, code record.TypeCode, seq uint32, asJSON bool) error {
	idx, err := c.Index()
	if err != nil {
		return err
	}
	entry, err := idx.Lookup(id, code, seq)
	if err != nil {
		return err
	}
	rec, err := idx.ReadRecord(id, code, seq)
	if err != nil {
		return err
	}

	if asJSON {
		return json.NewEncoder(w).Encode(api.RecordEnvelope{Type: code.String(), Offset: entry.Offset, Fields: rec})
	}
	sch, _ := c.Registry().Schema(code)
	return schema.Render(w, sch, rec)
}
