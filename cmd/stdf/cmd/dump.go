package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/ssargent/stdfkit/pkg/api"
	"github.com/ssargent/stdfkit/pkg/di"
	"github.com/ssargent/stdfkit/pkg/query"
	"github.com/ssargent/stdfkit/pkg/record"
	"github.com/ssargent/stdfkit/pkg/schema"
	"github.com/ssargent/stdfkit/pkg/stdfile"
)

type dumpOptions struct {
	JSON  bool
	Types map[record.TypeCode]bool
	Where []query.FieldQuery
	Limit int
}

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Print the records of an STDF file",
	Long: `Decode an STDF file and print every record, either as a field listing
or as one JSON object per line.

Examples:
  stdf dump lot.stdf
  stdf dump lot.stdf --type PTR,PRR --limit 20
  stdf dump lot.stdf --type PTR --where 'TEST_TXT=vdd,RESULT>1.8'
  stdf dump lot.stdf --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		limit, _ := cmd.Flags().GetInt("limit")
		typeList, _ := cmd.Flags().GetString("type")
		whereList, _ := cmd.Flags().GetString("where")

		types, err := parseTypes(typeList)
		if err != nil {
			return err
		}
		where, err := query.ParseFieldQueries(whereList)
		if err != nil {
			return err
		}
		opts := dumpOptions{JSON: asJSON, Types: types, Where: where, Limit: limit}
		return dumpFile(cmd.Context(), cmd.OutOrStdout(), container, args[0], opts)
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().Bool("json", false, "Print records as JSON lines")
	dumpCmd.Flags().String("type", "", "Comma separated record types to print (default: all)")
	dumpCmd.Flags().String("where", "", "Comma separated field conditions, e.g. RESULT>1.5,TEST_TXT=vdd")
	dumpCmd.Flags().Int("limit", 0, "Stop after this many printed records (0 = no limit)")
}

func dumpFile(ctx context.Context, w io.Writer, c *di.Container, path string, opts dumpOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rd, err := stdfile.Open(c.Registry(), c.ReaderConfig(path))
	if err != nil {
		return err
	}
	defer rd.Close()

	engine := query.NewSimpleQueryEngine(&query.SchemaFieldExtractor{Registry: c.Registry()})
	it, err := engine.ExecuteQuery(ctx, typeFilter{rd.Iterator(), opts.Types}, opts.Where...)
	if err != nil {
		return err
	}
	defer it.Close()

	enc := json.NewEncoder(w)
	printed := 0
	for it.Next() {
		res := it.Result()
		rec := res.Record

		if opts.JSON {
			env := api.RecordEnvelope{Type: record.Name(rec), Offset: res.Offset, Fields: rec}
			if err := enc.Encode(env); err != nil {
				return errors.Wrap(err, "failed to encode record")
			}
		} else {
			sch, _ := c.Registry().Schema(rec.TypeCode())
			fmt.Fprintf(w, "@%d\n", res.Offset)
			if err := schema.Render(w, sch, rec); err != nil {
				return err
			}
		}

		printed++
		if opts.Limit > 0 && printed >= opts.Limit {
			break
		}
	}
	return it.Err()
}

// typeFilter passes only the records whose type is in types; nil passes all.
type typeFilter struct {
	stdfile.RecordIterator
	types map[record.TypeCode]bool
}

func (f typeFilter) Next() bool {
	for f.RecordIterator.Next() {
		if f.types == nil || f.types[f.Record().TypeCode()] {
			return true
		}
	}
	return false
}

// parseTypes parses a comma separated list of record names; empty means all.
func parseTypes(list string) (map[record.TypeCode]bool, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	types := make(map[record.TypeCode]bool)
	for _, name := range strings.Split(list, ",") {
		code, ok := record.ParseTypeCode(strings.TrimSpace(name))
		if !ok {
			return nil, errors.Newf("unknown record type %q", name)
		}
		types[code] = true
	}
	return types, nil
}
