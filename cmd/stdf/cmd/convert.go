package cmd

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/stdfkit/pkg/cursor"
	"github.com/ssargent/stdfkit/pkg/di"
	"github.com/ssargent/stdfkit/pkg/record"
	"github.com/ssargent/stdfkit/pkg/stdfile"
)

// FAR CPU_TYPE values that select the byte order of the rest of the file.
const (
	cpuTypeBigEndian    = 1
	cpuTypeLittleEndian = 2
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Rewrite an STDF file in another byte order",
	Long: `Decode every record of <in> and encode it into <out> using the requested
byte order. The FAR CPU_TYPE is updated to match so readers can detect it.
Records of unknown type are dropped.

Examples:
  stdf convert sun.stdf lot.stdf --byte-order little`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		orderName, _ := cmd.Flags().GetString("byte-order")
		order, err := cursor.ParseByteOrder(orderName)
		if err != nil {
			return err
		}
		n, err := convertFile(container, args[0], args[1], order)
		if err != nil {
			return err
		}
		cmd.Printf("Wrote %d records to %s (%s endian)\n", n, args[1], order)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().String("byte-order", "little", "Byte order of the output file (little | big)")
}

// convertFile rewrites in as out. On failure out is removed rather than left
// holding a partial file.
func convertFile(c *di.Container, in, out string, order cursor.ByteOrder) (int, error) {
	rd, err := stdfile.Open(c.Registry(), c.ReaderConfig(in))
	if err != nil {
		return 0, err
	}
	defer rd.Close()

	wcfg := c.WriterConfig(out)
	wcfg.Cursor.ByteOrder = order
	w, err := stdfile.Create(c.Registry(), wcfg)
	if err != nil {
		return 0, err
	}

	n, err := copyRecords(rd, w, order)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rerr := os.Remove(out); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			c.Logger().Sugar().Warnw("Failed to remove partial output", "path", out, "error", rerr)
		}
		return n, err
	}
	return n, nil
}

func copyRecords(rd *stdfile.Reader, w *stdfile.Writer, order cursor.ByteOrder) (int, error) {
	n := 0
	for {
		rec, err := rd.ReadNext()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if far, ok := rec.(*record.FAR); ok {
			far.CpuType = cpuTypeLittleEndian
			if order == cursor.BigEndian {
				far.CpuType = cpuTypeBigEndian
			}
		}
		if _, err := w.Write(rec); err != nil {
			return n, err
		}
		n++
	}
}
