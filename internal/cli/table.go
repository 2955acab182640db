package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// table writes tab-separated rows, aligned when going to a terminal.
type table struct {
	w  io.Writer
	tw *tabwriter.Writer
}

func newTable(cmd *cobra.Command) *table {
	out := cmd.OutOrStdout()
	t := &table{w: out}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.tw = tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
		t.w = t.tw
	}
	return t
}

func (t *table) row(cols ...any) {
	s := make([]string, len(cols))
	for i, c := range cols {
		s[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(t.w, strings.Join(s, "\t"))
}

func (t *table) flush() error {
	if t.tw == nil {
		return nil
	}
	return t.tw.Flush()
}
