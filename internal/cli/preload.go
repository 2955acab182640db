package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newPreloadCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "preload",
		Short: "Parses every track to check that the corpus is readable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, h, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer h.Close()
			start := time.Now()
			err = ds.Preload(cmd.Context())
			if err != nil {
				return err
			}
			notes, annotations := 0, 0
			for _, id := range ds.TrackIDs() {
				tr, err := ds.Track(id)
				if err != nil {
					return err
				}
				s, err := tr.Score()
				if err != nil {
					return err
				}
				notes += s.NumNotes()
				annotations += len(s.Annotations)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "parsed %s tracks with %s notes and %s annotations in %v\n",
				humanize.Comma(int64(len(ds.TrackIDs()))), humanize.Comma(int64(notes)),
				humanize.Comma(int64(annotations)), time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}

func newValidateCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Checks the files of the data home against the index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, h, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer h.Close()
			v, err := ds.Validate()
			if err != nil {
				return err
			}
			t := newTable(cmd)
			for _, id := range v.Missing {
				t.row("missing", id)
			}
			for _, id := range v.Invalid {
				t.row("invalid", id)
			}
			err = t.flush()
			if err != nil {
				return err
			}
			if !v.OK() {
				return fmt.Errorf("%d missing and %d invalid files", len(v.Missing), len(v.Invalid))
			}
			return nil
		},
	}
}
