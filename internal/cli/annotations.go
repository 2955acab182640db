package cli

import (
	"github.com/spf13/cobra"

	"github.com/divVerent/haydnop20/internal/dataset"
	"github.com/divVerent/haydnop20/internal/interval"
)

func newTracksCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tracks",
		Short: "Lists all tracks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, h, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer h.Close()
			t := newTable(cmd)
			for _, id := range ds.TrackIDs() {
				tr, err := ds.Track(id)
				if err != nil {
					return err
				}
				t.row(tr.ID, tr.Title, tr.AnnotationsPath)
			}
			return t.flush()
		},
	}
}

// withTrack runs fn on the track with the given ID.
func withTrack(g *globalFlags, cmd *cobra.Command, id string, fn func(t *table, tr *dataset.Track) error) error {
	ds, h, err := g.open(cmd)
	if err != nil {
		return err
	}
	defer h.Close()
	tr, err := ds.Track(id)
	if err != nil {
		return err
	}
	t := newTable(cmd)
	err = fn(t, tr)
	if err != nil {
		return err
	}
	return t.flush()
}

func writeData(t *table, d interval.Data) {
	for i := range d.Labels {
		t.row(d.StartTimes[i], d.EndTimes[i], d.Labels[i])
	}
}

func newKeysCommand(g *globalFlags) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "keys TRACK",
		Short: "Prints the local keys of a track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTrack(g, cmd, args[0], func(t *table, tr *dataset.Track) error {
				if raw {
					events, err := tr.KeyEvents()
					if err != nil {
						return err
					}
					for _, e := range events {
						t.row(e.Time, e.Key)
					}
					return nil
				}
				keys, err := tr.Keys()
				if err != nil {
					return err
				}
				writeData(t, keys)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print one line per annotation instead of key regions")
	return cmd
}

func newChordsCommand(g *globalFlags) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "chords TRACK",
		Short: "Prints the chords of a track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTrack(g, cmd, args[0], func(t *table, tr *dataset.Track) error {
				if raw {
					events, err := tr.ChordEvents()
					if err != nil {
						return err
					}
					for _, e := range events {
						t.row(e.Time, e.Chord)
					}
					return nil
				}
				chords, err := tr.Chords()
				if err != nil {
					return err
				}
				writeData(t, chords)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print one line per annotation instead of chord regions")
	return cmd
}

func newRomansCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "romans TRACK",
		Short: "Prints the roman numeral annotations of a track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTrack(g, cmd, args[0], func(t *table, tr *dataset.Track) error {
				romans, err := tr.RomanNumerals()
				if err != nil {
					return err
				}
				for _, r := range romans {
					t.row(r.Time, r.RomanNumeral)
				}
				return nil
			})
		},
	}
}
