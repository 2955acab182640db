package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/divVerent/haydnop20/internal/dataset"
	"github.com/divVerent/haydnop20/internal/render"
)

func newMIDICommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "midi TRACK",
		Short: "Renders a track to MIDI and prints the file name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTrack(g, cmd, args[0], func(t *table, tr *dataset.Track) error {
				p, err := tr.MIDIPath()
				if err != nil {
					return err
				}
				info, err := os.Stat(p)
				if err != nil {
					return err
				}
				mid, err := smf.ReadFile(p)
				if err != nil {
					return fmt.Errorf("could not read back %v: %w", p, err)
				}
				sum, err := render.Summarize(mid)
				if err != nil {
					return err
				}
				t.row(p, humanize.Bytes(uint64(info.Size())),
					fmt.Sprintf("%d tracks", sum.Tracks),
					fmt.Sprintf("%s notes", humanize.Comma(int64(sum.Notes))))
				for _, part := range sum.Parts {
					t.row("part", part.Name,
						fmt.Sprintf("%s notes", humanize.Comma(int64(part.Notes))),
						fmt.Sprintf("keys %d-%d", part.Lowest, part.Highest),
						fmt.Sprintf("up to %d sounding", part.MaxSounding))
				}
				return nil
			})
		},
	}
}
