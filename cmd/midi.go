package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ismscore/scoreconv/builder"
	"github.com/ismscore/scoreconv/midifile"
	"github.com/ismscore/scoreconv/model"
)

func init() {
	rootCmd.AddCommand(midiCmd)
}

var midiCmd = &cobra.Command{
	Use:   "midi <score.json> [out.mid]",
	Short: "Renders a JSON score as a MIDI file",
	Long:  `Renders a JSON score as a MIDI file`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := ""
		if len(args) == 2 {
			out = args[1]
		}
		return renderMidi(args[0], out)
	},
}

func renderMidi(in, out string) error {
	score, err := model.Load(in)
	if err != nil {
		return err
	}
	n, err := builder.Build(score, builder.Config{})
	if err != nil {
		return err
	}
	if out == "" {
		out = strings.TrimSuffix(in, filepath.Ext(in)) + ".mid"
	}
	if err := midifile.WriteFile(n, out); err != nil {
		return err
	}
	fmt.Printf("wrote %v\n", out)
	return nil
}
