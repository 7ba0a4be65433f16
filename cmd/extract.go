package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ismscore/scoreconv/layout"
	"github.com/ismscore/scoreconv/musicxml"
	"github.com/ismscore/scoreconv/util"
)

func init() {
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract <score.musicxml> [out.json]",
	Short: "Extracts a JSON score from MusicXML",
	Long:  `Extracts a JSON score from MusicXML`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := ""
		if len(args) == 2 {
			out = args[1]
		}
		return extract(args[0], out)
	},
}

func extract(in, out string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	n, err := musicxml.Decode(data)
	if err != nil {
		return err
	}
	score := layout.MapScore(n)

	if out == "" {
		out = strings.TrimSuffix(in, filepath.Ext(in)) + ".json"
	}
	if err := util.WriteJSON(out, score); err != nil {
		return err
	}
	fmt.Printf("wrote %v\n", out)
	return nil
}
