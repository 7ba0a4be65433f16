package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ismscore/scoreconv/builder"
	"github.com/ismscore/scoreconv/db"
	"github.com/ismscore/scoreconv/midifile"
	"github.com/ismscore/scoreconv/model"
	"github.com/ismscore/scoreconv/musicxml"
)

var (
	convertDebugMeasures string
	convertMetadata      bool
	convertMidiOut       string
)

func init() {
	convertCmd.Flags().StringVar(&convertDebugMeasures, "debug-measures", "", "trace these measures, e.g. 1,3-5 (empty with flag set traces all)")
	convertCmd.Flags().BoolVar(&convertMetadata, "metadata", false, "fill in missing header fields from the metadata table")
	convertCmd.Flags().StringVar(&convertMidiOut, "midi", "", "also render a MIDI file to this path")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert <score.json> [out.musicxml]",
	Short: "Converts a JSON score to MusicXML",
	Long:  `Converts a JSON score to MusicXML`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := ""
		if len(args) == 2 {
			out = args[1]
		}
		return convert(args[0], out, cmd.Flags().Changed("debug-measures"))
	},
}

func convert(in, out string, debug bool) error {
	score, err := model.Load(in)
	if err != nil {
		return err
	}

	if convertMetadata {
		key := filepath.Base(in)
		if md, ok := db.GetScoreMetadatas([]string{key})[key]; ok {
			md.Apply(score)
		}
	}

	var cfg builder.Config
	if debug {
		measures, err := parseMeasureRanges(convertDebugMeasures)
		if err != nil {
			return err
		}
		cfg.Debug = builder.NewDebugContext(measures)
	}

	n, err := builder.Build(score, cfg)
	if err != nil {
		return err
	}

	data, err := musicxml.Encode(n)
	if err != nil {
		return err
	}
	if out == "" {
		out = strings.TrimSuffix(in, filepath.Ext(in)) + ".musicxml"
	}
	if err := os.WriteFile(out, data, 0666); err != nil {
		return err
	}

	if convertMidiOut != "" {
		if err := midifile.WriteFile(n, convertMidiOut); err != nil {
			return err
		}
	}

	fmt.Printf("wrote %v\n", out)
	return nil
}

// parseMeasureRanges parses "1,3-5" into [1 3 4 5]. Empty input selects all
// measures.
func parseMeasureRanges(spec string) ([]int, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if lo, hi, found := cutRange(part); found {
			a, err1 := strconv.Atoi(lo)
			b, err2 := strconv.Atoi(hi)
			if err1 != nil || err2 != nil || a > b {
				return nil, fmt.Errorf("bad measure range %q", part)
			}
			for m := a; m <= b; m++ {
				out = append(out, m)
			}
			continue
		}
		m, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("bad measure number %q", part)
		}
		out = append(out, m)
	}
	return out, nil
}

func cutRange(s string) (lo, hi string, found bool) {
	i := strings.Index(s, "-")
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}
