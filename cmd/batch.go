package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/remeh/sizedwaitgroup"
	"github.com/spf13/cobra"

	"github.com/ismscore/scoreconv/builder"
	"github.com/ismscore/scoreconv/compare"
	"github.com/ismscore/scoreconv/layout"
	"github.com/ismscore/scoreconv/model"
	"github.com/ismscore/scoreconv/musicxml"
	"github.com/ismscore/scoreconv/util"
)

var (
	batchParallel  int
	batchKeep      bool
	batchTolerance float64
)

func init() {
	batchCmd.Flags().IntVar(&batchParallel, "parallel", runtime.NumCPU(), "number of scores converted concurrently")
	batchCmd.Flags().BoolVar(&batchKeep, "keep", false, "keep the intermediate musicxml and round-tripped json files")
	batchCmd.Flags().Float64Var(&batchTolerance, "tolerance", compare.DefaultTolerance, "epsilon for the round-trip comparison")
	rootCmd.AddCommand(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Round-trips every JSON score in a directory",
	Long:  `Round-trips every JSON score in a directory and reports which ones survive conversion.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return batch(args[0])
	},
}

type batchSummary struct {
	mu     sync.Mutex
	passed int
	failed []string
	errs   []string
}

func batch(dir string) error {
	paths, err := gatherScorePaths(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no .json scores under %v", dir)
	}

	var summary batchSummary
	swg := sizedwaitgroup.New(util.Max(batchParallel, 1))
	for _, path := range paths {
		swg.Add()
		go func(path string) {
			defer swg.Done()
			res, err := roundTrip(path)
			summary.mu.Lock()
			defer summary.mu.Unlock()
			switch {
			case err != nil:
				summary.errs = append(summary.errs, fmt.Sprintf("%v: %v", path, err))
			case res.Pass():
				summary.passed++
			default:
				summary.failed = append(summary.failed, fmt.Sprintf("%v: %v differences", path, len(res.Diffs)))
			}
		}(path)
	}
	swg.Wait()

	fmt.Printf("passed: %v/%v\n", summary.passed, len(paths))
	for _, line := range summary.failed {
		fmt.Printf("FAIL %v\n", line)
	}
	for _, line := range summary.errs {
		fmt.Printf("ERROR %v\n", line)
	}
	if len(summary.failed) > 0 || len(summary.errs) > 0 {
		os.Exit(1)
	}
	return nil
}

func gatherScorePaths(dir string) ([]string, error) {
	var paths []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".json") {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

// roundTrip converts one score to MusicXML, extracts it back, and compares
// the result against the original.
func roundTrip(path string) (*compare.Result, error) {
	score, err := model.Load(path)
	if err != nil {
		return nil, err
	}
	n, err := builder.Build(score, builder.Config{})
	if err != nil {
		return nil, err
	}
	data, err := musicxml.Encode(n)
	if err != nil {
		return nil, err
	}

	back, err := musicxml.Decode(data)
	if err != nil {
		return nil, err
	}
	extracted := layout.MapScore(back)

	if batchKeep {
		stem := filepath.Join(filepath.Dir(path), uuid.New().String())
		if err := os.WriteFile(stem+".musicxml", data, 0666); err != nil {
			return nil, err
		}
		if err := util.WriteJSON(stem+".json", extracted); err != nil {
			return nil, err
		}
	}

	return compare.Scores(score, extracted, batchTolerance), nil
}
