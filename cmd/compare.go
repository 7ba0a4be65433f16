package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ismscore/scoreconv/compare"
	"github.com/ismscore/scoreconv/model"
)

var (
	compareTolerance float64
	compareQuiet     bool
)

func init() {
	compareCmd.Flags().Float64Var(&compareTolerance, "tolerance", compare.DefaultTolerance, "epsilon for position, beat and second comparisons")
	compareCmd.Flags().BoolVar(&compareQuiet, "quiet", false, "suppress the per-difference listing")
	rootCmd.AddCommand(compareCmd)
}

var compareCmd = &cobra.Command{
	Use:   "compare <a.json> <b.json>",
	Short: "Compares two JSON scores",
	Long:  `Compares two JSON scores. Exits 0 on PASS, 1 on FAIL.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := compareFiles(args[0], args[1])
		if err != nil {
			return err
		}
		if !res.Pass() {
			os.Exit(1)
		}
		return nil
	},
}

func compareFiles(pathA, pathB string) (*compare.Result, error) {
	a, err := model.Load(pathA)
	if err != nil {
		return nil, err
	}
	b, err := model.Load(pathB)
	if err != nil {
		return nil, err
	}

	res := compare.Scores(a, b, compareTolerance)
	if !compareQuiet {
		for _, d := range res.Diffs {
			fmt.Println(d.String())
		}
	}
	if res.Pass() {
		fmt.Println("PASS")
	} else {
		fmt.Printf("FAIL: %v differences\n", len(res.Diffs))
	}
	return res, nil
}
