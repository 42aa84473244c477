package tazagg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/emptyOVO/tazagg-go/taz"
	"github.com/spf13/cobra"
)

// CLIArgs holds the parsed tazcount command line.
type CLIArgs struct {
	Files    []string
	ZoneFile string
	Output   string
	Workers  int
	Width    int
}

// ParseArg parses the tazcount CLI flags, expanding input globs.
func ParseArg() CLIArgs {
	var files []string
	var zoneFile string
	var output string
	var workers int64
	var width int64
	var rootCmd = &cobra.Command{
		Use:   "tazcount",
		Short: "tazcount tallies TAZ visit counts from trip shard files",
		Long: `tazcount counts how many (trip, TAZ) visit contributions each TAZ receives
across a trip dataset. Every shard file is counted as an independent
partition on a parallel worker pool and the partial histograms are merged
into one result file.`,
		Run: func(cmd *cobra.Command, args []string) {
			tempFiles := []string{}

			for _, f := range files {
				// expand the file path
				expandFiles, err := filepath.Glob(f)
				if err != nil {
					panic(err)
				}
				tempFiles = append(tempFiles, expandFiles...)
			}

			files = tempFiles
		},
	}

	rootCmd.PersistentFlags().StringSliceVarP(&files, "input", "i", []string{}, "Trip shard files")
	rootCmd.MarkPersistentFlagRequired("input")
	rootCmd.PersistentFlags().StringVarP(&zoneFile, "zones", "z", "", "Node to TAZ listing file")
	rootCmd.MarkPersistentFlagRequired("zones")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "taz-out.txt", "Histogram output file")
	rootCmd.PersistentFlags().Int64VarP(&workers, "worker", "w", 16, "Number of parallel counters")
	rootCmd.PersistentFlags().Int64Var(&width, "width", int64(taz.DefaultWidth), "TAZ slots per node")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	return CLIArgs{
		Files:    files,
		ZoneFile: zoneFile,
		Output:   output,
		Workers:  int(workers),
		Width:    int(width),
	}
}

// LoadZoneFile reads a node -> TAZ listing file and builds the lookup table.
func LoadZoneFile(path string, width int) (*taz.Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return taz.BuildTable(taz.DecodeZoneMap(string(raw)), 0, width)
}
