package main

import (
	"context"
	"fmt"
	"os"

	tazagg "github.com/emptyOVO/tazagg-go"
)

func main() {
	args := tazagg.ParseArg()

	table, err := tazagg.LoadZoneFile(args.ZoneFile, args.Width)
	if err != nil {
		fail(err)
	}

	h, err := tazagg.AggregateFiles(context.Background(), args.Files, table, tazagg.JobConfig{Workers: args.Workers})
	if err != nil {
		fail(err)
	}

	if err := tazagg.WriteHistogram(args.Output, h); err != nil {
		fail(err)
	}
	fmt.Printf("wrote %s\n", args.Output)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
