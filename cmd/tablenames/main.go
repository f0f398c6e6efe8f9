/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command tablenames prints the physical table and index names, with their key
// attributes, that a tablestore config resolves to. Use it to check
// provisioned infrastructure against code.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/suparena/tablestore"
	"github.com/suparena/tablestore/config"
	"github.com/suparena/tablestore/datastore"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "tablenames: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("tablenames", flag.ContinueOnError)
	configPath := fs.String("config", "tablestore.yaml", "Path to the tablestore config file")
	versionFlag := fs.Bool("version", false, "Show version information")
	vFlag := fs.Bool("v", false, "Show version information (short)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *versionFlag || *vFlag {
		fmt.Fprintf(stdout, "tablenames %s\n", tablestore.GetVersionInfo())
		return nil
	}

	// names need no AWS access, so backend settings are not validated
	cfg, err := config.LoadEntities(*configPath)
	if err != nil {
		return err
	}
	return printNames(cfg, stdout)
}

func printNames(cfg *config.Config, stdout io.Writer) error {
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ENTITY\tKIND\tINDEX\tNAME\tPARTITION\tSORT")
	for _, e := range cfg.Entities {
		planner, err := datastore.NewPlanner(e.Definition(cfg.Prefix))
		if err != nil {
			return fmt.Errorf("entity %q: %w", e.ID, err)
		}
		fmt.Fprintf(w, "%s\ttable\t-\t%s\tpartitionKey\tsortKey\n", planner.Entity(), planner.TableName())
		for _, idx := range planner.Indexes().Indexes() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", planner.Entity(), idx.Kind, idx.ID,
				idx.PhysicalName, idx.PartitionKeyAttribute, idx.SortKeyAttribute)
		}
	}
	return w.Flush()
}
