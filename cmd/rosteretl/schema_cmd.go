package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rosteretl/internal/schema"
	"rosteretl/internal/storage"
)

func newSchemaCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema --driver <kind>",
		Short: "Print the roster DDL for a database driver",
		Long:  "Print the CREATE TABLE statements the db sink runs, in creation order. --driver defaults to mysql.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			driver := opts.Driver
			if driver == "" {
				driver = "mysql"
			}
			d, err := storage.Lookup(driver)
			if err != nil {
				return err
			}
			script, err := schema.NewManager(d).Script()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), script)
			return err
		},
	}
}
