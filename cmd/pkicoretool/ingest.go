package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/go-pki/pkicore/pkg/pkilog"
)

func init() {
	rootCmd.AddCommand(ingestCmd)
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest the fixture's certificate instances and report the resulting collection size",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := pkilog.WithLogger(cmd.Context(), logger)
		coll, promoted, err := buildCertCollection(ctx, viper.GetString("fixture"))
		if err != nil {
			return err
		}
		defer coll.Destroy()
		fmt.Printf("ingested %d instance(s) into %d distinct certificate(s)\n", promoted, coll.Count())
		return nil
	},
}
