// Command pkicoretool is a small Cobra CLI that exercises the PKI object
// core end-to-end against a YAML-described mock token driver: ingesting
// instances, listing the resulting certificates, and showing best-match
// selection among them.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/go-pki/pkicore/pkg/pkilog"
)

var logger *zap.SugaredLogger

var rootCmd = &cobra.Command{
	Use:   "pkicoretool",
	Short: "Exercise the PKI object core against a fixture-driven mock token",
	Long:  "pkicoretool ingests a YAML fixture of certificate instances through a mock token driver and demonstrates dedup, lazy promotion, and best-match selection.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return fmt.Errorf("binding flags: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("fixture", "fixture.yaml", "path to the certificate fixture manifest")
	logger = pkilog.NewDevelopment()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
