package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/go-pki/pkicore/pkg/pkilog"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the distinct certificates the fixture resolves to",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := pkilog.WithLogger(cmd.Context(), logger)
		coll, _, err := buildCertCollection(ctx, viper.GetString("fixture"))
		if err != nil {
			return err
		}
		defer coll.Destroy()

		certs, err := coll.GetCertificates(ctx, 0)
		if err != nil {
			return err
		}
		for _, cert := range certs {
			label := cert.GetNicknameForToken(nil)
			toks := cert.GetTokens()
			fmt.Printf("%-20s tokens=%d encoding=%q\n", label, len(toks), string(cert.Encoding().Bytes))
			for _, tok := range toks {
				tok.Release()
			}
			cert.Destroy(ctx)
		}
		return nil
	},
}
