package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/go-pki/pkicore/pkg/kinds"
	"github.com/go-pki/pkicore/pkg/pkilog"
)

func init() {
	bestMatchCmd.Flags().Uint32("usage-bits", 0, "usage bits to match certificates against")
	rootCmd.AddCommand(bestMatchCmd)
}

var bestMatchCmd = &cobra.Command{
	Use:   "best-match",
	Short: "Select the best certificate in the fixture for the given usage",
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

		usage := kinds.Usage{Bits: uint32(viper.GetInt("usage-bits"))}
		best := kinds.BestCertificate(ctx, certs, nil, usage)
		for _, cert := range certs {
			cert.Destroy(ctx)
		}
		if best == nil {
			fmt.Println("no certificate matched")
			return nil
		}
		defer best.Destroy(ctx)
		fmt.Printf("best match: %s (encoding=%q)\n", best.GetNicknameForToken(nil), string(best.Encoding().Bytes))
		return nil
	},
}
