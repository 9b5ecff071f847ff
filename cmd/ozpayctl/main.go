package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd(openCredentialUseCase).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(open credentialOpener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ozpayctl",
		Short:         "ozpayctl - administration of OzPay vault keys and tenant gateway credentials",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(keygenCmd())
	rootCmd.AddCommand(credentialsCmd(open))

	return rootCmd
}
