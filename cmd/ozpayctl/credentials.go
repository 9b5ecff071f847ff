package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"ozpay/internal/adapter/http/dto/response"
	"ozpay/internal/app"
	"ozpay/internal/infrastructure/config"
	"ozpay/internal/pkg/logging"
	"ozpay/internal/usecase"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// credentialOpener returns the credential use case and a cleanup function.
type credentialOpener func(ctx context.Context) (usecase.ICredentialUseCase, func(), error)

func openCredentialUseCase(ctx context.Context) (usecase.ICredentialUseCase, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.StorageBackend == config.BackendMemory {
		return nil, nil, fmt.Errorf("STORAGE_BACKEND=%s keeps no credentials between processes", cfg.StorageBackend)
	}
	log, err := logging.NewLogger(cfg.ServiceName+"-ctl", cfg.Env)
	if err != nil {
		return nil, nil, err
	}

	v, err := app.OpenVault(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	stores, err := app.OpenStores(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := stores.Close(); err != nil {
			log.Warn("stores_close_error", zap.Error(err))
		}
		_ = log.Sync()
	}
	return usecase.NewCredentialUseCase(stores.Credentials, v, log), cleanup, nil
}

func credentialsCmd(open credentialOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage tenant gateway credentials",
	}

	var timeout time.Duration
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Operation timeout")

	run := func(fn func(ctx context.Context, uc usecase.ICredentialUseCase) (usecase.CredentialDescription, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			uc, cleanup, err := open(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			desc, err := fn(ctx, uc)
			if err != nil {
				return err
			}
			return printDescription(cmd.OutOrStdout(), desc)
		}
	}

	cmd.AddCommand(credentialsPutCmd(run))
	cmd.AddCommand(credentialsShowCmd(run))
	cmd.AddCommand(credentialsDeactivateCmd(run))
	return cmd
}

type runner func(fn func(ctx context.Context, uc usecase.ICredentialUseCase) (usecase.CredentialDescription, error)) func(*cobra.Command, []string) error

func credentialsPutCmd(run runner) *cobra.Command {
	var values map[string]string
	var fromFile string

	cmd := &cobra.Command{
		Use:   "put [tenant_id] [gateway_name]",
		Short: "Seal and store a credential set",
		Long: `Seal a credential set with the vault and store it for the tenant and payment method.

Values are read from a JSON object file (--from-file, "-" for stdin) and/or
repeated --set key=value flags; flags win on duplicate keys.`,
		Args: cobra.ExactArgs(2),
	}
	cmd.Flags().StringToStringVar(&values, "set", nil, "Credential entry key=value (repeatable)")
	cmd.Flags().StringVarP(&fromFile, "from-file", "f", "", "JSON file with the credential set, - for stdin")

	cmd.RunE = func(c *cobra.Command, args []string) error {
		set, err := readCredentialSet(c.InOrStdin(), fromFile)
		if err != nil {
			return err
		}
		for k, v := range values {
			set[k] = v
		}
		return run(func(ctx context.Context, uc usecase.ICredentialUseCase) (usecase.CredentialDescription, error) {
			return uc.Save(ctx, usecase.SaveCredentialInput{TenantID: args[0], GatewayName: args[1], Credentials: set})
		})(c, args)
	}
	return cmd
}

func credentialsShowCmd(run runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [tenant_id] [gateway_name]",
		Short: "Show credential metadata and key names",
		Args:  cobra.ExactArgs(2),
	}
	cmd.RunE = func(c *cobra.Command, args []string) error {
		return run(func(ctx context.Context, uc usecase.ICredentialUseCase) (usecase.CredentialDescription, error) {
			return uc.Describe(ctx, args[0], args[1])
		})(c, args)
	}
	return cmd
}

func credentialsDeactivateCmd(run runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deactivate [tenant_id] [gateway_name]",
		Short: "Deactivate a credential set",
		Args:  cobra.ExactArgs(2),
	}
	cmd.RunE = func(c *cobra.Command, args []string) error {
		return run(func(ctx context.Context, uc usecase.ICredentialUseCase) (usecase.CredentialDescription, error) {
			return uc.Deactivate(ctx, args[0], args[1])
		})(c, args)
	}
	return cmd
}

func readCredentialSet(stdin io.Reader, path string) (map[string]string, error) {
	set := map[string]string{}
	if path == "" {
		return set, nil
	}

	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(&set); err != nil {
		return nil, fmt.Errorf("decode credential set: %w", err)
	}
	return set, nil
}

func printDescription(w io.Writer, desc usecase.CredentialDescription) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(response.FromCredentialDescription(desc))
}
