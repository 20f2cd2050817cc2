package system

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Defimaso/Diario362-sub001/config"
	"github.com/Defimaso/Diario362-sub001/pkg/vapid"
)

func NewVAPIDCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vapid",
		Short: "Manage the web push application-server key pair",
	}

	cmd.AddCommand(newVAPIDGenerateCommand())
	cmd.AddCommand(newVAPIDCheckCommand())

	return cmd
}

func newVAPIDGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate a new P-256 key pair in base64url form",
		Long: `Generate a new VAPID key pair. Rotating the pair invalidates every existing
browser subscription, so only do it for a fresh deployment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, priv, err := vapid.Generate()
			if err != nil {
				return fmt.Errorf("failed to generate keys: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "DIARIO_PUSH_VAPID_PUBLIC_KEY=%s\n", pub)
			fmt.Fprintf(out, "DIARIO_PUSH_VAPID_PRIVATE_KEY=%s\n", priv)
			return nil
		},
	}
}

func newVAPIDCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configured key pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			keys, err := vapid.Parse(cfg.Push.VAPIDPublicKey, cfg.Push.VAPIDPrivateKey)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "VAPID key pair OK, public key %s\n", keys.PublicKeyString())
			return nil
		},
	}
}
