package system

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Defimaso/Diario362-sub001/config"
	"github.com/Defimaso/Diario362-sub001/internal/service/access"
	"github.com/Defimaso/Diario362-sub001/pkg/authorize"
	"github.com/Defimaso/Diario362-sub001/pkg/database"
)

func NewRoleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "role",
		Short: "Grant, revoke and inspect user roles",
		Long: `Roles live in two places: the user_roles table read on privileged routes,
and the casbin grouping policy. These commands write both.`,
	}

	cmd.AddCommand(newRoleChangeCommand("grant", "Grant a role to a user", (*access.Service).Grant))
	cmd.AddCommand(newRoleChangeCommand("revoke", "Revoke a role from a user", (*access.Service).Revoke))
	cmd.AddCommand(newRoleListCommand())
	cmd.AddCommand(newRoleCheckCommand())

	return cmd
}

// withAccess opens both databases, runs fn and closes them again.
func withAccess(cmd *cobra.Command, fn func(ctx context.Context, svc *access.Service) error) error {
	cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := database.NewClient(cfg.Database, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer client.Close()

	acfg := authorize.FromCentralConfig(cfg.Authorization)
	enforcer, cleanup, err := authorize.NewEnforcer(acfg.CasbinModelPath, database.NewDSN(cfg.CasbinDatabase))
	if err != nil {
		return fmt.Errorf("failed to create enforcer: %w", err)
	}
	defer cleanup(context.Background())

	auth, err := authorize.NewAuthorization(enforcer)
	if err != nil {
		return fmt.Errorf("failed to create authorization: %w", err)
	}
	if acfg.EnableAudit {
		auth = authorize.NewAuditedAuthorization(auth, slog.Default())
	}

	return fn(ctx, access.New(client, auth))
}

func newRoleChangeCommand(use, short string, change func(*access.Service, context.Context, uuid.UUID, string) error) *cobra.Command {
	var userID, role string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			return withAccess(cmd, func(ctx context.Context, svc *access.Service) error {
				if err := change(svc, ctx, uid, role); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", use, role, uid)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User id")
	cmd.Flags().StringVar(&role, "role", "", "Role: super_admin, admin, coach or client")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}

func newRoleListCommand() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show a user's stored roles and policy roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			return withAccess(cmd, func(ctx context.Context, svc *access.Service) error {
				g, err := svc.List(ctx, uid)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, r := range g.Stored {
					fmt.Fprintf(out, "stored  %s\n", r)
				}
				for _, r := range g.Policy {
					fmt.Fprintf(out, "policy  %s (%s)\n", r, authorize.RoleDisplayNamesIT[r])
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User id")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newRoleCheckCommand() *cobra.Command {
	var userID, resource, action string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a user's policy roles against resource/action",
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			return withAccess(cmd, func(ctx context.Context, svc *access.Service) error {
				if err := svc.Check(ctx, uid, authorize.Resource(resource), authorize.Action(action)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "allowed: %s %s\n", resource, action)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User id")
	cmd.Flags().StringVar(&resource, "resource", "", "Resource, e.g. job")
	cmd.Flags().StringVar(&action, "action", "", "Action, e.g. execute")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("resource")
	_ = cmd.MarkFlagRequired("action")

	return cmd
}
