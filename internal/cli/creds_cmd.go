package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"timebridge/internal/domain"
)

func newCredsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "creds",
		Short: "Manage time-service credentials",
	}
	cmd.AddCommand(newCredsSetCmd(env), newCredsShowCmd(env))
	return cmd
}

func newCredsSetCmd(env *Env) *cobra.Command {
	var c domain.Credentials
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save credentials (overwrites any previous ones)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, log, err := env.Load()
			if err != nil {
				return err
			}
			defer a.Close()

			if !c.Valid() {
				return fmt.Errorf("incomplete credentials: need --base-url and --api-key, or --use-proxy with --proxy-url")
			}
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if err := a.Credentials().Save(ctx, c); err != nil {
				return err
			}
			log.Info("credentials saved")
			return nil
		},
	}
	cmd.Flags().StringVar(&c.APIKey, "api-key", "", "time service API key")
	cmd.Flags().StringVar(&c.BaseURL, "base-url", "", "time service base URL")
	cmd.Flags().BoolVar(&c.UseProxy, "use-proxy", false, "send requests through the relay instead of directly")
	cmd.Flags().StringVar(&c.ProxyURL, "proxy-url", "", "relay base URL")
	return cmd
}

func newCredsShowCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the saved credentials with the API key masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, _, err := env.Load()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			c, err := a.Credentials().Load(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("base_url:  %s\n", c.BaseURL)
			fmt.Printf("api_key:   %s\n", maskKey(c.APIKey))
			fmt.Printf("use_proxy: %v\n", c.UseProxy)
			fmt.Printf("proxy_url: %s\n", c.ProxyURL)
			return nil
		},
	}
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
