package cli

import (
	"net/http"

	"github.com/spf13/cobra"

	"timebridge/internal/config"
	"timebridge/internal/relay"
)

func newRelayCmd(env *Env) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Run the CORS relay in front of the time service",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := env.Logger()
			mgr, err := config.NewManager(env.cfgPath, log)
			if err != nil {
				return err
			}
			cfg := mgr.Current().Relay

			r, err := relay.New(relay.Config{
				UpstreamBaseURL:     cfg.UpstreamBaseURL,
				APIKey:              cfg.APIKey,
				AllowOrigin:         cfg.AllowOrigin,
				AllowUpstreamHeader: cfg.AllowUpstreamHeader,
			}, log)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Addr
			}
			srv := &http.Server{Addr: addr, Handler: r.Handler()}
			return runServer(srv, log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
