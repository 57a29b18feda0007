package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"funlabs/internal/client"
	"funlabs/internal/utils"

	"github.com/spf13/cobra"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	baseURL  string
	hostname string
	origin   string
	debug    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "funlabs",
		Short:         "Query the FunLabs learning API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "API base URL (overrides FUNLABS_API_BASE_URL)")
	cmd.PersistentFlags().StringVar(&opts.hostname, "hostname", "localhost", "hostname the base URL is resolved for")
	cmd.PersistentFlags().StringVar(&opts.origin, "origin", "", "Origin header to send with requests")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "log requests to stderr")

	cmd.AddCommand(
		newBaseURLCmd(opts),
		newTopicsCmd(opts),
		newQuestionsCmd(opts),
	)

	return cmd
}

func (o *rootOptions) client(cmd *cobra.Command) *client.Client {
	cfg := client.LoadEndpointConfig()
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}

	clientOpts := []client.Option{}
	if o.origin != "" {
		clientOpts = append(clientOpts, client.WithOrigin(o.origin))
	}
	if o.debug {
		clientOpts = append(clientOpts, client.WithLogger(utils.NewLogger(cmd.ErrOrStderr(), true)))
	}

	return client.New(cfg, o.hostname, clientOpts...)
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
