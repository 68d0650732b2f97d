// Package cli is the devhub command line.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aussiebroadwan/devhub/internal/app"
	"github.com/aussiebroadwan/devhub/internal/auth"
	"github.com/spf13/cobra"
)

type options struct {
	apiURL  string
	timeout time.Duration
	store   string
	output  string

	appOpts []app.Option
	app     *app.Application
}

// newRootCommand returns the devhub command tree.
func newRootCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "devhub",
		Short:         "devhub API client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.open(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return opts.close()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "API base URL (overrides DEVHUB_API_URL)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "HTTP timeout (overrides DEVHUB_HTTP_TIMEOUT)")
	cmd.PersistentFlags().StringVar(&opts.store, "session-store", "", "session store: memory, sqlite or redis (overrides DEVHUB_SESSION_STORE)")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "text", "output format: text or json")

	cmd.AddCommand(
		newLoginCommand(opts),
		newRegisterCommand(opts),
		newLogoutCommand(opts),
		newRefreshCommand(opts),
		newWhoamiCommand(opts),
		newTokenCommand(opts),
		newProjectsCommand(opts),
		newCommentsCommand(opts),
		newUsersCommand(opts),
	)
	return cmd
}

// Execute runs the command tree with args. The application is closed even
// when the command fails.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer, appOpts ...app.Option) error {
	opts := &options{appOpts: appOpts}

	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if cerr := opts.close(); cerr != nil {
		return errors.Join(err, cerr)
	}
	return err
}

func (o *options) open(cmd *cobra.Command) error {
	cfg := app.LoadConfig()
	if o.apiURL != "" {
		cfg.APIURL = o.apiURL
	}
	if o.timeout > 0 {
		cfg.HTTPTimeout = o.timeout
	}
	if o.store != "" {
		cfg.SessionStore = o.store
	}

	stderr := cmd.ErrOrStderr()
	appOpts := append([]app.Option{
		app.WithNavigator(auth.NavigatorFunc(func(context.Context) {
			fmt.Fprintln(stderr, "Sua sessão terminou. Entre novamente com: devhub login")
		})),
	}, o.appOpts...)

	a, err := app.New(cmd.Context(), cfg, appOpts...)
	if err != nil {
		return err
	}
	o.app = a
	return nil
}

func (o *options) close() error {
	if o.app == nil {
		return nil
	}
	err := o.app.Close()
	o.app = nil
	return err
}

// print writes v as indented JSON, or calls text for the text format.
func (o *options) print(w io.Writer, v any, text func(io.Writer)) error {
	if o.output == "json" {
		return printJSON(w, v)
	}
	text(w)
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
