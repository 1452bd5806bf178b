package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/guard"
	"taskdash/internal/web"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd runs the web front until the context is cancelled.
type ServeCmd struct {
	addr   string
	secure bool
}

func (c *ServeCmd) Name() string       { return "serve" }
func (c *ServeCmd) Aliases() []string  { return nil }
func (c *ServeCmd) Synopsis() string   { return "Run the web dashboard" }
func (c *ServeCmd) Usage() string      { return "taskdash serve [common flags] [--addr <host:port>] [--secure-cookie]" }
func (c *ServeCmd) NeedsAuth() bool    { return false }
func (c *ServeCmd) NeedsBackend() bool { return true }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
	fs.BoolVar(&c.secure, "secure-cookie", false, "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if cfg.Settings.SecretKey == "" {
		fmt.Fprintf(errOut, "error: secret_key not set (config.yaml or %s_SECRET_KEY)\n", config.EnvPrefix)
		return exitcode.UserError
	}
	addr := c.addr
	if addr == "" {
		addr = cfg.Settings.ListenAddr
	}

	srv, err := web.New(web.Options{
		Backend:         env.Backend,
		Validator:       guard.NewHMACValidator(cfg.Settings.SecretKey),
		ValidateTimeout: cfg.Settings.ValidateTimeout,
		Logger:          cfg.Log,
		SecureCookie:    c.secure,
	})
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "serving on %s\n", addr)
	}
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
