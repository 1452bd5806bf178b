package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"taskdash/internal/apperr"
	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/session"
)

// PasswordEnv is read when --password is not given.
const PasswordEnv = "TASKDASH_PASSWORD"

func init() {
	Register(&LoginCmd{})
	Register(&SignupCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string
}

func (c *LoginCmd) Name() string       { return "login" }
func (c *LoginCmd) Aliases() []string  { return nil }
func (c *LoginCmd) Synopsis() string   { return "Sign in and store the session" }
func (c *LoginCmd) Usage() string      { return "taskdash login --email <email> [--password <password>]" }
func (c *LoginCmd) NeedsAuth() bool    { return false }
func (c *LoginCmd) NeedsBackend() bool { return true }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	email := strings.TrimSpace(c.email)
	if email == "" {
		fmt.Fprintln(errOut, "error: email required")
		return exitcode.UserError
	}
	password, err := readPassword(c.password, env.In)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	tok, err := env.Backend.Login(ctx, email, password)
	if err != nil {
		return authFailure(cfg, errOut, err)
	}
	return saveSession(cfg, env, tok, out, errOut)
}

// SignupCmd implements the signup command.
type SignupCmd struct {
	name     string
	email    string
	password string
}

func (c *SignupCmd) Name() string       { return "signup" }
func (c *SignupCmd) Aliases() []string  { return []string{"register"} }
func (c *SignupCmd) Synopsis() string   { return "Create an account and store the session" }
func (c *SignupCmd) Usage() string      { return "taskdash signup --name <name> --email <email> [--password <password>]" }
func (c *SignupCmd) NeedsAuth() bool    { return false }
func (c *SignupCmd) NeedsBackend() bool { return true }

func (c *SignupCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *SignupCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	name, email := strings.TrimSpace(c.name), strings.TrimSpace(c.email)
	if name == "" {
		fmt.Fprintln(errOut, "error: name required")
		return exitcode.UserError
	}
	if email == "" {
		fmt.Fprintln(errOut, "error: email required")
		return exitcode.UserError
	}
	password, err := readPassword(c.password, env.In)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	tok, err := env.Backend.Register(ctx, name, email, password)
	if err != nil {
		return authFailure(cfg, errOut, err)
	}
	return saveSession(cfg, env, tok, out, errOut)
}

// readPassword takes the flag value, then $TASKDASH_PASSWORD, then the first line of in.
func readPassword(flagValue string, in io.Reader) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv(PasswordEnv); v != "" {
		return v, nil
	}
	if in == nil {
		return "", errors.New("password required")
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password required")
	}
	return line, nil
}

// authFailure shows the backend's message inline; network failures read
// "Internal Server Error" as on the sign-in page.
func authFailure(cfg *config.Config, errOut io.Writer, err error) int {
	logger(cfg).Debug("authentication failed", "kind", apperr.KindOf(err).String(), "err", err)
	fmt.Fprintf(errOut, "error: %s\n", apperr.UserMessage(err))
	if apperr.KindOf(err) == apperr.KindNetwork {
		return exitcode.BackendError
	}
	return exitcode.AuthError
}

func saveSession(cfg *config.Config, env *Env, tok session.Token, out, errOut io.Writer) int {
	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := env.Sessions.Save(tok); err != nil {
		fmt.Fprintf(errOut, "error: failed to save session: %v\n", err)
		return exitcode.AuthError
	}
	if env.Session != nil {
		env.Session.Set(tok)
	}
	if !cfg.Quiet {
		if claims, err := session.ParseClaims(tok); err == nil && claims.Name != "" {
			fmt.Fprintf(out, "Welcome back, %s\n", claims.Name)
			return exitcode.Success
		}
	}
	return okLine(cfg, out)
}
