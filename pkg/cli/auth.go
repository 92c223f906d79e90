package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mchmarny/skypulse/pkg/auth"
	"github.com/mchmarny/skypulse/pkg/bsky"
	"github.com/mchmarny/skypulse/pkg/config"
	"github.com/mchmarny/skypulse/pkg/trend"
	"github.com/urfave/cli/v2"
)

var (
	authCmd = &cli.Command{
		Name:            "auth",
		HideHelpCommand: true,
		Usage:           "Verify the Bluesky handle and app password and store them for later runs",
		UsageText: `skypulse auth --handle name.bsky.social           # prompts for the app password
   BSKY_APP_PASSWORD=xxxx-xxxx-xxxx-xxxx skypulse auth  # non interactive`,
		Action: cmdAuth,
		Flags:  []cli.Flag{debugFlag},
	}
)

func cmdAuth(c *cli.Context) error {
	applyFlags(c)
	cfg := getConfig(c)
	creds := cfg.Credentials

	reader := bufio.NewReader(os.Stdin)

	if creds.Handle == "" {
		h, err := prompt(reader, "Handle (e.g. name.bsky.social): ")
		if err != nil {
			return err
		}
		creds.Handle = h
	}

	if creds.AppPassword == "" {
		p, err := prompt(reader, "App password: ")
		if err != nil {
			return err
		}
		creds.AppPassword = p
	}

	if !creds.Valid() {
		return cli.ShowSubcommandHelp(c)
	}

	slog.Info("logging in", "handle", creds.Handle, "host", cfg.Config.Host)
	s, err := auth.CreateSession(c.Context, cfg.Config.Host, creds.Handle, creds.AppPassword)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	if err := cfg.Store.SavePassword(s.Handle, creds.AppPassword); err != nil {
		return fmt.Errorf("saving app password: %w", err)
	}

	cfg.Config.Handle = s.Handle
	if err := config.Save(cfg.Dir, cfg.Config); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintf(cfg.Out, "Logged in as %s (%s), credentials saved\n", s.Handle, s.DID)
	return nil
}

func prompt(r *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	v, err := r.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(v), nil
}

// resolveCredentials fills the app password from the store when the flags
// and environment did not provide one.
func resolveCredentials(cfg *appConfig) (*config.Credentials, error) {
	creds := cfg.Credentials
	if creds.Handle == "" {
		return nil, fmt.Errorf("no handle: set %s or run 'skypulse auth'", config.HandleEnvVar)
	}

	if creds.AppPassword == "" {
		pwd, err := cfg.Store.GetPassword(creds.Handle)
		if err != nil {
			if errors.Is(err, auth.ErrNoPassword) {
				return nil, fmt.Errorf("no app password for %s: set %s or run 'skypulse auth'",
					creds.Handle, config.AppPasswordEnvVar)
			}
			return nil, fmt.Errorf("getting app password: %w", err)
		}
		creds.AppPassword = pwd
	}

	return creds, nil
}

// newPostSource logs in and returns a session bound client.
func newPostSource(ctx context.Context, cfg *appConfig) (trend.PostSource, error) {
	creds, err := resolveCredentials(cfg)
	if err != nil {
		return nil, err
	}

	slog.Debug("logging in", "handle", creds.Handle, "host", cfg.Config.Host)
	s, err := auth.CreateSession(ctx, cfg.Config.Host, creds.Handle, creds.AppPassword)
	if err != nil {
		return nil, fmt.Errorf("login as %s failed: %w", creds.Handle, err)
	}
	slog.Debug("logged in", "handle", s.Handle, "did", s.DID)

	return bsky.NewSessionClient(ctx, cfg.Config.Host, s.AccessJwt), nil
}
