package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mchmarny/skypulse/pkg/auth"
	"github.com/mchmarny/skypulse/pkg/config"
	"github.com/mchmarny/skypulse/pkg/logging"
	"github.com/mchmarny/skypulse/pkg/report"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const (
	appName      = "skypulse"
	appConfigKey = "app-config"

	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Output format [text, json, yaml]",
		Value: formatText,
	}

	configDirFlag = &cli.StringFlag{
		Name:  "config",
		Usage: fmt.Sprintf("Path to the config directory (default: $HOME/.%s)", appName),
	}

	hostFlag = &cli.StringFlag{
		Name:  "host",
		Usage: fmt.Sprintf("Bluesky PDS host (default: %s)", config.DefaultHost),
	}

	handleFlag = &cli.StringFlag{
		Name:    "handle",
		Usage:   "Bluesky handle (e.g. name.bsky.social)",
		EnvVars: []string{config.HandleEnvVar},
	}

	passwordFlag = &cli.StringFlag{
		Name:    "password",
		Usage:   "Bluesky app password (not the account password)",
		EnvVars: []string{config.AppPasswordEnvVar},
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger("info")

	if err := config.LoadEnv(); err != nil {
		slog.Warn("failed to load .env file", "error", err)
	}

	app := newApp(os.Stdout)
	if err := app.Run(os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	Dir         string
	Format      string
	Debug       bool
	Config      *config.Config
	Credentials *config.Credentials
	Store       *auth.Store
	Out         io.Writer
}

func getConfig(c *cli.Context) *appConfig {
	return c.App.Metadata[appConfigKey].(*appConfig)
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:                 appName,
		Version:              fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Compiled:             time.Now(),
		EnableBashCompletion: true,
		HideHelpCommand:      true,
		Usage:                "Trending posts and hashtags from your Bluesky timeline",
		Flags: []cli.Flag{
			debugFlag,
			formatFlag,
			configDirFlag,
			hostFlag,
			handleFlag,
			passwordFlag,
		},
		Commands: []*cli.Command{
			authCmd,
			reportCmd,
			searchCmd,
			trendingCmd,
			hashtagsCmd,
			resetCmd,
		},
		Action: cmdReport,
		Before: func(c *cli.Context) error {
			cfg, err := loadAppConfig(c, out)
			if err != nil {
				return err
			}
			if c.App.Metadata == nil {
				c.App.Metadata = make(map[string]any)
			}
			c.App.Metadata[appConfigKey] = cfg
			return nil
		},
	}
}

func loadAppConfig(c *cli.Context, out io.Writer) (*appConfig, error) {
	debug := c.Bool(debugFlag.Name)
	if debug {
		logging.SetDefaultCLILogger("debug")
	}

	dir := c.String(configDirFlag.Name)
	if dir == "" {
		d, _, err := config.GetOrCreateHomeDir(appName)
		if err != nil {
			return nil, fmt.Errorf("resolving config dir: %w", err)
		}
		dir = d
	}

	conf, err := config.ReadOrCreate(dir)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if h := c.String(hostFlag.Name); h != "" {
		conf.Host = h
	}

	creds := &config.Credentials{
		Handle:      strings.TrimSpace(c.String(handleFlag.Name)),
		AppPassword: strings.TrimSpace(c.String(passwordFlag.Name)),
	}
	if creds.Handle == "" {
		creds.Handle = conf.Handle
	}

	slog.Debug("config loaded", "dir", dir, "host", conf.Host, "handle", creds.Handle)

	return &appConfig{
		Dir:         dir,
		Format:      parseFormat(c.String(formatFlag.Name)),
		Debug:       debug,
		Config:      conf,
		Credentials: creds,
		Store:       auth.NewStore(dir),
		Out:         out,
	}, nil
}

// applyFlags honors the debug and format flags when set on a subcommand.
func applyFlags(c *cli.Context) {
	cfg := getConfig(c)
	if c.Bool(debugFlag.Name) && !cfg.Debug {
		cfg.Debug = true
		logging.SetDefaultCLILogger("debug")
	}
	if c.IsSet(formatFlag.Name) {
		cfg.Format = parseFormat(c.String(formatFlag.Name))
	}
}

func parseFormat(f string) string {
	switch strings.ToLower(strings.TrimSpace(f)) {
	case formatJSON:
		return formatJSON
	case formatYAML, "yml":
		return formatYAML
	default:
		return formatText
	}
}

func (cfg *appConfig) encode(r *report.Report) error {
	switch cfg.Format {
	case formatYAML:
		e := yaml.NewEncoder(cfg.Out)
		defer e.Close()
		return e.Encode(r)
	case formatJSON:
		e := json.NewEncoder(cfg.Out)
		e.SetIndent("", "  ")
		return e.Encode(r)
	default:
		w := report.NewWriter(cfg.Out, time.Local, useColor(cfg.Out))
		return w.Render(r)
	}
}

// useColor reports whether text output goes to a color capable stdout.
func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f != os.Stdout {
		return false
	}
	return !color.NoColor
}
