package cli

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mchmarny/skypulse/pkg/config"
	"github.com/urfave/cli/v2"
)

var (
	yesFlag = &cli.BoolFlag{
		Name:  "yes",
		Usage: "Do not ask for confirmation",
	}

	resetCmd = &cli.Command{
		Name:            "reset",
		Usage:           "Delete the stored app password and restore the default config",
		HideHelpCommand: true,
		Flags:           []cli.Flag{debugFlag, yesFlag},
		Action:          cmdReset,
	}
)

func cmdReset(c *cli.Context) error {
	applyFlags(c)
	cfg := getConfig(c)

	if !c.Bool(yesFlag.Name) {
		fmt.Printf("This will delete the stored credentials and config in %s\n", cfg.Dir)
		fmt.Print("Are you sure? [y/N]: ")

		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if h := cfg.Credentials.Handle; h != "" {
		if err := cfg.Store.DeletePassword(h); err != nil {
			return fmt.Errorf("deleting app password: %w", err)
		}
		slog.Info("app password deleted", "handle", h)
	}

	conf, err := config.Reset(cfg.Dir)
	if err != nil {
		return fmt.Errorf("resetting config: %w", err)
	}
	cfg.Config = conf

	slog.Info("config reset", "dir", cfg.Dir)
	fmt.Fprintln(cfg.Out, "Reset complete.")
	return nil
}
