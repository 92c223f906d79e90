package cli

import (
	"fmt"
	"time"

	"github.com/mchmarny/skypulse/pkg/report"
	"github.com/urfave/cli/v2"
)

var (
	tagFlag = &cli.StringSliceFlag{
		Name:  "tag",
		Usage: "Hashtag to search for (can be specified multiple times, default: from config)",
	}

	limitFlag = &cli.IntFlag{
		Name:  "limit",
		Usage: "Maximum number of posts per hashtag search (default: from config)",
	}

	hoursFlag = &cli.IntFlag{
		Name:  "hours",
		Usage: "Only rank posts created within this many hours (default: from config)",
	}

	topFlag = &cli.IntFlag{
		Name:  "top",
		Usage: "Number of top ranked posts to show (default: from config)",
	}

	reportCmd = &cli.Command{
		Name:    "report",
		Aliases: []string{"r"},
		Usage:   "Search hashtags, rank the recent timeline and show trending hashtags",
		UsageText: `skypulse report                            # configured hashtags, last 24 hours
   skypulse report --tag golang --hours 6     # custom hashtag and window
   skypulse --format json report              # machine readable output`,
		HideHelpCommand: true,
		Action:          cmdReport,
		Flags:           []cli.Flag{tagFlag, limitFlag, hoursFlag, topFlag, formatFlag, debugFlag},
	}

	searchCmd = &cli.Command{
		Name:            "search",
		Aliases:         []string{"s"},
		Usage:           "Search posts by hashtag",
		UsageText:       `skypulse search --tag CfP --limit 20`,
		HideHelpCommand: true,
		Action:          cmdSearch,
		Flags:           []cli.Flag{tagFlag, limitFlag, formatFlag, debugFlag},
	}

	trendingCmd = &cli.Command{
		Name:            "trending",
		Aliases:         []string{"t"},
		Usage:           "Rank recent timeline posts by engagement",
		UsageText:       `skypulse trending --hours 12 --top 10`,
		HideHelpCommand: true,
		Action:          cmdTrending,
		Flags:           []cli.Flag{hoursFlag, topFlag, formatFlag, debugFlag},
	}

	hashtagsCmd = &cli.Command{
		Name:            "hashtags",
		Aliases:         []string{"h"},
		Usage:           "Show the most frequent hashtags across searches and timeline",
		HideHelpCommand: true,
		Action:          cmdHashtags,
		Flags:           []cli.Flag{tagFlag, limitFlag, hoursFlag, formatFlag, debugFlag},
	}
)

// getRunOptions merges command flags over the config file values.
func getRunOptions(c *cli.Context, cfg *appConfig) *runOptions {
	conf := cfg.Config
	opts := &runOptions{
		Hashtags:      conf.Hashtags,
		SearchLimit:   conf.SearchLimit,
		TimelineLimit: conf.TimelineLimit,
		WindowHours:   conf.WindowHours,
		TopPosts:      conf.TopPosts,
		Now:           time.Now().UTC(),
	}

	if tags := c.StringSlice(tagFlag.Name); len(tags) > 0 {
		opts.Hashtags = tags
	}
	if v := c.Int(limitFlag.Name); v > 0 {
		opts.SearchLimit = v
	}
	if v := c.Int(hoursFlag.Name); v > 0 {
		opts.WindowHours = v
	}
	if v := c.Int(topFlag.Name); v > 0 {
		opts.TopPosts = v
	}

	return opts
}

func cmdReport(c *cli.Context) error {
	applyFlags(c)
	cfg := getConfig(c)
	opts := getRunOptions(c, cfg)

	src, err := newPostSource(c.Context, cfg)
	if err != nil {
		return err
	}

	r := runReport(c.Context, src, opts)
	r.Handle = cfg.Credentials.Handle

	if err := cfg.encode(r); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

func cmdSearch(c *cli.Context) error {
	applyFlags(c)
	cfg := getConfig(c)
	opts := getRunOptions(c, cfg)

	if len(opts.Hashtags) == 0 {
		return cli.ShowSubcommandHelp(c)
	}

	src, err := newPostSource(c.Context, cfg)
	if err != nil {
		return err
	}

	col := newCollector(src)
	r := &report.Report{Generated: opts.Now, Handle: cfg.Credentials.Handle}
	for _, tag := range opts.Hashtags {
		r.Searches = append(r.Searches, col.search(c.Context, tag, opts.SearchLimit))
	}

	if err := cfg.encode(r); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

func cmdTrending(c *cli.Context) error {
	applyFlags(c)
	cfg := getConfig(c)
	opts := getRunOptions(c, cfg)

	src, err := newPostSource(c.Context, cfg)
	if err != nil {
		return err
	}

	r := &report.Report{
		Generated: opts.Now,
		Handle:    cfg.Credentials.Handle,
		Trending:  newCollector(src).trending(c.Context, opts),
	}

	if err := cfg.encode(r); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

func cmdHashtags(c *cli.Context) error {
	applyFlags(c)
	cfg := getConfig(c)
	opts := getRunOptions(c, cfg)

	src, err := newPostSource(c.Context, cfg)
	if err != nil {
		return err
	}

	full := runReport(c.Context, src, opts)
	r := &report.Report{
		Generated: full.Generated,
		Handle:    cfg.Credentials.Handle,
		Hashtags:  full.Hashtags,
	}

	if err := cfg.encode(r); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}
