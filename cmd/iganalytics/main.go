package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/WaleedAkram111/instagram-analytics-project/internal/cmdlog"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/collect"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/config"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/crawl"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/export"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/igclient"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/metrics"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/ratelimit"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/report"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/store"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/textutil"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/theme"
)

func main() {
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "init":
		cmdInit()
	case "analyze":
		cmdAnalyze()
	case "export":
		cmdExport()
	default:
		printHelp()
	}
}

func printHelp() {
	theme.PrintBanner()
	fmt.Println("Usage: iganalytics <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  init        Create a config file at ./iganalytics.yaml")
	fmt.Println("  analyze     Crawl a user's network and build a preference report")
	fmt.Println("  export      Export stored likes, hashtags, or network data")
}

func cmdInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("path", "./iganalytics.yaml", "path to write config")
	_ = fs.Parse(os.Args[2:])
	cfg := config.Default()
	if err := config.Save(*path, cfg); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	abs, _ := filepath.Abs(*path)
	theme.PrintBanner()
	fmt.Println("Config written to:", abs)
}

func cmdAnalyze() {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	cfgPath := fs.String("config", "./iganalytics.yaml", "config path")
	user := fs.String("user", "", "target username to analyze")
	maxDepth := fs.Int("max-depth", 0, "maximum network depth to explore (0 = config default)")
	minLikes := fs.Int("min-likes", 0, "minimum likes for post inclusion (0 = config default)")
	maxUsers := fs.Int("max-users", 0, "maximum users per network level (0 = config default)")
	skipCollection := fs.Bool("skip-collection", false, "skip data collection, analyze existing data")
	exportFormat := fs.String("format", "", "also export tables as csv or json")
	_ = fs.Parse(os.Args[2:])

	if *user == "" {
		fmt.Println("error: -user is required")
		fs.Usage()
		os.Exit(1)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	if *maxDepth > 0 {
		cfg.Analysis.MaxDepth = *maxDepth
	}
	if *minLikes > 0 {
		cfg.Analysis.MinLikes = *minLikes
	}
	if *maxUsers > 0 {
		cfg.Analysis.MaxUsersPerLevel = *maxUsers
	}
	metrics.StartServer(cfg.Metrics.Addr)

	username := textutil.CleanUsername(*user)
	err = cmdlog.Run("analyze", func() error {
		return runAnalyze(context.Background(), cfg, username, *skipCollection, *exportFormat)
	})
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func runAnalyze(ctx context.Context, cfg config.Config, username string, skipCollection bool, exportFormat string) error {
	db, err := store.Open(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if !skipCollection {
		if err := collectData(ctx, cfg, db, username); err != nil {
			return err
		}
	}

	builder := report.NewBuilder(db, cfg.Analysis.TopHashtags)
	rep, err := builder.Build(ctx, username)
	if errors.Is(err, report.ErrUserNotFound) {
		return fmt.Errorf("user %s not found in database; run without -skip-collection first", username)
	}
	if err != nil {
		return err
	}

	path, err := export.WriteReport(cfg.Export.Dir, username, rep)
	if err != nil {
		return err
	}
	printSummary(rep, path)

	if exportFormat == export.FormatCSV || exportFormat == export.FormatJSON {
		for _, fn := range []func(context.Context, *store.DB, string, string, string) (string, error){
			export.ExportLikes, export.ExportHashtags, export.ExportNetwork,
		} {
			if p, err := fn(ctx, db, rep.UserInfo.UserID, cfg.Export.Dir, exportFormat); err != nil {
				fmt.Println("export warning:", err)
			} else {
				fmt.Println("Exported:", p)
			}
		}
	}
	return nil
}

func collectData(ctx context.Context, cfg config.Config, db *store.DB, username string) error {
	client := igclient.NewHTTPClient(cfg.Credentials.SessionToken, cfg.Credentials.BaseURL)
	limiter := ratelimit.New(cfg.RateLimit.MinDelay, cfg.RateLimit.MaxDelay, cfg.RateLimit.MaxCallsPerHour)

	target, err := client.ResolveUser(ctx, username)
	if errors.Is(err, igclient.ErrNotFound) {
		return fmt.Errorf("user %s not found on the platform", username)
	}
	if err != nil {
		return err
	}
	if err := db.UpsertUser(ctx, target); err != nil {
		return err
	}

	runID, _ := db.StartRun(ctx, "collection", target.ID)

	crawler := crawl.New(db, client, limiter)
	discovered, err := crawler.Crawl(ctx, target.ID, crawl.Limits{
		MaxDepth:         cfg.Analysis.MaxDepth,
		MaxUsersPerLevel: cfg.Analysis.MaxUsersPerLevel,
		MaxTotal:         cfg.Analysis.MaxNetworkSize,
	})
	if err != nil {
		_ = db.FinishRun(ctx, runID, store.RunFailed, len(discovered), err.Error())
		return err
	}

	collector := collect.New(db, client, limiter)
	limits := collect.Limits{
		MinLikes:         cfg.Analysis.MinLikes,
		MaxPostsPerUser:  cfg.Analysis.MaxPostsPerUser,
		MaxUsersChecked:  cfg.Analysis.MaxUsersChecked,
		MaxPostsToCheck:  cfg.Analysis.MaxPostsToCheck,
		MaxLikersPerPost: cfg.Analysis.MaxLikersPerPost,
	}
	posts, err := collector.HighEngagementPosts(ctx, discovered, limits)
	if err != nil {
		_ = db.FinishRun(ctx, runID, store.RunFailed, len(posts), err.Error())
		return err
	}
	likes, err := collector.FindTargetLikes(ctx, target.ID, posts, limits)
	if err != nil {
		_ = db.FinishRun(ctx, runID, store.RunFailed, len(likes), err.Error())
		return err
	}
	return db.FinishRun(ctx, runID, store.RunCompleted, len(likes), "")
}

func cmdExport() {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	cfgPath := fs.String("config", "./iganalytics.yaml", "config path")
	user := fs.String("user", "", "target username")
	format := fs.String("format", export.FormatCSV, "output format: csv or json")
	data := fs.String("data", "all", "data to export: likes, hashtags, network, or all")
	_ = fs.Parse(os.Args[2:])

	if *user == "" {
		fmt.Println("error: -user is required")
		fs.Usage()
		os.Exit(1)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	err = cmdlog.Run("export", func() error {
		ctx := context.Background()
		db, err := store.Open(cfg.Storage.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		target, err := db.UserByUsername(ctx, textutil.CleanUsername(*user))
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("user %s not found in database", *user)
		}
		if err != nil {
			return err
		}
		kinds := map[string]func(context.Context, *store.DB, string, string, string) (string, error){
			"likes":    export.ExportLikes,
			"hashtags": export.ExportHashtags,
			"network":  export.ExportNetwork,
		}
		for _, kind := range []string{"likes", "hashtags", "network"} {
			if *data != "all" && *data != kind {
				continue
			}
			path, err := kinds[kind](ctx, db, target.ID, cfg.Export.Dir, *format)
			if err != nil {
				return err
			}
			fmt.Println("Exported:", path)
		}
		return nil
	})
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}
