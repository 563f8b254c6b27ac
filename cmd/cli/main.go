package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/social-monitor/internal/config"
	"github.com/social-monitor/internal/monitor"
	"github.com/social-monitor/internal/source"
	"github.com/social-monitor/internal/source/mock"
	"github.com/social-monitor/internal/source/rss"
	"github.com/social-monitor/internal/storage"
	"github.com/social-monitor/internal/storage/sqlite"
	"github.com/social-monitor/pkg/logger"
	"github.com/social-monitor/pkg/ratelimit"
)

var (
	cfgFile string
	cfg     *config.Manager
	log     *logger.Logger
	repo    storage.Repository
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "monitorctl",
		Short: "Operator CLI for the social media monitor",
		Long: `Inspect stored users and posts, manage keyword rules and run
one-shot fetches against the same database the monitoring daemon uses.`,
		PersistentPreRunE: initializeApp,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(keywordsCmd())
	rootCmd.AddCommand(monitorCmd())
	rootCmd.AddCommand(usersCmd())
	rootCmd.AddCommand(postsCmd())
	rootCmd.AddCommand(fetchCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initializeApp(cmd *cobra.Command, args []string) error {
	var err error

	// Load config
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logging := cfg.Logging()
	log = logger.New(logger.Config{
		Level:  logging.Level,
		Format: logging.Format,
		Output: logging.Output,
	})

	// Initialize storage
	repo, err = sqlite.New(cfg.Database().DSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run migrations
	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// ============ KEYWORD COMMANDS ============

func keywordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Manage keyword rules",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured keywords",
		RunE: func(cmd *cobra.Command, args []string) error {
			mc := cfg.Monitor()
			if len(mc.Keywords) == 0 {
				fmt.Println("No keywords configured.")
				return nil
			}
			fmt.Printf("Match mode: %s\n", mc.MatchMode)
			for _, kw := range mc.Keywords {
				fmt.Printf("  - %s\n", kw)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <keyword>",
		Short: "Add a keyword (persists immediately)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.AddKeyword(args[0]); err != nil {
				return err
			}
			fmt.Printf("Added keyword: %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <keyword>",
		Short: "Remove a keyword (persists immediately)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.RemoveKeyword(args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed keyword: %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all keywords",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ClearKeywords(); err != nil {
				return err
			}
			fmt.Println("Cleared all keywords.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "mode <any|all>",
		Short: "Set the keyword match mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.SetMatchMode(args[0]); err != nil {
				return err
			}
			fmt.Printf("Match mode set to: %s\n", args[0])
			return nil
		},
	})

	return cmd
}

// ============ MONITOR COMMANDS ============

func monitorCmd() *cobra.Command {
	var adminAddr string

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Monitor engine settings and daemon state",
	}
	cmd.PersistentFlags().StringVar(&adminAddr, "addr", "http://localhost:10000", "admin address of the running daemon")

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the running daemon's monitor status",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := http.Get(adminAddr + "/status")
			if err != nil {
				return fmt.Errorf("daemon not reachable at %s: %w", adminAddr, err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("daemon returned %s", resp.Status)
			}

			var status monitor.Status
			if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
				return fmt.Errorf("failed to decode status: %w", err)
			}

			fmt.Printf("Running:  %v\n", status.Running)
			fmt.Printf("Enabled:  %v\n", status.Enabled)
			fmt.Printf("Interval: %ds\n", status.IntervalSeconds)
			fmt.Printf("Seen:     %d posts\n", status.SeenPosts)
			if len(status.Targets) == 0 {
				fmt.Println("No monitor targets.")
				return nil
			}
			for _, t := range status.Targets {
				checked := "never"
				if t.LastChecked != nil {
					checked = t.LastChecked.Format("2006-01-02 15:04:05")
				}
				fmt.Printf("  %-8s %-24s last checked %s\n", t.Platform, t.UserID, checked)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset-seen",
		Short: "Clear the daemon's seen-post set (matched posts may notify again)",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := http.Post(adminAddr+"/seen/reset", "", nil)
			if err != nil {
				return fmt.Errorf("daemon not reachable at %s: %w", adminAddr, err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("daemon returned %s", resp.Status)
			}

			var result struct {
				Cleared int `json:"cleared"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
			fmt.Printf("Cleared %d seen posts.\n", result.Cleared)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "enable",
		Short: "Enable monitoring ticks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.SetMonitorEnabled(true); err != nil {
				return err
			}
			fmt.Println("Monitoring enabled.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "disable",
		Short: "Disable monitoring ticks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.SetMonitorEnabled(false); err != nil {
				return err
			}
			fmt.Println("Monitoring disabled.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "interval <seconds>",
		Short: "Set the tick interval in seconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid interval: %w", err)
			}
			if err := cfg.SetInterval(seconds); err != nil {
				return err
			}

			// Best effort: apply to the running daemon as well
			resp, err := http.Post(fmt.Sprintf("%s/monitor/interval?seconds=%d", adminAddr, seconds), "", nil)
			if err != nil {
				fmt.Printf("Interval set to %d seconds; daemon not reachable, takes effect on restart.\n", seconds)
				return nil
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusNoContent {
				fmt.Printf("Interval set to %d seconds; daemon returned %s, takes effect on restart.\n", seconds, resp.Status)
				return nil
			}
			fmt.Printf("Interval set to %d seconds and applied to the running daemon.\n", seconds)
			return nil
		},
	})

	return cmd
}

// ============ USER COMMANDS ============

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect and manage stored users",
	}

	var platform string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored users",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := repo.GetUsers(context.Background(), platform)
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Println("No users stored.")
				return nil
			}
			for _, u := range users {
				fmt.Printf("%-8s %-20s %-24s followers=%d\n", u.Platform, u.UserID, u.Username, u.Followers)
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&platform, "platform", "", "filter by platform")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <platform> <user_id>",
		Short: "Remove a user and all their posts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := repo.DeleteUser(context.Background(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Removed %s/%s and associated posts.\n", args[0], args[1])
			return nil
		},
	})

	return cmd
}

// ============ POST COMMANDS ============

func postsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Inspect stored posts",
	}

	var (
		platform string
		userID   string
		limit    int
		offset   int
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored posts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			posts, err := repo.GetPosts(context.Background(), storage.PostFilter{
				Platform: platform,
				UserID:   userID,
				Limit:    limit,
				Offset:   offset,
			})
			if err != nil {
				return err
			}
			if len(posts) == 0 {
				fmt.Println("No posts stored.")
				return nil
			}
			for _, p := range posts {
				content := p.Content
				if len(content) > 80 {
					content = content[:77] + "..."
				}
				fmt.Printf("[%s] %s %s likes=%d comments=%d\n    %s\n",
					p.Platform, p.PublishedAt.Format("2006-01-02 15:04"), p.Username,
					p.Likes, p.Comments, content)
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&platform, "platform", "", "filter by platform")
	listCmd.Flags().StringVar(&userID, "user", "", "filter by user ID")
	listCmd.Flags().IntVar(&limit, "limit", 50, "maximum posts to show")
	listCmd.Flags().IntVar(&offset, "offset", 0, "pagination offset")
	cmd.AddCommand(listCmd)

	countCmd := &cobra.Command{
		Use:   "count",
		Short: "Count stored posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := repo.CountPosts(context.Background(), storage.PostFilter{
				Platform: platform,
				UserID:   userID,
			})
			if err != nil {
				return err
			}
			fmt.Printf("%d posts\n", count)
			return nil
		},
	}
	countCmd.Flags().StringVar(&platform, "platform", "", "filter by platform")
	countCmd.Flags().StringVar(&userID, "user", "", "filter by user ID")
	cmd.AddCommand(countCmd)

	return cmd
}

// ============ FETCH COMMAND ============

func fetchCmd() *cobra.Command {
	var maxPosts int

	cmd := &cobra.Command{
		Use:   "fetch <platform> <user_id>",
		Short: "Run one fetch cycle for a target and print the result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform, userID := args[0], args[1]
			ctx := context.Background()

			registry := source.NewRegistry()
			switch platform {
			case "rss":
				registry.Register(rss.New())
			default:
				registry.Register(mock.New(platform))
			}

			limiter := ratelimit.NewDefaultLimiter()
			coordinator := monitor.NewCoordinator(registry, repo, limiter, 1, log)

			if err := coordinator.Fetch(ctx, platform, userID, maxPosts); err != nil {
				return err
			}

			for ev := range coordinator.Events() {
				switch e := ev.(type) {
				case monitor.ProgressEvent:
					fmt.Printf("  %s\n", e.Message)
				case monitor.NewPostEvent:
					fmt.Printf("  post %s (%s)\n", e.Post.PostID, e.Post.PublishedAt.Format("2006-01-02 15:04"))
				case monitor.ErrorEvent:
					return e.Err
				case monitor.FinishedEvent:
					fmt.Printf("Fetched %d posts for %s/%s\n", e.Count, platform, userID)
					return nil
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxPosts, "max", monitor.DefaultMaxPosts, "maximum posts to fetch")
	return cmd
}
