// Package main provides the CLI entrypoint for typebadge.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/typebadge/typebadge/internal/badge"
	"github.com/typebadge/typebadge/internal/config"
	"github.com/typebadge/typebadge/internal/model"
	"github.com/typebadge/typebadge/internal/monkeytype"
	"github.com/typebadge/typebadge/internal/stats"
	"github.com/typebadge/typebadge/internal/store"
)

const (
	defaultOutput  = "assets/monkeytype-badge.svg"
	defaultTimeout = 15 * time.Second
)

var (
	badgeUsername string
	badgeOutput   string
	badgeTimeout  time.Duration

	statsUsername string

	historyUsername string
	historyLast     int
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typebadge",
		Short:         "MonkeyType status badge generator",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runBadgeCmd,
	}

	rootCmd.Flags().StringVar(&badgeUsername, "username", "", "MonkeyType username")
	rootCmd.Flags().StringVar(&badgeOutput, "output", defaultOutput, "output SVG path")
	rootCmd.Flags().DurationVar(&badgeTimeout, "timeout", defaultTimeout, "scoreboard request timeout")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runBadgeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "username", &badgeUsername, fileCfg.Badge.Username)
	applyStringConfig(cmd, "output", &badgeOutput, fileCfg.Badge.Output)
	applyTimeoutConfig(cmd, "timeout", &badgeTimeout, fileCfg.Badge.TimeoutSeconds)
	if badgeUsername == "" {
		return fmt.Errorf("--username is required (or set badge.username in config)")
	}

	ctx := context.Background()
	client := newClient(fileCfg, badgeTimeout)

	sum, ok, runCount := fetchSummary(ctx, client, badgeUsername)
	label := stats.Label(sum, ok)

	svg, err := badge.Render(label)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(badgeOutput), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(badgeOutput, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("failed to write badge: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote badge to %s\n", badgeOutput); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if ok {
		recordSnapshot(ctx, badgeUsername, sum, runCount)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Fetch and print the current summary",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsUsername, "username", "", "MonkeyType username")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "username", &statsUsername, fileCfg.Badge.Username)
	if statsUsername == "" {
		return fmt.Errorf("--username is required (or set badge.username in config)")
	}

	timeout := defaultTimeout
	if v := fileCfg.Badge.TimeoutSeconds; v != nil && *v > 0 {
		timeout = time.Duration(*v) * time.Second
	}

	ctx := context.Background()
	client := newClient(fileCfg, timeout)
	sum, ok, runCount := fetchSummary(ctx, client, statsUsername)

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, titleStyle.Render("MonkeyType Summary")); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderSummary(out, statsUsername, runCount, sum, ok); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}

	if ok {
		recordSnapshot(ctx, statsUsername, sum, runCount)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored fetch snapshots",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyUsername, "username", "", "username filter")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N snapshots")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	snaps, err := st.ListSnapshots(context.Background(), model.HistoryConfig{
		Username: historyUsername,
		Last:     historyLast,
	})
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	out := cmd.OutOrStdout()
	width := stats.TerminalWidth(out)
	if _, err := fmt.Fprintln(out, titleStyle.Render("Fetch History")); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderHistory(out, snaps, width-len("Best WPM: ")); err != nil {
		return fmt.Errorf("failed to render history: %w", err)
	}
	if len(snaps) > 0 {
		note := fmt.Sprintf("%d snapshot(s), db: %s", len(snaps), config.DefaultDBPath())
		if _, err := fmt.Fprintln(out, mutedStyle.Render(note)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func loadFileConfig() (config.FileConfig, error) {
	config.LoadEnv()
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return fileCfg, nil
}

func newClient(fileCfg config.FileConfig, timeout time.Duration) *monkeytype.Client {
	opts := []monkeytype.Option{monkeytype.WithTimeout(timeout)}
	if v := fileCfg.API.BaseURL; v != nil && *v != "" {
		opts = append(opts, monkeytype.WithBaseURL(*v))
	}
	if v := config.APIBaseFromEnv(); v != "" {
		opts = append(opts, monkeytype.WithBaseURL(v))
	}
	if v := fileCfg.API.UserAgent; v != nil && *v != "" {
		opts = append(opts, monkeytype.WithUserAgent(*v))
	}
	if v := config.UserAgentFromEnv(); v != "" {
		opts = append(opts, monkeytype.WithUserAgent(v))
	}
	return monkeytype.New(opts...)
}

// fetchSummary turns any fetch failure into the no-data case, logging the
// cause to stderr. The badge must degrade instead of aborting.
func fetchSummary(ctx context.Context, client *monkeytype.Client, username string) (model.Summary, bool, int) {
	runs, err := client.FetchRuns(ctx, username)
	if err != nil {
		logErrf("failed to fetch scoreboard: %v\n", err)
		return model.Summary{}, false, 0
	}
	sum, ok := stats.Summarize(runs)
	return sum, ok, len(runs)
}

// recordSnapshot stores the summary locally. Best effort: history must
// never fail the badge write.
func recordSnapshot(ctx context.Context, username string, sum model.Summary, runCount int) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("failed to open db: %v\n", err)
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	snap := model.Snapshot{
		FetchedAt: time.Now(),
		Username:  username,
		BestWPM:   sum.BestWPM,
		AvgAcc:    sum.AvgAcc,
		Runs:      runCount,
	}
	if _, err := st.InsertSnapshot(ctx, snap); err != nil {
		logErrf("failed to record snapshot: %v\n", err)
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyTimeoutConfig(cmd *cobra.Command, name string, target *time.Duration, seconds *int) {
	if seconds == nil || *seconds <= 0 {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = time.Duration(*seconds) * time.Second
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typebadge configuration
# Uncomment a value to enable it. CLI flags override config values.

[badge]
# username = ""                       # MonkeyType username
# output = %q                          # Badge output path
# timeout-seconds = %d                 # Scoreboard request timeout

[api]
# base-url = "https://monkeytype.com/api"  # Scoreboard API base URL
# user-agent = %q                      # User-Agent header
`,
		defaultOutput,
		int(defaultTimeout/time.Second),
		"github-action/monkeytype-badge",
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
