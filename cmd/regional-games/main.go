package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/adamwalzer/regional-games-lambda/internal/api"
	"github.com/adamwalzer/regional-games-lambda/internal/config"
	"github.com/adamwalzer/regional-games-lambda/internal/notify"
	"github.com/adamwalzer/regional-games-lambda/internal/processor"
)

var (
	apiURI  string
	process string
	groupID string
	verbose bool
	debug   bool
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regional-games",
		Short: "Attach regional games to the users of the groups serving their zip codes",
		Long: `regional-games walks the games API relationship graph (games -> zip codes ->
addresses -> groups -> users) and attaches every regional game to every user
reachable through it.

Examples:
  regional-games --uri https://api.example.com
  regional-games --uri https://api.example.com --process group --group grp-123 -v`,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&apiURI, "uri", "", "Base API URI")
	cmd.Flags().StringVar(&process, "process", "cron", "Job to run: cron or group")
	cmd.Flags().StringVar(&groupID, "group", "", "Process all users in this group")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Turn on verbose logging")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Turn on debug logging")
	cmd.MarkFlagRequired("uri")

	return cmd
}

// logLevel maps the verbosity flags onto a slog level. Debug wins over verbose.
func logLevel(verbose, debug bool) slog.Level {
	switch {
	case debug:
		return slog.LevelDebug
	case verbose:
		return slog.LevelInfo
	default:
		return slog.LevelInfo
	}
}

func run(cmd *cobra.Command, args []string) error {
	if process != "cron" && process != "group" {
		return fmt.Errorf("invalid process job: %s", process)
	}
	if process == "group" && groupID == "" {
		return fmt.Errorf("--group is required when --process=group")
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(verbose, debug),
	}))

	// Local development credentials live in .env; missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateCredentials(); err != nil {
		return err
	}

	client, err := api.New(apiURI, cfg.APIUser, cfg.APIPass, log)
	if err != nil {
		return err
	}

	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.SlackWebhookURL != "" {
		notifier = notify.NewSlackNotifier(cfg.SlackWebhookURL, cfg.SlackChannel)
	}

	proc := processor.New(client, log)
	ctx := cmd.Context()

	var runErr error
	switch process {
	case "cron":
		log.Info("processing cron for all games")
		runErr = proc.Cron(ctx)
	case "group":
		log.Info("processing all games for group", slog.String("group", groupID))
		runErr = proc.Group(ctx, groupID)
	}

	if runErr != nil {
		log.Error("job failed", slog.String("job", process), slog.Any("error", runErr))
		if err := notifier.RunFailed(ctx, process, runErr); err != nil {
			log.Error("failed to report job failure", slog.Any("error", err))
		}
		return runErr
	}
	return nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
