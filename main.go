package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/wxtools/zipcast/internal/cache"
	"github.com/wxtools/zipcast/internal/config"
	"github.com/wxtools/zipcast/internal/httpclient"
	"github.com/wxtools/zipcast/internal/narrate"
	"github.com/wxtools/zipcast/internal/repository"
	"github.com/wxtools/zipcast/internal/service"
	"github.com/wxtools/zipcast/internal/webhook"
)

const (
	minLimit = 1
	maxLimit = 20
)

type cliArgs struct {
	zipCode      string
	limit        int
	markdown     bool
	narrationKey string
	webhooks     []string
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("zipcast", pflag.ContinueOnError)
	fs.IntP("limit", "l", 14, "number of forecast periods to show (1-20)")
	fs.BoolP("markdown", "m", false, "format the forecast with markdown")
	fs.String("narration-key", "", "narration API key (defaults to NARRATION_API_KEY)")
	fs.StringSlice("webhooks", nil, "comma-separated webhook URLs to deliver to")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  zipcast zip_code [flags]")
		fs.PrintDefaults()
	}
	return fs
}

// parseArgs validates the command line. Every check here runs before any
// network call is made.
func parseArgs(fs *pflag.FlagSet, argv []string) (*cliArgs, error) {
	if err := fs.Parse(argv); err != nil {
		return nil, err
	}

	if fs.NArg() < 1 {
		return nil, errors.New("zip_code is required")
	}

	args := &cliArgs{zipCode: fs.Arg(0)}

	var err error
	if args.limit, err = fs.GetInt("limit"); err != nil {
		return nil, err
	}
	if args.limit < minLimit || args.limit > maxLimit {
		return nil, fmt.Errorf("limit must be between %d and %d, got %d", minLimit, maxLimit, args.limit)
	}

	if args.markdown, err = fs.GetBool("markdown"); err != nil {
		return nil, err
	}
	if args.narrationKey, err = fs.GetString("narration-key"); err != nil {
		return nil, err
	}
	if args.webhooks, err = fs.GetStringSlice("webhooks"); err != nil {
		return nil, err
	}

	if args.narrationKey == "" {
		args.narrationKey = config.GetNarrationAPIKey()
	}

	if err := service.ValidateDelivery(args.narrationKey, args.webhooks); err != nil {
		return nil, err
	}

	return args, nil
}

func main() {
	_ = godotenv.Load()
	log := config.GetLogger()

	fs := newFlagSet()
	args, err := parseArgs(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := cache.NewFromConfig()
	if err != nil {
		log.Errorw("Invalid cache configuration", "error", err)
		os.Exit(1)
	}

	client := httpclient.New(httpclient.Options{})
	forecastSvc := service.NewForecastService(
		repository.NewCoordinateRepository(store, client),
		repository.NewForecastRepository(client),
	)

	text, err := forecastSvc.Forecast(ctx, args.zipCode, args.limit, args.markdown)
	if err != nil {
		exitWithError(ctx, err)
	}

	var narrator service.Narrator
	if args.narrationKey != "" {
		narrator = narrate.NewClient(args.narrationKey)
	}
	delivery := &service.DeliveryService{
		Narrator: narrator,
		Webhook:  webhook.NewClient(),
		Targets:  args.webhooks,
	}

	if err := delivery.Deliver(ctx, text); err != nil {
		exitWithError(ctx, err)
	}
}

// exitWithError reports the failure and terminates with a non-zero exit code.
// A cancelled context means the user interrupted the run; report that cleanly
// instead of the wrapped error chain.
func exitWithError(ctx context.Context, err error) {
	log := config.GetLogger()
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "Interrupted.")
		os.Exit(1)
	}
	log.Errorw("Run failed", "error", err)
	os.Exit(1)
}
