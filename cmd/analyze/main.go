// Command analyze classifies one image the way the browser extension does:
// it opens an overlay, waits for the result and prints it as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/angelmondragon/artisanhub/internal/classifier"
	"github.com/angelmondragon/artisanhub/pkg/config"
	"github.com/angelmondragon/artisanhub/pkg/gateway"
	"github.com/angelmondragon/artisanhub/pkg/logger"
)

func main() {
	imageURL := flag.String("image", "", "http(s) or data: URL of the image to classify")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall deadline for the analysis")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "analyze", Output: os.Stderr})
	_ = godotenv.Load()

	var upstream config.UpstreamConfig
	var classifierCfg config.ClassifierConfig
	if err := envconfig.Process(config.EnvPrefix, &upstream); err != nil {
		logg.Error(context.Background(), "failed to load upstream config", err)
		os.Exit(1)
	}
	if err := envconfig.Process(config.EnvPrefix, &classifierCfg); err != nil {
		logg.Error(context.Background(), "failed to load classifier config", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	result, err := analyze(ctx, upstream, classifierCfg, logg, *imageURL)
	if err != nil {
		logg.Error(ctx, "analysis failed", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func analyze(ctx context.Context, upstream config.UpstreamConfig, cfg config.ClassifierConfig, logg *logger.Logger, imageURL string) (*classifier.Classification, error) {
	backend, err := gateway.NewClient(
		upstream.BaseURL,
		gateway.WithTimeout(upstream.RequestTimeout),
		gateway.WithUserAgent(upstream.UserAgent),
		gateway.WithLogger(logg),
	)
	if err != nil {
		return nil, err
	}
	svc, err := classifier.NewService(backend, cfg, logg)
	if err != nil {
		return nil, err
	}

	presenter := classifier.NewPresenter(svc)
	defer presenter.Close()

	overlay := presenter.Show(ctx, classifier.Message{Action: classifier.ActionAnalyzeImage, ImageURL: imageURL})
	return overlay.Wait(ctx)
}
