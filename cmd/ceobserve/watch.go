package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iw2rmb/ceobserve/cdpview"
	"github.com/iw2rmb/ceobserve/clock"
	"github.com/iw2rmb/ceobserve/internal/config"
	"github.com/iw2rmb/ceobserve/observer"
)

var (
	watchURL        string
	watchControlURL string
	watchSelector   string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Observe an editor page in Chrome and log its events",
	Long: `Observe an editor page in Chrome and log its events.

Connects to the browser at --control-url, or launches a headless Chrome,
opens --url and polls the ve-ce-documentNode surface until interrupted.
Content, range and slug events are logged at info level.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchURL, "url", "", "page to open (overrides browser.url)")
	watchCmd.Flags().StringVar(&watchControlURL, "control-url", "", "DevTools WebSocket URL (overrides browser.control_url)")
	watchCmd.Flags().StringVar(&watchSelector, "selector", "", "CSS selector of the document node (overrides browser.document_selector)")
	rootCmd.AddCommand(watchCmd)
}

// watchSettings merges command flags over the configuration file.
func watchSettings(cfg *config.Config) (cdpview.SessionConfig, string, error) {
	sc := cfg.SessionConfig(logger)
	if watchURL != "" {
		sc.URL = watchURL
	}
	if watchControlURL != "" {
		sc.ControlURL = watchControlURL
	}
	selector := cfg.Browser.DocumentSelector
	if watchSelector != "" {
		selector = watchSelector
	}
	if sc.URL == "" {
		return sc, "", fmt.Errorf("watch: --url or browser.url is required")
	}
	return sc, selector, nil
}

func runWatch(cmd *cobra.Command, _ []string) error {
	sc, selector, err := watchSettings(appConfig)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := cdpview.Open(ctx, sc)
	if err != nil {
		return err
	}
	defer sess.Close()

	page := sess.Page.Context(ctx)
	loop := clock.NewLoop()
	oc := appConfig.ObserverSettings(logger)
	oc.Clock = clock.NewReal(loop)
	view := cdpview.New(page, cdpview.WithSelector(selector), cdpview.WithLogger(logger))
	obs := observer.New(view, cdpview.NewSurface(page, logger), oc)

	obs.OnContentChange(func(ev observer.ContentChange) {
		logger.Info("content change", "node", ev.Node, "previous", ev.Previous.Text, "next", ev.Next.Text,
			"structural", ev.Previous.Text == ev.Next.Text, "range", ev.Next.Range.String())
	})
	obs.OnRangeChange(func(ev observer.RangeChange) {
		logger.Info("range change", "old", ev.Old.String(), "new", ev.New.String())
	})
	obs.OnSlugEnter(func() { logger.Info("slug enter") })

	loop.Post(obs.StartTimerLoop)

	if configPath != "" {
		go func() {
			err := config.Watch(ctx, configPath, logger, func(c *config.Config) {
				d := c.ObserverSettings(logger).PollInterval
				loop.Post(func() {
					obs.SetPollInterval(d)
					// A chain ended by NoPolling is restarted by a positive interval.
					obs.StartTimerLoop()
				})
			})
			if err != nil {
				logger.Warn("watch: config watch stopped", "error", err)
			}
		}()
	}

	logger.Info("watch: observing", "url", sc.URL, "selector", selector)
	err = loop.Run(ctx)
	obs.Detach()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}
