package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/garyjia/default-desk/internal/config"
	"github.com/garyjia/default-desk/internal/domain/apperr"
	"github.com/garyjia/default-desk/internal/infrastructure/external/backend"
	"github.com/garyjia/default-desk/internal/infrastructure/external/lark"
	"go.uber.org/zap"
)

// check-backend checks the workflow backend and, with -notify, sends a test
// message to the reviewer chat.
func main() {
	configPath := flag.String("config", "", "Path to config file (empty for defaults and environment only)")
	baseURL := flag.String("url", "", "Backend base URL (overrides config)")
	timeout := flag.Duration("timeout", 10*time.Second, "Check timeout")
	notify := flag.Bool("notify", false, "Also send a test notification to the Lark reviewer chat")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger = zap.NewNop()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath, ".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *baseURL != "" {
		cfg.Backend.BaseURL = *baseURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	fmt.Println("=== Backend Check ===")
	fmt.Printf("Base URL: %s\n", cfg.Backend.BaseURL)

	client := backend.NewClient(backend.Config{
		BaseURL:   cfg.Backend.BaseURL,
		APIPrefix: cfg.Backend.APIPrefix,
	}, logger)

	start := time.Now()
	if err := client.Health(ctx); err != nil {
		fmt.Printf("✗ GET /test failed after %s: %v\n", time.Since(start).Round(time.Millisecond), err)
		fmt.Printf("  shown to users as: %s\n", apperr.UserMessage(err))
		os.Exit(1)
	}
	fmt.Printf("✓ GET /test ok in %s\n", time.Since(start).Round(time.Millisecond))

	stats, err := client.Statistics(ctx)
	if err != nil {
		fmt.Printf("✗ GET %s/statistics failed: %v\n", cfg.Backend.APIPrefix, err)
		os.Exit(1)
	}
	fmt.Printf("✓ Statistics: %d industries, %d regions, %d trend points\n",
		len(stats.Industry), len(stats.Region), len(stats.Trend))

	if !*notify {
		return
	}

	larkCfg := lark.Config{AppID: cfg.Lark.AppID, AppSecret: cfg.Lark.AppSecret, ChatID: cfg.Lark.ChatID}
	if !larkCfg.Enabled() {
		fmt.Println("✗ Lark is not configured (LARK_APP_ID, LARK_APP_SECRET, LARK_CHAT_ID)")
		os.Exit(1)
	}
	notifier := lark.NewNotifierFromConfig(larkCfg, logger)
	if err := notifier.Notify(ctx, "违约管理前台连通性测试"); err != nil {
		fmt.Printf("✗ Notification failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Test notification sent")
}
