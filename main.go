package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/luckydoganimalrescue/p6-ldar-portal-scraper/internal/browser"
	"github.com/luckydoganimalrescue/p6-ldar-portal-scraper/internal/config"
	"github.com/luckydoganimalrescue/p6-ldar-portal-scraper/internal/logger"
	"github.com/luckydoganimalrescue/p6-ldar-portal-scraper/internal/portal"
	"github.com/luckydoganimalrescue/p6-ldar-portal-scraper/internal/storage"
)

// appVersion is set at build time via -ldflags="-X main.appVersion=x.x.x"
var appVersion = "dev"

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	configFile := flag.String("config", "", "Path to YAML config file")

	pin := flag.String("pin", "", "Portal account pin (required)")
	user := flag.String("user", "", "Portal user name (required)")
	password := flag.String("password", "", "Portal password (required)")
	startPage := flag.Int("start-page", 0, "Start downloads on page N")
	endPage := flag.Int("end-page", 0, "Stop before page N")
	hold := flag.String("hold", "", "Pattern identifying hold status rows")
	yearPattern := flag.String("year-pattern", "", "Year token identifying animals (e.g. '-24-')")
	baseURL := flag.String("base-url", "", "Portal base URL")
	output := flag.String("output", "", "Directory to save photos")
	execPath := flag.String("exec", "", "Browser executable (auto-detect if empty)")
	profile := flag.String("profile", "", "Path to browser profile")
	headless := flag.Bool("headless", false, "Run the browser headless")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ldar-portal-scraper version %s\n", appVersion)
		os.Exit(0)
	}

	cfg := config.Default()
	if *configFile != "" {
		if err := cfg.LoadFile(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cfg.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags win over file and environment settings.
	if *pin != "" {
		cfg.Pin = *pin
	}
	if *user != "" {
		cfg.User = *user
	}
	if *password != "" {
		cfg.Password = *password
	}
	if *startPage > 0 {
		cfg.StartPage = *startPage
	}
	if *endPage > 0 {
		cfg.EndPage = *endPage
	}
	if *hold != "" {
		cfg.Hold = *hold
	}
	if *yearPattern != "" {
		cfg.YearPattern = *yearPattern
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *output != "" {
		cfg.OutputDir = *output
	}
	if *execPath != "" {
		cfg.ExecPath = *execPath
	}
	if *profile != "" {
		cfg.ProfilePath = *profile
	}
	if *headless {
		cfg.Headless = true
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// Auto-detect browser if not specified
	if cfg.ExecPath == "" {
		cfg.ExecPath = browser.DetectBrowser()
		if cfg.ExecPath == "" {
			log.Fatal().Msg("could not find Chrome/Chromium; install Chrome or pass -exec")
		}
		log.Info().Str("exec", cfg.ExecPath).Msg("auto-detected browser")
	}
	if cfg.ProfilePath == "" {
		cfg.ProfilePath = browser.DefaultProfilePath()
	}

	log.Info().
		Str("base_url", cfg.BaseURL).
		Int("start_page", cfg.StartPage).
		Int("end_page", cfg.EndPage).
		Str("hold", cfg.Hold).
		Str("year_pattern", cfg.YearPattern).
		Str("output", cfg.OutputDir).
		Msg("starting portal scraper")

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	bcfg := browser.DefaultConfig()
	bcfg.ExecPath = cfg.ExecPath
	bcfg.ProfilePath = cfg.ProfilePath
	bcfg.Headless = cfg.Headless
	bcfg.Timeout = cfg.NavTimeout

	browserCtx, err := browser.New(bcfg)
	if err != nil {
		return err
	}
	defer browserCtx.Close()

	store, err := storage.NewStore(cfg.OutputDir)
	if err != nil {
		return err
	}

	session := portal.NewBrowserSession(cfg.BaseURL, cfg.FetchTimeout)
	p, err := portal.New(cfg, session, store, log)
	if err != nil {
		return err
	}

	runErr := p.Run(browserCtx.Ctx)
	p.Stats().Print()
	return runErr
}
