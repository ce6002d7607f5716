// MarketLens — segmented market analysis for trade data
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/marketlens/marketlens/api"
	"github.com/marketlens/marketlens/internal/analysis"
	"github.com/marketlens/marketlens/internal/config"
	"github.com/marketlens/marketlens/internal/datasource"
	"github.com/marketlens/marketlens/internal/report"
	"github.com/marketlens/marketlens/internal/store"
	"github.com/marketlens/marketlens/pkg/logger"
	"github.com/marketlens/marketlens/pkg/models"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and logger, populated by the root PersistentPreRunE.
var (
	cfg *config.Config
	log *logrus.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "marketlens",
	Short: "MarketLens — segmented market analysis for trade data",
	Long: `MarketLens aggregates public trade statistics, economic indicators,
company registries, and business news into a single segmented market
analysis per country and item. Every request produces a complete
result: when live providers fail, deterministic baseline data fills
the gaps.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.Logging.Level
		if override, _ := cmd.Flags().GetString("log-level"); override != "" {
			level = override
		}
		log = logger.New(level, cfg.Logging.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(serveCmd)
}

// buildEngine wires the provider adapters into an analysis engine.
func buildEngine() *analysis.Engine {
	trade := datasource.NewComtrade(cfg.Providers.Comtrade.BaseURL, cfg.Providers.Comtrade.APIKey)
	indicators := datasource.NewWorldBank(cfg.Providers.WorldBank.BaseURL)
	companies := datasource.NewOpenCorporates(cfg.Providers.OpenCorporates.BaseURL, cfg.Providers.OpenCorporates.APIToken)

	return analysis.NewEngine(trade, indicators, companies, analysis.EngineConfig{
		ProviderTimeout:     time.Duration(cfg.Analysis.ProviderTimeoutSec) * time.Second,
		ReportingYearOffset: cfg.Analysis.ReportingYearOffset,
	}, log)
}

func buildNewsService() *analysis.NewsService {
	feeds := datasource.NewNews(cfg.News.Feeds)
	return analysis.NewNewsService(feeds,
		time.Duration(cfg.News.TTLMinutes)*time.Minute, cfg.News.MaxItems, log)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("MarketLens %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [country]",
	Short: "Run a segmented market analysis for a country",
	Long: `Run a segmented market analysis: ranked market dominance per research
type, recommended companies, and data-source provenance. The result is
printed as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, _ := cmd.Flags().GetString("item")
		hsCode, _ := cmd.Flags().GetString("hs-code")
		lang, _ := cmd.Flags().GetString("lang")
		htmlPath, _ := cmd.Flags().GetString("html")
		typesFlag, _ := cmd.Flags().GetStringSlice("types")

		types := make([]models.ResearchType, 0, len(typesFlag))
		for _, raw := range typesFlag {
			rt, ok := models.ParseResearchType(raw)
			if !ok {
				return fmt.Errorf("unknown research type %q (want one of: import, export, distribution, consumption, manufacturing)", raw)
			}
			types = append(types, rt)
		}

		engine := buildEngine()
		result := engine.Produce(cmd.Context(), models.AnalysisRequest{
			CountryCode:   args[0],
			Item:          item,
			HSCode:        hsCode,
			ResearchTypes: types,
		}, lang)

		if htmlPath != "" {
			if err := report.NewGenerator().WriteHTML(result, htmlPath); err != nil {
				return err
			}
			fmt.Printf("briefing written to %s\n", htmlPath)
			return nil
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("item", "", "item or product to analyze")
	analyzeCmd.Flags().String("hs-code", "", "HS commodity code")
	analyzeCmd.Flags().String("lang", "en", "output language (en, ko)")
	analyzeCmd.Flags().String("html", "", "write an HTML briefing to this path instead of JSON")
	analyzeCmd.Flags().StringSlice("types", nil, "research types (default: import,export)")
}

// --- News Command ---

var newsCmd = &cobra.Command{
	Use:   "news [country]",
	Short: "Print the business-news market briefing",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		country := ""
		if len(args) > 0 {
			country = args[0]
		}
		lang, _ := cmd.Flags().GetString("lang")

		news := buildNewsService()
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		for _, item := range news.Summary(ctx, country, lang) {
			marker := " "
			if item.Live {
				marker = "•"
			}
			line := fmt.Sprintf("%s %s — %s", marker, item.Title, item.Source)
			fmt.Println(strings.TrimRight(line, " "))
		}
		return nil
	},
}

func init() {
	newsCmd.Flags().String("lang", "en", "output language (en, ko)")
}

// --- Serve Command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.Store.Path, cfg.Store.InMemory, log)
		if err != nil {
			return fmt.Errorf("failed to open options store: %w", err)
		}
		defer st.Close()

		srv := api.NewServer(cfg, buildEngine(), buildNewsService(), st, log)

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		return srv.ListenAndServe(addr)
	},
}
