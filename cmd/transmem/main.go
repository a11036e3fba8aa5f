// Command transmem translates documents through a persistent translation
// memory, reusing previously translated segments where possible.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ZaguanLabs/transmem"
	"github.com/ZaguanLabs/transmem/cache"
	"github.com/ZaguanLabs/transmem/config"
	"github.com/ZaguanLabs/transmem/provider"
	"github.com/ZaguanLabs/transmem/store"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("transmem", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Flags
	configPath := fs.String("config", "transmem.toml", "Config file path")
	pair := fs.String("pair", "", "Language pair (fr-en, en-fr, en-es, es-en)")
	text := fs.String("text", "", "Translate ad-hoc text instead of a file")
	output := fs.String("output", "", "Output file (default: stdout)")
	outputShort := fs.String("o", "", "Output file (short for --output)")
	dbPath := fs.String("db", "", "Database path (overrides config)")
	diffFile := fs.String("diff", "", "Compare segments with a previous version and show reuse estimate")
	showStats := fs.Bool("stats", false, "Show translation memory statistics")
	showHistory := fs.Bool("history", false, "Show translation history")
	showVersion := fs.Bool("version", false, "Show version")
	quiet := fs.Bool("quiet", false, "Suppress progress output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", transmem.Name, transmem.FullVersion())
		return nil
	}

	// Handle -o alias for --output
	if *outputShort != "" && *output == "" {
		*output = *outputShort
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	logger := newLogger(stderr, cfg.Logging.Level)
	slog.SetDefault(logger)

	// Segment diff needs no database or provider.
	if *diffFile != "" {
		if fs.NArg() != 1 {
			return fmt.Errorf("--diff requires exactly one input file")
		}
		return runDiff(stdout, *diffFile, fs.Arg(0))
	}

	st, err := store.Open(cfg.Database.Path, store.WithLogger(logger))
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg, st, logger)
	if err != nil {
		_ = st.Close()
		return err
	}
	defer engine.Close()

	ctx := context.Background()

	switch {
	case *showStats:
		return printStats(stdout, engine.Statistics(ctx))
	case *showHistory:
		return printHistory(stdout, engine.History(ctx))
	case *text != "":
		if *pair == "" {
			fs.Usage()
			return fmt.Errorf("--pair is required")
		}
		res, err := engine.TranslateText(ctx, *text, *pair)
		if err != nil {
			return err
		}
		if res.Outcome == transmem.OutcomeUnchanged && res.Reason != "" {
			logger.Warn("text returned unchanged", "reason", res.Reason)
		}
		return writeResult(stdout, *output, res.Text)
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected one input file")
	}
	if *pair == "" {
		fs.Usage()
		return fmt.Errorf("--pair is required")
	}

	inputPath := fs.Arg(0)
	content, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}

	var observer transmem.ProgressObserver
	if !*quiet {
		observer = transmem.ProgressFunc(func(percent int) {
			fmt.Fprintf(stderr, "\rtranslating... %3d%%", percent)
			if percent >= 100 {
				fmt.Fprintln(stderr)
			}
		})
	}

	start := time.Now()
	translated, err := engine.TranslateDocument(ctx, inputPath, string(content), *pair, observer)
	if err != nil {
		return err
	}
	logger.Info("document translated", "file", inputPath, "elapsed", time.Since(start).Round(time.Millisecond))

	return writeResult(stdout, *output, translated)
}

// buildEngine wires the provider chain and optional cache from config.
func buildEngine(cfg config.Config, st *store.Store, logger *slog.Logger) (*transmem.Engine, error) {
	apiKey := cfg.Provider.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	var p transmem.Provider = provider.NewOpenAI(provider.OpenAIConfig{
		APIKey: apiKey,
		Model:  cfg.Provider.Model,
	})
	if cfg.Provider.RequestsPerMinute > 0 {
		p = transmem.NewRateLimitedProvider(p, transmem.RateLimitConfig{
			RequestsPerMinute: cfg.Provider.RequestsPerMinute,
		})
	}
	if cfg.Provider.MaxRetries > 0 {
		retryCfg := transmem.DefaultRetryConfig()
		retryCfg.MaxRetries = cfg.Provider.MaxRetries
		p = transmem.NewRetryProvider(p, retryCfg)
	}

	opts := append(cfg.EngineOptions(), transmem.WithLogger(logger))

	if cfg.Cache.Enabled {
		ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
		if cfg.Cache.RedisURL != "" {
			rc, err := cache.NewRedis(cache.RedisConfig{URL: cfg.Cache.RedisURL, TTL: ttl})
			if err != nil {
				return nil, fmt.Errorf("connect redis cache: %w", err)
			}
			opts = append(opts, transmem.WithCache(rc))
		} else {
			opts = append(opts, transmem.WithCache(cache.NewMemory(ttl)))
		}
	}

	return transmem.NewEngine(st, p, opts...), nil
}

// runDiff prints a segment-level reuse estimate between two revisions.
func runDiff(stdout io.Writer, oldPath, newPath string) error {
	oldContent, err := os.ReadFile(oldPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", oldPath, err)
	}
	newContent, err := os.ReadFile(newPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", newPath, err)
	}

	diff := transmem.DiffSegments(
		transmem.Split(string(oldContent)),
		transmem.Split(string(newContent)),
		transmem.DefaultMatchThreshold,
	)
	stats := diff.Stats()

	fmt.Fprintf(stdout, "unchanged: %d\nmodified:  %d\nadded:     %d\nremoved:   %d\n",
		stats.Unchanged, stats.Modified, stats.Added, stats.Removed)
	if needs := diff.NeedsTranslation(); len(needs) > 0 {
		fmt.Fprintf(stdout, "\nsegments needing translation:\n")
		for _, seg := range needs {
			fmt.Fprintf(stdout, "  %s\n", seg)
		}
	}
	return nil
}

func printStats(w io.Writer, stats transmem.Stats) error {
	fmt.Fprintf(w, "documents:    %d\n", stats.TotalDocuments)
	fmt.Fprintf(w, "translations: %d\n", stats.TotalTranslations)
	fmt.Fprintf(w, "revised:      %.1f%%\n", stats.RevisionRate)
	fmt.Fprintf(w, "reuse:        %.1f%%\n", stats.ReuseRate)
	return nil
}

func printHistory(w io.Writer, entries []transmem.HistoryEntry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no translations recorded")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %-7s %-12s %s (revisor: %s, score: %s)\n",
			e.Date.Format("2006-01-02 15:04"), e.LangPair, e.Status, e.FileName, e.Revisor, e.Score)
	}
	return nil
}

func writeResult(stdout io.Writer, outputPath, text string) error {
	if outputPath == "" {
		fmt.Fprintln(stdout, text)
		return nil
	}
	if err := os.WriteFile(outputPath, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	return nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
