// Command ls-stellar generates the stars visible to the naked eye from a
// simulated neighbourhood and follows them through stellar evolution.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-stellar/internal/astro"
	"github.com/litescript/ls-stellar/internal/config"
	"github.com/litescript/ls-stellar/internal/logging"
	"github.com/litescript/ls-stellar/internal/parsec"
	"github.com/litescript/ls-stellar/internal/population"
	"github.com/litescript/ls-stellar/internal/stars"
	"github.com/litescript/ls-stellar/internal/state"
	"github.com/litescript/ls-stellar/internal/store"
	"github.com/litescript/ls-stellar/internal/ui"
)

// CLI flags
var (
	configPath  string
	logLevel    string
	logFile     string
	maxDistance float64
	singleMode  bool
	years       float64
	summaryMode bool
	miniSkyMode bool
	jsonPath    string
	dbDSN       string
	seed        uint64
	offline     bool
	listRuns    bool
	loadRun     string
)

func main() {
	flag.StringVar(&configPath, "config", "", "Config file (default: ./ls-stellar.yaml or user config dir)")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&logFile, "log-file", "", "Write logs to file while the TUI is running")
	flag.Float64Var(&maxDistance, "max-distance", 100, "Radius of the generated neighbourhood in light years")
	flag.BoolVar(&singleMode, "single", false, "Generate one visible star and print it")
	flag.Float64Var(&years, "years", 0, "Years after the epoch to evolve the population to")
	flag.BoolVar(&summaryMode, "summary", false, "Print text summary instead of TUI")
	flag.BoolVar(&miniSkyMode, "mini-sky", false, "Show ASCII mini sky view")
	flag.StringVar(&jsonPath, "json", "", "Export population as JSON to file (use - for stdout)")
	flag.StringVar(&dbDSN, "db", "", "Save the run to a database (sqlite path or postgres:// URL)")
	flag.Uint64Var(&seed, "seed", 0, "Random seed (0 picks one)")
	flag.BoolVar(&offline, "offline", false, "Never download track data")
	flag.BoolVar(&listRuns, "runs", false, "List saved runs and exit")
	flag.StringVar(&loadRun, "load", "", "Show a saved run instead of generating one")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if dbDSN != "" {
		cfg.Store.DSN = dbDSN
	}
	if seed != 0 {
		cfg.Population.Seed = seed
	}

	logger := logging.New(logging.ParseLevel(cfg.LogLevel))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	var fetcher *parsec.Fetcher
	if !offline {
		fetcher = parsec.NewFetcher(
			parsec.WithURL(cfg.Data.URL),
			parsec.WithTimeout(cfg.Data.Timeout),
		)
	}
	provider := parsec.NewDirProvider(cfg.Data.Dir, cfg.Data.Metallicity, fetcher, logger)

	gen, err := population.New(provider, cfg.Population.Generator(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	stateMgr := state.NewManager(state.DefaultConfig())
	observer := astro.Observer{LatDeg: cfg.Observer.Lat, LonDeg: cfg.Observer.Lon}

	if listRuns || loadRun != "" {
		if err := runStored(ctx, cfg, observer, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Headless mode: no TUI
	headless := summaryMode || jsonPath != "" || miniSkyMode || singleMode ||
		!term.IsTerminal(int(os.Stdout.Fd()))
	if headless {
		if err := runHeadless(ctx, cfg, gen, stateMgr, observer, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Logs would tear the alternate screen
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger.SetOutput(f)
	} else {
		logger.SetOutput(io.Discard)
	}

	model := ui.New(stateMgr, observer)
	p := tea.NewProgram(model, tea.WithAltScreen())

	go runGeneration(ctx, cfg, gen, stateMgr, p, logger)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// runGeneration builds the population in the background and hands it to the TUI.
func runGeneration(ctx context.Context, cfg *config.Config, gen *population.Generator, stateMgr *state.Manager, p *tea.Program, logger *logging.Logger) {
	var drawn int
	gen.OnProgress(func(pr population.Progress) {
		drawn = pr.Drawn
		stateMgr.SetProgress(pr)
		p.Send(ui.ProgressMsg{Progress: pr})
	})

	start := time.Now()
	pop, err := gen.GeneratePopulation(ctx, maxDistance)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.Error("Generation failed: %v", err)
		stateMgr.SetError(err)
		p.Send(ui.ErrorMsg{Error: err})
		return
	}
	logger.Info("Generated %d visible stars in %v", len(pop), time.Since(start).Round(time.Millisecond))

	stateMgr.SetPopulation(pop, maxDistance, time.Now())
	if years != 0 {
		stateMgr.SetYears(years)
	}
	p.Send(ui.DataUpdateMsg{Snapshot: stateMgr.Snapshot()})

	if cfg.Store.DSN != "" {
		if _, err := saveRun(ctx, cfg, gen, pop, drawn, logger); err != nil {
			logger.Error("Save run: %v", err)
		}
	}
}

// runHeadless handles all headless modes without starting TUI.
func runHeadless(ctx context.Context, cfg *config.Config, gen *population.Generator, stateMgr *state.Manager, observer astro.Observer, logger *logging.Logger) error {
	if singleMode {
		var limit *float64
		if maxDistance > 0 {
			limit = &maxDistance
		}
		s, err := gen.GenerateOne(ctx, limit)
		if err != nil {
			return err
		}
		return outputPopulation([]stars.Star{s}, maxDistance, time.Now(), observer)
	}

	var drawn int
	gen.OnProgress(func(p population.Progress) {
		drawn = p.Drawn
		logger.Debug("Drawn %d of %d, kept %d", p.Drawn, p.Total, p.Kept)
	})

	start := time.Now()
	pop, err := gen.GeneratePopulation(ctx, maxDistance)
	if err != nil {
		return err
	}
	logger.Info("Generated %d visible stars in %v", len(pop), time.Since(start).Round(time.Millisecond))

	stateMgr.SetPopulation(pop, maxDistance, time.Now())
	if years != 0 {
		changed := stateMgr.SetYears(years)
		logger.Info("Evolved to +%s, %d stars changed", stars.FormatYears(years), changed)
	}

	if cfg.Store.DSN != "" {
		run, err := saveRun(ctx, cfg, gen, pop, drawn, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved run %s\n", run.ID)
	}

	snap := stateMgr.Snapshot()
	if err := outputPopulation(snap.Stars, snap.MaxDistanceLy, snap.GeneratedAt, observer); err != nil {
		return err
	}

	if years != 0 && !summaryMode && jsonPath == "" && !miniSkyMode {
		for _, e := range snap.Events {
			fmt.Printf("+%-10s %-8s %s %s\n", stars.FormatYears(e.YearsSinceEpoch), e.Type, e.Star, e.Fate)
		}
	}
	return nil
}

// outputPopulation prints the population in every format the flags ask for,
// falling back to the summary table.
func outputPopulation(pop []stars.Star, maxDistanceLy float64, generatedAt time.Time, observer astro.Observer) error {
	if jsonPath != "" {
		export := stars.ExportPopulation(pop, maxDistanceLy, years, generatedAt)
		if jsonPath == "-" {
			if err := export.WriteJSON(os.Stdout); err != nil {
				return fmt.Errorf("write JSON to stdout: %w", err)
			}
		} else {
			f, err := os.Create(jsonPath)
			if err != nil {
				return fmt.Errorf("create JSON file: %w", err)
			}
			defer f.Close()
			if err := export.WriteJSON(f); err != nil {
				return fmt.Errorf("write JSON to file: %w", err)
			}
		}
	}

	if summaryMode || (jsonPath == "" && !miniSkyMode) {
		stars.WriteSummaryTable(os.Stdout, pop, maxDistanceLy, years, generatedAt)
	}

	if miniSkyMode {
		fmt.Println()
		stars.WriteMiniSky(os.Stdout, pop, years, stars.DefaultMiniSkyConfig(observer, time.Now()))
	}
	return nil
}

func saveRun(ctx context.Context, cfg *config.Config, gen *population.Generator, pop []stars.Star, drawn int, logger *logging.Logger) (*store.Run, error) {
	st, err := store.Open(cfg.Store.DSN, logger)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	runCfg := gen.Config()
	runCfg.Seed = gen.LastSeed()
	return st.SaveRun(ctx, store.RunInput{
		MaxDistanceLy: maxDistance,
		Drawn:         drawn,
		Config:        runCfg,
		Stars:         pop,
	})
}

// runStored lists saved runs or prints one of them.
func runStored(ctx context.Context, cfg *config.Config, observer astro.Observer, logger *logging.Logger) error {
	if cfg.Store.DSN == "" {
		return errors.New("no database configured (use -db or store.dsn)")
	}
	st, err := store.Open(cfg.Store.DSN, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	if listRuns {
		runs, err := st.Runs(ctx, 20)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No saved runs")
			return nil
		}
		for _, r := range runs {
			fmt.Printf("%s  %s  %-8s  %d of %d kept\n",
				r.ID, r.CreatedAt.Format(time.RFC3339), stars.FormatDistance(r.MaxDistanceLy), r.Kept, r.Drawn)
		}
		return nil
	}

	run, err := st.LoadRun(ctx, loadRun)
	if err != nil {
		return err
	}
	pop, err := run.Population()
	if err != nil {
		return err
	}
	if settings, err := run.Settings(); err == nil {
		logger.Debug("Run %s: seed %d, %.4g stars/ly³", run.ID, settings.Seed, settings.StarsPerCubicLy)
	}
	return outputPopulation(pop, run.MaxDistanceLy, run.CreatedAt, observer)
}
