package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"ledlife/internal/config"
	"ledlife/internal/control"
	"ledlife/internal/display"
	"ledlife/internal/hw"
	"ledlife/internal/life"
	"ledlife/internal/metrics"
	"ledlife/internal/sched"
	"ledlife/internal/tui"
)

var (
	configFile string
	seed       int64
	density    float64
	pattern    string
	period     time.Duration
	// bench parameters
	generations int
	universes   int
)

// main registers the commands and executes the root; with no subcommand the
// terminal emulator is launched, so the program is usable without hardware.
func main() {
	rootCmd := &cobra.Command{
		Use:   "ledlife",
		Short: "Conway's Game of Life on an 8x8 GPIO LED matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSim(cmd, args)
		},
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "drive the LED matrix over GPIO",
		RunE:  runHardware,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "wiring config file (yaml)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = from clock)")
	runCmd.Flags().Float64Var(&density, "density", config.DefaultDensity, "random fill density")
	runCmd.Flags().StringVar(&pattern, "pattern", "", "start from a named pattern instead of a random fill")
	runCmd.Flags().DurationVar(&period, "period", config.DefaultPeriod, "generation period")

	simCmd := &cobra.Command{
		Use:   "sim",
		Short: "emulate the matrix in the terminal",
		RunE:  runSim,
	}
	simCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = from clock)")
	simCmd.Flags().Float64Var(&density, "density", config.DefaultDensity, "random fill density")
	simCmd.Flags().StringVar(&pattern, "pattern", "", "start from a named pattern instead of a random fill")
	simCmd.Flags().DurationVar(&period, "period", config.DefaultPeriod, "generation period")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the generation engine",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&generations, "generations", 1_000_000, "generations per universe")
	benchCmd.Flags().IntVar(&universes, "universes", 4, "universes stepped in parallel")
	benchCmd.Flags().Int64Var(&seed, "seed", 1, "base random seed")

	patternsCmd := &cobra.Command{
		Use:   "patterns",
		Short: "list seedable start patterns",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, p := range life.Patterns() {
				fmt.Fprintf(w, "%s\t%s\n", p.Name, p.Description)
			}
			w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, simCmd, benchCmd, patternsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// seedGrid settles the starting board from the pattern flag or a random fill.
func seedGrid(grid *life.Grid, seed int64, density float64, pattern string) error {
	if pattern != "" {
		p, ok := life.Lookup(pattern)
		if !ok {
			return fmt.Errorf("unknown pattern %q (see `ledlife patterns`)", pattern)
		}
		grid.Seed(p)
		return nil
	}
	grid.Randomize(rand.New(rand.NewSource(seed)), density)
	return nil
}

func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(configFile)
}

func runHardware(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("density") {
		cfg.Density = density
	}
	if cmd.Flags().Changed("pattern") {
		cfg.Pattern = pattern
	}
	if cmd.Flags().Changed("period") {
		cfg.Period = config.Duration(period)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	chip := hw.NewChip(cfg.Chip)

	rows := make([]hw.Pin, 0, life.Rows)
	for _, offset := range cfg.RowPins {
		p, err := chip.Output(offset, hw.Low)
		if err != nil {
			return err
		}
		rows = append(rows, p)
	}
	cols, err := chip.Outputs(cfg.ColPins, hw.High)
	if err != nil {
		return err
	}

	driver, err := display.New(rows, cols, cfg.RowHold.Std())
	if err != nil {
		return err
	}
	defer driver.Close()

	flags := control.NewFlags()
	buttons, err := control.Bind(chip, flags, cfg.PausePin, cfg.StepPin)
	if err != nil {
		return err
	}
	defer buttons.Close()

	grid := life.New()
	if err := seedGrid(grid, cfg.EffectiveSeed(), cfg.Density, cfg.Pattern); err != nil {
		return err
	}

	loop := sched.New(grid, driver, flags, cfg.Period.Std(), cfg.FrameDelay.Std())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("matrix on %s, %d live cells, period %s\n", cfg.Chip, grid.Population(), cfg.Period)
	if err := loop.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func runSim(cmd *cobra.Command, args []string) error {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	grid := life.New()
	if err := seedGrid(grid, seed, density, pattern); err != nil {
		return err
	}

	flags := control.NewFlags()
	screen := tui.NewScreen()
	loop := sched.New(grid, screen, flags, period, sched.DefaultFrameDelay)

	pop := metrics.NewPopulation()
	stag := metrics.NewStagnation()
	loop.AddMetric(pop)
	loop.AddMetric(stag)
	pop.Observe(grid)
	stag.Observe(grid)

	rng := rand.New(rand.NewSource(seed))
	reseed := func(g *life.Grid) { g.Randomize(rng, density) }

	return tui.Run(tui.NewModel(loop, flags, screen, pop, stag, reseed))
}

func runBench(cmd *cobra.Command, args []string) error {
	start := time.Now()

	var eg errgroup.Group
	for i := 0; i < universes; i++ {
		s := seed + int64(i)
		eg.Go(func() error {
			grid := life.New()
			grid.Randomize(rand.New(rand.NewSource(s)), config.DefaultDensity)
			for g := 0; g < generations; g++ {
				grid.Step()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	elapsed := time.Since(start)
	total := generations * universes
	fmt.Printf("%d generations in %s across %d universes (%.0f gen/sec)\n",
		total, elapsed.Round(time.Millisecond), universes,
		float64(total)/elapsed.Seconds())
	return nil
}
