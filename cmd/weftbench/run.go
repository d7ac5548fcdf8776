package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	weft "github.com/weft-rt/weft"
)

var (
	headlineColor = color.New(color.FgGreen, color.Bold)
	nameColor     = color.New(color.FgCyan, color.Bold)
	statColor     = color.New(color.FgYellow)
)

var runCmd = &cobra.Command{
	Use:   "run [flags] <scenario>",
	Short: "Run a benchmark scenario",
	Long:  `Run one of the built-in scenarios against a fresh runtime and print its report and runtime statistics.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runScenario,
}

func init() {
	runCmd.Flags().String("config", "", "path to a YAML scenario config")
	runCmd.Flags().Bool("verbose", false, "log runtime lifecycle events")
	runCmd.Flags().Int("history", 0, "print the N most recent task completions")
}

func runScenario(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfgPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	historyN, err := cmd.Flags().GetInt("history")
	if err != nil {
		return fmt.Errorf("failed to get history flag: %w", err)
	}

	sc, ok := scenarios[name]
	if !ok {
		return fmt.Errorf("unknown scenario %q (see 'weftbench list')", name)
	}

	cfg, err := loadScenarioConfig(cfgPath)
	if err != nil {
		return err
	}

	rtCfg := weft.DefaultRuntimeConfig()
	if verbose {
		rtCfg.Logger = weft.NewDefaultLogger()
	}
	rt := weft.NewRuntimeWithConfig(rtCfg)

	start := time.Now()
	report, err := sc.run(rt, cfg)
	if err != nil {
		return fmt.Errorf("scenario %s: %w", name, err)
	}
	elapsed := time.Since(start)

	headlineColor.Println(report.headline)
	for _, d := range report.details {
		fmt.Println("  " + d)
	}

	stats := rt.Stats()
	statColor.Printf("elapsed %v | polls %d | wakes %d | parks %d | timers fired %d\n",
		elapsed.Round(time.Millisecond), stats.Polls, stats.Wakes, stats.Parks, stats.TimersFired)

	if historyN > 0 {
		for _, rec := range rt.History(historyN) {
			fmt.Printf("  task %d: %d polls in %v\n",
				rec.TaskID, rec.Polls, rec.Duration.Round(time.Microsecond))
		}
	}

	return nil
}
