// Command reason runs the reasoning engine in-process.
package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/Harshitk-cp/reason/internal/buildconfig"
	"github.com/Harshitk-cp/reason/internal/domain"
	"github.com/Harshitk-cp/reason/internal/service"
	"github.com/spf13/cobra"
)

type options struct {
	world      string
	cycles     int
	creativity float64
	seed       int64
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "reason",
		Short:        "Symbolic reasoning over axioms and learned truths",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "print every reasoning step")

	thinkFlags := func(cmd *cobra.Command) {
		cmd.Flags().IntVar(&opts.cycles, "cycles", 10, "number of thinking cycles")
		cmd.Flags().Float64Var(&opts.creativity, "creativity", 0.4, "chance of a stochastic leap per cycle")
		cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed (default: from the clock or the world file)")
	}
	worldFlag := func(cmd *cobra.Command) {
		cmd.Flags().StringVarP(&opts.world, "world", "w", "", "YAML world file")
		_ = cmd.MarkFlagRequired("world")
	}

	demo := &cobra.Command{
		Use:   "demo",
		Short: "Teach the three innovator axioms, think, and show what was learned",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorld(cmd, opts, innovator())
		},
	}
	thinkFlags(demo)

	run := &cobra.Command{
		Use:   "run",
		Short: "Load a world file, check its hypotheses, and think",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWorld(opts.world)
			if err != nil {
				return err
			}
			return runWorld(cmd, opts, w)
		},
	}
	worldFlag(run)
	thinkFlags(run)

	verify := &cobra.Command{
		Use:   "verify HYPOTHESIS",
		Short: "Check whether a hypothesis follows from a world",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWorld(opts.world)
			if err != nil {
				return err
			}
			r, err := w.build(sink(cmd.OutOrStdout(), opts.verbose))
			if err != nil {
				return err
			}
			ok, err := r.VerifyHypothesis(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], verdict(ok))
			return nil
		},
	}
	worldFlag(verify)

	solve := &cobra.Command{
		Use:   "solve SYMBOL",
		Short: "Express a symbol using the world's truths",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWorld(opts.world)
			if err != nil {
				return err
			}
			r, err := w.build(sink(cmd.OutOrStdout(), opts.verbose))
			if err != nil {
				return err
			}
			sol, ok := r.SolveFor(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", service.ErrNotSolvable, args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], sol)
			return nil
		},
	}
	worldFlag(solve)

	version := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildconfig.String())
		},
	}

	root.AddCommand(demo, run, verify, solve, version)
	return root
}

func sink(out io.Writer, verbose bool) domain.EventSink {
	if !verbose {
		return nil
	}
	return narrator(out)
}

func verdict(ok bool) string {
	if ok {
		return "TRUE"
	}
	return "FALSE or cannot be proven"
}

// runWorld prints the initial worldview, checks hypotheses, thinks, and
// prints the final worldview. Flags override the world's think settings.
func runWorld(cmd *cobra.Command, opts *options, w *World) error {
	out := cmd.OutOrStdout()
	r, err := w.build(sink(out, opts.verbose))
	if err != nil {
		return err
	}
	printWorldview(out, w.Name, r.Snapshot())

	for _, h := range w.Hypotheses {
		ok, err := r.VerifyHypothesis(h)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Hypothesis %s: %s\n", h, verdict(ok))
	}

	cycles, chance := w.Think.Cycles, w.Think.CreativityChance
	if cmd.Flags().Changed("cycles") || cycles == 0 {
		cycles = opts.cycles
	}
	if cmd.Flags().Changed("creativity") || chance == 0 {
		chance = opts.creativity
	}
	seed := time.Now().UnixNano()
	switch {
	case cmd.Flags().Changed("seed"):
		seed = opts.seed
	case w.Think.Seed != nil:
		seed = *w.Think.Seed
	}

	fmt.Fprintf(out, "\n--- %s is thinking for %d cycles (seed %d) ---\n", w.Name, cycles, seed)
	report, err := r.ThinkForItself(cycles, chance, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}
	printReport(out, report)
	fmt.Fprintln(out)
	printWorldview(out, w.Name, r.Snapshot())
	return nil
}
