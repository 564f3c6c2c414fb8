package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Harshitk-cp/reason/internal/domain"
)

func printWorldview(out io.Writer, name string, snap domain.Snapshot) {
	fmt.Fprintf(out, "--- State of '%s' ---\n", name)
	fmt.Fprintf(out, "Known symbols: [%s]\n", strings.Join(snap.Symbols, " "))
	fmt.Fprintln(out, "Truths:")
	for i, t := range snap.Truths {
		fmt.Fprintf(out, "  [%d]: %s\n", i, t)
	}
	fmt.Fprintln(out, "Axioms:")
	for i, a := range snap.Axioms {
		fmt.Fprintf(out, "  [A%d]: %s\n", i, a)
	}
}

func printReport(out io.Writer, r domain.ThinkReport) {
	fmt.Fprintf(out, "Thought for %d cycles (%d stochastic, %d routine): %d discoveries, %d rejected, %d skipped\n",
		r.Cycles, r.Stochastic, r.Routine, r.Discoveries, r.Rejected, r.Skipped)
}

// narrator renders core events as console lines.
func narrator(out io.Writer) domain.EventSink {
	return domain.EventSinkFunc(func(e domain.Event) {
		fmt.Fprintln(out, narrate(e))
	})
}

func narrate(e domain.Event) string {
	switch e.Kind {
	case domain.EventAxiomAccepted:
		return "accepted axiom: " + e.Equation
	case domain.EventTruthLearned:
		return "learned truth: " + e.Equation
	case domain.EventTruthSkipped:
		return fmt.Sprintf("skipped %s (%s)", e.Equation, e.Detail)
	case domain.EventTruthSimplified:
		return fmt.Sprintf("simplified to %s (%s)", e.Equation, e.Detail)
	case domain.EventHypothesisVerified:
		return "  verified: " + e.Equation
	case domain.EventHypothesisRejected:
		return "  rejected: " + e.Equation
	case domain.EventCycleStarted:
		return fmt.Sprintf("[cycle %d] %s", e.Cycle, e.Detail)
	case domain.EventCycleSkipped:
		return "  skipped: " + e.Detail
	case domain.EventDiscovery:
		return fmt.Sprintf("  discovery: %s (from %s)", e.Equation, e.Detail)
	}
	return fmt.Sprintf("%s %s %s", e.Kind, e.Equation, e.Detail)
}
