package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Harshitk-cp/reason/internal/algebra"
	"github.com/Harshitk-cp/reason/internal/domain"
	"github.com/Harshitk-cp/reason/internal/service"
	"gopkg.in/yaml.v3"
)

// World is a reasoning session described in YAML.
type World struct {
	Name         string                  `yaml:"name"`
	Verification domain.VerificationMode `yaml:"verification"`
	Learning     domain.LearningPolicy   `yaml:"learning"`
	Axioms       []string                `yaml:"axioms"`
	Truths       []string                `yaml:"truths"`
	Hypotheses   []string                `yaml:"hypotheses"`
	Think        ThinkSpec               `yaml:"think"`
}

type ThinkSpec struct {
	Cycles           int     `yaml:"cycles"`
	CreativityChance float64 `yaml:"creativity_chance"`
	Seed             *int64  `yaml:"seed"`
}

// innovator is the three-axiom world the demo command reasons about.
func innovator() *World {
	return &World{
		Name:         "The Innovator",
		Verification: domain.VerifyAxiomPriority,
		Learning:     domain.LearnStrict,
		Axioms:       []string{"result = a*b + c", "b = a", "c = a"},
		Hypotheses:   []string{"result = a**2 + a"},
		Think:        ThinkSpec{Cycles: 10, CreativityChance: 0.4},
	}
}

func loadWorld(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read world: %w", err)
	}
	return parseWorld(data)
}

func parseWorld(data []byte) (*World, error) {
	var w World
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parse world: %w", err)
	}
	if w.Name == "" {
		w.Name = "world"
	}
	if w.Verification == "" {
		w.Verification = domain.VerifyAxiomPriority
	}
	if w.Learning == "" {
		w.Learning = domain.LearnStrict
	}
	if w.Think.Cycles < 0 {
		return nil, errors.New("parse world: think.cycles must not be negative")
	}
	return &w, nil
}

// build creates a reasoner holding the world's axioms and truths.
func (w *World) build(sink domain.EventSink) (*service.Reasoner, error) {
	r, err := service.NewReasoner(algebra.NewEngine(), service.ReasonerConfig{
		Verification: w.Verification,
		Learning:     w.Learning,
		Sink:         sink,
	})
	if err != nil {
		return nil, err
	}
	for _, a := range w.Axioms {
		if err := r.AcceptAxiom(a); err != nil {
			return nil, err
		}
	}
	for _, t := range w.Truths {
		if _, err := r.AddTruth(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}
