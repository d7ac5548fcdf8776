package main

import (
	"fmt"
	"os"
	"time"

	yaml "github.com/goccy/go-yaml"
)

// ScenarioConfig mirrors the optional YAML scenario file.
type ScenarioConfig struct {
	Producers           int `yaml:"producers"`             // pipeline: concurrent producer goroutines
	MessagesPerProducer int `yaml:"messages_per_producer"` // pipeline: messages each producer sends
	ProducerGapMS       int `yaml:"producer_gap_ms"`       // pipeline: pause between sends
	Workers             int `yaml:"workers"`               // fairlock: tasks contending for the lock
	Rounds              int `yaml:"rounds"`                // fairlock: acquisitions per task
	HoldMS              int `yaml:"hold_ms"`               // fairlock: time the lock is held per round
	RaceTimeoutMS       int `yaml:"race_timeout_ms"`       // race: timeout raced against the lock
}

func defaultScenarioConfig() ScenarioConfig {
	return ScenarioConfig{
		Producers:           4,
		MessagesPerProducer: 200,
		ProducerGapMS:       0,
		Workers:             4,
		Rounds:              5,
		HoldMS:              2,
		RaceTimeoutMS:       30,
	}
}

// loadScenarioConfig reads YAML and overrides defaults; an empty path means
// defaults only.
func loadScenarioConfig(path string) (ScenarioConfig, error) {
	cfg := defaultScenarioConfig()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read scenario config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse scenario config: %w", err)
	}

	// sanity clamps
	if cfg.Producers < 1 {
		cfg.Producers = 1
	}
	if cfg.MessagesPerProducer < 1 {
		cfg.MessagesPerProducer = 1
	}
	if cfg.ProducerGapMS < 0 {
		cfg.ProducerGapMS = 0
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Rounds < 1 {
		cfg.Rounds = 1
	}
	if cfg.HoldMS < 0 {
		cfg.HoldMS = 0
	}
	if cfg.RaceTimeoutMS < 1 {
		cfg.RaceTimeoutMS = 1
	}

	return cfg, nil
}

func (c ScenarioConfig) producerGap() time.Duration {
	return time.Duration(c.ProducerGapMS) * time.Millisecond
}

func (c ScenarioConfig) holdFor() time.Duration {
	return time.Duration(c.HoldMS) * time.Millisecond
}

func (c ScenarioConfig) raceTimeout() time.Duration {
	return time.Duration(c.RaceTimeoutMS) * time.Millisecond
}
