package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadScenarioConfigDefaults(t *testing.T) {
	cfg, err := loadScenarioConfig("")
	if err != nil {
		t.Fatalf("loadScenarioConfig(\"\") error: %v", err)
	}
	want := defaultScenarioConfig()
	if cfg != want {
		t.Fatalf("loadScenarioConfig(\"\") = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadScenarioConfigOverridesAndClamps(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "scenario.yml")
	data := `# test scenario
producers: 2
messages_per_producer: 50
producer_gap_ms: -4
workers: 0
rounds: 7
hold_ms: 3
race_timeout_ms: 0
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write scenario.yml: %v", err)
	}

	cfg, err := loadScenarioConfig(path)
	if err != nil {
		t.Fatalf("loadScenarioConfig(%q) error: %v", path, err)
	}

	if cfg.Producers != 2 {
		t.Errorf("Producers = %d, want 2", cfg.Producers)
	}
	if cfg.MessagesPerProducer != 50 {
		t.Errorf("MessagesPerProducer = %d, want 50", cfg.MessagesPerProducer)
	}
	if cfg.ProducerGapMS != 0 {
		t.Errorf("ProducerGapMS = %d, want clamp to 0", cfg.ProducerGapMS)
	}
	if cfg.Workers != 1 {
		t.Errorf("Workers = %d, want clamp to 1", cfg.Workers)
	}
	if cfg.Rounds != 7 {
		t.Errorf("Rounds = %d, want 7", cfg.Rounds)
	}
	if cfg.RaceTimeoutMS != 1 {
		t.Errorf("RaceTimeoutMS = %d, want clamp to 1", cfg.RaceTimeoutMS)
	}
	if cfg.holdFor() != 3*time.Millisecond {
		t.Errorf("holdFor() = %v, want 3ms", cfg.holdFor())
	}
}

func TestLoadScenarioConfigMissingFile(t *testing.T) {
	if _, err := loadScenarioConfig(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Fatal("loadScenarioConfig on a missing file returned nil error")
	}
}
