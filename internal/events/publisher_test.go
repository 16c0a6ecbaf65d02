package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestDisabledPublisherIsNoop(t *testing.T) {
	p := NewPublisher(nil, "drift.run.completed", nil)
	if p.Enabled() {
		t.Fatal("publisher without brokers should be disabled")
	}

	err := p.PublishRunCompleted(context.Background(), RunCompleted{RunID: "r1"})
	if err != nil {
		t.Errorf("disabled publish returned error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("disabled close returned error: %v", err)
	}
}

func TestPublisherRequiresTopic(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "", nil)
	if p.Enabled() {
		t.Error("publisher without topic should be disabled")
	}
}

func TestRunCompletedEncoding(t *testing.T) {
	ev := RunCompleted{
		RunID:           "8f14e45f-ceea-467f-9b3c-1c2d3e4f5a6b",
		ObjectType:      "life_raft",
		ProjectionHours: 24,
		NumParticles:    1000,
		MeanDriftKm:     12.4,
		StrandedCount:   17,
		DataDegraded:    true,
		DurationSeconds: 0.82,
		CompletedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["run_id"] != ev.RunID {
		t.Errorf("run_id = %v", decoded["run_id"])
	}
	if decoded["object_type"] != "life_raft" {
		t.Errorf("object_type = %v", decoded["object_type"])
	}
	if decoded["data_degraded"] != true {
		t.Errorf("data_degraded = %v", decoded["data_degraded"])
	}
}
