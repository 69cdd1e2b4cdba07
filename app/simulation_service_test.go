package app

import (
	"context"
	"reflect"
	"testing"

	"episbc/domain/epi"
	"episbc/internal/generative"
)

// TestGenerateBatchShape checks the batch and its envelope come back with
// the requested dimensions.
func TestGenerateBatchShape(t *testing.T) {
	service := NewSimulationService(nil)
	result, err := service.GenerateBatch(context.Background(), BatchRequest{
		Seed:       3,
		Size:       12,
		Population: 1e6,
		Horizon:    8,
		Workers:    2,
	})
	if err != nil {
		t.Fatalf("GenerateBatch failed: %v", err)
	}
	if result.Batch.Size != 12 || len(result.Batch.Cases) != 12 {
		t.Errorf("batch size = %d (%d rows), want 12", result.Batch.Size, len(result.Batch.Cases))
	}
	for i, row := range result.Batch.Cases {
		if len(row) != 8 {
			t.Fatalf("trajectory %d has %d steps, want 8", i, len(row))
		}
	}
	if len(result.Envelope.Mean) != 8 {
		t.Errorf("envelope mean has %d steps, want 8", len(result.Envelope.Mean))
	}
	if len(result.Envelope.Quantiles) != len(generative.DefaultEnvelopeProbs) {
		t.Errorf("envelope has %d quantile rows, want %d",
			len(result.Envelope.Quantiles), len(generative.DefaultEnvelopeProbs))
	}
}

// TestReplayDeterministic verifies a replayed trajectory depends only on
// the seed, stream, and parameters.
func TestReplayDeterministic(t *testing.T) {
	service := NewSimulationService(nil)
	req := ReplayRequest{
		Seed:       11,
		Stream:     4,
		Params:     epi.MustNewParameterVector(0.4, 0.2, 3, 50, 10),
		Population: 1e6,
		Horizon:    10,
	}

	first, err := service.Replay(context.Background(), req)
	if err != nil {
		t.Fatalf("first replay failed: %v", err)
	}
	second, err := service.Replay(context.Background(), req)
	if err != nil {
		t.Fatalf("second replay failed: %v", err)
	}
	if !reflect.DeepEqual(first.Cases, second.Cases) {
		t.Error("identical replay requests produced different trajectories")
	}
	if len(first.Cases) != 10 {
		t.Errorf("replay produced %d steps, want 10", len(first.Cases))
	}

	req.Stream = 5
	third, err := service.Replay(context.Background(), req)
	if err != nil {
		t.Fatalf("third replay failed: %v", err)
	}
	if reflect.DeepEqual(first.Cases, third.Cases) {
		t.Error("different streams produced identical trajectories")
	}
}

// TestGenerateBatchValidation checks invalid requests are rejected before
// any simulation work starts.
func TestGenerateBatchValidation(t *testing.T) {
	service := NewSimulationService(nil)
	ctx := context.Background()

	if _, err := service.GenerateBatch(ctx, BatchRequest{Seed: 1, Size: 0, Population: 1e6, Horizon: 8}); err == nil {
		t.Error("expected error for zero batch size")
	}
	if _, err := service.GenerateBatch(ctx, BatchRequest{Seed: 1, Size: 4, Population: 0, Horizon: 8}); err == nil {
		t.Error("expected error for zero population")
	}
	if _, err := service.GenerateBatch(ctx, BatchRequest{Seed: 1, Size: 4, Population: 1e6, Horizon: 0}); err == nil {
		t.Error("expected error for zero horizon")
	}
}
