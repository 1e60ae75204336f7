package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryPolicy_Execute(t *testing.T) {
	errFlaky := errors.New("flaky")

	tests := []struct {
		name         string
		failures     int
		err          error
		wantAttempts int
		wantErr      bool
	}{
		{"succeeds first try", 0, nil, 1, false},
		{"succeeds after retries", 2, errFlaky, 3, false},
		{"exhausts attempts", 5, errFlaky, 3, true},
		{"stops on permanent error", 5, Permanent(errFlaky), 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := NewRetryPolicy(3, time.Millisecond)
			attempts := 0

			err := policy.Execute(context.Background(), func(context.Context) error {
				attempts++
				if attempts <= tt.failures {
					return tt.err
				}
				return nil
			})

			if attempts != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", attempts, tt.wantAttempts)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errFlaky) {
				t.Errorf("expected wrapped cause, got %v", err)
			}
		})
	}
}

func TestRetryPolicy_ContextCancelled(t *testing.T) {
	policy := NewRetryPolicy(5, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := policy.Execute(ctx, func(context.Context) error {
		attempts++
		cancel()
		return errors.New("down")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}
