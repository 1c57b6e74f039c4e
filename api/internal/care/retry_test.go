package care

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestWithRetry(t *testing.T) {
	overload := fmt.Errorf("%w: model busy", ErrOverloaded)

	tests := []struct {
		name       string
		failures   []error // consumed per attempt; nil means success
		wantCalls  int
		wantSleeps []time.Duration
		wantErr    error
	}{
		{
			name:       "first attempt succeeds",
			failures:   []error{nil},
			wantCalls:  1,
			wantSleeps: nil,
		},
		{
			name:       "one overload then success",
			failures:   []error{overload, nil},
			wantCalls:  2,
			wantSleeps: []time.Duration{1 * time.Second},
		},
		{
			name:       "two overloads then success",
			failures:   []error{overload, overload, nil},
			wantCalls:  3,
			wantSleeps: []time.Duration{1 * time.Second, 2 * time.Second},
		},
		{
			name:       "all attempts overloaded",
			failures:   []error{overload, overload, overload},
			wantCalls:  3,
			wantSleeps: []time.Duration{1 * time.Second, 2 * time.Second},
			wantErr:    ErrExhausted,
		},
		{
			name:       "non-transient error is not retried",
			failures:   []error{errors.New("bad request")},
			wantCalls:  1,
			wantSleeps: nil,
			wantErr:    errors.New("bad request"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			var sleeps []time.Duration
			sleep := func(d time.Duration) { sleeps = append(sleeps, d) }

			err := WithRetry(context.Background(), 3, 1*time.Second, sleep, func(context.Context) error {
				calls++
				return tt.failures[calls-1]
			})

			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if len(sleeps) != len(tt.wantSleeps) {
				t.Fatalf("sleeps = %v, want %v", sleeps, tt.wantSleeps)
			}
			for i := range sleeps {
				if sleeps[i] != tt.wantSleeps[i] {
					t.Errorf("sleep[%d] = %v, want %v", i, sleeps[i], tt.wantSleeps[i])
				}
			}
			switch {
			case tt.wantErr == nil:
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			case errors.Is(tt.wantErr, ErrExhausted):
				if !errors.Is(err, ErrExhausted) {
					t.Errorf("error = %v, want ErrExhausted", err)
				}
			default:
				if err == nil || err.Error() != tt.wantErr.Error() {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
			}
		})
	}
}

func TestWithRetryCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	overload := fmt.Errorf("%w: busy", ErrOverloaded)

	calls := 0
	err := WithRetry(ctx, 3, 1*time.Second, func(time.Duration) { t.Fatal("should not sleep") }, func(context.Context) error {
		calls++
		cancel()
		return overload
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
