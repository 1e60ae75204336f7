package models_test

import (
	"encoding/json"
	"testing"

	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
)

func TestFlexFloat_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"number", `1.25`, 1.25},
		{"quoted number", `"0.75"`, 0.75},
		{"leading plus", `" +2 "`, 2},
		{"null", `null`, 0},
		{"empty string", `""`, 0},
		{"garbage", `"n/a"`, 0},
		{"true flag", `true`, 1},
		{"quoted NaN", `"NaN"`, 0},
		{"quoted Inf", `"Inf"`, 0},
		{"quoted -Infinity", `"-Infinity"`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f models.FlexFloat
			if err := json.Unmarshal([]byte(tt.raw), &f); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.Float() != tt.want {
				t.Errorf("got %v, want %v", f.Float(), tt.want)
			}
		})
	}
}

func TestPlayerPPA_NaNReencodes(t *testing.T) {
	var p models.PlayerPPA
	raw := `{"player":"X","team":"Michigan","cumulative":{"total":"NaN","passing":"Infinity"},"plays":10}`
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Cumulative.Total.Float() != 0 || p.Cumulative.Passing.Float() != 0 {
		t.Errorf("cumulative = %v/%v, want 0/0", p.Cumulative.Total, p.Cumulative.Passing)
	}
	if _, err := json.Marshal(p); err != nil {
		t.Errorf("re-encode failed: %v", err)
	}
}
