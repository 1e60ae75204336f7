package consumer

import (
	"errors"
	"testing"
)

func TestDecodeUpdate(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]interface{}
		wantErr bool
		wantID  string
	}{
		{
			name:   "valid",
			values: map[string]interface{}{"data": `{"run_id":"r1","game_id":"401520281","home_team":"Michigan"}`},
			wantID: "401520281",
		},
		{
			name:    "missing data",
			values:  map[string]interface{}{"game_id": "401520281"},
			wantErr: true,
		},
		{
			name:    "not json",
			values:  map[string]interface{}{"data": "{"},
			wantErr: true,
		},
		{
			name:    "no game id",
			values:  map[string]interface{}{"data": `{"run_id":"r1"}`},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update, err := DecodeUpdate(tt.values)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMessage) {
					t.Errorf("expected ErrInvalidMessage, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeUpdate() error = %v", err)
			}
			if update.GameID != tt.wantID {
				t.Errorf("GameID = %s, want %s", update.GameID, tt.wantID)
			}
		})
	}
}
