package services

import (
	"reflect"
	"testing"
)

func TestConflictingMobiles(t *testing.T) {
	tests := []struct {
		name      string
		requested []string
		existing  []string
		want      []string
	}{
		{
			name:      "no conflicts",
			requested: []string{"9876543210", "9876543211"},
			want:      []string{},
		},
		{
			name:      "duplicate within the batch",
			requested: []string{"9876543210", "9876543210", "9876543211"},
			want:      []string{"9876543210"},
		},
		{
			name:      "collision with existing user",
			requested: []string{"9876543210", "9876543211"},
			existing:  []string{"9876543211"},
			want:      []string{"9876543211"},
		},
		{
			name:      "both kinds reported once, sorted",
			requested: []string{"9876543212", "9876543212", "9876543210"},
			existing:  []string{"9876543210"},
			want:      []string{"9876543210", "9876543212"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := conflictingMobiles(tt.requested, tt.existing)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("conflictingMobiles() = %v, want %v", got, tt.want)
			}
		})
	}
}
