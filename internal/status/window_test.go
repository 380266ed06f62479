package status

import (
	"testing"
	"time"
)

func TestResolveWindow(t *testing.T) {
	tests := []struct {
		token string
		want  time.Duration
	}{
		{"5m", 5 * time.Minute},
		{"15m", 15 * time.Minute},
		{"30m", 30 * time.Minute},
		{"1h", time.Hour},
		{"4h", 4 * time.Hour},
		{"24h", 24 * time.Hour},
		{"1w", 7 * 24 * time.Hour},
		{"2w", 14 * 24 * time.Hour},
	}

	for _, tt := range tests {
		if got := ResolveWindow(tt.token); got != tt.want {
			t.Errorf("ResolveWindow(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestResolveWindow_TwoWeeksExactSeconds(t *testing.T) {
	want := 14 * 24 * 3600 * time.Second
	if got := ResolveWindow("2w"); got != want {
		t.Errorf("ResolveWindow(2w) = %v, want %v", got, want)
	}
}

func TestResolveWindow_UnknownFallsBackToDefault(t *testing.T) {
	for _, token := range []string{"", "30sec", "1d", "garbage", "5M"} {
		if got := ResolveWindow(token); got != DefaultWindow {
			t.Errorf("ResolveWindow(%q) = %v, want default %v", token, got, DefaultWindow)
		}
	}
}
