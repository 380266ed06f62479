package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/statuspulse/statuspulse/internal/status"
)

// HandleStatusBadge generates a shields-style SVG badge with the classified
// verdict for one monitor, optionally narrowed to a datacenter. Window
// defaults to 1h like every other status view.
func HandleStatusBadge(engine *status.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		monitorID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "Invalid monitor ID", http.StatusBadRequest)
			return
		}

		datacenterID, err := optionalIntParam(r, "datacenter")
		if err != nil {
			http.Error(w, "Invalid datacenter id", http.StatusBadRequest)
			return
		}

		window := r.URL.Query().Get("window")
		snapshot, err := engine.ComputeCurrentStatus(r.Context(), window, nil, datacenterID)
		if err != nil {
			svg := generateBadgeSVG("status", "unavailable", "lightgray")
			writeBadge(w, svg)
			return
		}

		verdict := status.VerdictNoData
		for _, result := range snapshot.Results {
			if result.MonitorID != monitorID {
				continue
			}
			// Across datacenters the worst verdict wins.
			if verdictRank(result.Status) > verdictRank(verdict) {
				verdict = result.Status
			}
		}

		svg := generateBadgeSVG("status", string(verdict), verdictColor(verdict))
		writeBadge(w, svg)
	}
}

func writeBadge(w http.ResponseWriter, svg string) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Write([]byte(svg))
}

func verdictColor(v status.Verdict) string {
	switch v {
	case status.VerdictOperational:
		return "brightgreen"
	case status.VerdictDegradedOrange:
		return "orange"
	case status.VerdictDegradedRed, status.VerdictDown:
		return "red"
	default:
		return "gray"
	}
}

func verdictRank(v status.Verdict) int {
	switch v {
	case status.VerdictOperational:
		return 1
	case status.VerdictDegradedOrange:
		return 2
	case status.VerdictDegradedRed:
		return 3
	case status.VerdictDown:
		return 4
	default:
		return 0
	}
}

// generateBadgeSVG generates a shields.io style badge
func generateBadgeSVG(label, message, color string) string {
	colorMap := map[string]string{
		"brightgreen": "#4c1",
		"green":       "#97ca00",
		"yellow":      "#dfb317",
		"orange":      "#fe7d37",
		"red":         "#e05d44",
		"gray":        "#555",
		"lightgray":   "#9f9f9f",
	}

	hexColor, ok := colorMap[color]
	if !ok {
		hexColor = colorMap["gray"]
	}

	labelWidth := len(label)*6 + 10
	messageWidth := len(message)*6 + 10
	totalWidth := labelWidth + messageWidth

	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="20">
  <linearGradient id="b" x2="0" y2="100%%">
    <stop offset="0" stop-color="#bbb" stop-opacity=".1"/>
    <stop offset="1" stop-opacity=".1"/>
  </linearGradient>
  <mask id="a">
    <rect width="%d" height="20" rx="3" fill="#fff"/>
  </mask>
  <g mask="url(#a)">
    <path fill="#555" d="M0 0h%dv20H0z"/>
    <path fill="%s" d="M%d 0h%dv20H%dz"/>
    <path fill="url(#b)" d="M0 0h%dv20H0z"/>
  </g>
  <g fill="#fff" text-anchor="middle" font-family="DejaVu Sans,Verdana,Geneva,sans-serif" font-size="11">
    <text x="%d" y="15" fill="#010101" fill-opacity=".3">%s</text>
    <text x="%d" y="14">%s</text>
    <text x="%d" y="15" fill="#010101" fill-opacity=".3">%s</text>
    <text x="%d" y="14">%s</text>
  </g>
</svg>`,
		totalWidth,
		totalWidth,
		labelWidth, hexColor, labelWidth, messageWidth, labelWidth,
		totalWidth,
		labelWidth/2, label,
		labelWidth/2, label,
		labelWidth+messageWidth/2, message,
		labelWidth+messageWidth/2, message,
	)
}
