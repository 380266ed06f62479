package api

import (
	"fmt"
	"net/http"

	"github.com/statuspulse/statuspulse/internal/status"
)

// HandlePrometheusMetrics exports the current 1h status snapshot in
// Prometheus text format, one series per (monitor, datacenter) pair.
func HandlePrometheusMetrics(engine *status.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := engine.ComputeCurrentStatus(r.Context(), "1h", nil, nil)
		if err != nil {
			http.Error(w, "Failed to compute status", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "text/plain; version=0.0.4")

		fmt.Fprintln(w, "# HELP statuspulse_monitor_up Pair health (1 = operational or degraded, 0 = down, absent sample when no data)")
		fmt.Fprintln(w, "# TYPE statuspulse_monitor_up gauge")
		fmt.Fprintln(w, "# HELP statuspulse_monitor_success_rate Success rate percentage over the last hour")
		fmt.Fprintln(w, "# TYPE statuspulse_monitor_success_rate gauge")
		fmt.Fprintln(w, "# HELP statuspulse_monitor_latency_ms Average successful latency in milliseconds over the last hour")
		fmt.Fprintln(w, "# TYPE statuspulse_monitor_latency_ms gauge")

		for _, result := range snapshot.Results {
			if result.Status == status.VerdictNoData {
				continue
			}

			labels := fmt.Sprintf(`monitor_id="%d",monitor_name="%s",datacenter="%s",region="%s"`,
				result.MonitorID, result.MonitorName, result.Datacenter, result.Region)

			up := 1
			if result.Status == status.VerdictDown {
				up = 0
			}
			fmt.Fprintf(w, "statuspulse_monitor_up{%s} %d\n", labels, up)
			fmt.Fprintf(w, "statuspulse_monitor_success_rate{%s} %.2f\n", labels, result.SuccessRate)
			fmt.Fprintf(w, "statuspulse_monitor_latency_ms{%s} %.2f\n", labels, result.AverageLatencyMs)
		}

		fmt.Fprintln(w, "# HELP statuspulse_monitor_pairs Number of (monitor, datacenter) pairs in the snapshot")
		fmt.Fprintln(w, "# TYPE statuspulse_monitor_pairs gauge")
		fmt.Fprintf(w, "statuspulse_monitor_pairs %d\n", len(snapshot.Results))
	}
}
