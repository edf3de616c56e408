package fallback

import (
	"context"
	"fmt"
	"time"

	"github.com/promptable/taskops/health"
)

// Failure-volume thresholds for the health check, counted over the last hour.
const (
	degradedRecentFailures  = 10
	unhealthyRecentFailures = 50
)

// Checker exposes failure-history volume as a health.Checker. A busy hour of
// failures means the primary executor is struggling, not the fallback layer,
// but it is the signal operators want surfaced.
func (m *Manager) Checker() health.Checker {
	return health.NewCheckerFunc("fallback", func(ctx context.Context) health.Result {
		stats := m.FailureStatistics()

		details := map[string]any{
			"total_failures":  stats.TotalFailures,
			"unique_inputs":   stats.UniqueInputs,
			"recent_failures": stats.RecentFailures,
			"window":          time.Hour.String(),
		}

		msg := fmt.Sprintf("%d failures in the last hour", stats.RecentFailures)
		switch {
		case stats.RecentFailures >= unhealthyRecentFailures:
			return health.Unhealthy(msg, health.ErrCheckFailed).WithDetails(details)
		case stats.RecentFailures >= degradedRecentFailures:
			return health.Degraded(msg).WithDetails(details)
		default:
			return health.Healthy(msg).WithDetails(details)
		}
	})
}
