// Package pingcheck implements the ICMP reachability probe for the CI host.
package pingcheck

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/HerbHall/cicheck/internal/check"
	probing "github.com/prometheus-community/pro-bing"
	"go.uber.org/zap"
)

// Config holds the ping probe settings. WarnMs and CritMs apply to the
// average round-trip time with a ">=" comparison; check.ThresholdUnset
// disables the rule.
type Config struct {
	Count   int
	Timeout time.Duration
	WarnMs  int
	CritMs  int
	// Privileged uses raw ICMP sockets (required on most Linux hosts when
	// running as root; unprivileged UDP ping otherwise).
	Privileged bool
}

// Stats is the subset of pinger statistics the evaluator consumes.
type Stats struct {
	Sent     int
	Received int
	AvgRtt   time.Duration
}

// Host extracts the ping target from the configured server URL; a bare host
// name passes through unchanged.
func Host(target string) string {
	u, err := url.Parse(target)
	if err == nil && u.Host != "" {
		return u.Hostname()
	}
	return target
}

// Run pings the host and evaluates the statistics.
func Run(ctx context.Context, host string, cfg Config, logger *zap.Logger) (check.Result, error) {
	pinger, err := probing.NewPinger(host)
	if err != nil {
		return check.Result{}, fmt.Errorf("create pinger for %q: %w", host, err)
	}

	count := cfg.Count
	if count <= 0 {
		count = 3
	}
	pinger.Count = count
	pinger.Timeout = cfg.Timeout
	pinger.SetPrivileged(cfg.Privileged)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if runErr := pinger.Run(); runErr != nil {
			logger.Debug("ping failed", zap.String("host", host), zap.Error(runErr))
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		pinger.Stop()
		<-done
	}

	stats := pinger.Statistics()
	logger.Debug("ping finished",
		zap.String("host", host),
		zap.Int("sent", stats.PacketsSent),
		zap.Int("received", stats.PacketsRecv),
		zap.Duration("avg_rtt", stats.AvgRtt),
	)
	return Evaluate(host, Stats{Sent: stats.PacketsSent, Received: stats.PacketsRecv, AvgRtt: stats.AvgRtt}, cfg), nil
}

// Evaluate applies the loss and RTT rules: total loss is CRITICAL, partial
// loss at least WARNING, then the RTT thresholds.
func Evaluate(host string, stats Stats, cfg Config) check.Result {
	rttMs := float64(stats.AvgRtt) / float64(time.Millisecond)
	lossPct := 100.0
	if stats.Sent > 0 {
		lossPct = float64(stats.Sent-stats.Received) * 100 / float64(stats.Sent)
	}

	res := check.Result{
		Perfdata: []check.Perfdatum{
			{Label: "rtt", Value: rttMs, UOM: "ms", Warn: cfg.WarnMs, Crit: cfg.CritMs, Max: -1},
			{Label: "loss", Value: lossPct, UOM: "%", Warn: check.ThresholdUnset, Crit: check.ThresholdUnset, Max: 100},
		},
	}

	switch {
	case stats.Received == 0:
		res.Severity = check.Critical
		res.Message = fmt.Sprintf("%s unreachable (%d of %d packets lost)", host, stats.Sent, stats.Sent)
	case cfg.CritMs != check.ThresholdUnset && rttMs >= float64(cfg.CritMs):
		res.Severity = check.Critical
		res.Message = fmt.Sprintf("%s rtt %.1fms >= %dms", host, rttMs, cfg.CritMs)
	case lossPct > 0:
		res.Severity = check.Warning
		res.Message = fmt.Sprintf("%s lost %.0f%% of packets", host, lossPct)
	case cfg.WarnMs != check.ThresholdUnset && rttMs >= float64(cfg.WarnMs):
		res.Severity = check.Warning
		res.Message = fmt.Sprintf("%s rtt %.1fms >= %dms", host, rttMs, cfg.WarnMs)
	default:
		res.Severity = check.OK
		res.Message = fmt.Sprintf("%s rtt %.1fms, no loss", host, rttMs)
	}
	return res
}
