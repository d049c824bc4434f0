package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/HerbHall/cicheck/internal/agentcheck"
	"github.com/HerbHall/cicheck/internal/check"
	"github.com/HerbHall/cicheck/internal/config"
	"github.com/HerbHall/cicheck/internal/jenkins"
	"github.com/HerbHall/cicheck/internal/jobcheck"
	"github.com/HerbHall/cicheck/internal/metrics"
	"github.com/HerbHall/cicheck/internal/pingcheck"
	"github.com/HerbHall/cicheck/internal/queuecheck"
	"github.com/HerbHall/cicheck/internal/statestore"
	"github.com/HerbHall/cicheck/internal/version"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const usage = `usage: cicheck <probe> [flags]

probes:
  agent    agent/slave status, offline ratios, executor utilization
  queue    build queue depth and stuck items
  job      job build status
  ping     ICMP reachability of the CI host
  version  print version information

Run "cicheck <probe> --help" for probe flags.`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(check.Unknown.ExitCode())
	}

	switch os.Args[1] {
	case "agent":
		os.Exit(runAgent(os.Args[2:]))
	case "queue":
		os.Exit(runQueue(os.Args[2:]))
	case "job":
		os.Exit(runJob(os.Args[2:]))
	case "ping":
		os.Exit(runPing(os.Args[2:]))
	case "version":
		fmt.Println(version.Info())
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown probe %q\n%s\n", os.Args[1], usage)
		os.Exit(check.Unknown.ExitCode())
	}
}

// probeEnv is the bootstrap shared by every probe: parsed flags, merged
// configuration, logger, and reporter.
type probeEnv struct {
	v        *viper.Viper
	logger   *zap.Logger
	reporter *check.Reporter
}

func commonFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to configuration file")
	fs.StringP("url", "u", "http://localhost:8080", "CI server base URL")
	fs.DurationP("timeout", "t", 10*time.Second, "request timeout")
	fs.Bool("insecure", false, "accept self-signed TLS certificates")
	fs.Bool("proxy", false, "honor proxy environment variables")
	fs.String("username", "", "API username")
	fs.String("api-token", "", "API token")
	fs.Bool("no-perfdata", false, "suppress the |perfdata suffix")
	fs.String("textfile", "", "also write metrics to this Prometheus textfile")
	fs.Bool("debug", false, "enable debug logging")
}

// bootstrap parses args, loads configuration, and builds the logger. Exits
// with UNKNOWN on any bootstrap failure: a probe that cannot even start must
// not look healthy to the scheduler.
func bootstrap(probe string, fs *pflag.FlagSet, args []string) *probeEnv {
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: cicheck %s [flags]\n\n", probe)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "UNKNOWN: %v\n", err)
		os.Exit(check.Unknown.ExitCode())
	}

	configPath, _ := fs.GetString("config")
	v, err := config.Load(configPath, fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "UNKNOWN: failed to load configuration: %v\n", err)
		os.Exit(check.Unknown.ExitCode())
	}
	if ok, _ := fs.GetBool("no-perfdata"); ok {
		v.Set("perfdata", false)
	}
	if ok, _ := fs.GetBool("debug"); ok {
		v.Set("logging.level", "debug")
	}
	bindKey(v, fs, "api_token", "api-token")

	logger, err := config.NewLogger(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "UNKNOWN: failed to initialize logger: %v\n", err)
		os.Exit(check.Unknown.ExitCode())
	}
	logger = logger.With(zap.String("probe", probe), zap.String("run_id", uuid.NewString()))

	reporter := check.NewReporter(os.Stdout)
	reporter.SuppressPerfdata = !v.GetBool("perfdata")

	return &probeEnv{v: v, logger: logger, reporter: reporter}
}

func bindKey(v *viper.Viper, fs *pflag.FlagSet, key, flagName string) {
	if f := fs.Lookup(flagName); f != nil {
		_ = v.BindPFlag(key, f)
	}
}

func (e *probeEnv) client() *jenkins.Client {
	return jenkins.NewClient(e.v.GetString("url"), jenkins.Options{
		Timeout:  e.v.GetDuration("timeout"),
		Insecure: e.v.GetBool("insecure"),
		UseProxy: e.v.GetBool("proxy"),
		Username: e.v.GetString("username"),
		APIToken: e.v.GetString("api_token"),
	})
}

// finish renders the result, optionally exports it, and returns the exit
// code. A textfile write failure is traced but never changes the verdict.
func (e *probeEnv) finish(probe string, res check.Result) int {
	defer func() { _ = e.logger.Sync() }()

	if path := e.v.GetString("textfile"); path != "" {
		if err := metrics.WriteTextfile(path, probe, res); err != nil {
			e.logger.Debug("failed to write metrics textfile", zap.String("path", path), zap.Error(err))
		}
	}
	return e.reporter.Report(res)
}

// unknown maps a fetch/decode failure to the UNKNOWN verdict.
func (e *probeEnv) unknown(probe string, err error) int {
	var derr *jenkins.DecodeError
	if errors.As(err, &derr) {
		return e.finish(probe, check.Unknownf("unexpected response: %v", err))
	}
	return e.finish(probe, check.Unknownf("request failed: %v", err))
}

func runAgent(args []string) int {
	fs := pflag.NewFlagSet("agent", pflag.ContinueOnError)
	commonFlags(fs)
	fs.StringP("name", "n", "", "check a single agent by name")
	fs.BoolP("stateful", "s", false, "persist state and alert on online/offline transitions")
	fs.String("state-backend", "file", "state backend: file or sqlite")
	fs.String("state-dir", "", "directory for the file state backend (default: system temp)")
	fs.String("state-db", "cicheck_state.db", "database path for the sqlite state backend")
	fs.Int("offline-warn", check.ThresholdUnset, "WARNING when offline agents exceed this percentage")
	fs.Int("offline-crit", check.ThresholdUnset, "CRITICAL when offline agents exceed this percentage")
	fs.Int("busy-warn", check.ThresholdUnset, "WARNING when executor utilization reaches this percentage")
	fs.Int("busy-crit", check.ThresholdUnset, "CRITICAL when executor utilization reaches this percentage")

	env := bootstrap("agent", fs, args)
	bindKey(env.v, fs, "state.enabled", "stateful")
	bindKey(env.v, fs, "state.backend", "state-backend")
	bindKey(env.v, fs, "state.dir", "state-dir")
	bindKey(env.v, fs, "state.path", "state-db")

	cfg := agentcheck.Config{
		Name:     env.v.GetString("name"),
		Stateful: env.v.GetBool("state.enabled"),
		Thresholds: agentcheck.Thresholds{
			OfflineWarnPct:  env.v.GetInt("offline-warn"),
			OfflineCritPct:  env.v.GetInt("offline-crit"),
			ExecutorWarnPct: env.v.GetInt("busy-warn"),
			ExecutorCritPct: env.v.GetInt("busy-crit"),
		},
	}

	var store statestore.Store
	if cfg.Stateful {
		switch backend := env.v.GetString("state.backend"); backend {
		case "sqlite":
			s, err := statestore.NewSQLiteStore(env.v.GetString("state.path"), env.logger)
			if err != nil {
				return env.finish("agent", check.Unknownf("failed to open state database: %v", err))
			}
			defer s.Close()
			store = s
		case "file":
			store = statestore.NewFileStore(env.v.GetString("state.dir"), env.logger)
		default:
			return env.finish("agent", check.Unknownf("unknown state backend %q", backend))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), env.v.GetDuration("timeout"))
	defer cancel()

	res, err := agentcheck.NewRunner(env.client(), store, env.logger).Run(ctx, cfg)
	if err != nil {
		return env.unknown("agent", err)
	}
	return env.finish("agent", res)
}

func runQueue(args []string) int {
	fs := pflag.NewFlagSet("queue", pflag.ContinueOnError)
	commonFlags(fs)
	fs.IntP("warn", "w", check.ThresholdUnset, "WARNING when queued items exceed this count")
	fs.IntP("crit", "c", check.ThresholdUnset, "CRITICAL when queued items exceed this count")
	fs.Duration("stuck-after", 0, "flag items queued longer than this (0 disables)")

	env := bootstrap("queue", fs, args)

	cfg := queuecheck.Config{
		Warn:       env.v.GetInt("warn"),
		Crit:       env.v.GetInt("crit"),
		StuckAfter: env.v.GetDuration("stuck-after"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), env.v.GetDuration("timeout"))
	defer cancel()

	res, err := queuecheck.Run(ctx, env.client(), cfg, env.logger)
	if err != nil {
		return env.unknown("queue", err)
	}
	return env.finish("queue", res)
}

func runJob(args []string) int {
	fs := pflag.NewFlagSet("job", pflag.ContinueOnError)
	commonFlags(fs)
	fs.StringP("job", "j", "", "check a single job by name")
	fs.IntP("warn", "w", check.ThresholdUnset, "WARNING when failing jobs exceed this count")
	fs.IntP("crit", "c", check.ThresholdUnset, "CRITICAL when failing jobs exceed this count")

	env := bootstrap("job", fs, args)

	cfg := jobcheck.Config{
		Job:  env.v.GetString("job"),
		Warn: env.v.GetInt("warn"),
		Crit: env.v.GetInt("crit"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), env.v.GetDuration("timeout"))
	defer cancel()

	res, err := jobcheck.Run(ctx, env.client(), cfg, env.logger)
	if err != nil {
		return env.unknown("job", err)
	}
	return env.finish("job", res)
}

func runPing(args []string) int {
	fs := pflag.NewFlagSet("ping", pflag.ContinueOnError)
	commonFlags(fs)
	fs.Int("count", 3, "number of echo requests")
	fs.IntP("warn", "w", check.ThresholdUnset, "WARNING when average RTT reaches this many milliseconds")
	fs.IntP("crit", "c", check.ThresholdUnset, "CRITICAL when average RTT reaches this many milliseconds")
	fs.Bool("privileged", false, "use raw ICMP sockets")

	env := bootstrap("ping", fs, args)

	cfg := pingcheck.Config{
		Count:      env.v.GetInt("count"),
		Timeout:    env.v.GetDuration("timeout"),
		WarnMs:     env.v.GetInt("warn"),
		CritMs:     env.v.GetInt("crit"),
		Privileged: env.v.GetBool("privileged"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), env.v.GetDuration("timeout"))
	defer cancel()

	host := pingcheck.Host(env.v.GetString("url"))
	res, err := pingcheck.Run(ctx, host, cfg, env.logger)
	if err != nil {
		return env.finish("ping", check.Unknownf("%v", err))
	}
	return env.finish("ping", res)
}
