package metrics

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CrawlRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "iganalytics_crawl_runs_total",
		Help: "Total network crawl runs",
	})
	CrawlErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "iganalytics_crawl_errors_total",
		Help: "Total per-user failures during crawls",
	})
	CrawlDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "iganalytics_crawl_duration_seconds",
		Help:    "Network crawl duration seconds",
		Buckets: prometheus.DefBuckets,
	})
	CollectRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "iganalytics_collect_runs_total",
		Help: "Total engagement collection runs",
	})
	CollectErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "iganalytics_collect_errors_total",
		Help: "Total per-item failures during collection",
	})
	StoreErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "iganalytics_store_errors_total",
		Help: "Total persistence write failures",
	})
	APIRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "iganalytics_api_retries_total",
		Help: "Total API retry attempts",
	}, []string{"endpoint"})
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "iganalytics_command_runs_total",
		Help: "Total CLI command invocations",
	}, []string{"command"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "iganalytics_command_errors_total",
		Help: "Total CLI command failures",
	}, []string{"command"})
)

func init() {
	prometheus.MustRegister(CrawlRuns, CrawlErrors, CrawlDuration,
		CollectRuns, CollectErrors, StoreErrors, APIRetries,
		CommandRuns, CommandErrors)
}

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
func StartServer(addr string) {
	if addr == "" {
		addr = os.Getenv("METRICS_ADDR")
	}
	if addr == "" {
		return
	}
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	go func() { _ = http.ListenAndServe(addr, nil) }()
}

// ObserveCrawlDuration records a crawl run duration.
func ObserveCrawlDuration(start time.Time) {
	CrawlDuration.Observe(time.Since(start).Seconds())
}

// IncAPIRetry increments the retry counter for an endpoint.
func IncAPIRetry(endpoint string) { APIRetries.WithLabelValues(endpoint).Inc() }

func IncCommandRun(cmd string)   { CommandRuns.WithLabelValues(cmd).Inc() }
func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }
