package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics хранит счётчики прогонов. Файл пишется в формате textfile collector
type Metrics struct {
	registry      *prometheus.Registry
	runs          *prometheus.CounterVec
	articles      prometheus.Gauge
	stageOutcomes *prometheus.CounterVec
	path          string
}

func NewMetrics(path string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tether_news_runs_total",
			Help: "Pipeline runs by result.",
		}, []string{"result"}),
		articles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tether_news_articles_scraped",
			Help: "Articles extracted by the last run.",
		}),
		stageOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tether_news_stage_outcomes_total",
			Help: "Best-effort stage outcomes by stage and kind.",
		}, []string{"stage", "outcome"}),
		path: path,
	}

	registry.MustRegister(m.runs, m.articles, m.stageOutcomes)
	return m
}

func (m *Metrics) ObserveRun(success bool, articles int) {
	result := "failure"
	if success {
		result = "success"
	}
	m.runs.WithLabelValues(result).Inc()
	m.articles.Set(float64(articles))
}

func (m *Metrics) ObserveStage(stage, outcome string) {
	m.stageOutcomes.WithLabelValues(stage, outcome).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Flush записывает метрики в файл. Без пути ничего не делает
func (m *Metrics) Flush() error {
	if m.path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(m.path, m.registry)
}
