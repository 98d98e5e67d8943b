package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics ボットの集計値
type Metrics struct {
	Registry *prometheus.Registry

	commands     *prometheus.CounterVec
	bookmarkAdds *prometheus.CounterVec
	renders      *prometheus.CounterVec
	renderTime   prometheus.Histogram
	renderPoints prometheus.Histogram
}

// New 専用のレジストリに登録して返す
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "citymap",
			Name:      "commands_total",
			Help:      "Discord commands executed, by command and outcome.",
		}, []string{"command", "outcome"}),
		bookmarkAdds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "citymap",
			Name:      "bookmark_adds_total",
			Help:      "Bookmark add attempts, by result.",
		}, []string{"result"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "citymap",
			Name:      "map_renders_total",
			Help:      "Map renders, by outcome.",
		}, []string{"outcome"}),
		renderTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "citymap",
			Name:      "map_render_seconds",
			Help:      "Time spent rendering and encoding a map.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		}),
		renderPoints: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "citymap",
			Name:      "map_render_points",
			Help:      "Number of cities drawn per map.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
		}),
	}
	reg.MustRegister(
		m.commands,
		m.bookmarkAdds,
		m.renders,
		m.renderTime,
		m.renderPoints,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveCommand コマンドの実行結果
func (m *Metrics) ObserveCommand(name string, err error) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(name, outcome(err)).Inc()
}

// ObserveBookmarkAdd ブックマーク追加の結果（"added" など）
func (m *Metrics) ObserveBookmarkAdd(result string) {
	if m == nil {
		return
	}
	m.bookmarkAdds.WithLabelValues(result).Inc()
}

// ObserveRender 描画1回分
func (m *Metrics) ObserveRender(points int, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return
	}
	m.renderTime.Observe(elapsed.Seconds())
	m.renderPoints.Observe(float64(points))
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
