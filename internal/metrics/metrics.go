// Package metrics exposes Prometheus counters for the play server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robalobadob/guessing-game/internal/game"
)

// Metrics owns a private registry so tests can build as many servers as they like.
type Metrics struct {
	reg *prometheus.Registry

	guesses  *prometheus.CounterVec
	invalid  prometheus.Counter
	started  *prometheus.CounterVec
	finished *prometheus.CounterVec
}

// New creates and registers the game counters.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		guesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "guessing_guesses_total",
			Help: "Parsed guesses by verdict.",
		}, []string{"verdict"}),
		invalid: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "guessing_invalid_guesses_total",
			Help: "Guesses rejected because they were not a number.",
		}),
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "guessing_games_started_total",
			Help: "Games started by mode.",
		}, []string{"mode"}),
		finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "guessing_games_finished_total",
			Help: "Games finished by mode and outcome.",
		}, []string{"mode", "outcome"}),
	}
	m.reg.MustRegister(m.guesses, m.invalid, m.started, m.finished)
	return m
}

func (m *Metrics) GameStarted(mode string) { m.started.WithLabelValues(mode).Inc() }

func (m *Metrics) InvalidGuess() { m.invalid.Inc() }

// Guess counts one applied guess and, if it ended the game, the outcome.
func (m *Metrics) Guess(mode string, v game.Verdict, state string) {
	m.guesses.WithLabelValues(string(v)).Inc()
	if state == game.StateWon || state == game.StateLost {
		m.finished.WithLabelValues(mode, state).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
