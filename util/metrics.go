package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	updatesReceivedCounter prometheus.Counter
	gamesStartedCounter    prometheus.Counter
	roundsCompletedCounter prometheus.Counter
	messagesSentCounter    prometheus.Counter
	activeTimersGauge      prometheus.Gauge
}

func (m *metrics) UpdateReceived() {
	m.updatesReceivedCounter.Inc()
}

func (m *metrics) GameStarted() {
	m.gamesStartedCounter.Inc()
}

func (m *metrics) RoundCompleted() {
	m.roundsCompletedCounter.Inc()
}

func (m *metrics) MessageSent() {
	m.messagesSentCounter.Inc()
}

func (m *metrics) SetActiveTimerCount(count int) {
	m.activeTimersGauge.Set(float64(count))
}

var Metrics = &metrics{
	updatesReceivedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_updates_received_total",
		Help: "Total number of chat updates received from the relay",
	}),
	gamesStartedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "games_started_total",
		Help: "Total number of rounds that entered the gathering stage",
	}),
	roundsCompletedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "rounds_completed_total",
		Help: "Total number of rounds that reached settlement",
	}),
	messagesSentCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_sent_total",
		Help: "Total number of messages sent to chats",
	}),
	activeTimersGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "active_game_timers",
		Help: "Number of outstanding per-game timers",
	}),
}
