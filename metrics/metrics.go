package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Updates counts inbound Telegram updates by chat kind (private, group, supergroup, channel).
	Updates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of Telegram updates dispatched",
		},
		[]string{"chat_kind"},
	)

	UpdateDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_update_duration_seconds",
			Help:    "Time spent handling one update",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"chat_kind"},
	)

	HandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_handler_errors_total",
			Help: "Updates whose handling failed with an error",
		},
		[]string{"chat_kind"},
	)

	ReferralsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_referrals_recorded_total",
		Help: "Referral edges recorded",
	})

	RewardsAnnounced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_rewards_announced_total",
		Help: "One-time reward announcements fired",
	})

	ResponsesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_responses_sent_total",
			Help: "Auto-responses sent to the managed group",
		},
		[]string{"kind"},
	)

	SpamSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_spam_suppressed_total",
		Help: "Group messages suppressed by the per-author trigger cooldown",
	})

	// Deletions counts best-effort message deletions by result (ok, failed).
	Deletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_message_deletions_total",
			Help: "Message deletions attempted",
		},
		[]string{"result"},
	)

	ActiveConversations = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bot_active_conversations",
		Help: "Admin workflows currently in progress",
	})
)
