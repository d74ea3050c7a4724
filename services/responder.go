package services

import (
	"context"
	"log"

	"community-helper-bot/metrics"
	"community-helper-bot/models"
)

// Action is what the transport must do for one group message.
type Action struct {
	DeleteSource bool
	Response     *models.Response
}

// None reports whether the action requires no transport call at all.
func (a Action) None() bool {
	return !a.DeleteSource && a.Response == nil
}

type responseFinder interface {
	FindResponse(ctx context.Context, trigger string) (*models.Response, error)
}

// Responder matches group text against stored triggers and applies the
// moderation gate.
type Responder struct {
	responses responseFinder
	cooldown  Cooldown
}

func NewResponder(responses responseFinder, cooldown Cooldown) *Responder {
	return &Responder{responses: responses, cooldown: cooldown}
}

// HandleGroupText decides the action for a group message. The whole normalized
// message must equal a trigger. With moderation on the source is always deleted,
// including when the cooldown suppresses the reply. Empty text yields no action.
func (r *Responder) HandleGroupText(ctx context.Context, authorID int64, rawText string, moderationEnabled bool) (Action, error) {
	trigger := NormalizeTrigger(rawText)
	if trigger == "" {
		return Action{}, nil
	}

	action := Action{DeleteSource: moderationEnabled}

	allowed, err := r.cooldown.Allow(ctx, authorID, trigger)
	if err != nil {
		// Fail open: a cooldown outage must not silence the bot.
		log.Printf("⚠️  [RESPONDER] Cooldown check failed for %d: %v", authorID, err)
		allowed = true
	}
	if !allowed {
		metrics.SpamSuppressed.Inc()
		return action, nil
	}

	response, err := r.responses.FindResponse(ctx, trigger)
	if err != nil {
		return action, err
	}
	action.Response = response
	return action, nil
}
