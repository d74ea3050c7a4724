// services/reward_service.go
package services

import (
	"context"
	"fmt"
	"log"

	"community-helper-bot/metrics"
	"community-helper-bot/models"
)

// RewardAnnouncer publishes the one-time reward message for a referrer.
type RewardAnnouncer interface {
	AnnounceReward(ctx context.Context, referrer *models.Member) error
}

type RewardService struct {
	store     *Store
	announcer RewardAnnouncer
	threshold int
}

func NewRewardService(store *Store, announcer RewardAnnouncer, threshold int) *RewardService {
	return &RewardService{store: store, announcer: announcer, threshold: threshold}
}

func (s *RewardService) Threshold() int {
	return s.threshold
}

// Eligible reports whether count has reached the reward threshold.
func (s *RewardService) Eligible(count int) bool {
	return count >= s.threshold
}

// MaybeAnnounceReward fires the reward announcement once per referrer when count
// reaches the threshold. Check, announce and mark run in one transaction holding
// the referrer's row lock, so concurrent crossings for the same referrer fire
// once. The announcement is emitted before the record is written: a crash between
// the two can repeat it, and a failed announcement writes nothing.
func (s *RewardService) MaybeAnnounceReward(ctx context.Context, referrerID int64, count int) (bool, error) {
	if !s.Eligible(count) {
		return false, nil
	}

	fired := false
	err := s.store.Transaction(ctx, func(tx *Store) error {
		referrer, err := tx.FindMemberForUpdate(ctx, referrerID)
		if err != nil {
			return err
		}

		sent, err := tx.HasRewardRecord(ctx, referrerID)
		if err != nil {
			return err
		}
		if sent {
			return nil
		}

		if referrer == nil {
			referrer = &models.Member{TelegramID: referrerID, ReferralCount: count}
		}
		if err := s.announcer.AnnounceReward(ctx, referrer); err != nil {
			return fmt.Errorf("announce reward for %d: %w", referrerID, err)
		}
		fired = true
		return tx.MarkRewardSent(ctx, referrerID)
	})
	if err != nil {
		return fired, err
	}
	if !fired {
		return false, nil
	}

	metrics.RewardsAnnounced.Inc()
	log.Printf("🏆 [REWARD] Announced reward for %d at %d referrals", referrerID, count)
	return true, nil
}
