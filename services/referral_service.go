// services/referral_service.go
package services

import (
	"context"
	"errors"
	"log"

	"community-helper-bot/metrics"

	"gorm.io/gorm"
)

// ReferralService is the referral ledger: it records each (referrer, referred)
// pair at most once and keeps the referrer's count equal to its edge count.
type ReferralService struct {
	store *Store
}

func NewReferralService(store *Store) *ReferralService {
	return &ReferralService{store: store}
}

// RecordReferral credits referrerID with newUserID and returns the referrer's
// count afterwards. A replayed pair returns the stored count unchanged, and an
// unknown referrer returns 0 without writing anything. The referrer row is
// locked for the whole transaction, so concurrent joins for the same referrer
// apply their increments one after another.
func (s *ReferralService) RecordReferral(ctx context.Context, referrerID, newUserID int64) (int, error) {
	var (
		count    int
		recorded bool
	)

	err := s.store.Transaction(ctx, func(tx *Store) error {
		referrer, err := tx.FindMemberForUpdate(ctx, referrerID)
		if err != nil {
			return err
		}
		if referrer == nil {
			count = 0
			return nil
		}
		count = referrer.ReferralCount

		if referrerID == newUserID {
			return nil
		}

		exists, err := tx.FindReferralEdge(ctx, referrerID, newUserID)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		count = referrer.ReferralCount + 1
		if err := tx.UpdateReferralCount(ctx, referrerID, count); err != nil {
			return err
		}
		if err := tx.InsertReferralEdge(ctx, referrerID, newUserID); err != nil {
			return err
		}
		recorded = true
		return nil
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent delivery of the same join won the insert; report its result.
		referrer, findErr := s.store.FindMember(ctx, referrerID)
		if findErr != nil {
			return 0, findErr
		}
		if referrer == nil {
			return 0, nil
		}
		return referrer.ReferralCount, nil
	}
	if err != nil {
		return 0, err
	}

	if recorded {
		metrics.ReferralsRecorded.Inc()
		log.Printf("✅ [REFERRAL] %d referred %d (total %d)", referrerID, newUserID, count)
	}
	return count, nil
}
