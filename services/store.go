// services/store.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"community-helper-bot/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the data gateway over the relational store. Find operations return
// (nil, nil) when the record does not exist.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transaction runs fn against a Store bound to a single database transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// --- Members ---

func (s *Store) FindMember(ctx context.Context, telegramID int64) (*models.Member, error) {
	var member models.Member
	err := s.db.WithContext(ctx).First(&member, "telegram_id = ?", telegramID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find member %d: %w", telegramID, err)
	}
	return &member, nil
}

// FindMemberForUpdate reads a member and locks its row until the surrounding
// transaction ends. Use it only inside Transaction.
func (s *Store) FindMemberForUpdate(ctx context.Context, telegramID int64) (*models.Member, error) {
	var member models.Member
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&member, "telegram_id = ?", telegramID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lock member %d: %w", telegramID, err)
	}
	return &member, nil
}

func (s *Store) CreateMember(ctx context.Context, telegramID int64, username *string, referredBy *int64) (*models.Member, error) {
	member := &models.Member{
		TelegramID: telegramID,
		Username:   username,
		ReferredBy: referredBy,
		JoinedAt:   time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(member).Error; err != nil {
		return nil, fmt.Errorf("create member %d: %w", telegramID, err)
	}
	return member, nil
}

// GetOrCreateMember returns the existing member or inserts a new one. created
// reports whether this call inserted the row; concurrent first contacts from
// the same identity resolve to a single creation.
func (s *Store) GetOrCreateMember(ctx context.Context, telegramID int64, username *string, referredBy *int64) (member *models.Member, created bool, err error) {
	member = &models.Member{
		TelegramID: telegramID,
		Username:   username,
		ReferredBy: referredBy,
		JoinedAt:   time.Now().UTC(),
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "telegram_id"}}, DoNothing: true}).
		Create(member)
	if res.Error != nil {
		return nil, false, fmt.Errorf("get or create member %d: %w", telegramID, res.Error)
	}
	if res.RowsAffected == 1 {
		return member, true, nil
	}

	existing, err := s.FindMember(ctx, telegramID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("member %d vanished after conflict", telegramID)
	}
	return existing, false, nil
}

func (s *Store) UpdateReferralCount(ctx context.Context, telegramID int64, count int) error {
	res := s.db.WithContext(ctx).Model(&models.Member{}).
		Where("telegram_id = ?", telegramID).
		Update("referral_count", count)
	if res.Error != nil {
		return fmt.Errorf("update referral count for %d: %w", telegramID, res.Error)
	}
	return nil
}

// ReferredMembers lists the members recorded as referred by referrerID, oldest first.
func (s *Store) ReferredMembers(ctx context.Context, referrerID int64) ([]models.Member, error) {
	var members []models.Member
	err := s.db.WithContext(ctx).
		Where("telegram_id IN (?)", s.db.Model(&models.Referral{}).Select("referred_id").Where("referrer_id = ?", referrerID)).
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("list members referred by %d: %w", referrerID, err)
	}
	return members, nil
}

// TopReferrers returns members with at least one referral ordered by count descending.
func (s *Store) TopReferrers(ctx context.Context, limit int) ([]models.Member, error) {
	var members []models.Member
	err := s.db.WithContext(ctx).
		Where("referral_count > 0").
		Order("referral_count DESC").
		Order("telegram_id ASC").
		Limit(limit).
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("list top referrers: %w", err)
	}
	return members, nil
}

func (s *Store) AllMembers(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	if err := s.db.WithContext(ctx).Order("referral_count DESC").Order("telegram_id ASC").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// --- Referral edges ---

func (s *Store) FindReferralEdge(ctx context.Context, referrerID, referredID int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Referral{}).
		Where("referrer_id = ? AND referred_id = ?", referrerID, referredID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("find referral edge %d->%d: %w", referrerID, referredID, err)
	}
	return count > 0, nil
}

func (s *Store) InsertReferralEdge(ctx context.Context, referrerID, referredID int64) error {
	edge := &models.Referral{ReferrerID: referrerID, ReferredID: referredID}
	if err := s.db.WithContext(ctx).Create(edge).Error; err != nil {
		return fmt.Errorf("insert referral edge %d->%d: %w", referrerID, referredID, err)
	}
	return nil
}

// --- Responses ---

func (s *Store) FindResponse(ctx context.Context, trigger string) (*models.Response, error) {
	trigger = NormalizeTrigger(trigger)
	if trigger == "" {
		return nil, nil
	}
	var response models.Response
	err := s.db.WithContext(ctx).First(&response, "trigger_text = ?", trigger).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find response %q: %w", trigger, err)
	}
	return &response, nil
}

func (s *Store) InsertResponse(ctx context.Context, response *models.Response) error {
	response.Trigger = NormalizeTrigger(response.Trigger)
	if !response.Kind.Valid() {
		return ErrInvalidKind
	}
	err := s.db.WithContext(ctx).Create(response).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrTriggerExists
	}
	if err != nil {
		return fmt.Errorf("insert response %q: %w", response.Trigger, err)
	}
	return nil
}

func (s *Store) UpdateResponse(ctx context.Context, trigger string, kind models.ResponseKind, content string) error {
	if !kind.Valid() {
		return ErrInvalidKind
	}
	res := s.db.WithContext(ctx).Model(&models.Response{}).
		Where("trigger_text = ?", NormalizeTrigger(trigger)).
		Updates(map[string]any{"kind": kind, "content": content, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return fmt.Errorf("update response %q: %w", trigger, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrResponseNotFound
	}
	return nil
}

func (s *Store) DeleteResponse(ctx context.Context, trigger string) error {
	res := s.db.WithContext(ctx).Delete(&models.Response{}, "trigger_text = ?", NormalizeTrigger(trigger))
	if res.Error != nil {
		return fmt.Errorf("delete response %q: %w", trigger, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrResponseNotFound
	}
	return nil
}

// --- Managers ---

func (s *Store) IsManager(ctx context.Context, telegramID int64) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Manager{}).Where("telegram_id = ?", telegramID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check manager %d: %w", telegramID, err)
	}
	return count > 0, nil
}

// AddManager is idempotent: adding an existing manager is not an error.
func (s *Store) AddManager(ctx context.Context, telegramID, addedBy int64) error {
	manager := &models.Manager{TelegramID: telegramID, AddedBy: addedBy}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "telegram_id"}}, DoNothing: true}).
		Create(manager).Error
	if err != nil {
		return fmt.Errorf("add manager %d: %w", telegramID, err)
	}
	return nil
}

// RemoveManager reports whether a manager row was deleted.
func (s *Store) RemoveManager(ctx context.Context, telegramID int64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.Manager{}, "telegram_id = ?", telegramID)
	if res.Error != nil {
		return false, fmt.Errorf("remove manager %d: %w", telegramID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) ListManagers(ctx context.Context) ([]models.Manager, error) {
	var managers []models.Manager
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&managers).Error; err != nil {
		return nil, fmt.Errorf("list managers: %w", err)
	}
	return managers, nil
}

// --- Settings ---

// GetModerationFlag reads the singleton settings row; a missing row means disabled.
func (s *Store) GetModerationFlag(ctx context.Context) (bool, error) {
	var setting models.Setting
	err := s.db.WithContext(ctx).First(&setting, "id = ?", models.SettingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read moderation flag: %w", err)
	}
	return setting.ModerationMode, nil
}

func (s *Store) SetModerationFlag(ctx context.Context, enabled bool) error {
	setting := &models.Setting{ID: models.SettingsRowID, ModerationMode: enabled}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"moderation_mode", "updated_at"}),
		}).
		Create(setting).Error
	if err != nil {
		return fmt.Errorf("set moderation flag: %w", err)
	}
	return nil
}

// --- Reward records ---

func (s *Store) HasRewardRecord(ctx context.Context, telegramID int64) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.RewardRecord{}).Where("telegram_id = ?", telegramID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check reward record %d: %w", telegramID, err)
	}
	return count > 0, nil
}

func (s *Store) MarkRewardSent(ctx context.Context, telegramID int64) error {
	record := &models.RewardRecord{TelegramID: telegramID}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "telegram_id"}}, DoNothing: true}).
		Create(record).Error
	if err != nil {
		return fmt.Errorf("mark reward sent for %d: %w", telegramID, err)
	}
	return nil
}
