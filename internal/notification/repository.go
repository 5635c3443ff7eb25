package notification

import (
	"errors"

	"gorm.io/gorm"
)

// Repository is the persistence surface the notification service needs.
type Repository interface {
	GetChannelSetting() (*ChannelSetting, error)
	SaveChannelSetting(setting *ChannelSetting) error

	CreateLog(entry *NotificationLog) error
	ListLogsByEvent(eventID uint, limit, offset int) ([]NotificationLog, int64, error)

	CreateInApp(n *InAppNotification) error
	ListInAppByUser(userID uint, unreadOnly bool, limit, offset int) ([]InAppNotification, int64, error)
	MarkInAppRead(userID, notificationID uint) error
	MarkAllInAppRead(userID uint) error

	UpsertDeviceToken(token *FCMDeviceToken) error
	RemoveDeviceToken(userID uint, token string) error
	ListDeviceTokens(userIDs []uint) ([]FCMDeviceToken, error)
	DeleteDeviceTokensByValue(tokens []string) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetChannelSetting() (*ChannelSetting, error) {
	var setting ChannelSetting
	err := r.db.Order("id asc").First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *gormRepository) SaveChannelSetting(setting *ChannelSetting) error {
	return r.db.Save(setting).Error
}

func (r *gormRepository) CreateLog(entry *NotificationLog) error {
	return r.db.Create(entry).Error
}

func (r *gormRepository) ListLogsByEvent(eventID uint, limit, offset int) ([]NotificationLog, int64, error) {
	var logs []NotificationLog
	var total int64

	q := r.db.Model(&NotificationLog{}).Where("event_id = ?", eventID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at desc").Limit(limit).Offset(offset).Find(&logs).Error
	return logs, total, err
}

func (r *gormRepository) CreateInApp(n *InAppNotification) error {
	return r.db.Create(n).Error
}

func (r *gormRepository) ListInAppByUser(userID uint, unreadOnly bool, limit, offset int) ([]InAppNotification, int64, error) {
	var items []InAppNotification
	var total int64

	q := r.db.Model(&InAppNotification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at desc").Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (r *gormRepository) MarkInAppRead(userID, notificationID uint) error {
	return r.db.Model(&InAppNotification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true).Error
}

func (r *gormRepository) MarkAllInAppRead(userID uint) error {
	return r.db.Model(&InAppNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *gormRepository) UpsertDeviceToken(token *FCMDeviceToken) error {
	var existing FCMDeviceToken
	err := r.db.Where("user_id = ? AND token = ?", token.UserID, token.Token).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(token).Error
	}
	if err != nil {
		return err
	}
	existing.Platform = token.Platform
	return r.db.Save(&existing).Error
}

func (r *gormRepository) RemoveDeviceToken(userID uint, token string) error {
	return r.db.Where("user_id = ? AND token = ?", userID, token).Delete(&FCMDeviceToken{}).Error
}

func (r *gormRepository) ListDeviceTokens(userIDs []uint) ([]FCMDeviceToken, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var tokens []FCMDeviceToken
	err := r.db.Where("user_id IN ?", userIDs).Find(&tokens).Error
	return tokens, err
}

func (r *gormRepository) DeleteDeviceTokensByValue(tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return r.db.Where("token IN ?", tokens).Delete(&FCMDeviceToken{}).Error
}
