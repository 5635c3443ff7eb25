package guest

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Repository is the record-store surface the RSVP orchestrator and reminder
// scheduler need.
type Repository interface {
	Create(g *Guest) error
	GetByToken(token string) (*Guest, error)
	GetByID(id uint) (*Guest, error)
	ListByEvent(eventID uint) ([]Guest, error)
	ListPendingByEvent(eventID uint) ([]Guest, error)
	Delete(id uint) error

	// UpdateFromPatch persists the validated RSVP change in one transaction.
	// The additional-guest set is replaced only when replaceAdditional is true.
	UpdateFromPatch(g *Guest, replaceAdditional bool, additional []AdditionalGuest) error

	MarkEmailReminderSent(guestID uint, at time.Time) error
	MarkSMSReminderSent(guestID uint, at time.Time) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(g *Guest) error {
	return r.db.Create(g).Error
}

func (r *gormRepository) GetByToken(token string) (*Guest, error) {
	var g Guest
	err := r.db.
		Preload("AdditionalGuests", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Preload("Event").
		Preload("Event.CoHosts").
		Where("token = ?", token).
		First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *gormRepository) GetByID(id uint) (*Guest, error) {
	var g Guest
	err := r.db.
		Preload("AdditionalGuests", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		First(&g, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *gormRepository) ListByEvent(eventID uint) ([]Guest, error) {
	var guests []Guest
	err := r.db.
		Preload("AdditionalGuests", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Where("event_id = ?", eventID).
		Order("created_at asc").
		Find(&guests).Error
	return guests, err
}

func (r *gormRepository) ListPendingByEvent(eventID uint) ([]Guest, error) {
	var guests []Guest
	err := r.db.
		Where("event_id = ? AND status = ?", eventID, StatusPending).
		Find(&guests).Error
	return guests, err
}

func (r *gormRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("guest_id = ?", id).Delete(&AdditionalGuest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Guest{}, id).Error
	})
}

func (r *gormRepository) UpdateFromPatch(g *Guest, replaceAdditional bool, additional []AdditionalGuest) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("AdditionalGuests", "Event").Save(g).Error; err != nil {
			return err
		}
		if !replaceAdditional {
			return nil
		}
		if err := tx.Where("guest_id = ?", g.ID).Delete(&AdditionalGuest{}).Error; err != nil {
			return err
		}
		for i := range additional {
			additional[i].GuestID = g.ID
			additional[i].Position = i
		}
		if len(additional) > 0 {
			if err := tx.Create(&additional).Error; err != nil {
				return err
			}
		}
		g.AdditionalGuests = additional
		return nil
	})
}

func (r *gormRepository) MarkEmailReminderSent(guestID uint, at time.Time) error {
	return r.db.Model(&Guest{}).Where("id = ?", guestID).Update("reminder_sent_at", at).Error
}

func (r *gormRepository) MarkSMSReminderSent(guestID uint, at time.Time) error {
	return r.db.Model(&Guest{}).Where("id = ?", guestID).Update("sms_reminder_sent_at", at).Error
}
