package event

import (
	"time"

	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) CreateEvent(e *Event) error {
	return r.DB.Create(e).Error
}

// GetEventByID loads an event with its co-hosts.
func (r *Repository) GetEventByID(id uint) (*Event, error) {
	var e Event
	err := r.DB.Preload("CoHosts").First(&e, id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEventsByHost returns events the user hosts or co-hosts, paginated.
func (r *Repository) ListEventsByHost(userID uint, limit, offset int, search string) ([]Event, error) {
	var events []Event

	query := r.DB.Preload("CoHosts").
		Where("host_id = ? OR id IN (?)", userID,
			r.DB.Model(&CoHost{}).Select("event_id").Where("user_id = ?", userID))

	if search != "" {
		ilike := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", ilike, ilike)
	}

	err := query.
		Order("starts_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	return events, err
}

// ListUpcoming returns active events starting inside (now, now+window], with
// co-hosts preloaded. The reminder scheduler walks this set each tick.
func (r *Repository) ListUpcoming(now time.Time, window time.Duration) ([]Event, error) {
	var events []Event
	err := r.DB.Preload("CoHosts").
		Where("is_active = TRUE AND starts_at > ? AND starts_at <= ?", now, now.Add(window)).
		Order("starts_at ASC").
		Find(&events).Error
	return events, err
}

func (r *Repository) UpdateEvent(e *Event) error {
	return r.DB.Save(e).Error
}

// UpdateReminderSchedule writes only the schedule column.
func (r *Repository) UpdateReminderSchedule(eventID uint, raw *string) error {
	return r.DB.Model(&Event{}).
		Where("id = ?", eventID).
		Update("reminder_schedule", raw).Error
}

func (r *Repository) DeleteEvent(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&CoHost{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Event{}, id).Error
	})
}

func (r *Repository) AddCoHost(ch *CoHost) error {
	return r.DB.Create(ch).Error
}

func (r *Repository) RemoveCoHost(eventID, userID uint) error {
	return r.DB.Where("event_id = ? AND user_id = ?", eventID, userID).Delete(&CoHost{}).Error
}

func (r *Repository) ListCoHosts(eventID uint) ([]CoHost, error) {
	var cohosts []CoHost
	err := r.DB.Where("event_id = ?", eventID).Order("id ASC").Find(&cohosts).Error
	return cohosts, err
}
