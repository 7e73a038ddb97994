package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pixeloid/hgye-webinar/domain"
)

// InviteeRepositoryImpl implements domain.InviteeRepository using GORM
type InviteeRepositoryImpl struct {
	db  *gorm.DB
	now func() time.Time
}

// DBInvitee represents the database model for Invitee (with GORM tags)
type DBInvitee struct {
	ID             uint       `gorm:"primaryKey"`
	Email          string     `gorm:"uniqueIndex;size:255"`
	FullName       string     `gorm:"size:255"`
	Status         string     `gorm:"index;size:32"`
	DeviceHash     string     `gorm:"size:128"`
	AccessToken    string     `gorm:"uniqueIndex;size:64"`
	TokenExpiresAt *time.Time `gorm:"index"`
	WebinarID      string     `gorm:"size:32"`
	FirstSeenAt    *time.Time
	LastSeenAt     *time.Time
	CreatedAt      time.Time `gorm:"index"`
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (DBInvitee) TableName() string {
	return "invitees"
}

// NewInviteeRepository creates a new invitee repository
func NewInviteeRepository(db *gorm.DB) domain.InviteeRepository {
	return &InviteeRepositoryImpl{db: db, now: time.Now}
}

// Create implements domain.InviteeRepository
func (r *InviteeRepositoryImpl) Create(ctx context.Context, invitee *domain.Invitee) error {
	dbInvitee := r.domainToDB(invitee)
	if err := r.db.WithContext(ctx).Create(dbInvitee).Error; err != nil {
		return err
	}
	invitee.ID = dbInvitee.ID
	invitee.CreatedAt = dbInvitee.CreatedAt
	return nil
}

// FindByEmail implements domain.InviteeRepository
func (r *InviteeRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.Invitee, error) {
	var dbInvitee DBInvitee
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbInvitee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotInvited
		}
		return nil, err
	}
	return r.dbToDomain(&dbInvitee), nil
}

// FindByAccessToken implements domain.InviteeRepository
func (r *InviteeRepositoryImpl) FindByAccessToken(ctx context.Context, token string) (*domain.Invitee, error) {
	if token == "" {
		return nil, domain.ErrNotInvited
	}
	var dbInvitee DBInvitee
	err := r.db.WithContext(ctx).Where("access_token = ?", token).First(&dbInvitee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotInvited
		}
		return nil, err
	}
	return r.dbToDomain(&dbInvitee), nil
}

// List implements domain.InviteeRepository
func (r *InviteeRepositoryImpl) List(ctx context.Context) ([]*domain.Invitee, error) {
	var dbInvitees []DBInvitee
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&dbInvitees).Error; err != nil {
		return nil, err
	}
	invitees := make([]*domain.Invitee, 0, len(dbInvitees))
	for i := range dbInvitees {
		invitees = append(invitees, r.dbToDomain(&dbInvitees[i]))
	}
	return invitees, nil
}

// MarkJoined implements domain.InviteeRepository. The transition stamps
// first_seen_at only once; re-joins go through TouchLastSeen instead.
func (r *InviteeRepositoryImpl) MarkJoined(ctx context.Context, id uint, deviceHash string) error {
	now := r.now()
	return r.db.WithContext(ctx).Model(&DBInvitee{}).Where("id = ?", id).Updates(map[string]any{
		"status":        domain.StatusJoined,
		"device_hash":   deviceHash,
		"first_seen_at": now,
		"last_seen_at":  now,
	}).Error
}

// MarkClaimed implements domain.InviteeRepository
func (r *InviteeRepositoryImpl) MarkClaimed(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&DBInvitee{}).Where("id = ?", id).Updates(map[string]any{
		"status":       domain.StatusClaimed,
		"last_seen_at": r.now(),
	}).Error
}

// BindDevice implements domain.InviteeRepository
func (r *InviteeRepositoryImpl) BindDevice(ctx context.Context, id uint, deviceHash string) error {
	return r.db.WithContext(ctx).Model(&DBInvitee{}).Where("id = ?", id).Updates(map[string]any{
		"device_hash":  deviceHash,
		"last_seen_at": r.now(),
	}).Error
}

// TouchLastSeen implements domain.InviteeRepository
func (r *InviteeRepositoryImpl) TouchLastSeen(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&DBInvitee{}).Where("id = ?", id).
		Update("last_seen_at", r.now()).Error
}

// domainToDB converts domain invitee to database invitee
func (r *InviteeRepositoryImpl) domainToDB(invitee *domain.Invitee) *DBInvitee {
	return &DBInvitee{
		ID:             invitee.ID,
		Email:          invitee.Email,
		FullName:       invitee.FullName,
		Status:         invitee.Status,
		DeviceHash:     invitee.DeviceHash,
		AccessToken:    invitee.AccessToken,
		TokenExpiresAt: invitee.TokenExpiresAt,
		WebinarID:      invitee.WebinarID,
		FirstSeenAt:    invitee.FirstSeenAt,
		LastSeenAt:     invitee.LastSeenAt,
	}
}

// dbToDomain converts database invitee to domain invitee
func (r *InviteeRepositoryImpl) dbToDomain(dbInvitee *DBInvitee) *domain.Invitee {
	return &domain.Invitee{
		ID:             dbInvitee.ID,
		Email:          dbInvitee.Email,
		FullName:       dbInvitee.FullName,
		Status:         dbInvitee.Status,
		DeviceHash:     dbInvitee.DeviceHash,
		AccessToken:    dbInvitee.AccessToken,
		TokenExpiresAt: dbInvitee.TokenExpiresAt,
		WebinarID:      dbInvitee.WebinarID,
		FirstSeenAt:    dbInvitee.FirstSeenAt,
		LastSeenAt:     dbInvitee.LastSeenAt,
		CreatedAt:      dbInvitee.CreatedAt,
		UpdatedAt:      dbInvitee.UpdatedAt,
	}
}
