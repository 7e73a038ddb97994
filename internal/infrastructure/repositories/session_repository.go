package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixeloid/hgye-webinar/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository using GORM.
// The repository is deliberately a dumb store: it never prevents two
// concurrent creates, the admission service serializes those per invitee.
type SessionRepositoryImpl struct {
	db        *gorm.DB
	staleness time.Duration
	now       func() time.Time
}

// DBSession represents the database model for Session (with GORM tags)
type DBSession struct {
	ID              string    `gorm:"primaryKey;size:36"`
	InviteeID       uint      `gorm:"index"`
	DeviceHash      string    `gorm:"size:128"`
	UserAgent       string    `gorm:"size:512"`
	IP              string    `gorm:"size:64"`
	Active          bool      `gorm:"index"`
	LastHeartbeatAt time.Time `gorm:"index"`
	CreatedAt       time.Time
}

// TableName returns the table name for GORM
func (DBSession) TableName() string {
	return "sessions"
}

// NewSessionRepository creates a new session repository. staleness is the
// heartbeat age beyond which Heartbeat unilaterally expires the session.
func NewSessionRepository(db *gorm.DB, staleness time.Duration) domain.SessionRepository {
	return &SessionRepositoryImpl{db: db, staleness: staleness, now: time.Now}
}

// Create implements domain.SessionRepository. It always inserts a new row
// and never deactivates others.
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := r.now()
	if session.LastHeartbeatAt.IsZero() {
		session.LastHeartbeatAt = now
	}
	session.Active = true

	dbSession := &DBSession{
		ID:              session.ID,
		InviteeID:       session.InviteeID,
		DeviceHash:      session.DeviceHash,
		UserAgent:       session.UserAgent,
		IP:              session.IP,
		Active:          session.Active,
		LastHeartbeatAt: session.LastHeartbeatAt,
	}
	if err := r.db.WithContext(ctx).Create(dbSession).Error; err != nil {
		return err
	}
	session.CreatedAt = dbSession.CreatedAt
	return nil
}

// FindActive implements domain.SessionRepository. Sessions with heartbeats
// older than since are treated as not active even if their flag has not
// been lazily cleared yet.
func (r *SessionRepositoryImpl) FindActive(ctx context.Context, inviteeID uint, since time.Time) ([]*domain.Session, error) {
	var dbSessions []DBSession
	err := r.db.WithContext(ctx).
		Where("invitee_id = ? AND active = ? AND last_heartbeat_at >= ?", inviteeID, true, since).
		Order("last_heartbeat_at desc").
		Find(&dbSessions).Error
	if err != nil {
		return nil, err
	}

	sessions := make([]*domain.Session, 0, len(dbSessions))
	for i := range dbSessions {
		sessions = append(sessions, r.dbToDomain(&dbSessions[i]))
	}
	return sessions, nil
}

// DeactivateAll implements domain.SessionRepository; idempotent.
func (r *SessionRepositoryImpl) DeactivateAll(ctx context.Context, inviteeID uint) error {
	return r.db.WithContext(ctx).Model(&DBSession{}).
		Where("invitee_id = ?", inviteeID).
		Update("active", false).Error
}

// Heartbeat implements domain.SessionRepository. Staleness is detected
// lazily here: a heartbeat arriving past the threshold deactivates the
// session instead of renewing it.
func (r *SessionRepositoryImpl) Heartbeat(ctx context.Context, sessionID string) (*domain.Session, error) {
	var dbSession DBSession
	err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", sessionID, true).
		First(&dbSession).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	now := r.now()
	if now.Sub(dbSession.LastHeartbeatAt) > r.staleness {
		if err := r.db.WithContext(ctx).Model(&DBSession{}).
			Where("id = ?", dbSession.ID).
			Update("active", false).Error; err != nil {
			return nil, err
		}
		return nil, domain.ErrSessionExpired
	}

	if err := r.db.WithContext(ctx).Model(&DBSession{}).
		Where("id = ?", dbSession.ID).
		Update("last_heartbeat_at", now).Error; err != nil {
		return nil, err
	}
	dbSession.LastHeartbeatAt = now
	return r.dbToDomain(&dbSession), nil
}

func (r *SessionRepositoryImpl) dbToDomain(dbSession *DBSession) *domain.Session {
	return &domain.Session{
		ID:              dbSession.ID,
		InviteeID:       dbSession.InviteeID,
		DeviceHash:      dbSession.DeviceHash,
		UserAgent:       dbSession.UserAgent,
		IP:              dbSession.IP,
		Active:          dbSession.Active,
		LastHeartbeatAt: dbSession.LastHeartbeatAt,
		CreatedAt:       dbSession.CreatedAt,
	}
}
