package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pixeloid/hgye-webinar/domain"
)

// AdminRepositoryImpl implements domain.AdminRepository using GORM
type AdminRepositoryImpl struct {
	db *gorm.DB
}

// DBAdmin represents the database model for Admin
type DBAdmin struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;size:255"`
	FullName     string `gorm:"size:255"`
	PasswordHash string `gorm:"column:password"`
	Role         string `gorm:"index;size:32"`
	CreatedAt    time.Time
}

// TableName returns the table name for GORM
func (DBAdmin) TableName() string {
	return "admins"
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *gorm.DB) domain.AdminRepository {
	return &AdminRepositoryImpl{db: db}
}

// Create implements domain.AdminRepository
func (r *AdminRepositoryImpl) Create(ctx context.Context, admin *domain.Admin) error {
	dbAdmin := &DBAdmin{
		Email:        admin.Email,
		FullName:     admin.FullName,
		PasswordHash: admin.PasswordHash,
		Role:         admin.Role,
	}
	if err := r.db.WithContext(ctx).Create(dbAdmin).Error; err != nil {
		return err
	}
	admin.ID = dbAdmin.ID
	admin.CreatedAt = dbAdmin.CreatedAt
	return nil
}

// FindByEmail implements domain.AdminRepository
func (r *AdminRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var dbAdmin DBAdmin
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbAdmin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, err
	}
	return &domain.Admin{
		ID:           dbAdmin.ID,
		Email:        dbAdmin.Email,
		FullName:     dbAdmin.FullName,
		PasswordHash: dbAdmin.PasswordHash,
		Role:         dbAdmin.Role,
		CreatedAt:    dbAdmin.CreatedAt,
	}, nil
}

// Count implements domain.AdminRepository
func (r *AdminRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBAdmin{}).Count(&count).Error
	return count, err
}
