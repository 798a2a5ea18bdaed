package db

import "time"

type PrincipalModel struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (PrincipalModel) TableName() string { return "users" }

type TenantModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (TenantModel) TableName() string { return "tenants" }

type RoleModel struct {
	ID   int    `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}

func (RoleModel) TableName() string { return "roles" }

// MembershipModel keys on (user, tenant): a principal holds exactly one role
// per tenant.
type MembershipModel struct {
	UserID    string    `gorm:"type:uuid;primaryKey"`
	TenantID  string    `gorm:"type:uuid;primaryKey"`
	RoleID    int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (MembershipModel) TableName() string { return "user_tenants" }

// GeneralSettingsModel is keyed by tenant id alone: the primary key is the
// foreign key, one row per tenant, created lazily on first write.
type GeneralSettingsModel struct {
	TenantID         string `gorm:"type:uuid;primaryKey"`
	Name             string `gorm:"not null"`
	LogoURL          *string
	WebsiteURL       *string
	ShortDescription *string
	Mission          *string
	Vision           *string
	Purpose          *string
	CustomerProblems *string
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

func (GeneralSettingsModel) TableName() string { return "general_settings" }
