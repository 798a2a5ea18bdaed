package domain

import "time"

// DefaultSettingsName is the name stored when the first write for a tenant
// does not supply one.
const DefaultSettingsName = "Unnamed Organization"

// GeneralSettings is the tenant-scoped settings record, one row per tenant.
type GeneralSettings struct {
	TenantID         string
	Name             string
	LogoURL          *string
	WebsiteURL       *string
	ShortDescription *string
	Mission          *string
	Vision           *string
	Purpose          *string
	CustomerProblems *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SettingsPatch carries a partial update. A nil field means "not supplied"
// and leaves the stored value untouched; supplied values overwrite. An empty
// name is treated as not supplied, since name may never become empty.
type SettingsPatch struct {
	Name             *string
	LogoURL          *string
	WebsiteURL       *string
	ShortDescription *string
	Mission          *string
	Vision           *string
	Purpose          *string
	CustomerProblems *string
}

// DefaultSettings is the projection returned for a tenant whose row does not
// exist yet. Reading it persists nothing.
func DefaultSettings(tenantID string) GeneralSettings {
	return GeneralSettings{TenantID: tenantID}
}

// NewGeneralSettings builds the row lazily created by the first write.
func NewGeneralSettings(tenantID string, p SettingsPatch, now time.Time) GeneralSettings {
	rec := GeneralSettings{
		TenantID:         tenantID,
		Name:             DefaultSettingsName,
		LogoURL:          p.LogoURL,
		WebsiteURL:       p.WebsiteURL,
		ShortDescription: p.ShortDescription,
		Mission:          p.Mission,
		Vision:           p.Vision,
		Purpose:          p.Purpose,
		CustomerProblems: p.CustomerProblems,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if p.Name != nil && *p.Name != "" {
		rec.Name = *p.Name
	}
	return rec
}

// Apply merges the supplied fields of p into s and reports whether anything
// was written. UpdatedAt advances only on a change; CreatedAt is never
// touched.
func (s *GeneralSettings) Apply(p SettingsPatch, now time.Time) bool {
	changed := false
	if p.Name != nil && *p.Name != "" {
		s.Name = *p.Name
		changed = true
	}
	if p.LogoURL != nil {
		s.LogoURL = p.LogoURL
		changed = true
	}
	if p.WebsiteURL != nil {
		s.WebsiteURL = p.WebsiteURL
		changed = true
	}
	if p.ShortDescription != nil {
		s.ShortDescription = p.ShortDescription
		changed = true
	}
	if p.Mission != nil {
		s.Mission = p.Mission
		changed = true
	}
	if p.Vision != nil {
		s.Vision = p.Vision
		changed = true
	}
	if p.Purpose != nil {
		s.Purpose = p.Purpose
		changed = true
	}
	if p.CustomerProblems != nil {
		s.CustomerProblems = p.CustomerProblems
		changed = true
	}
	if changed {
		s.UpdatedAt = now
	}
	return changed
}
