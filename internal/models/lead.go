package models

import "time"

// Lead is a participant, unique per (email, calendar). Consent fields are
// mutable and always reflect the most recent submission; name and phone are
// only ever filled in, never blanked.
type Lead struct {
	ID                    string    `db:"id" json:"id"`
	CalendarID            string    `db:"calendar_id" json:"calendar_id"`
	Email                 string    `db:"email" json:"email"`
	Name                  string    `db:"name" json:"name,omitempty"`
	Phone                 string    `db:"phone" json:"phone,omitempty"`
	TermsAccepted         bool      `db:"terms_accepted" json:"terms_accepted"`
	PrivacyPolicyAccepted bool      `db:"privacy_policy_accepted" json:"privacy_policy_accepted"`
	MarketingConsent      bool      `db:"marketing_consent" json:"marketing_consent"`
	ConsentTimestamp      time.Time `db:"consent_timestamp" json:"consent_timestamp"`
	IPAddress             string    `db:"ip_address" json:"-"`
	UserAgent             string    `db:"user_agent" json:"-"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time `db:"updated_at" json:"updated_at"`
}

// LeadFilter defines filters for lead listing.
type LeadFilter struct {
	Search   string
	Page     int
	PageSize int
}
