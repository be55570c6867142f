package domain

import (
	"errors"
	"time"
)

// ActivityAction classifies an activity log entry.
type ActivityAction string

const (
	ActionImport       ActivityAction = "IMPORT"
	ActionPublication  ActivityAction = "PUBLICATION"
	ActionArchiving    ActivityAction = "ARCHIVAGE"
	ActionConsultation ActivityAction = "CONSULTATION"
	ActionSearch       ActivityAction = "RECHERCHE"
	ActionDownload     ActivityAction = "TELECHARGEMENT"
	ActionDeletion     ActivityAction = "SUPPRESSION"
	ActionModification ActivityAction = "MODIFICATION"
)

// ErrInvalidActivity rejects a log entry with an unknown action.
var ErrInvalidActivity = errors.New("invalid activity")

// IPUnavailable is recorded when no client address could be determined.
const IPUnavailable = "unavailable"

// KnownActions lists every action accepted by the activity log.
var KnownActions = []ActivityAction{
	ActionImport,
	ActionPublication,
	ActionArchiving,
	ActionConsultation,
	ActionSearch,
	ActionDownload,
	ActionDeletion,
	ActionModification,
}

// ActivityLog is a single entry of the portal's activity trail.
type ActivityLog struct {
	ID          string         `json:"id"`
	Action      ActivityAction `json:"action"`
	Description string         `json:"description,omitempty"`
	IPAddress   string         `json:"ip_address"`
	UserAgent   string         `json:"user_agent"`
	DeviceType  string         `json:"device_type"`
	DeviceName  string         `json:"device_name"`
	DecreeID    string         `json:"decree_id,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// IsKnown reports whether a is one of KnownActions.
func (a ActivityAction) IsKnown() bool {
	for _, known := range KnownActions {
		if a == known {
			return true
		}
	}
	return false
}

// DailyStatistic holds the aggregate counters for one calendar day (UTC).
type DailyStatistic struct {
	Day           string `json:"day"`
	Searches      int64  `json:"searches"`
	Consultations int64  `json:"consultations"`
	Downloads     int64  `json:"downloads"`
	Imports       int64  `json:"imports"`
}

// CounterFor returns the daily counter name incremented by action, or "" when
// the action is not counted.
func CounterFor(action ActivityAction) string {
	switch action {
	case ActionSearch:
		return "searches"
	case ActionConsultation:
		return "consultations"
	case ActionDownload:
		return "downloads"
	case ActionImport:
		return "imports"
	}
	return ""
}
