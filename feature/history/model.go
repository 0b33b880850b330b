package history

import "time"

// SyncRun is one finished sync pass.
type SyncRun struct {
	ID              uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PassID          string    `gorm:"column:pass_id;size:36;index" json:"pass_id"`
	Trigger         string    `gorm:"column:trigger_source;size:16" json:"trigger"`
	StartedAt       time.Time `gorm:"column:started_at" json:"started_at"`
	FinishedAt      time.Time `gorm:"column:finished_at" json:"finished_at"`
	Packages        int       `gorm:"column:packages" json:"packages"`
	Uploaded        int       `gorm:"column:uploaded" json:"uploaded"`
	Skipped         int       `gorm:"column:skipped" json:"skipped"`
	Invalid         int       `gorm:"column:invalid" json:"invalid"`
	Filtered        int       `gorm:"column:filtered" json:"filtered"`
	ReleaseFailures int       `gorm:"column:release_failures" json:"release_failures"`
	ErrorKind       string    `gorm:"column:error_kind;size:64" json:"error_kind,omitempty"`
	Error           string    `gorm:"column:error;type:text" json:"error,omitempty"`
}

// TableName overrides the table name for sync runs.
func (SyncRun) TableName() string {
	return "sync_runs"
}

// Succeeded reports whether the pass finished without error.
func (r SyncRun) Succeeded() bool {
	return r.Error == ""
}
