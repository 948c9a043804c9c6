package audit

import (
	"time"

	"github.com/frahmantamala/correspondence-management/internal/user"
)

// Log rows are written asynchronously off the event bus; a failed
// write never fails the request that produced it.
type Log struct {
	ID         int64      `gorm:"primaryKey" json:"id"`
	UserID     *int64     `gorm:"column:user_id" json:"user_id,omitempty"`
	User       *user.User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action     string     `gorm:"size:50;not null" json:"action"`
	Resource   string     `gorm:"size:50;not null" json:"resource"`
	ResourceID *int64     `gorm:"column:resource_id" json:"resource_id,omitempty"`
	Details    string     `json:"details,omitempty"`
	IPAddress  string     `gorm:"column:ip_address;size:45" json:"ip_address,omitempty"`
	UserAgent  string     `gorm:"column:user_agent;size:500" json:"user_agent,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (Log) TableName() string {
	return "audit_logs"
}

// ListFilter narrows the audit trail; zero values mean no constraint.
type ListFilter struct {
	UserID    *int64
	Action    string
	Resource  string
	StartDate *time.Time
	EndDate   *time.Time
}
