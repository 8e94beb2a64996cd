package entities

import "time"

type AuditEventType string

const (
	AuditEventAccess   AuditEventType = "access"
	AuditEventCheckout AuditEventType = "checkout"
	AuditEventAuth     AuditEventType = "auth"
	AuditEventAdmin    AuditEventType = "admin"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusDenied  AuditStatus = "denied"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuditEvent is one row of the operability trail. The streaming path
// surfaces every failure to the client as an undifferentiated denial;
// this table is where the distinction between "no such book", "not
// entitled" and "file missing on disk" is preserved.
type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"index" json:"user_id"`
	EventType   AuditEventType `gorm:"index;size:50" json:"event_type"`
	Action      string         `gorm:"size:100" json:"action"`      // e.g. "pdf_serve", "checkout_verify"
	Description string         `gorm:"size:500" json:"description"` // human-readable summary
	BookID      *uint          `gorm:"index" json:"book_id,omitempty"`
	Metadata    string         `gorm:"type:text" json:"metadata,omitempty"` // JSON for extra data
	IPAddress   string         `gorm:"size:45" json:"ip_address,omitempty"`
	Status      AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg    string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
