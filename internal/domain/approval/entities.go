package approval

import "time"

type Decision string

const (
	DecisionApproved Decision = "APPROVED"
	DecisionRejected Decision = "REJECTED"
)

func (d Decision) Valid() bool { return d == DecisionApproved || d == DecisionRejected }

// SystemApprover records decisions taken by policy, e.g. holiday types that
// need no manager sign-off.
const SystemApprover = "system"

// Table: approvals. Rows are append-only.
type Approval struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ApprovalID string    `gorm:"column:approval_id;type:char(32);not null;uniqueIndex:ux_approvals_approval_id" json:"id"`
	RequestID  string    `gorm:"column:request_id;type:char(32);not null;index:idx_approvals_request" json:"request_id"`
	ApproverID string    `gorm:"column:approver_id;size:64;not null" json:"approver_id"`
	Decision   Decision  `gorm:"column:decision;size:16;not null" json:"decision"`
	Comments   string    `gorm:"column:comments;type:text" json:"comments"`
	Level      int       `gorm:"column:level;not null;default:1" json:"level"`
	DecidedAt  time.Time `gorm:"column:decided_at;not null" json:"decided_at"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}

func (Approval) TableName() string { return "approvals" }
