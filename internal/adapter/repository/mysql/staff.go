package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"leave-engine/internal/domain/leave"
)

// maxChain bounds how far up the reporting line IsManagerOf walks.
const maxChain = 8

// StaffMember mirrors the externally owned staff table. The engine only
// reads it.
type StaffMember struct {
	UserID       string `gorm:"column:user_id;primaryKey;size:64"`
	DepartmentID string `gorm:"column:department_id;size:64"`
	ManagerID    string `gorm:"column:manager_id;size:64;index"`
}

func (StaffMember) TableName() string { return "staff" }

// StaffDirectory serves leave.Authorizer and leave.Directory from the staff
// table.
type StaffDirectory struct{ db *gorm.DB }

var (
	_ leave.Authorizer = (*StaffDirectory)(nil)
	_ leave.Directory  = (*StaffDirectory)(nil)
)

func NewStaffDirectory(db *gorm.DB) *StaffDirectory { return &StaffDirectory{db: db} }

func (d *StaffDirectory) member(ctx context.Context, userID string) (*StaffMember, error) {
	var m StaffMember
	err := d.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "staff "+userID)
	}
	return &m, nil
}

// IsManagerOf is true when approverID sits anywhere above userID in the
// reporting line, so a second-level approver is also a manager.
func (d *StaffDirectory) IsManagerOf(ctx context.Context, approverID, userID string) (bool, error) {
	if approverID == "" || approverID == userID {
		return false, nil
	}
	current := userID
	for i := 0; i < maxChain; i++ {
		m, err := d.member(ctx, current)
		if err != nil {
			return false, err
		}
		if m == nil || m.ManagerID == "" || m.ManagerID == current {
			return false, nil
		}
		if m.ManagerID == approverID {
			return true, nil
		}
		current = m.ManagerID
	}
	return false, nil
}

func (d *StaffDirectory) DepartmentOf(ctx context.Context, userID string) (string, error) {
	m, err := d.member(ctx, userID)
	if err != nil || m == nil {
		return "", err
	}
	return m.DepartmentID, nil
}

func (d *StaffDirectory) ManagerOf(ctx context.Context, userID string) (string, error) {
	m, err := d.member(ctx, userID)
	if err != nil || m == nil {
		return "", err
	}
	return m.ManagerID, nil
}

// JobAssignment mirrors the scheduling system's job_assignments table.
type JobAssignment struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	AssignmentID string    `gorm:"column:assignment_id;type:char(32);not null"`
	UserID       string    `gorm:"column:user_id;size:64;not null;index"`
	Description  string    `gorm:"column:description;size:255"`
	StartDate    time.Time `gorm:"column:start_date;type:date;not null"`
	EndDate      time.Time `gorm:"column:end_date;type:date;not null"`
}

func (JobAssignment) TableName() string { return "job_assignments" }

type JobScheduler struct{ db *gorm.DB }

var _ leave.Scheduler = (*JobScheduler)(nil)

func NewJobScheduler(db *gorm.DB) *JobScheduler { return &JobScheduler{db: db} }

func (s *JobScheduler) JobAssignments(ctx context.Context, userID string, rng leave.DateRange) ([]leave.JobConflict, error) {
	var rows []JobAssignment
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND start_date <= ? AND end_date >= ?", userID, rng.End, rng.Start).
		Order("start_date ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "job assignments of "+userID)
	}
	out := make([]leave.JobConflict, 0, len(rows))
	for _, j := range rows {
		out = append(out, leave.JobConflict{
			Description: j.Description,
			Range:       leave.DateRange{Start: leave.Day(j.StartDate), End: leave.Day(j.EndDate)},
		})
	}
	return out, nil
}
