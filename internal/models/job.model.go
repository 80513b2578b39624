package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Job is a booked bath/groom service. Its lifecycle lives in nullable
// timestamp columns; Status is derived on load and never stored.
type Job struct {
	BaseModel
	Date     time.Time `gorm:"type:timestamptz;not null;index" json:"date"`
	Bath     bool      `gorm:"type:bool;not null;default:true" json:"bath"`
	Groom    bool      `gorm:"type:bool;not null;default:false" json:"groom"`
	PetID    int       `gorm:"not null;index"                   json:"pet_id"`
	Pet      *Pet      `gorm:"foreignKey:PetID"                 json:"pet,omitempty"`
	WorkerID int       `gorm:"not null;index"                   json:"worker_id"`
	Worker   *User     `gorm:"foreignKey:WorkerID"              json:"worker,omitempty"`

	AcceptedAt     *time.Time `gorm:"type:timestamptz" json:"accepted_at"`
	RejectedAt     *time.Time `gorm:"type:timestamptz" json:"rejected_at"`
	PreparingAt    *time.Time `gorm:"type:timestamptz" json:"preparing_at"`
	BathStartedAt  *time.Time `gorm:"type:timestamptz" json:"bath_started_at"`
	GroomStartedAt *time.Time `gorm:"type:timestamptz" json:"groom_started_at"`
	FinishedAt     *time.Time `gorm:"type:timestamptz" json:"finished_at"`
	NotifiedAt     *time.Time `gorm:"type:timestamptz" json:"notified_at"`
	DeliveredAt    *time.Time `gorm:"type:timestamptz" json:"delivered_at"`

	Status JobStatus `gorm:"-" json:"status"`
}

var ErrDecisionConflict = fmt.Errorf("%w: accepted_at and rejected_at are mutually exclusive", gorm.ErrInvalidValue)

func (j *Job) BeforeSave(tx *gorm.DB) error {
	if !j.Bath {
		return gorm.ErrInvalidValue
	}
	if j.AcceptedAt != nil && j.RejectedAt != nil {
		return ErrDecisionConflict
	}
	return nil
}

func (j *Job) AfterFind(tx *gorm.DB) error {
	j.RefreshStatus()
	return nil
}

func (j *Job) AfterSave(tx *gorm.DB) error {
	j.RefreshStatus()
	return nil
}

func (j *Job) RefreshStatus() {
	j.Status = j.lifecycle().Status()
}

// Lifecycle converts the timestamp columns into a Lifecycle. A record with
// both decisions set cannot be represented and is reported as an error.
func (j *Job) Lifecycle() (Lifecycle, error) {
	if j.AcceptedAt != nil && j.RejectedAt != nil {
		return Lifecycle{}, ErrDecisionConflict
	}
	return j.lifecycle(), nil
}

// lifecycle is the lenient conversion used for display and ordering; when
// both decisions are present the rejection wins, matching its terminal bucket.
func (j *Job) lifecycle() Lifecycle {
	decision := Undecided()
	switch {
	case j.RejectedAt != nil:
		decision = RejectedAt(*j.RejectedAt)
	case j.AcceptedAt != nil:
		decision = AcceptedAt(*j.AcceptedAt)
	}

	return Lifecycle{
		Decision:       decision,
		PreparingAt:    copyTime(j.PreparingAt),
		BathStartedAt:  copyTime(j.BathStartedAt),
		GroomStartedAt: copyTime(j.GroomStartedAt),
		FinishedAt:     copyTime(j.FinishedAt),
		NotifiedAt:     copyTime(j.NotifiedAt),
		DeliveredAt:    copyTime(j.DeliveredAt),
	}
}

// ApplyLifecycle writes l back into the timestamp columns.
func (j *Job) ApplyLifecycle(l Lifecycle) {
	j.AcceptedAt = nil
	j.RejectedAt = nil
	switch l.Decision.Kind() {
	case DecisionAccepted:
		at := l.Decision.At()
		j.AcceptedAt = &at
	case DecisionRejected:
		at := l.Decision.At()
		j.RejectedAt = &at
	}

	j.PreparingAt = copyTime(l.PreparingAt)
	j.BathStartedAt = copyTime(l.BathStartedAt)
	j.GroomStartedAt = copyTime(l.GroomStartedAt)
	j.FinishedAt = copyTime(l.FinishedAt)
	j.NotifiedAt = copyTime(l.NotifiedAt)
	j.DeliveredAt = copyTime(l.DeliveredAt)
	j.RefreshStatus()
}

func (j *Job) IsPendingConfirmation() bool {
	return j.AcceptedAt == nil && j.RejectedAt == nil
}

func (j *Job) IsRejected() bool {
	return j.RejectedAt != nil
}

func (j *Job) IsDelivered() bool {
	return j.DeliveredAt != nil
}

// OwnerID is the customer owning the job's pet, or 0 when Pet is not loaded.
func (j *Job) OwnerID() int {
	if j.Pet == nil {
		return 0
	}
	return j.Pet.CustomerID
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// JobField names an updatable job attribute, using its wire name.
type JobField string

const (
	JobFieldDate           JobField = "date"
	JobFieldBath           JobField = "bath"
	JobFieldGroom          JobField = "groom"
	JobFieldPet            JobField = "pet"
	JobFieldWorker         JobField = "worker"
	JobFieldAcceptedAt     JobField = "accepted_at"
	JobFieldRejectedAt     JobField = "rejected_at"
	JobFieldPreparingAt    JobField = "preparing_at"
	JobFieldBathStartedAt  JobField = "bath_started_at"
	JobFieldGroomStartedAt JobField = "groom_started_at"
	JobFieldFinishedAt     JobField = "finished_at"
	JobFieldNotifiedAt     JobField = "notified_at"
	JobFieldDeliveredAt    JobField = "delivered_at"
)

func (f JobField) IsDecision() bool {
	return f == JobFieldAcceptedAt || f == JobFieldRejectedAt
}

func (f JobField) IsLifecycle() bool {
	switch f {
	case JobFieldAcceptedAt, JobFieldRejectedAt, JobFieldPreparingAt,
		JobFieldBathStartedAt, JobFieldGroomStartedAt, JobFieldFinishedAt,
		JobFieldNotifiedAt, JobFieldDeliveredAt:
		return true
	}
	return false
}
