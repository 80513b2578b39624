package models

import (
	"cmp"
	"slices"
	"time"
)

type JobStatus string

// Ordered by derivation precedence.
const (
	JobStatusDelivered           JobStatus = "delivered"
	JobStatusNotified            JobStatus = "notified"
	JobStatusFinished            JobStatus = "finished"
	JobStatusGrooming            JobStatus = "grooming"
	JobStatusBathing             JobStatus = "bathing"
	JobStatusPreparing           JobStatus = "preparing"
	JobStatusAccepted            JobStatus = "accepted"
	JobStatusRejected            JobStatus = "rejected"
	JobStatusPendingConfirmation JobStatus = "pending_confirmation"
)

func (s JobStatus) IsTerminal() bool {
	return s == JobStatusDelivered || s == JobStatusRejected
}

func (s JobStatus) String() string {
	return string(s)
}

type DecisionKind int

const (
	DecisionPending DecisionKind = iota
	DecisionAccepted
	DecisionRejected
)

// Decision is the customer's answer to a proposed booking. Accepted and
// rejected cannot coexist.
type Decision struct {
	kind DecisionKind
	at   time.Time
}

func Undecided() Decision {
	return Decision{kind: DecisionPending}
}

func AcceptedAt(at time.Time) Decision {
	return Decision{kind: DecisionAccepted, at: at}
}

func RejectedAt(at time.Time) Decision {
	return Decision{kind: DecisionRejected, at: at}
}

func (d Decision) Kind() DecisionKind {
	return d.kind
}

// At is the decision instant; zero when undecided.
func (d Decision) At() time.Time {
	return d.at
}

func (d Decision) decided() *time.Time {
	if d.kind == DecisionPending {
		return nil
	}
	at := d.at
	return &at
}

type Lifecycle struct {
	Decision       Decision
	PreparingAt    *time.Time
	BathStartedAt  *time.Time
	GroomStartedAt *time.Time
	FinishedAt     *time.Time
	NotifiedAt     *time.Time
	DeliveredAt    *time.Time
}

func (l Lifecycle) Status() JobStatus {
	switch {
	case l.DeliveredAt != nil:
		return JobStatusDelivered
	case l.NotifiedAt != nil:
		return JobStatusNotified
	case l.FinishedAt != nil:
		return JobStatusFinished
	case l.GroomStartedAt != nil:
		return JobStatusGrooming
	case l.BathStartedAt != nil:
		return JobStatusBathing
	case l.PreparingAt != nil:
		return JobStatusPreparing
	case l.Decision.Kind() == DecisionAccepted:
		return JobStatusAccepted
	case l.Decision.Kind() == DecisionRejected:
		return JobStatusRejected
	default:
		return JobStatusPendingConfirmation
	}
}

// IsTerminal reports whether the lifecycle is closed to further stage changes.
func (l Lifecycle) IsTerminal() bool {
	return l.DeliveredAt != nil || l.Decision.Kind() == DecisionRejected
}

// Bucket ranks the lifecycle for the job list: pending first, then open
// accepted work, then delivered, then rejected.
func (l Lifecycle) Bucket() int {
	switch {
	case l.Decision.Kind() == DecisionRejected:
		return 3
	case l.DeliveredAt != nil:
		return 2
	case l.Decision.Kind() == DecisionAccepted:
		return 1
	default:
		return 0
	}
}

// CompareJobs orders jobs the way the job list does: by bucket, then by the
// decision and stage timestamps newest first with missing values leading,
// then delivered_at newest first with missing values trailing, then id desc.
func CompareJobs(a, b *Job) int {
	la, lb := a.lifecycle(), b.lifecycle()

	if c := cmp.Compare(la.Bucket(), lb.Bucket()); c != 0 {
		return c
	}

	stages := [][2]*time.Time{
		{la.Decision.decided(), lb.Decision.decided()},
		{la.PreparingAt, lb.PreparingAt},
		{la.BathStartedAt, lb.BathStartedAt},
		{la.GroomStartedAt, lb.GroomStartedAt},
		{la.FinishedAt, lb.FinishedAt},
		{la.NotifiedAt, lb.NotifiedAt},
	}
	for _, pair := range stages {
		if c := compareDescNullsFirst(pair[0], pair[1]); c != 0 {
			return c
		}
	}

	if c := compareDescNullsLast(la.DeliveredAt, lb.DeliveredAt); c != 0 {
		return c
	}

	return cmp.Compare(b.ID, a.ID)
}

func SortJobs(jobs []Job) {
	slices.SortStableFunc(jobs, func(a, b Job) int {
		return CompareJobs(&a, &b)
	})
}

func compareDescNullsFirst(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return b.Compare(*a)
}

func compareDescNullsLast(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return b.Compare(*a)
}
