package jobController

import (
	"time"

	. "petshop/internal/models"
	"petshop/internal/types"
)

type timestampField struct {
	field   JobField
	request func(r *UpdateJobRequest) types.OptionalTime
	column  func(j *Job) **time.Time
}

var timestampFields = []timestampField{
	{JobFieldAcceptedAt, func(r *UpdateJobRequest) types.OptionalTime { return r.AcceptedAt }, func(j *Job) **time.Time { return &j.AcceptedAt }},
	{JobFieldRejectedAt, func(r *UpdateJobRequest) types.OptionalTime { return r.RejectedAt }, func(j *Job) **time.Time { return &j.RejectedAt }},
	{JobFieldPreparingAt, func(r *UpdateJobRequest) types.OptionalTime { return r.PreparingAt }, func(j *Job) **time.Time { return &j.PreparingAt }},
	{JobFieldBathStartedAt, func(r *UpdateJobRequest) types.OptionalTime { return r.BathStartedAt }, func(j *Job) **time.Time { return &j.BathStartedAt }},
	{JobFieldGroomStartedAt, func(r *UpdateJobRequest) types.OptionalTime { return r.GroomStartedAt }, func(j *Job) **time.Time { return &j.GroomStartedAt }},
	{JobFieldFinishedAt, func(r *UpdateJobRequest) types.OptionalTime { return r.FinishedAt }, func(j *Job) **time.Time { return &j.FinishedAt }},
	{JobFieldNotifiedAt, func(r *UpdateJobRequest) types.OptionalTime { return r.NotifiedAt }, func(j *Job) **time.Time { return &j.NotifiedAt }},
	{JobFieldDeliveredAt, func(r *UpdateJobRequest) types.OptionalTime { return r.DeliveredAt }, func(j *Job) **time.Time { return &j.DeliveredAt }},
}

// changedFields lists the fields request would actually change on job.
// Supplying a field's current value is not a change.
func changedFields(job *Job, request UpdateJobRequest) []JobField {
	var changed []JobField

	if request.Date != nil && !request.Date.Equal(job.Date) {
		changed = append(changed, JobFieldDate)
	}
	if request.Bath != nil && *request.Bath != job.Bath {
		changed = append(changed, JobFieldBath)
	}
	if request.Groom != nil && *request.Groom != job.Groom {
		changed = append(changed, JobFieldGroom)
	}
	if request.Pet != nil && *request.Pet != job.PetID {
		changed = append(changed, JobFieldPet)
	}
	if request.Worker != nil && *request.Worker != job.WorkerID {
		changed = append(changed, JobFieldWorker)
	}

	for _, ts := range timestampFields {
		value := ts.request(&request)
		if value.Set && !sameInstant(value.Value, *ts.column(job)) {
			changed = append(changed, ts.field)
		}
	}

	return changed
}

func applyChanges(job *Job, request UpdateJobRequest, changed []JobField) {
	for _, field := range changed {
		switch field {
		case JobFieldDate:
			job.Date = request.Date.UTC()
		case JobFieldBath:
			job.Bath = *request.Bath
		case JobFieldGroom:
			job.Groom = *request.Groom
		case JobFieldPet:
			job.PetID = *request.Pet
		case JobFieldWorker:
			job.WorkerID = *request.Worker
		}
	}

	for _, ts := range timestampFields {
		value := ts.request(&request)
		if !value.Set {
			continue
		}
		if value.Value == nil {
			*ts.column(job) = nil
			continue
		}
		at := value.Value.UTC()
		*ts.column(job) = &at
	}
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
