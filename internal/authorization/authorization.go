package authorization

import (
	"fmt"

	"petshop/internal/models"
	"petshop/internal/types"
)

func denied(reason string) error {
	return fmt.Errorf("%w: %s", types.ErrPermissionDenied, reason)
}

// Staff allows any worker.
func Staff(actor models.Actor) error {
	if !actor.IsWorker() {
		return denied("only staff can manage customers")
	}
	return nil
}

// Admin allows workers flagged as administrators.
func Admin(actor models.Actor) error {
	if !actor.IsWorker() || !actor.IsAdmin {
		return denied("only administrators can manage workers")
	}
	return nil
}

// OwnsPet allows workers, and customers acting on their own pet.
func OwnsPet(actor models.Actor, pet *models.Pet) error {
	switch actor.Role {
	case models.RoleWorker:
		return nil
	case models.RoleCustomer:
		if pet != nil && pet.OwnedBy(actor.ID) {
			return nil
		}
		return denied("pet does not belong to customer")
	default:
		return denied("unknown role")
	}
}

// ViewJob allows workers, and customers whose pet the job is for. The job's
// Pet must be loaded.
func ViewJob(actor models.Actor, job *models.Job) error {
	return OwnsPet(actor, job.Pet)
}

// Job gates an update to job that changes the given fields. Rules apply in
// order and the first failure wins:
//
//  1. a customer who does not own the pet is denied;
//  2. a delivered job is closed to every change;
//  3. a rejected job is closed to lifecycle changes;
//  4. a customer may only decide a job that is still pending confirmation;
//  5. a worker may change anything else.
func Job(actor models.Actor, job *models.Job, changed []models.JobField) error {
	if err := ViewJob(actor, job); err != nil {
		return err
	}

	if job.IsDelivered() {
		return types.Conflict(string(models.JobFieldDeliveredAt), "job has been delivered and can no longer change")
	}

	if job.IsRejected() {
		for _, field := range changed {
			if field.IsLifecycle() {
				return types.Conflict(string(field), "job was rejected and its progress can no longer change")
			}
		}
	}

	switch actor.Role {
	case models.RoleCustomer:
		if !job.IsPendingConfirmation() {
			return types.Conflict("status", "job is no longer awaiting confirmation")
		}
		for _, field := range changed {
			if !field.IsDecision() {
				return denied(fmt.Sprintf("customers cannot change %s", field))
			}
		}
		return nil
	case models.RoleWorker:
		return nil
	default:
		return denied("unknown role")
	}
}
