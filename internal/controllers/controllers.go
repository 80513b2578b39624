package controllers

import (
	"petshop/config"
	"petshop/internal/database"
	"petshop/internal/events"
	"petshop/internal/repositories"
	"petshop/internal/services"

	customerController "petshop/internal/controllers/customers"
	jobController "petshop/internal/controllers/jobs"
	petController "petshop/internal/controllers/pets"
	workerController "petshop/internal/controllers/workers"
)

type Controllers struct {
	Job      jobController.JobControllerInterface
	Pet      petController.PetControllerInterface
	Customer customerController.CustomerControllerInterface
	Worker   workerController.WorkerControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus events.Publisher,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		Job:      jobController.New(repos, services, eventBus, config, db),
		Pet:      petController.New(repos, services, config, db),
		Customer: customerController.New(repos, services, config, db),
		Worker:   workerController.New(repos, services, config, db),
	}
}
