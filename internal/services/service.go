package services

import (
	"petshop/config"
	"petshop/internal/database"
)

type Service struct {
	Transaction *TransactionService
	Scheduler   *SchedulerService
	Address     *AddressService
	Token       *TokenService
}

func New(db database.DB, cfg config.Config) (Service, error) {
	loc, err := cfg.Location()
	if err != nil {
		return Service{}, err
	}

	return Service{
		Transaction: NewTransactionService(db),
		Scheduler:   NewSchedulerService(loc),
		Address:     NewAddressService(cfg, db.Cache.Address),
		Token:       NewTokenService(cfg),
	}, nil
}
