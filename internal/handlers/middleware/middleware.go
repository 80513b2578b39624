package middleware

import (
	"petshop/config"
	"petshop/internal/database"
	"petshop/internal/repositories"
	"petshop/internal/types"
	"petshop/pkg/logger"
)

type TokenVerifier interface {
	Verify(token string) (types.TokenInfo, error)
}

type Middleware struct {
	DB       database.DB
	userRepo repositories.UserRepository
	tokens   TokenVerifier
	Config   config.Config
	log      logger.Logger
}

func New(
	db database.DB,
	tokens TokenVerifier,
	config config.Config,
	repos repositories.Repository,
) Middleware {
	return Middleware{
		DB:       db,
		userRepo: repos.User,
		tokens:   tokens,
		Config:   config,
		log:      logger.New("middleware"),
	}
}
