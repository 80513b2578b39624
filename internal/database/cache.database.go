package database

import (
	"context"
	"fmt"
	"time"

	"petshop/config"
	"petshop/pkg/logger"

	"github.com/valkey-io/valkey-go"
)

// Valkey database indexes, one per cache category.
const (
	GENERAL_CACHE_INDEX = iota
	// users resolved by the auth middleware
	USER_CACHE_INDEX
	// pub/sub for job events
	EVENTS_CACHE_INDEX
	// postal-code lookups
	ADDRESS_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Error("failed to initialize cache database", "reason", "address or port is empty")
	}

	clients := []struct {
		index  int
		name   string
		target *CacheClient
	}{
		{GENERAL_CACHE_INDEX, "general", &s.Cache.General},
		{USER_CACHE_INDEX, "user", &s.Cache.User},
		{EVENTS_CACHE_INDEX, "events", &s.Cache.Events},
		{ADDRESS_CACHE_INDEX, "address", &s.Cache.Address},
	}

	for _, c := range clients {
		client, err := valkey.NewClient(valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    c.index,
		})
		if err != nil {
			return log.Err(fmt.Sprintf("failed to create %s valkey client", c.name), err)
		}
		*c.target = client
	}

	if config.DatabaseCacheReset != -1 {
		go clearCacheDB(config.DatabaseCacheReset, s.Cache)
	}

	return nil
}

func clearCacheDB(index int, cacheDB Cache) {
	log := logger.New("database").File("cache.database").Function("clearCacheDB")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var client CacheClient
	var dbName string

	switch index {
	case GENERAL_CACHE_INDEX:
		client, dbName = cacheDB.General, "General"
	case USER_CACHE_INDEX:
		client, dbName = cacheDB.User, "User"
	case EVENTS_CACHE_INDEX:
		client, dbName = cacheDB.Events, "Events"
	case ADDRESS_CACHE_INDEX:
		client, dbName = cacheDB.Address, "Address"
	default:
		log.Warn("Invalid cache database index", "index", index)
		return
	}

	if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
		log.Er("Failed to clear cache database", err, "index", index, "dbName", dbName)
		return
	}

	log.Info("Successfully cleared cache database", "index", index, "dbName", dbName)
}
