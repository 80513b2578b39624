package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"petshop/config"
	"petshop/internal/constants"
	"petshop/internal/database"
	"petshop/internal/types"
	"petshop/internal/utils"
	"petshop/pkg/logger"
)

const (
	addressLookupTimeout = 10 * time.Second
)

type Address struct {
	CEP      string `json:"cep"`
	Street   string `json:"street"`
	District string `json:"district"`
	City     string `json:"city"`
	State    string `json:"state"`
}

// brasilAPIAddress is the BrasilAPI /api/cep/v1 payload.
type brasilAPIAddress struct {
	CEP          string `json:"cep"`
	State        string `json:"state"`
	City         string `json:"city"`
	Neighborhood string `json:"neighborhood"`
	Street       string `json:"street"`
}

// AddressLookup is what controllers depend on to resolve a postal code.
type AddressLookup interface {
	Lookup(ctx context.Context, cep string) (Address, error)
}

// AddressService resolves Brazilian postal codes to street addresses.
type AddressService struct {
	baseURL    string
	httpClient *http.Client
	cache      database.CacheClient
	log        logger.Logger
}

func NewAddressService(cfg config.Config, cache database.CacheClient) *AddressService {
	return &AddressService{
		baseURL:    strings.TrimRight(cfg.AddressLookupURL, "/"),
		httpClient: &http.Client{Timeout: addressLookupTimeout},
		cache:      cache,
		log:        logger.New("AddressService"),
	}
}

// Lookup returns the address for cep. Every failure is reported as a
// validation error on the "cep" field.
func (s *AddressService) Lookup(ctx context.Context, cep string) (Address, error) {
	log := s.log.TraceFromContext(ctx).Function("Lookup")

	digits := utils.OnlyDigits(cep)
	if !utils.IsValidCEP(digits) {
		return Address{}, types.Validation("cep", "postal code must have 8 digits")
	}

	if s.cache != nil {
		var cached Address
		found, err := database.NewCacheBuilder(s.cache, digits).
			WithHash(constants.AddressCachePrefix).
			WithContext(ctx).
			Get(&cached)
		if err != nil {
			log.Warn("failed to read address cache", "cep", digits, "error", err)
		}
		if found {
			return cached, nil
		}
	}

	address, err := s.fetch(ctx, digits)
	if err != nil {
		return Address{}, err
	}

	if s.cache != nil {
		if err := database.NewCacheBuilder(s.cache, digits).
			WithHash(constants.AddressCachePrefix).
			WithStruct(address).
			WithTTL(constants.AddressCacheExpiry).
			WithContext(ctx).
			Set(); err != nil {
			log.Warn("failed to cache address", "cep", digits, "error", err)
		}
	}

	return address, nil
}

func (s *AddressService) fetch(ctx context.Context, cep string) (Address, error) {
	log := s.log.TraceFromContext(ctx).Function("fetch")

	url := fmt.Sprintf("%s/api/cep/v1/%s", s.baseURL, cep)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Er("failed to build address request", err, "cep", cep)
		return Address{}, types.Validation("cep", "postal code lookup failed")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Er("address lookup request failed", err, "cep", cep)
		return Address{}, types.Validation("cep", "postal code lookup failed")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		log.Info("postal code not found", "cep", cep, "status", resp.StatusCode)
		return Address{}, types.Validation("cep", "postal code not found")
	case resp.StatusCode != http.StatusOK:
		log.Warn("unexpected address lookup status", "cep", cep, "status", resp.StatusCode)
		return Address{}, types.Validation("cep", "postal code lookup failed")
	}

	var payload brasilAPIAddress
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Er("failed to decode address response", err, "cep", cep)
		return Address{}, types.Validation("cep", "postal code lookup failed")
	}

	return Address{
		CEP:      cep,
		Street:   payload.Street,
		District: payload.Neighborhood,
		City:     payload.City,
		State:    payload.State,
	}, nil
}
