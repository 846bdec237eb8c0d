package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/wayfern/wayfern-backend/internal/clients/flightdata"
	"github.com/wayfern/wayfern-backend/internal/clients/openai"
	redisclient "github.com/wayfern/wayfern-backend/internal/clients/redis"
	"github.com/wayfern/wayfern-backend/internal/logger"
)

type Clients struct {
	OpenAI  openai.Client
	Cache   *redisclient.Cache
	Flights flightdata.Client
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	var cache *redisclient.Cache
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		c, err := redisclient.NewCache(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis cache: %w", err)
		}
		cache = c
	}

	// Openai
	openaiClient, err := openai.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}

	// Flight data. Optional: trips still work, autofill just stays off.
	var flights flightdata.Client
	if strings.TrimSpace(os.Getenv("FLIGHTDATA_API_KEY")) != "" {
		f, err := flightdata.NewClient(log, cache)
		if err != nil {
			if cache != nil {
				_ = cache.Close()
			}
			return Clients{}, fmt.Errorf("init flight data client: %w", err)
		}
		flights = f
	} else {
		log.Warn("FLIGHTDATA_API_KEY not set, flight autofill disabled")
	}

	return Clients{
		OpenAI:  openaiClient,
		Cache:   cache,
		Flights: flights,
	}, nil
}

func (c *Clients) Close() {
	if c == nil { return }
	if c.Cache != nil { _ = c.Cache.Close() }
}
