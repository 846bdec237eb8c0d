package flightdata

import (
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "io"
  "net/http"
  "net/url"
  "os"
  "strconv"
  "strings"
  "time"

  "github.com/wayfern/wayfern-backend/internal/logger"

  redisclient "github.com/wayfern/wayfern-backend/internal/clients/redis"
)

// ErrFlightNotFound means the provider has no record for the flight number.
var ErrFlightNotFound = errors.New("flight not found")

const cacheTTL = 24 * time.Hour

// FlightDetails is the normalized view of one scheduled flight. Airport
// fields carry IATA codes; the *_name fields carry the full airport names.
// Times are the provider's ISO 8601 strings.
type FlightDetails struct {
  FlightNumber         string `json:"flight_number"`
  Airline              string `json:"airline"`
  DepartureAirport     string `json:"departure_airport"`
  DepartureAirportName string `json:"departure_airport_name"`
  DepartureTime        string `json:"departure_time"`
  ArrivalAirport       string `json:"arrival_airport"`
  ArrivalAirportName   string `json:"arrival_airport_name"`
  ArrivalTime          string `json:"arrival_time"`
}

// Client resolves flight numbers to schedule details via AviationStack.
type Client interface {
  Lookup(ctx context.Context, flightNumber string) (*FlightDetails, error)
}

type client struct {
  log        *logger.Logger
  baseURL    string
  apiKey     string
  httpClient *http.Client
  cache      *redisclient.Cache
}

// NewClient builds the AviationStack client. cache may be nil, in which
// case every lookup goes to the provider.
func NewClient(log *logger.Logger, cache *redisclient.Cache) (Client, error) {
  apiKey := os.Getenv("FLIGHTDATA_API_KEY")
  if apiKey == "" {
    return nil, fmt.Errorf("missing FLIGHTDATA_API_KEY")
  }

  baseURL := os.Getenv("FLIGHTDATA_BASE_URL")
  if baseURL == "" {
    baseURL = "https://api.aviationstack.com"
  }

  timeoutSec := 10
  if v := os.Getenv("FLIGHTDATA_TIMEOUT_SECONDS"); v != "" {
    if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
      timeoutSec = parsed
    }
  }

  return &client{
    log:        log.With("client", "FlightDataClient"),
    baseURL:    baseURL,
    apiKey:     apiKey,
    httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
    cache:      cache,
  }, nil
}

type lookupEndpoint struct {
  Airport   string `json:"airport"`
  IATA      string `json:"iata"`
  Scheduled string `json:"scheduled"`
}

type lookupResponse struct {
  Data []struct {
    Airline struct {
      Name string `json:"name"`
    } `json:"airline"`
    Flight struct {
      IATA string `json:"iata"`
    } `json:"flight"`
    Departure lookupEndpoint `json:"departure"`
    Arrival   lookupEndpoint `json:"arrival"`
  } `json:"data"`
}

func (c *client) Lookup(ctx context.Context, flightNumber string) (*FlightDetails, error) {
  number := strings.ToUpper(strings.TrimSpace(flightNumber))
  if number == "" {
    return nil, errors.New("flight number required")
  }

  cacheKey := "flightdata:" + number
  if cached, ok := c.cache.Get(ctx, cacheKey); ok {
    var details FlightDetails
    if err := json.Unmarshal([]byte(cached), &details); err == nil {
      c.log.Debug("Flight lookup served from cache", "flight_number", number)
      return &details, nil
    }
  }

  query := url.Values{}
  query.Set("access_key", c.apiKey)
  query.Set("flight_iata", number)
  query.Set("limit", "1")

  req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/flights?"+query.Encode(), nil)
  if err != nil {
    return nil, err
  }

  resp, err := c.httpClient.Do(req)
  if err != nil {
    return nil, fmt.Errorf("flight lookup request: %w", err)
  }
  raw, readErr := io.ReadAll(resp.Body)
  _ = resp.Body.Close()
  if readErr != nil {
    return nil, readErr
  }
  if resp.StatusCode < 200 || resp.StatusCode >= 300 {
    return nil, fmt.Errorf("flight lookup http %d: %s", resp.StatusCode, string(raw))
  }

  var payload lookupResponse
  if err := json.Unmarshal(raw, &payload); err != nil {
    return nil, fmt.Errorf("flight lookup decode: %w", err)
  }
  if len(payload.Data) == 0 {
    return nil, ErrFlightNotFound
  }

  entry := payload.Data[0]
  details := &FlightDetails{
    FlightNumber:         number,
    Airline:              entry.Airline.Name,
    DepartureAirport:     entry.Departure.IATA,
    DepartureAirportName: entry.Departure.Airport,
    DepartureTime:        entry.Departure.Scheduled,
    ArrivalAirport:       entry.Arrival.IATA,
    ArrivalAirportName:   entry.Arrival.Airport,
    ArrivalTime:          entry.Arrival.Scheduled,
  }
  if entry.Flight.IATA != "" {
    details.FlightNumber = strings.ToUpper(entry.Flight.IATA)
  }

  if buf, err := json.Marshal(details); err == nil {
    c.cache.Set(ctx, cacheKey, string(buf), cacheTTL)
  }

  return details, nil
}
