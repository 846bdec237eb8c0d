package services

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/wayfern/wayfern-backend/internal/clients/flightdata"
	"github.com/wayfern/wayfern-backend/internal/logger"
	"github.com/wayfern/wayfern-backend/internal/repos"
	"github.com/wayfern/wayfern-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "wayfern_test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.TripPlan{},
		&types.TripDay{},
		&types.BreakWindow{},
		&types.BudgetAllocation{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

type testRepos struct {
	plan   repos.TripPlanRepo
	day    repos.TripDayRepo
	brk    repos.BreakWindowRepo
	budget repos.BudgetAllocationRepo
}

func newTestRepos(db *gorm.DB, log *logger.Logger) testRepos {
	return testRepos{
		plan:   repos.NewTripPlanRepo(db, log),
		day:    repos.NewTripDayRepo(db, log),
		brk:    repos.NewBreakWindowRepo(db, log),
		budget: repos.NewBudgetAllocationRepo(db, log),
	}
}

// fakeGenerationBackend returns a canned response or error and records every
// prompt it received.
type fakeGenerationBackend struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
}

func (f *fakeGenerationBackend) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeGenerationBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func (f *fakeGenerationBackend) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

// deferredPolicy captures scheduled tasks so a test controls when attempts
// actually run.
type deferredPolicy struct {
	mu    sync.Mutex
	tasks []func(ctx context.Context)
}

func (p *deferredPolicy) Run(ctx context.Context, task func(ctx context.Context)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tasks = append(p.tasks, task)
}

func (p *deferredPolicy) pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tasks)
}

func (p *deferredPolicy) drain(ctx context.Context) {
	p.mu.Lock()
	tasks := p.tasks
	p.tasks = nil
	p.mu.Unlock()
	for _, task := range tasks {
		task(ctx)
	}
}

// fakeFlightLookup resolves flight numbers from a fixed map. Numbers absent
// from the map return ErrFlightNotFound.
type fakeFlightLookup struct {
	mu      sync.Mutex
	details map[string]*flightdata.FlightDetails
	err     error
	lookups []string
}

func (f *fakeFlightLookup) Lookup(ctx context.Context, flightNumber string) (*flightdata.FlightDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, flightNumber)
	if f.err != nil {
		return nil, f.err
	}
	if d, ok := f.details[strings.ToUpper(strings.TrimSpace(flightNumber))]; ok {
		dup := *d
		return &dup, nil
	}
	return nil, flightdata.ErrFlightNotFound
}

func (f *fakeFlightLookup) lookupCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.lookups)
}
