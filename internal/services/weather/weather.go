package weather

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"weather-lookup/internal/models"
	"weather-lookup/internal/repositories"
	"weather-lookup/pkg/logger"
)

// Controller owns the lookup state a presentation surface binds to. FetchWeather
// is the only operation that moves the state through idle, loading and
// success or error.
//
// Lookups are not deduplicated or cancelled. Every submit, blank ones
// included, is tagged with a generation and only the latest one may write its
// outcome, so a slow stale response never overwrites a newer submit.
type Controller struct {
	repo repositories.WeatherRepository
	l    *logger.Logger

	mu         sync.RWMutex
	state      models.State
	generation uint64
	// lastLookup is the generation of the latest submit that reached the
	// repository. Only that lookup may clear Busy.
	lastLookup uint64
	observers  []func(models.State)
}

func NewController(repo repositories.WeatherRepository, l *logger.Logger) *Controller {
	return &Controller{
		repo: repo,
		l:    l,
	}
}

// State returns a snapshot of the four bindings.
func (c *Controller) State() models.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Clone()
}

// SetQuery records the input text without starting a lookup.
func (c *Controller) SetQuery(query string) {
	c.update(func(s *models.State) {
		s.Query = query
	})
}

// Subscribe registers fn to receive a snapshot after every state change.
// Observers run on the goroutine that changed the state.
func (c *Controller) Subscribe(fn func(models.State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// FetchWeather looks up the current weather for query and records the outcome.
// An empty or blank query fails validation without a network call and without
// touching Busy. Otherwise Busy is set for the duration of the lookup and is
// cleared on every exit path, including a panicking repository.
func (c *Controller) FetchWeather(ctx context.Context, query string) {
	city := strings.TrimSpace(query)
	if city == "" {
		c.l.Debug("rejected empty city query", map[string]any{"query": query})
		c.update(func(s *models.State) {
			c.generation++
			s.Query = query
			s.Result = nil
			s.ErrorMessage = models.FailureValidation.Message()
			s.Failure = models.FailureValidation
		})
		return
	}

	lookupID := uuid.NewString()
	gen := c.begin(query)

	c.l.Info("starting weather lookup", map[string]any{
		"lookup_id":  lookupID,
		"city":       city,
		"repo":       c.repo.Name(),
		"generation": gen,
	})

	var (
		result  models.Weather
		lookErr error
	)
	defer func() {
		if r := recover(); r != nil {
			lookErr = errors.Errorf("weather lookup panicked: %v", r)
		}
		c.finish(gen, lookupID, result, lookErr)
	}()

	result, lookErr = c.repo.FetchCurrent(ctx, city)
}

// begin clears the previous outcome, raises Busy and returns the generation
// of the new lookup.
func (c *Controller) begin(query string) uint64 {
	var gen uint64
	c.update(func(s *models.State) {
		c.generation++
		gen = c.generation
		c.lastLookup = gen
		s.Query = query
		s.Result = nil
		s.ErrorMessage = ""
		s.Failure = models.FailureNone
		s.Busy = true
	})
	return gen
}

func (c *Controller) finish(gen uint64, lookupID string, result models.Weather, lookErr error) {
	failure := classify(lookErr)

	fields := map[string]any{
		"lookup_id":  lookupID,
		"generation": gen,
		"failure":    string(failure),
	}

	switch failure {
	case models.FailureNone:
		fields["location"] = result.LocationName
		c.l.Info("weather lookup succeeded", fields)
	case models.FailureNotFound:
		c.l.Warning("city not found", fields)
	default:
		c.l.Error(errors.Wrap(lookErr, "weather lookup failed"), fields)
	}

	superseded := false
	applied := c.updateIf(func(s *models.State) bool {
		if gen != c.generation {
			if gen != c.lastLookup {
				return false
			}
			// only blank submits came after this lookup: their message stays
			superseded = true
			s.Busy = false
			return true
		}
		if failure == models.FailureNone {
			r := result
			s.Result = &r
			s.ErrorMessage = ""
		} else {
			s.Result = nil
			s.ErrorMessage = failure.Message()
		}
		s.Failure = failure
		s.Busy = false
		return true
	})

	if !applied || superseded {
		c.l.Warning("discarding stale weather lookup", fields)
	}
}

func classify(err error) models.FailureKind {
	switch {
	case err == nil:
		return models.FailureNone
	case errors.Is(err, repositories.ErrCityNotFound):
		return models.FailureNotFound
	default:
		return models.FailureTransient
	}
}

func (c *Controller) update(fn func(s *models.State)) {
	c.updateIf(func(s *models.State) bool {
		fn(s)
		return true
	})
}

// updateIf applies fn under the lock and, when fn reports a change, notifies
// observers with the new snapshot after the lock is released.
func (c *Controller) updateIf(fn func(s *models.State) bool) bool {
	c.mu.Lock()
	changed := fn(&c.state)
	snapshot := c.state.Clone()
	observers := slices.Clone(c.observers)
	c.mu.Unlock()

	if !changed {
		return false
	}
	for _, observe := range observers {
		observe(snapshot.Clone())
	}
	return true
}
