package weather_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-lookup/internal/models"
	"weather-lookup/internal/repositories"
	"weather-lookup/internal/services/weather"
	"weather-lookup/pkg/logger"
)

// MockRepository implements WeatherRepository for testing
type MockRepository struct {
	mu        sync.Mutex
	result    models.Weather
	err       error
	panicWith any
	cities    []string
}

func (m *MockRepository) Name() string {
	return "mock"
}

func (m *MockRepository) FetchCurrent(ctx context.Context, city string) (models.Weather, error) {
	m.mu.Lock()
	m.cities = append(m.cities, city)
	m.mu.Unlock()

	if m.panicWith != nil {
		panic(m.panicWith)
	}
	if m.err != nil {
		return models.Weather{}, m.err
	}
	return m.result, nil
}

func (m *MockRepository) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cities)
}

// gatedRepository holds each city's lookup until its gate is closed.
type gatedRepository struct {
	started chan string
	gates   map[string]chan struct{}
}

func (g *gatedRepository) Name() string {
	return "gated"
}

func (g *gatedRepository) FetchCurrent(ctx context.Context, city string) (models.Weather, error) {
	g.started <- city
	if gate, ok := g.gates[city]; ok {
		<-gate
	}
	return models.Weather{LocationName: city, TemperatureCelsius: 20}, nil
}

var madrid = models.Weather{
	LocationName:         "Madrid",
	TemperatureCelsius:   15.2,
	ConditionDescription: "cielo claro",
	IconID:               "01d",
}

func recordStates(c *weather.Controller) *[]models.State {
	var (
		mu     sync.Mutex
		states []models.State
	)
	c.Subscribe(func(s models.State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})
	return &states
}

func TestController_InitialState(t *testing.T) {
	c := weather.NewController(&MockRepository{}, logger.NewNopLogger())

	s := c.State()
	assert.Empty(t, s.Query)
	assert.Nil(t, s.Result)
	assert.Empty(t, s.ErrorMessage)
	assert.False(t, s.Busy)
}

func TestController_FetchWeather_RejectsBlankQueries(t *testing.T) {
	for _, query := range []string{"", " ", "\t", "  \n  "} {
		t.Run(fmt.Sprintf("%q", query), func(t *testing.T) {
			repo := &MockRepository{result: madrid}
			c := weather.NewController(repo, logger.NewNopLogger())
			states := recordStates(c)

			c.FetchWeather(context.Background(), query)

			assert.Equal(t, 0, repo.callCount())
			s := c.State()
			assert.Equal(t, models.MessageCityRequired, s.ErrorMessage)
			assert.Equal(t, models.FailureValidation, s.Failure)
			assert.Nil(t, s.Result)
			assert.False(t, s.Busy)
			for _, seen := range *states {
				assert.False(t, seen.Busy)
			}
		})
	}
}

func TestController_FetchWeather_BusyLifecycle(t *testing.T) {
	repo := &MockRepository{result: madrid}
	c := weather.NewController(repo, logger.NewNopLogger())
	states := recordStates(c)

	c.FetchWeather(context.Background(), "Madrid")

	require.Len(t, *states, 2)
	loading := (*states)[0]
	assert.True(t, loading.Busy)
	assert.Nil(t, loading.Result)
	assert.Empty(t, loading.ErrorMessage)
	assert.Equal(t, "Madrid", loading.Query)

	done := (*states)[1]
	assert.False(t, done.Busy)
	assert.False(t, c.State().Busy)
}

func TestController_FetchWeather_Success(t *testing.T) {
	repo := &MockRepository{result: madrid}
	c := weather.NewController(repo, logger.NewNopLogger())

	c.FetchWeather(context.Background(), "Madrid")

	s := c.State()
	require.NotNil(t, s.Result)
	assert.Equal(t, madrid, *s.Result)
	assert.Empty(t, s.ErrorMessage)
	assert.Equal(t, models.FailureNone, s.Failure)
	assert.False(t, s.Busy)
	assert.Equal(t, []string{"Madrid"}, repo.cities)
}

func TestController_FetchWeather_TrimsQueryForLookup(t *testing.T) {
	repo := &MockRepository{result: madrid}
	c := weather.NewController(repo, logger.NewNopLogger())

	c.FetchWeather(context.Background(), "  Madrid ")

	assert.Equal(t, []string{"Madrid"}, repo.cities)
	// the input text is kept as typed
	assert.Equal(t, "  Madrid ", c.State().Query)
}

func TestController_FetchWeather_NotFound(t *testing.T) {
	repo := &MockRepository{err: fmt.Errorf("%w: Qwxyz123", repositories.ErrCityNotFound)}
	c := weather.NewController(repo, logger.NewNopLogger())

	c.FetchWeather(context.Background(), "Qwxyz123")

	s := c.State()
	assert.Equal(t, models.MessageCityNotFound, s.ErrorMessage)
	assert.Equal(t, models.FailureNotFound, s.Failure)
	assert.Nil(t, s.Result)
	assert.False(t, s.Busy)
}

func TestController_FetchWeather_TransientFailures(t *testing.T) {
	for name, err := range map[string]error{
		"network":   errors.New("failed to do request: connection refused"),
		"timeout":   context.DeadlineExceeded,
		"http 500":  errors.New("HTTP error (status 500): 500 Internal Server Error"),
		"malformed": errors.New("failed to parse JSON response: invalid character"),
	} {
		t.Run(name, func(t *testing.T) {
			c := weather.NewController(&MockRepository{err: err}, logger.NewNopLogger())

			c.FetchWeather(context.Background(), "Madrid")

			s := c.State()
			assert.Equal(t, models.MessageConnection, s.ErrorMessage)
			assert.Equal(t, models.FailureTransient, s.Failure)
			assert.Nil(t, s.Result)
			assert.False(t, s.Busy)
		})
	}
}

func TestController_FetchWeather_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	repo := repositories.NewOpenWeatherMapRepository(repositories.OpenWeatherMapOptions{
		BaseURL: "http://" + addr + "/data/2.5/weather",
		APIKey:  "test-key",
	}, logger.NewNopLogger(), http.DefaultClient)
	c := weather.NewController(repo, logger.NewNopLogger())

	c.FetchWeather(context.Background(), "Madrid")

	s := c.State()
	assert.Equal(t, models.MessageConnection, s.ErrorMessage)
	assert.Nil(t, s.Result)
	assert.False(t, s.Busy)
}

func TestController_FetchWeather_RepositoryPanicClearsBusy(t *testing.T) {
	repo := &MockRepository{panicWith: "nil map write"}
	c := weather.NewController(repo, logger.NewNopLogger())
	states := recordStates(c)

	assert.NotPanics(t, func() {
		c.FetchWeather(context.Background(), "Madrid")
	})

	s := c.State()
	assert.False(t, s.Busy)
	assert.Equal(t, models.MessageConnection, s.ErrorMessage)
	assert.Nil(t, s.Result)

	require.Len(t, *states, 2)
	assert.True(t, (*states)[0].Busy)
	assert.False(t, (*states)[1].Busy)
}

func TestController_FetchWeather_SameQueryTwice(t *testing.T) {
	repo := &MockRepository{result: madrid}
	c := weather.NewController(repo, logger.NewNopLogger())

	c.FetchWeather(context.Background(), "Madrid")
	first := c.State()
	c.FetchWeather(context.Background(), "Madrid")
	second := c.State()

	assert.Equal(t, first, second)
	assert.Equal(t, 2, repo.callCount())
}

func TestController_FetchWeather_ResultAndErrorNeverCoexist(t *testing.T) {
	repo := &MockRepository{result: madrid}
	c := weather.NewController(repo, logger.NewNopLogger())

	steps := []func(){
		func() { repo.err = nil },
		func() { repo.err = repositories.ErrCityNotFound },
		func() { repo.err = nil },
		func() { repo.err = errors.New("boom") },
		func() { repo.err = nil },
	}

	for _, step := range steps {
		step()
		c.FetchWeather(context.Background(), "Madrid")
		s := c.State()
		assert.False(t, s.HasResult() && s.HasError(), "state %+v", s)
		assert.True(t, s.HasResult() || s.HasError())
	}

	// a blank query after a success drops the old result too
	c.FetchWeather(context.Background(), "")
	s := c.State()
	assert.Nil(t, s.Result)
	assert.Equal(t, models.MessageCityRequired, s.ErrorMessage)
}

func TestController_FetchWeather_DiscardsStaleResponse(t *testing.T) {
	slow := make(chan struct{})
	repo := &gatedRepository{
		started: make(chan string, 2),
		gates:   map[string]chan struct{}{"Madrid": slow},
	}
	c := weather.NewController(repo, logger.NewNopLogger())

	done := make(chan struct{})
	go func() {
		c.FetchWeather(context.Background(), "Madrid")
		close(done)
	}()
	require.Equal(t, "Madrid", <-repo.started)
	assert.True(t, c.State().Busy)

	c.FetchWeather(context.Background(), "Lisboa")
	require.Equal(t, "Lisboa", <-repo.started)

	close(slow)
	<-done

	s := c.State()
	require.NotNil(t, s.Result)
	assert.Equal(t, "Lisboa", s.Result.LocationName)
	assert.Equal(t, "Lisboa", s.Query)
	assert.False(t, s.Busy)
}

func TestController_FetchWeather_BlankSubmitSupersedesInFlightLookup(t *testing.T) {
	slow := make(chan struct{})
	repo := &gatedRepository{
		started: make(chan string, 1),
		gates:   map[string]chan struct{}{"Madrid": slow},
	}
	c := weather.NewController(repo, logger.NewNopLogger())

	done := make(chan struct{})
	go func() {
		c.FetchWeather(context.Background(), "Madrid")
		close(done)
	}()
	require.Equal(t, "Madrid", <-repo.started)

	c.FetchWeather(context.Background(), "   ")
	s := c.State()
	assert.Equal(t, models.MessageCityRequired, s.ErrorMessage)
	// the guard leaves Busy to the lookup still in flight
	assert.True(t, s.Busy)

	close(slow)
	<-done

	s = c.State()
	assert.Equal(t, "   ", s.Query)
	assert.Nil(t, s.Result)
	assert.Equal(t, models.MessageCityRequired, s.ErrorMessage)
	assert.Equal(t, models.FailureValidation, s.Failure)
	assert.False(t, s.Busy)
}

func TestController_FetchWeather_BusyUntilLatestCompletes(t *testing.T) {
	madridGate := make(chan struct{})
	lisboaGate := make(chan struct{})
	repo := &gatedRepository{
		started: make(chan string, 2),
		gates:   map[string]chan struct{}{"Madrid": madridGate, "Lisboa": lisboaGate},
	}
	c := weather.NewController(repo, logger.NewNopLogger())

	madridDone := make(chan struct{})
	go func() {
		c.FetchWeather(context.Background(), "Madrid")
		close(madridDone)
	}()
	require.Equal(t, "Madrid", <-repo.started)

	lisboaDone := make(chan struct{})
	go func() {
		c.FetchWeather(context.Background(), "Lisboa")
		close(lisboaDone)
	}()
	require.Equal(t, "Lisboa", <-repo.started)

	// the superseded lookup finishing must not end the loading state
	close(madridGate)
	<-madridDone
	s := c.State()
	assert.True(t, s.Busy)
	assert.Nil(t, s.Result)

	close(lisboaGate)
	<-lisboaDone
	s = c.State()
	assert.False(t, s.Busy)
	require.NotNil(t, s.Result)
	assert.Equal(t, "Lisboa", s.Result.LocationName)
}

func TestController_SetQuery(t *testing.T) {
	repo := &MockRepository{result: madrid}
	c := weather.NewController(repo, logger.NewNopLogger())
	states := recordStates(c)

	c.SetQuery("Mad")

	assert.Equal(t, "Mad", c.State().Query)
	assert.Equal(t, 0, repo.callCount())
	require.Len(t, *states, 1)
	assert.Equal(t, "Mad", (*states)[0].Query)
}

func TestController_StateIsASnapshot(t *testing.T) {
	c := weather.NewController(&MockRepository{result: madrid}, logger.NewNopLogger())
	c.FetchWeather(context.Background(), "Madrid")

	s := c.State()
	s.Result.TemperatureCelsius = -40

	assert.Equal(t, 15.2, c.State().Result.TemperatureCelsius)
}
