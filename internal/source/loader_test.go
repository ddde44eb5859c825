package source

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rajivgeraev/iv-catalog/internal/models"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchListings(ctx context.Context) ([]models.Listing, error) {
	args := m.Called(ctx)
	listings, _ := args.Get(0).([]models.Listing)
	return listings, args.Error(1)
}

var sample = []models.Listing{
	{ID: 1, Title: "Casa", City: "Lima", Type: "Casa", Price: 100},
	{ID: 2, Title: "Depto", City: "Lima", Type: "Departamento", Price: 200},
}

func TestLoader_StartsLoading(t *testing.T) {
	l := NewLoader(new(mockFetcher), zap.NewNop())

	assert.Equal(t, StateLoading, l.State())
	_, err := l.Listings()
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.NoError(t, l.Err())
}

func TestLoader_LoadReady(t *testing.T) {
	f := new(mockFetcher)
	f.On("FetchListings", mock.Anything).Return(sample, nil).Once()

	l := NewLoader(f, zap.NewNop())
	require.NoError(t, l.Load(context.Background()))

	assert.Equal(t, StateReady, l.State())
	listings, err := l.Listings()
	require.NoError(t, err)
	assert.Equal(t, sample, listings)

	// second Load does not fetch again
	require.NoError(t, l.Load(context.Background()))
	f.AssertNumberOfCalls(t, "FetchListings", 1)
}

func TestLoader_LoadFailedIsSticky(t *testing.T) {
	boom := errors.New("network down")
	f := new(mockFetcher)
	f.On("FetchListings", mock.Anything).Return(nil, boom).Once()

	l := NewLoader(f, zap.NewNop())
	assert.ErrorIs(t, l.Load(context.Background()), boom)
	assert.Equal(t, StateFailed, l.State())
	assert.ErrorIs(t, l.Err(), boom)

	assert.ErrorIs(t, l.Load(context.Background()), boom)
	assert.Equal(t, StateFailed, l.State())
	f.AssertNumberOfCalls(t, "FetchListings", 1)
}

func TestLoader_ReloadRecovers(t *testing.T) {
	f := new(mockFetcher)
	f.On("FetchListings", mock.Anything).Return(nil, errors.New("timeout")).Once()
	f.On("FetchListings", mock.Anything).Return(sample, nil).Once()

	l := NewLoader(f, zap.NewNop())
	require.Error(t, l.Load(context.Background()))

	require.NoError(t, l.Reload(context.Background()))
	assert.Equal(t, StateReady, l.State())
	assert.NoError(t, l.Err())
	listings, err := l.Listings()
	require.NoError(t, err)
	assert.Len(t, listings, 2)
	f.AssertExpectations(t)
}

func TestLoader_HooksObserveEveryAttempt(t *testing.T) {
	f := new(mockFetcher)
	f.On("FetchListings", mock.Anything).Return(sample, nil).Once()
	f.On("FetchListings", mock.Anything).Return(nil, errors.New("gone")).Once()

	var mu sync.Mutex
	var states []State
	var counts []int
	hook := func(state State, count int, err error) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, state)
		counts = append(counts, count)
	}

	l := NewLoader(f, zap.NewNop(), hook)
	require.NoError(t, l.Load(context.Background()))
	require.Error(t, l.Reload(context.Background()))

	assert.Equal(t, []State{StateReady, StateFailed}, states)
	assert.Equal(t, []int{2, 0}, counts)
	_, err := l.Listings()
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestLoader_DuplicateIDsAreKept(t *testing.T) {
	dup := append([]models.Listing{}, sample...)
	dup = append(dup, models.Listing{ID: 1, Title: "Otra"})

	f := new(mockFetcher)
	f.On("FetchListings", mock.Anything).Return(dup, nil).Once()

	l := NewLoader(f, zap.NewNop())
	require.NoError(t, l.Load(context.Background()))

	listings, err := l.Listings()
	require.NoError(t, err)
	assert.Len(t, listings, 3)
}

func TestLoader_ConcurrentReaders(t *testing.T) {
	f := new(mockFetcher)
	f.On("FetchListings", mock.Anything).Return(sample, nil)

	l := NewLoader(f, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = l.Load(context.Background())
		}()
		go func() {
			defer wg.Done()
			_ = l.State()
			_, _ = l.Listings()
		}()
	}
	wg.Wait()

	assert.Equal(t, StateReady, l.State())
	f.AssertNumberOfCalls(t, "FetchListings", 1)
}
