package merchant

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcampus/canteen-client/api"
	"github.com/smartcampus/canteen-client/core"
)

// fakeBackend implements Backend with call capture.
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	gotMerchantID int
	gotInput      api.DishInput
	gotReport     api.TrafficReport
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: map[string]int{}}
}

func (f *fakeBackend) record(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) MerchantDishes(ctx context.Context, merchantID int) ([]api.Dish, error) {
	f.record("dishes")
	f.gotMerchantID = merchantID
	return []api.Dish{{ID: 1, MerchantID: merchantID}}, nil
}

func (f *fakeBackend) AddDish(ctx context.Context, input api.DishInput) (*api.Dish, error) {
	f.record("add")
	f.gotInput = input
	return &api.Dish{ID: 10, Name: input.Name}, nil
}

func (f *fakeBackend) UpdateDish(ctx context.Context, dishID int, input api.DishInput) (*api.Dish, error) {
	f.record("update")
	f.gotInput = input
	return &api.Dish{ID: dishID, Name: input.Name}, nil
}

func (f *fakeBackend) DeleteDish(ctx context.Context, dishID int) error {
	f.record("delete")
	return nil
}

func (f *fakeBackend) ReportTraffic(ctx context.Context, report api.TrafficReport) error {
	f.record("traffic")
	f.gotReport = report
	return nil
}

func (f *fakeBackend) LiveTraffic(ctx context.Context) ([]api.TrafficStat, error) {
	f.record("live")
	return []api.TrafficStat{{MerchantID: 3, Count: 20}}, nil
}

func newSession(t *testing.T, actorType core.ActorType, id string) *core.SessionStore {
	t.Helper()
	sessions := core.NewSessionStore(core.NewMemoryStore(), &core.NoOpLogger{})
	require.NoError(t, sessions.Login(context.Background(), actorType,
		map[string]interface{}{"id": id}, "tok"))
	return sessions
}

func TestMutationsRequireMerchantSession(t *testing.T) {
	backend := newFakeBackend()
	ctx := context.Background()

	cases := []struct {
		name string
		call func(c *Console) error
	}{
		{"dishes", func(c *Console) error { _, err := c.Dishes(ctx); return err }},
		{"add dish", func(c *Console) error { _, err := c.AddDish(ctx, api.DishInput{Name: "x"}); return err }},
		{"update dish", func(c *Console) error { _, err := c.UpdateDish(ctx, 1, api.DishInput{}); return err }},
		{"delete dish", func(c *Console) error { return c.DeleteDish(ctx, 1) }},
		{"report traffic", func(c *Console) error { return c.ReportTraffic(ctx, 10, 5, "午餐") }},
	}

	for _, tc := range cases {
		t.Run(tc.name+" anonymous", func(t *testing.T) {
			sessions := core.NewSessionStore(core.NewMemoryStore(), &core.NoOpLogger{})
			console := NewConsole(backend, sessions, &core.NoOpLogger{})

			err := tc.call(console)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrNotAuthenticated)
		})

		t.Run(tc.name+" user session", func(t *testing.T) {
			console := NewConsole(backend, newSession(t, core.ActorUser, "7"), &core.NoOpLogger{})

			err := tc.call(console)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrNotAuthenticated)
		})
	}

	// None of the rejected calls reached the backend.
	for _, name := range []string{"dishes", "add", "update", "delete", "traffic"} {
		assert.Zero(t, backend.count(name), "%s leaked through the precondition", name)
	}
}

func TestAddDishFillsOwnMerchantID(t *testing.T) {
	backend := newFakeBackend()
	console := NewConsole(backend, newSession(t, core.ActorMerchant, "3"), &core.NoOpLogger{})

	_, err := console.AddDish(context.Background(), api.DishInput{Name: "红烧肉", Price: 15})
	require.NoError(t, err)
	assert.Equal(t, 3, backend.gotInput.MerchantID)

	// An explicit merchant ID is left alone.
	_, err = console.AddDish(context.Background(), api.DishInput{Name: "面", MerchantID: 8})
	require.NoError(t, err)
	assert.Equal(t, 8, backend.gotInput.MerchantID)
}

func TestReportTrafficCarriesMerchantID(t *testing.T) {
	backend := newFakeBackend()
	console := NewConsole(backend, newSession(t, core.ActorMerchant, "3"), &core.NoOpLogger{})

	require.NoError(t, console.ReportTraffic(context.Background(), 25, 12, "晚餐"))

	assert.Equal(t, 3, backend.gotReport.MerchantID)
	assert.Equal(t, 25, backend.gotReport.Count)
	assert.Equal(t, 12, backend.gotReport.WaitingMinutes)
	assert.Equal(t, "晚餐", backend.gotReport.TimeSlot)
}

func TestNonNumericActorIDDegradesToZero(t *testing.T) {
	backend := newFakeBackend()
	console := NewConsole(backend, newSession(t, core.ActorMerchant, "m-3"), &core.NoOpLogger{})

	_, err := console.Dishes(context.Background())
	require.NoError(t, err)
	assert.Zero(t, backend.gotMerchantID, "backend resolves the merchant from the token")
}

func TestLiveTrafficIsPublic(t *testing.T) {
	backend := newFakeBackend()
	sessions := core.NewSessionStore(core.NewMemoryStore(), &core.NoOpLogger{})
	console := NewConsole(backend, sessions, &core.NoOpLogger{})

	stats, err := console.LiveTraffic(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 20, stats[0].Count)
}
