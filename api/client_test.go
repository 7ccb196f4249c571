package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcampus/canteen-client/core"
)

// recordingNavigator captures navigation side effects.
type recordingNavigator struct {
	routes []core.Route
}

func (r *recordingNavigator) Navigate(route core.Route) {
	r.routes = append(r.routes, route)
}

// writeEnvelope writes a success envelope with the given payload.
func writeEnvelope(t *testing.T, w http.ResponseWriter, payload interface{}) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    json.RawMessage(data),
	})
	require.NoError(t, err)
}

func newAuthenticatedStore(t *testing.T, actorType core.ActorType, id, token string) *core.SessionStore {
	t.Helper()
	sessions := core.NewSessionStore(core.NewMemoryStore(), &core.NoOpLogger{})
	info := map[string]interface{}{"id": id}
	require.NoError(t, sessions.Login(context.Background(), actorType, info, token))
	return sessions
}

func TestRequestHeaders(t *testing.T) {
	var gotAuth, gotRequestID, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotAccept = r.Header.Get("Accept")
		writeEnvelope(t, w, Profile{ID: 7, Username: "alice"})
	}))
	defer server.Close()

	sessions := newAuthenticatedStore(t, core.ActorUser, "7", "tok-abc")
	client := New(server.URL, sessions)

	profile, err := client.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)

	assert.Equal(t, "Token tok-abc", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "application/json", gotAccept)
}

func TestNoAuthHeaderWithoutSession(t *testing.T) {
	var gotAuth string
	var sawAuthHeader bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, sawAuthHeader = r.Header["Authorization"]
		writeEnvelope(t, w, DishPage{})
	}))
	defer server.Close()

	sessions := core.NewSessionStore(core.NewMemoryStore(), &core.NoOpLogger{})
	client := New(server.URL, sessions)

	_, err := client.FilterDishes(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, sawAuthHeader, "unexpected Authorization header %q", gotAuth)
}

func TestUserLoginEstablishesSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/user-login/", r.URL.Path)

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "alice", creds.Username)

		writeEnvelope(t, w, map[string]interface{}{
			"token": "fresh-token",
			"user":  map[string]interface{}{"id": "7", "username": "alice"},
		})
	}))
	defer server.Close()

	sessions := core.NewSessionStore(core.NewMemoryStore(), &core.NoOpLogger{})
	client := New(server.URL, sessions)

	result, err := client.UserLogin(context.Background(), Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", result.Token)

	session := sessions.Current()
	assert.True(t, session.Authenticated)
	assert.Equal(t, core.ActorUser, session.ActorType)
	assert.Equal(t, "fresh-token", session.Token)
	assert.Equal(t, "7", sessions.CurrentActorID())
}

func TestFailedLoginLeavesSessionUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "用户名或密码错误",
		})
	}))
	defer server.Close()

	sessions := core.NewSessionStore(core.NewMemoryStore(), &core.NoOpLogger{})
	client := New(server.URL, sessions)

	_, err := client.UserLogin(context.Background(), Credentials{Username: "alice", Password: "wrong"})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnauthorized)
	assert.False(t, sessions.Current().Authenticated)

	var ce *core.ClientError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "用户名或密码错误", ce.Message)
}

func TestFailureClassification(t *testing.T) {
	cases := []struct {
		status int
		want   error
		kind   string
	}{
		{http.StatusForbidden, core.ErrForbidden, "forbidden"},
		{http.StatusNotFound, core.ErrNotFound, "not_found"},
		{http.StatusUnprocessableEntity, core.ErrUnprocessable, "unprocessable"},
		{http.StatusInternalServerError, core.ErrServer, "server_error"},
		{http.StatusBadGateway, core.ErrServer, "server_error"},
	}

	for _, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"success": false,
					"message": "backend said no",
				})
			}))
			defer server.Close()

			sessions := newAuthenticatedStore(t, core.ActorUser, "7", "tok")
			client := New(server.URL, sessions)

			_, err := client.Profile(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)

			var ce *core.ClientError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tc.status, ce.Status)
			assert.Equal(t, tc.kind, ce.Kind)
			assert.Equal(t, "backend said no", ce.Message)

			// Non-401 failures never touch the session.
			assert.True(t, sessions.Current().Authenticated)
		})
	}
}

func TestUnauthorizedClearsSessionAndRedirectsHome(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "token expired"})
	}))
	defer server.Close()

	sessions := newAuthenticatedStore(t, core.ActorUser, "7", "stale-tok")
	nav := &recordingNavigator{}
	client := New(server.URL, sessions, WithNavigator(nav))

	_, err := client.Profile(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	assert.False(t, sessions.Current().Authenticated)
	assert.Equal(t, []core.Route{core.RouteHome}, nav.routes, "exactly one redirect home")
}

func TestUnauthorizedDroppedWhenLoginIntervenes(t *testing.T) {
	sessions := newAuthenticatedStore(t, core.ActorUser, "7", "old-tok")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A fresh login lands while this request is in flight. The 401
		// below refers to the old token and must not undo it.
		require.NoError(t, sessions.Login(r.Context(), core.ActorUser,
			map[string]interface{}{"id": "7"}, "new-tok"))

		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false})
	}))
	defer server.Close()

	nav := &recordingNavigator{}
	client := New(server.URL, sessions, WithNavigator(nav))

	_, err := client.Profile(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	assert.True(t, sessions.Current().Authenticated)
	assert.Equal(t, "new-tok", sessions.Token())
	assert.Empty(t, nav.routes, "stale 401 must not redirect")
}

func TestTimeoutYieldsNoResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	sessions := core.NewSessionStore(core.NewMemoryStore(), &core.NoOpLogger{})
	client := New(server.URL, sessions, WithTimeout(50*time.Millisecond))

	_, err := client.PopularDishes(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNoResponse)
	assert.True(t, core.IsTransport(err))
}

func TestConnectionRefusedYieldsNoResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listens anymore

	sessions := core.NewSessionStore(core.NewMemoryStore(), &core.NoOpLogger{})
	client := New(server.URL, sessions)

	_, err := client.PopularDishes(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNoResponse)
}

func TestUndecodableBodyYieldsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>gateway error</html>"))
	}))
	defer server.Close()

	sessions := core.NewSessionStore(core.NewMemoryStore(), &core.NoOpLogger{})
	client := New(server.URL, sessions)

	_, err := client.PopularDishes(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrServer)
}

func TestLogoutIsLocalOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("logout must not call the backend")
	}))
	defer server.Close()

	sessions := newAuthenticatedStore(t, core.ActorUser, "7", "tok")
	client := New(server.URL, sessions)

	require.NoError(t, client.Logout(context.Background()))
	assert.False(t, sessions.Current().Authenticated)

	// Still a no-op, still no backend call.
	require.NoError(t, client.Logout(context.Background()))
}
