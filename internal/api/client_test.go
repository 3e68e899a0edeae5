package api

import (
	"context"
	"encoding/json"
	"hunter-tracker/internal/domain"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return NewClient(ts.URL + "/")
}

func TestClient_CreateHunterSendsJSON(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/hunter", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Sung Jinwoo", body["display_name"])
		assert.Equal(t, "jinwoo@example.com", body["email"])
		_, _ = w.Write([]byte(`{"id":"h1","display_name":"Sung Jinwoo","rank":"E","level":1,"energy":100}`))
	})
	c := newTestClient(t, mux)

	email := "jinwoo@example.com"
	hunter, err := c.CreateHunter(context.Background(), "Sung Jinwoo", &email)
	require.NoError(t, err)
	assert.Equal(t, "h1", hunter.ID)
	assert.Equal(t, "E", hunter.Rank)
	assert.Equal(t, 100, hunter.Energy)
}

func TestClient_ErrorsUnwrapToDomain(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/hunter/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Hunter not found"}`))
	})
	mux.HandleFunc("GET /api/logs", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"hunter_id is required"}`))
	})
	c := newTestClient(t, mux)

	_, err := c.GetHunter(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "Hunter not found")

	_, err = c.Logs(context.Background(), "", 0)
	assert.ErrorIs(t, err, domain.ErrInvalid)
	assert.False(t, IsNotFound(err))
}

func TestClient_StatsAndClaim(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/stats", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "h1", r.URL.Query().Get("hunter_id"))
		_, _ = w.Write([]byte(`{"id":"s1","hunter_id":"h1","STR":3,"INT":1,"created_at":"2026-10-15T00:00:00Z"}`))
	})
	mux.HandleFunc("POST /api/quests/{id}/claim", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "done" {
			_, _ = w.Write([]byte(`{"status":"claimed"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"claimed","level":2,"rank":"E","exp":10,"total_exp":110,"leveled_up":true}`))
	})
	c := newTestClient(t, mux)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, err := c.GetStats(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"STR": 3, "INT": 1}, stats)

	claim, err := c.ClaimQuest(ctx, "q1")
	require.NoError(t, err)
	assert.True(t, claim.Awarded())
	assert.Equal(t, 2, claim.Level)
	require.NotNil(t, claim.LeveledUp)
	assert.True(t, *claim.LeveledUp)

	again, err := c.ClaimQuest(ctx, "done")
	require.NoError(t, err)
	assert.False(t, again.Awarded())
}

func TestClient_ListQuestsQuery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/quests", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "h1", r.URL.Query().Get("hunter_id"))
		assert.Equal(t, "daily", r.URL.Query().Get("type"))
		_, _ = w.Write([]byte(`[{"id":"q1","title":"Study 1 hour","status":"pending","exp_reward":25,"stat_reward":{"INT":1}}]`))
	})
	c := newTestClient(t, mux)

	quests, err := c.ListQuests(context.Background(), "h1", "daily")
	require.NoError(t, err)
	require.Len(t, quests, 1)
	assert.Equal(t, map[string]int{"INT": 1}, quests[0].StatReward)
}
