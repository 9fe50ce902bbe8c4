package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentbridge/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestCacheServesFreshReadsFromMemory(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		json.NewEncoder(w).Encode([]item{{ID: "1", Title: "one"}})
	}))
	defer server.Close()

	cache := NewCache(NewAPI(server.URL), CacheOptions{})
	defer cache.Close()

	key := Key{Path: "/api/resources", Filter: "type=faq"}
	for i := 0; i < 5; i++ {
		var got []item
		require.NoError(t, cache.Get(context.Background(), key, &got))
		require.Len(t, got, 1)
	}
	assert.Equal(t, int32(1), hits.Load(), "fresh reads must not refetch")
}

func TestCacheStaleWhileRevalidate(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := hits.Add(1)
		title := "old"
		if n > 1 {
			title = "new"
		}
		json.NewEncoder(w).Encode([]item{{ID: "1", Title: title}})
	}))
	defer server.Close()

	cache := NewCache(NewAPI(server.URL), CacheOptions{StaleTime: 20 * time.Millisecond})
	defer cache.Close()

	key := Key{Path: "/api/jobs/featured"}
	var got []item
	require.NoError(t, cache.Get(context.Background(), key, &got))
	assert.Equal(t, "old", got[0].Title)

	time.Sleep(50 * time.Millisecond)

	// A stale read still answers immediately from cache.
	require.NoError(t, cache.Get(context.Background(), key, &got))
	assert.Equal(t, "old", got[0].Title)

	// The background refetch replaces the entry.
	assert.Eventually(t, func() bool {
		var fresh []item
		if err := cache.Get(context.Background(), key, &fresh); err != nil {
			return false
		}
		return len(fresh) == 1 && fresh[0].Title == "new"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestQueryRetriesTransientFailures(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode([]item{})
	}))
	defer server.Close()

	_, err := NewAPI(server.URL).Get(context.Background(), "/api/stats")
	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load())
}

func TestClientErrorsAreFinal(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "Resource not found"})
	}))
	defer server.Close()

	_, err := NewAPI(server.URL).Get(context.Background(), "/api/resources/nope")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Resource not found", apiErr.Message)
	assert.Equal(t, int32(1), hits.Load(), "a 4xx must not be retried")
}

func TestErrorMessageFallsBackToStatusText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := NewAPI(server.URL).Get(context.Background(), "/x")
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, "I'm a teapot", apiErr.Message)
}

func TestMutationRetriesOnceOnServerError(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(item{ID: "srv-1"})
	}))
	defer server.Close()

	_, err := NewAPI(server.URL).Do(context.Background(), http.MethodPost, "/api/admin/resources", item{Title: "t"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestOptimisticCreateShowsSyntheticItemUntilSettled(t *testing.T) {
	created := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			<-created
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(item{ID: "srv-1", Title: "Guide"})
		default:
			json.NewEncoder(w).Encode([]item{{ID: "srv-1", Title: "Guide"}})
		}
	}))
	defer server.Close()

	api := NewAPI(server.URL)
	cache := NewCache(api, CacheOptions{})
	defer cache.Close()

	key := Key{Path: "/api/admin/resources", Filter: "type=guide"}
	cache.Set(key, mustMarshal(t, []item{}))

	tempID := SyntheticID()
	mutation := &Mutation{
		Cache: cache,
		Key:   key,
		Optimistic: func(current json.RawMessage) json.RawMessage {
			var list []item
			json.Unmarshal(current, &list)
			list = append(list, item{ID: tempID, Title: "Guide"})
			return mustMarshal(t, list)
		},
		Call: func(ctx context.Context) error {
			_, err := api.Do(ctx, http.MethodPost, "/api/admin/resources", item{Title: "Guide"})
			return err
		},
	}

	done := make(chan error, 1)
	go func() { done <- mutation.Run(context.Background()) }()

	// While the create is in flight the synthetic item is visible.
	assert.Eventually(t, func() bool {
		data, ok := cache.Snapshot(key)
		if !ok {
			return false
		}
		var list []item
		json.Unmarshal(data, &list)
		return len(list) == 1 && IsSyntheticID(list[0].ID)
	}, time.Second, 5*time.Millisecond)

	close(created)
	require.NoError(t, <-done)

	// After settling, the synthetic item is replaced by the server's.
	data, ok := cache.Snapshot(key)
	require.True(t, ok)
	var list []item
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "srv-1", list[0].ID)
	assert.False(t, IsSyntheticID(list[0].ID))
}

func TestFailedMutationRestoresSnapshotVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "Title is required"})
	}))
	defer server.Close()

	api := NewAPI(server.URL)
	cache := NewCache(api, CacheOptions{})
	defer cache.Close()

	key := Key{Path: "/api/admin/resources"}
	original := mustMarshal(t, []item{{ID: "srv-1", Title: "Keep me"}})
	cache.Set(key, original)

	var notified error
	mutation := &Mutation{
		Cache: cache,
		Key:   key,
		Optimistic: func(current json.RawMessage) json.RawMessage {
			return mustMarshal(t, []item{})
		},
		Call: func(ctx context.Context) error {
			_, err := api.Do(ctx, http.MethodPost, "/api/admin/resources", item{})
			return err
		},
		OnError: func(err error) { notified = err },
	}

	err := mutation.Run(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, notified)

	data, ok := cache.Snapshot(key)
	require.True(t, ok)
	assert.True(t, bytes.Equal(original, data), "rollback must restore the snapshot byte for byte")
}

func TestUnfetchedKeyRollsBackToAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	api := NewAPI(server.URL)
	cache := NewCache(api, CacheOptions{})
	defer cache.Close()

	key := Key{Path: "/api/admin/testimonials"}
	mutation := &Mutation{
		Cache: cache,
		Key:   key,
		Optimistic: func(current json.RawMessage) json.RawMessage {
			return mustMarshal(t, []item{{ID: SyntheticID()}})
		},
		Call: func(ctx context.Context) error {
			_, err := api.Do(ctx, http.MethodPost, "/api/admin/testimonials", item{})
			return err
		},
	}

	require.Error(t, mutation.Run(context.Background()))
	_, ok := cache.Snapshot(key)
	assert.False(t, ok, "a key that never held data must end up absent again")
}

func mustMarshal(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
