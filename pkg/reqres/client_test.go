package reqres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/customer-pipeline/internal/model"
	"github.com/sells-group/customer-pipeline/internal/resilience"
)

// recordingSleeper captures backoff waits instead of sleeping.
type recordingSleeper struct {
	waits []time.Duration
}

func (r *recordingSleeper) sleep(_ context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return nil
}

func newTestClient(baseURL string, sleeper *recordingSleeper, opts ...Option) Client {
	base := []Option{
		WithBaseURL(baseURL),
		WithSleeper(sleeper.sleep),
		WithPageRate(10000), // no throttling in tests
	}
	return NewClient("test-key", append(base, opts...)...)
}

func writePage(t *testing.T, w http.ResponseWriter, p model.Page) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(p))
}

func TestFetchPage_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		writePage(t, w, model.Page{
			Page:       1,
			PerPage:    2,
			Total:      2,
			TotalPages: 1,
			Data: []model.RawCustomer{
				{ID: 1, Email: "a@example.com", FirstName: "Ada", LastName: "Lovelace"},
				{ID: 2, Email: "b@example.com", FirstName: "Alan", LastName: "Turing"},
			},
		})
	}))
	defer ts.Close()

	sleeper := &recordingSleeper{}
	c := newTestClient(ts.URL, sleeper)

	p, err := c.FetchPage(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, p.TotalPages)
	assert.Len(t, p.Data, 2)
	assert.Empty(t, sleeper.waits)
}

func TestFetchPage_RetriesServerErrorThenSucceeds(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writePage(t, w, model.Page{Page: 1, TotalPages: 1, Data: []model.RawCustomer{{ID: 1}}})
	}))
	defer ts.Close()

	sleeper := &recordingSleeper{}
	c := newTestClient(ts.URL, sleeper, WithMaxRetries(3))

	p, err := c.FetchPage(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, p.Data, 1)
	assert.Equal(t, 3, calls)

	// Server errors back off unjittered: 2^0, then 2^1 seconds.
	require.Len(t, sleeper.waits, 2)
	assert.Equal(t, 1*time.Second, sleeper.waits[0])
	assert.Equal(t, 2*time.Second, sleeper.waits[1])
}

func TestFetchPage_RateLimitedBackoffIsJittered(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writePage(t, w, model.Page{Page: 1, TotalPages: 1, Data: []model.RawCustomer{{ID: 1}}})
	}))
	defer ts.Close()

	sleeper := &recordingSleeper{}
	c := newTestClient(ts.URL, sleeper)

	_, err := c.FetchPage(context.Background(), 1)
	require.NoError(t, err)

	// 429 waits 2^0 seconds plus uniform [0,1s) jitter.
	require.Len(t, sleeper.waits, 1)
	assert.GreaterOrEqual(t, sleeper.waits[0], 1*time.Second)
	assert.Less(t, sleeper.waits[0], 2*time.Second)
}

func TestFetchPage_ClientErrorAbortsImmediately(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	sleeper := &recordingSleeper{}
	c := newTestClient(ts.URL, sleeper)

	_, err := c.FetchPage(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, 1, calls, "client errors must not be retried")
	assert.Empty(t, sleeper.waits)

	var he *resilience.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusNotFound, he.StatusCode)

	var ee *resilience.ExhaustedError
	assert.False(t, errors.As(err, &ee))
}

func TestFetchPage_ExhaustsAttemptBudget(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	sleeper := &recordingSleeper{}
	c := newTestClient(ts.URL, sleeper, WithMaxRetries(2))

	_, err := c.FetchPage(context.Background(), 5)
	require.Error(t, err)
	assert.Equal(t, 3, calls)

	var ee *resilience.ExhaustedError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 5, ee.Page)
	assert.Equal(t, 3, ee.Attempts)

	// Backoff after the first and second attempt only.
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, sleeper.waits)
}

func TestFetchPage_TransportFailureRetried(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	ts.Close() // connection refused from now on

	sleeper := &recordingSleeper{}
	c := newTestClient(ts.URL, sleeper, WithMaxRetries(1))

	_, err := c.FetchPage(context.Background(), 1)
	require.Error(t, err)

	var ee *resilience.ExhaustedError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 2, ee.Attempts)
	assert.Equal(t, []time.Duration{1 * time.Second}, sleeper.waits)
}

func TestFetchAll_PaginatesAndDeduplicates(t *testing.T) {
	pages := map[string]model.Page{
		"1": {
			Page: 1, PerPage: 3, Total: 5, TotalPages: 2,
			Data: []model.RawCustomer{
				{ID: 1, Email: "a@example.com"},
				{ID: 2, Email: "b@example.com"},
				{ID: 0, Email: "noid@example.com"}, // structural skip
			},
		},
		"2": {
			Page: 2, PerPage: 3, Total: 5, TotalPages: 2,
			Data: []model.RawCustomer{
				{ID: 2, Email: "dup@example.com"}, // duplicate, first wins
				{ID: 3, Email: "c@example.com"},
			},
		},
	}

	var requested []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := r.URL.Query().Get("page")
		requested = append(requested, n)
		p, ok := pages[n]
		require.True(t, ok, "unexpected page %s", n)
		writePage(t, w, p)
	}))
	defer ts.Close()

	sleeper := &recordingSleeper{}
	c := newTestClient(ts.URL, sleeper)

	customers, err := c.FetchAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2"}, requested, "pages fetched in order, page 1 not re-fetched")
	require.Len(t, customers, 3)
	assert.Equal(t, 1, customers[0].ID)
	assert.Equal(t, 2, customers[1].ID)
	assert.Equal(t, "b@example.com", customers[1].Email, "first occurrence of a duplicate wins")
	assert.Equal(t, 3, customers[2].ID)
}

func TestFetchAll_AbortsOnUnresolvedPage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			writePage(t, w, model.Page{
				Page: 1, TotalPages: 3,
				Data: []model.RawCustomer{{ID: 1, Email: "a@example.com"}},
			})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	sleeper := &recordingSleeper{}
	c := newTestClient(ts.URL, sleeper, WithMaxRetries(1))

	customers, err := c.FetchAll(context.Background())
	require.Error(t, err)
	assert.Nil(t, customers, "no partial results on a fatal fetch error")

	var ee *resilience.ExhaustedError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 2, ee.Page)
}

func TestFetchAll_MalformedBodyEventuallyExhausts(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "{not json")
	}))
	defer ts.Close()

	sleeper := &recordingSleeper{}
	c := newTestClient(ts.URL, sleeper, WithMaxRetries(1))

	_, err := c.FetchAll(context.Background())
	require.Error(t, err)

	var ee *resilience.ExhaustedError
	require.True(t, errors.As(err, &ee))
}
