package brapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oliveirafelipe/carteira-backend/internal/domain"
)

func TestGetCurrentPrice_ParsesQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote/PETR4", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"symbol":"PETR4","regularMarketPrice":31.42}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 2*time.Second, time.Minute)

	price, err := client.GetCurrentPrice(context.Background(), "petr4")

	require.NoError(t, err)
	assert.Equal(t, "31.42", price.String())
}

func TestGetCurrentPrice_CachesWithinTTL(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"results":[{"symbol":"VALE3","regularMarketPrice":65.00}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 2*time.Second, time.Minute)

	_, err := client.GetCurrentPrice(context.Background(), "VALE3")
	require.NoError(t, err)
	_, err = client.GetCurrentPrice(context.Background(), "VALE3")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetCurrentPrice_ExpiredTTLRefetches(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"results":[{"symbol":"VALE3","regularMarketPrice":65.00}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 2*time.Second, time.Nanosecond)

	_, err := client.GetCurrentPrice(context.Background(), "VALE3")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = client.GetCurrentPrice(context.Background(), "VALE3")
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetCurrentPrice_UnknownTicker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 2*time.Second, time.Minute)

	_, err := client.GetCurrentPrice(context.Background(), "NOPE11")

	assert.ErrorIs(t, err, domain.ErrPriceNotFound)
}

func TestGetCurrentPrice_EmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 2*time.Second, time.Minute)

	_, err := client.GetCurrentPrice(context.Background(), "XPTO3")

	assert.ErrorIs(t, err, domain.ErrPriceNotFound)
}

func TestGetCurrentPrice_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 2*time.Second, time.Minute)

	_, err := client.GetCurrentPrice(context.Background(), "PETR4")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrPriceNotFound)
}

func TestGetCurrentPrice_SendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"results":[{"symbol":"PETR4","regularMarketPrice":30.00}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", 2*time.Second, time.Minute)

	_, err := client.GetCurrentPrice(context.Background(), "PETR4")

	require.NoError(t, err)
}

func TestGetCurrentPrice_BlankTicker(t *testing.T) {
	client := NewClient("http://unused.invalid", "", 2*time.Second, time.Minute)

	_, err := client.GetCurrentPrice(context.Background(), "   ")

	assert.ErrorIs(t, err, domain.ErrPriceNotFound)
}
