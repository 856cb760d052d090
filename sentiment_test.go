package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFearGreedClientParsesIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"name":"Fear and Greed Index","data":[{"value":"39","value_classification":"Fear"}]}`))
	}))
	defer srv.Close()

	score, err := NewFearGreedClient(srv.URL).GetSentiment(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 39, score)
}

func TestFearGreedClientClampsOutOfRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"value":"140"}]}`))
	}))
	defer srv.Close()

	score, err := NewFearGreedClient(srv.URL).GetSentiment(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100, score)
}

func TestFearGreedClientErrors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"http 500":   func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
		"empty data": func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"data":[]}`)) },
		"bad value":  func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"data":[{"value":"n/a"}]}`)) },
		"not json":   func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`<html>`)) },
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()

			_, err := NewFearGreedClient(srv.URL).GetSentiment(context.Background())
			assert.Error(t, err)
		})
	}
}
