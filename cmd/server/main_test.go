package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetSeams(t *testing.T) {
	origListen := listenAndServe
	origExit := exitFunc
	t.Cleanup(func() {
		listenAndServe = origListen
		exitFunc = origExit
	})
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("PORT", "")
	t.Setenv("CLIENT_ORIGIN", "")
	t.Setenv("REDIS_ADDR", "")
}

func TestRunReturnsListenError(t *testing.T) {
	resetSeams(t)
	t.Setenv("PORT", "9090")

	listenAndServe = func(addr string, handler http.Handler) error {
		require.NotNil(t, handler)
		assert.Equal(t, ":9090", addr)
		return errors.New("boom")
	}
	exitFunc = func(error) {}

	err := run(context.Background())
	require.Error(t, err)
	assert.Equal(t, "boom", err.Error())
}

func TestRunUsesDefaultPort(t *testing.T) {
	resetSeams(t)

	listenAndServe = func(addr string, handler http.Handler) error {
		assert.Equal(t, ":4000", addr)
		require.NotNil(t, handler)
		return nil
	}

	require.NoError(t, run(context.Background()))
}

func TestRunFailsOnBadConfigPath(t *testing.T) {
	resetSeams(t)
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	listenAndServe = func(string, http.Handler) error {
		t.Fatal("server should not start with a bad config")
		return nil
	}

	assert.Error(t, run(context.Background()))
}

func TestMainCompletes(t *testing.T) {
	resetSeams(t)

	listenAndServe = func(string, http.Handler) error { return nil }
	exitFunc = func(error) { t.Fatal("exitFunc should not be called") }

	main()
}

func TestMainHandlesError(t *testing.T) {
	resetSeams(t)

	listenAndServe = func(string, http.Handler) error { return errors.New("boom") }
	called := false
	exitFunc = func(err error) {
		called = true
		assert.Equal(t, "boom", err.Error())
	}

	main()
	assert.True(t, called)
}

func TestRouterServesHealthz(t *testing.T) {
	resetSeams(t)

	var handler http.Handler
	listenAndServe = func(_ string, h http.Handler) error {
		handler = h
		return nil
	}
	require.NoError(t, run(context.Background()))
	require.NotNil(t, handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
