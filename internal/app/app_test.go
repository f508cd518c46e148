package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meridianshop/paygate/internal/config"
	"github.com/meridianshop/paygate/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewHTTPServer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	server := newHTTPServer(serverParams{
		Config: &config.Config{RunAddress: ":9191"},
		Router: engine,
	})
	if server.Addr != ":9191" {
		t.Fatalf("unexpected addr: %s", server.Addr)
	}
	if server.Handler == nil {
		t.Fatal("expected handler")
	}
}

func TestNewRetryWorker(t *testing.T) {
	facade := &ReconcilerFacade{}
	w := newRetryWorker(workerParams{
		Facade: facade,
		Config: &config.Config{
			RetryScanInterval: time.Second,
			RetryBatchSize:    8,
			WorkerPoolSize:    2,
			RetryMaxAttempts:  3,
		},
		Logger: testLogger(),
	})
	if w == nil {
		t.Fatal("expected worker")
	}
}

func TestRegisterLifecycle_StartStop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := &test.LifecycleRecorder{}
	shutdowner := &test.ShutdownerStub{Called: make(chan struct{}, 1)}
	cfg := &config.Config{
		RetryScanInterval: 50 * time.Millisecond,
		RetryBatchSize:    1,
		WorkerPoolSize:    1,
		RetryMaxAttempts:  1,
		ShutdownTimeout:   time.Second,
	}
	f := newFacadeFixture()
	facade := buildFacade(t, f)

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     testLogger(),
		Server:     &http.Server{Addr: "127.0.0.1:0", Handler: gin.New()},
		Worker: newRetryWorker(workerParams{
			Facade: facade,
			Config: cfg,
			Logger: testLogger(),
		}),
		Config: cfg,
	})

	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected one hook, got %d", len(recorder.Hooks))
	}
	if err := recorder.StartAll(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := recorder.StopAll(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestRegisterLifecycle_ServerFailureRequestsShutdown(t *testing.T) {
	recorder := &test.LifecycleRecorder{}
	shutdowner := &test.ShutdownerStub{Called: make(chan struct{}, 1)}
	cfg := &config.Config{
		RetryScanInterval: time.Second,
		RetryBatchSize:    1,
		WorkerPoolSize:    1,
		RetryMaxAttempts:  1,
		ShutdownTimeout:   time.Second,
	}
	f := newFacadeFixture()
	facade := buildFacade(t, f)

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     testLogger(),
		Server:     &http.Server{Addr: "127.0.0.1:-1"},
		Worker: newRetryWorker(workerParams{
			Facade: facade,
			Config: cfg,
			Logger: testLogger(),
		}),
		Config: cfg,
	})

	if err := recorder.StartAll(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	select {
	case <-shutdowner.Called:
	case <-time.After(2 * time.Second):
		t.Fatal("expected shutdown request after listen failure")
	}
	if err := recorder.StopAll(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
