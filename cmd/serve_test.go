package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/diligence-cli/internal/model"
	"github.com/sells-group/diligence-cli/internal/pipeline"
)

type slowRunner struct {
	done chan struct{}
}

func (r *slowRunner) Run(context.Context, model.Company) pipeline.Outcome {
	time.Sleep(50 * time.Millisecond)
	close(r.done)
	return pipeline.Outcome{Status: model.DiligenceComplete}
}

func TestServe_ShutdownWaitsForRuns(t *testing.T) {
	runner := &slowRunner{done: make(chan struct{})}
	dispatcher := pipeline.NewDispatcher(runner)
	dispatcher.Submit(context.Background(), model.Company{Name: "Acme"})

	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, serve(ctx, srv, dispatcher))

	select {
	case <-runner.done:
	default:
		t.Fatal("serve returned before the in-flight run finished")
	}
}

func TestServe_ListenError(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:-1", Handler: http.NotFoundHandler()}
	err := serve(context.Background(), srv, pipeline.NewDispatcher(&slowRunner{done: make(chan struct{})}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server listen")
}
