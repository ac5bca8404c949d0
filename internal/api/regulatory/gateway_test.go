package regulatory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-medpoint-api/config"
	"github.com/FACorreiaa/go-medpoint-api/internal/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var nexium = types.Drug{Name: "Nexium", ChemicalName: "esomeprazole"}

func TestNew(t *testing.T) {
	g, err := New(config.RegulatoryConfig{Mode: "simulated", SimulatedLatency: time.Millisecond}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &SimulatedGateway{}, g)

	g, err = New(config.RegulatoryConfig{Mode: "HTTP", BaseURL: "https://api.fda.gov"}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &HTTPGateway{}, g)

	_, err = New(config.RegulatoryConfig{Mode: "carrier-pigeon"}, discardLogger())
	assert.Error(t, err)

	_, err = New(config.RegulatoryConfig{Mode: "http", BaseURL: "not a url"}, discardLogger())
	assert.Error(t, err)
}

func TestSimulatedGateway(t *testing.T) {
	t.Run("Approves", func(t *testing.T) {
		g := NewSimulatedGateway(5*time.Millisecond, discardLogger())
		assert.NoError(t, g.ValidateDrug(context.Background(), nexium))
	})

	t.Run("TimeoutIsError", func(t *testing.T) {
		g := NewSimulatedGateway(time.Second, discardLogger())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		start := time.Now()
		err := g.ValidateDrug(ctx, nexium)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})
}

func TestHTTPGateway(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantErr  bool
		rejected bool
	}{
		{name: "Approved", status: http.StatusOK},
		{name: "NotRegistered", status: http.StatusNotFound, wantErr: true, rejected: true},
		{name: "ServerError", status: http.StatusInternalServerError, wantErr: true, rejected: true},
		{name: "RateLimited", status: http.StatusTooManyRequests, wantErr: true, rejected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotSearch string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotSearch = r.URL.Query().Get("search")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{}`)
			}))
			defer srv.Close()

			g, err := NewHTTPGateway(srv.URL+"/", srv.Client(), discardLogger())
			require.NoError(t, err)

			err = g.ValidateDrug(context.Background(), nexium)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.rejected, errors.Is(err, ErrRejected))
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, "/drug/ndc.json", gotPath)
			assert.True(t, strings.Contains(gotSearch, "Nexium"))
			assert.True(t, strings.Contains(gotSearch, "esomeprazole"))
		})
	}
}

func TestHTTPGateway_QuotesInNames(t *testing.T) {
	var gotSearch string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSearch = r.URL.Query().Get("search")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	g, err := NewHTTPGateway(srv.URL, srv.Client(), discardLogger())
	require.NoError(t, err)

	drug := types.Drug{Name: `Tylenol "Extra" Strength`, ChemicalName: `acetaminophen\caffeine`}
	require.NoError(t, g.ValidateDrug(context.Background(), drug))

	assert.Equal(t,
		`brand_name:"Tylenol \"Extra\" Strength" AND generic_name:"acetaminophen\\caffeine"`,
		gotSearch)
}

func TestHTTPGateway_NoRetryAndTimeout(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	g, err := NewHTTPGateway(srv.URL, srv.Client(), discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err = g.ValidateDrug(ctx, nexium)
	assert.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}
