package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/graphcache/cmd/graphcache/commands"
	"go.trai.ch/graphcache/internal/app"
	"go.trai.ch/graphcache/internal/build"
	"go.trai.ch/graphcache/internal/core/domain"
	"go.trai.ch/graphcache/internal/engine/coordinator"
)

type mockApp struct {
	startFunc   func(ctx context.Context, opts app.Options) error
	rebuildFunc func(ctx context.Context, opts app.Options) error
	refreshFunc func(ctx context.Context, opts app.Options) error
	statusFunc  func(ctx context.Context, opts app.Options) (coordinator.Status, error)
	routeFunc   func(ctx context.Context, query domain.RouteQuery, opts app.Options) (*domain.Itinerary, error)
	cleanFunc   func(ctx context.Context, opts app.Options) error
	watchFunc   func(ctx context.Context, opts app.Options) error
}

func (m *mockApp) Start(ctx context.Context, opts app.Options) error {
	if m.startFunc != nil {
		return m.startFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Rebuild(ctx context.Context, opts app.Options) error {
	if m.rebuildFunc != nil {
		return m.rebuildFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Refresh(ctx context.Context, opts app.Options) error {
	if m.refreshFunc != nil {
		return m.refreshFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Status(ctx context.Context, opts app.Options) (coordinator.Status, error) {
	if m.statusFunc != nil {
		return m.statusFunc(ctx, opts)
	}
	return coordinator.Status{}, nil
}

func (m *mockApp) Route(ctx context.Context, query domain.RouteQuery, opts app.Options) (*domain.Itinerary, error) {
	if m.routeFunc != nil {
		return m.routeFunc(ctx, query, opts)
	}
	return nil, domain.ErrNoRoute
}

func (m *mockApp) Clean(ctx context.Context, opts app.Options) error {
	if m.cleanFunc != nil {
		return m.cleanFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Watch(ctx context.Context, opts app.Options) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, opts)
	}
	return nil
}

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(a)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, new(bytes.Buffer))
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Start(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.Options
		mock := &mockApp{
			startFunc: func(_ context.Context, opts app.Options) error {
				captured = opts
				return nil
			},
		}

		_, err := execute(t, mock, "start", "--timeout", "90s", "--ci", "--json-log")
		require.NoError(t, err)
		assert.Equal(t, app.Options{OutputMode: "linear", JSONLog: true, Timeout: 90 * time.Second}, captured)
	})

	t.Run("defaults", func(t *testing.T) {
		var captured app.Options
		mock := &mockApp{
			startFunc: func(_ context.Context, opts app.Options) error {
				captured = opts
				return nil
			},
		}

		_, err := execute(t, mock, "start", "-o", "quiet")
		require.NoError(t, err)
		assert.Equal(t, app.Options{OutputMode: "quiet"}, captured)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		mock := &mockApp{
			startFunc: func(context.Context, app.Options) error {
				return errors.New("simulated error")
			},
		}

		_, err := execute(t, mock, "start")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("rejects arguments", func(t *testing.T) {
		_, err := execute(t, &mockApp{}, "start", "extra")
		assert.Error(t, err)
	})
}

func TestCommands_Lifecycle(t *testing.T) {
	errSimulated := errors.New("simulated error")

	tests := []struct {
		name  string
		args  []string
		setup func(m *mockApp, called *bool)
	}{
		{
			name: "rebuild",
			args: []string{"rebuild"},
			setup: func(m *mockApp, called *bool) {
				m.rebuildFunc = func(context.Context, app.Options) error { *called = true; return errSimulated }
			},
		},
		{
			name: "refresh",
			args: []string{"refresh"},
			setup: func(m *mockApp, called *bool) {
				m.refreshFunc = func(context.Context, app.Options) error { *called = true; return errSimulated }
			},
		},
		{
			name: "clean",
			args: []string{"clean"},
			setup: func(m *mockApp, called *bool) {
				m.cleanFunc = func(context.Context, app.Options) error { *called = true; return errSimulated }
			},
		},
		{
			name: "watch",
			args: []string{"watch"},
			setup: func(m *mockApp, called *bool) {
				m.watchFunc = func(context.Context, app.Options) error { *called = true; return errSimulated }
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			mock := &mockApp{}
			tt.setup(mock, &called)

			_, err := execute(t, mock, tt.args...)
			assert.ErrorIs(t, err, errSimulated)
			assert.True(t, called)
		})
	}
}

func TestCommands_Watch_Interval(t *testing.T) {
	var captured app.Options
	mock := &mockApp{
		watchFunc: func(_ context.Context, opts app.Options) error {
			captured = opts
			return nil
		},
	}

	_, err := execute(t, mock, "watch", "--interval", "5m")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, captured.Interval)
}

func statusFixture() coordinator.Status {
	return coordinator.Status{
		CacheRoot: "/data/graph-cache",
		Inputs: []coordinator.InputStatus{
			{
				Name:         "data.osm.pbf",
				Path:         "/data/data.osm.pbf",
				Present:      true,
				SizeBytes:    3 << 20,
				LastModified: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			},
			{Name: "data.gtfs.zip", Path: "/data/data.gtfs.zip"},
		},
		Stale: true,
		Job: &domain.ImportJob{
			Name:           domain.ImportJobName,
			State:          domain.JobFailed,
			Progress:       domain.ProgressValidated,
			FailureMessage: "graph build failed: exit status 1",
		},
	}
}

func TestCommands_Status(t *testing.T) {
	mock := &mockApp{
		statusFunc: func(context.Context, app.Options) (coordinator.Status, error) {
			return statusFixture(), nil
		},
	}

	t.Run("text", func(t *testing.T) {
		out, err := execute(t, mock, "status")
		require.NoError(t, err)

		g := goldie.New(t)
		g.Assert(t, "status", []byte(out))
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, mock, "status", "--json")
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, "/data/graph-cache", decoded["cacheRoot"])
		assert.Equal(t, true, decoded["stale"])
		assert.NotContains(t, decoded, "saved")

		job, ok := decoded["job"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "failed", job["state"])
	})

	t.Run("error", func(t *testing.T) {
		failing := &mockApp{
			statusFunc: func(context.Context, app.Options) (coordinator.Status, error) {
				return coordinator.Status{}, domain.ErrConfigParseFailed
			},
		}
		_, err := execute(t, failing, "status")
		assert.ErrorIs(t, err, domain.ErrConfigParseFailed)
	})
}

func itineraryFixture() *domain.Itinerary {
	return &domain.Itinerary{
		DistanceMeters:  5400,
		DurationSeconds: 1500,
		Legs: []domain.Leg{
			{
				Mode:            domain.ModeWalk,
				DistanceMeters:  400,
				DurationSeconds: 300,
				Instructions:    []domain.Instruction{{Text: "Head north on Rue de Rivoli", DistanceMeters: 400}},
			},
			{
				Mode:            domain.ModeTransit,
				DistanceMeters:  5000,
				DurationSeconds: 1200,
				Instructions:    []domain.Instruction{{Text: "Ride line 1 to Étoile", DistanceMeters: 5000}},
			},
		},
	}
}

func TestCommands_Route(t *testing.T) {
	t.Run("builds the query from flags", func(t *testing.T) {
		var captured domain.RouteQuery
		mock := &mockApp{
			routeFunc: func(_ context.Context, q domain.RouteQuery, _ app.Options) (*domain.Itinerary, error) {
				captured = q
				return itineraryFixture(), nil
			},
		}

		out, err := execute(t, mock, "route",
			"--from", "48.8556,2.3522", "--to", "48.8738,2.2950",
			"--at", "2026-10-19T08:30:00+02:00", "--mode", "walk", "--profile", "hike")
		require.NoError(t, err)

		assert.Equal(t, domain.Coordinate{Lat: 48.8556, Lon: 2.3522}, captured.From)
		assert.Equal(t, domain.Coordinate{Lat: 48.8738, Lon: 2.2950}, captured.To)
		assert.True(t, captured.Departure.Equal(time.Date(2026, 10, 19, 6, 30, 0, 0, time.UTC)))
		assert.Equal(t, domain.ModeWalk, captured.Mode)
		assert.Equal(t, "hike", captured.Profile)

		g := goldie.New(t)
		g.Assert(t, "route", []byte(out))
	})

	t.Run("defaults to transit departing now", func(t *testing.T) {
		var captured domain.RouteQuery
		mock := &mockApp{
			routeFunc: func(_ context.Context, q domain.RouteQuery, _ app.Options) (*domain.Itinerary, error) {
				captured = q
				return itineraryFixture(), nil
			},
		}

		before := time.Now()
		_, err := execute(t, mock, "route", "--from", "1,2", "--to", "3,4")
		require.NoError(t, err)
		assert.Equal(t, domain.ModeTransit, captured.Mode)
		assert.Empty(t, captured.Profile)
		assert.False(t, captured.Departure.Before(before))
	})

	t.Run("json", func(t *testing.T) {
		mock := &mockApp{
			routeFunc: func(context.Context, domain.RouteQuery, app.Options) (*domain.Itinerary, error) {
				return itineraryFixture(), nil
			},
		}

		out, err := execute(t, mock, "route", "--from", "1,2", "--to", "3,4", "--json")
		require.NoError(t, err)

		var decoded domain.Itinerary
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, *itineraryFixture(), decoded)
	})

	t.Run("invalid input", func(t *testing.T) {
		mock := &mockApp{
			routeFunc: func(context.Context, domain.RouteQuery, app.Options) (*domain.Itinerary, error) {
				panic("should not be called")
			},
		}

		tests := []struct {
			name string
			args []string
			err  error
		}{
			{name: "from", args: []string{"--from", "north", "--to", "3,4"}, err: domain.ErrInvalidCoordinate},
			{name: "to", args: []string{"--from", "1,2", "--to", "3,400"}, err: domain.ErrInvalidCoordinate},
			{name: "mode", args: []string{"--from", "1,2", "--to", "3,4", "--mode", "car"}, err: domain.ErrInvalidTravelMode},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := execute(t, mock, append([]string{"route"}, tt.args...)...)
				assert.ErrorIs(t, err, tt.err)
			})
		}

		t.Run("departure", func(t *testing.T) {
			_, err := execute(t, mock, "route", "--from", "1,2", "--to", "3,4", "--at", "tomorrow")
			assert.ErrorContains(t, err, "invalid departure time")
		})

		t.Run("required flags", func(t *testing.T) {
			_, err := execute(t, mock, "route", "--from", "1,2")
			assert.ErrorContains(t, err, "to")
		})
	})

	t.Run("no route", func(t *testing.T) {
		_, err := execute(t, &mockApp{}, "route", "--from", "1,2", "--to", "3,4")
		assert.ErrorIs(t, err, domain.ErrNoRoute)
	})
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)

	assert.Contains(t, out, "graphcache version "+build.Version)
	assert.Contains(t, out, build.Commit)
}
