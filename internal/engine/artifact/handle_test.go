package artifact_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/graphcache/internal/core/domain"
	"go.trai.ch/graphcache/internal/core/ports"
	"go.trai.ch/graphcache/internal/core/ports/mocks"
	"go.trai.ch/graphcache/internal/engine/artifact"
	"go.uber.org/mock/gomock"
)

type handleMocks struct {
	ctrl   *gomock.Controller
	engine *mocks.MockRoutingEngine
	logger *mocks.MockLogger
}

func setupHandleTest(t *testing.T) (*artifact.Handle, handleMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := handleMocks{
		ctrl:   ctrl,
		engine: mocks.NewMockRoutingEngine(ctrl),
		logger: mocks.NewMockLogger(ctrl),
	}

	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		},
	).AnyTimes()

	return artifact.NewHandle(m.engine, tracer, m.logger), m
}

func newGraph(m handleMocks) *mocks.MockGraph {
	g := mocks.NewMockGraph(m.ctrl)
	return g
}

func layoutWithGraph(t *testing.T) domain.CacheLayout {
	t.Helper()
	layout := domain.CacheLayout{Root: filepath.Join(t.TempDir(), domain.CacheDirName)}
	require.NoError(t, os.MkdirAll(layout.GraphDir(), domain.DirPerm))
	return layout
}

func TestHandle_InitWithoutGraphDir(t *testing.T) {
	h, _ := setupHandleTest(t)
	layout := domain.CacheLayout{Root: filepath.Join(t.TempDir(), domain.CacheDirName)}

	require.NoError(t, h.Init(t.Context(), layout, domain.EngineOptions{}))
	assert.False(t, h.Ready())

	_, err := h.Route(t.Context(), domain.RouteQuery{})
	assert.ErrorIs(t, err, domain.ErrArtifactNotReady)
}

func TestHandle_InitLoadsOnce(t *testing.T) {
	h, m := setupHandleTest(t)
	layout := layoutWithGraph(t)
	graph := newGraph(m)

	m.engine.EXPECT().Load(gomock.Any(), ports.LoadRequest{GraphDir: layout.GraphDir()}).Return(graph, nil).Times(1)

	require.NoError(t, h.Init(t.Context(), layout, domain.EngineOptions{}))
	assert.True(t, h.Ready())

	require.NoError(t, h.Init(t.Context(), layout, domain.EngineOptions{}), "ready handle skips loading")

	select {
	case <-h.ReadyChan():
	default:
		t.Fatal("ready channel must be closed")
	}

	graph.EXPECT().Route(gomock.Any(), gomock.Any()).Return(&domain.Itinerary{DurationSeconds: 60}, nil)
	it, err := h.Route(t.Context(), domain.RouteQuery{Mode: domain.ModeWalk})
	require.NoError(t, err)
	assert.Equal(t, int64(60), it.DurationSeconds)
}

func TestHandle_ConcurrentInitCollapses(t *testing.T) {
	h, m := setupHandleTest(t)
	layout := layoutWithGraph(t)
	graph := newGraph(m)

	release := make(chan struct{})
	m.engine.EXPECT().Load(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, ports.LoadRequest) (ports.Graph, error) {
			<-release
			return graph, nil
		},
	).Times(1)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Go(func() { errs[i] = h.Init(t.Context(), layout, domain.EngineOptions{}) })
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.True(t, h.Ready())
}

func TestHandle_InitLoadFailure(t *testing.T) {
	h, m := setupHandleTest(t)
	layout := layoutWithGraph(t)

	m.engine.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, errors.New("corrupt graph"))

	err := h.Init(t.Context(), layout, domain.EngineOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrArtifactInitFailure)
	assert.False(t, h.Ready())
}

func TestHandle_InitOnFile(t *testing.T) {
	h, _ := setupHandleTest(t)
	layout := domain.CacheLayout{Root: t.TempDir()}
	require.NoError(t, os.WriteFile(layout.GraphDir(), nil, domain.FilePerm))

	err := h.Init(t.Context(), layout, domain.EngineOptions{})
	assert.ErrorIs(t, err, domain.ErrArtifactInitFailure)
}

func TestHandle_ResetDuringLoadDiscardsGraph(t *testing.T) {
	h, m := setupHandleTest(t)
	layout := layoutWithGraph(t)
	graph := newGraph(m)

	m.engine.EXPECT().Load(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, ports.LoadRequest) (ports.Graph, error) {
			h.Reset()
			return graph, nil
		},
	)
	graph.EXPECT().Close().Return(nil)

	err := h.Init(t.Context(), layout, domain.EngineOptions{})
	assert.ErrorIs(t, err, domain.ErrArtifactInitFailure)
	assert.False(t, h.Ready())
}

func TestHandle_InstallReplacesAndReset(t *testing.T) {
	h, m := setupHandleTest(t)
	first, second := newGraph(m), newGraph(m)

	h.Reset()
	assert.False(t, h.Ready(), "reset on an empty handle is safe")

	require.NoError(t, h.Install(first))
	assert.True(t, h.Ready())

	first.EXPECT().Close().Return(nil)
	require.NoError(t, h.Install(second))
	assert.True(t, h.Ready())

	second.EXPECT().Close().Return(errors.New("already closed"))
	m.logger.EXPECT().Warn(gomock.Any())
	h.Reset()
	assert.False(t, h.Ready())

	select {
	case <-h.ReadyChan():
		t.Fatal("ready channel must be fresh after reset")
	default:
	}
}

func TestHandle_InstallAfterClose(t *testing.T) {
	h, m := setupHandleTest(t)
	first, late := newGraph(m), newGraph(m)

	require.NoError(t, h.Install(first))
	first.EXPECT().Close().Return(nil)
	h.Close()

	late.EXPECT().Close().Return(nil)
	err := h.Install(late)
	require.ErrorIs(t, err, domain.ErrArtifactClosed)
	assert.False(t, h.Ready(), "a closed handle stays empty")

	_, err = h.Route(t.Context(), domain.RouteQuery{})
	assert.ErrorIs(t, err, domain.ErrArtifactNotReady)
}

func TestHandle_WaitReady(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, m := setupHandleTest(t)
		graph := newGraph(m)

		done := make(chan error, 1)
		go func() { done <- h.WaitReady(t.Context()) }()

		time.Sleep(time.Second)
		synctest.Wait()
		select {
		case <-done:
			t.Fatal("WaitReady returned before install")
		default:
		}

		require.NoError(t, h.Install(graph))
		require.NoError(t, <-done)

		graph.EXPECT().Close().Return(nil)
		h.Close()
	})
}

func TestHandle_WaitReadyTimeout(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, _ := setupHandleTest(t)

		ctx, cancel := context.WithTimeout(t.Context(), time.Minute)
		defer cancel()

		err := h.WaitReady(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestHandle_RouteNoRoute(t *testing.T) {
	h, m := setupHandleTest(t)
	graph := newGraph(m)
	require.NoError(t, h.Install(graph))

	graph.EXPECT().Route(gomock.Any(), gomock.Any()).Return(nil, domain.ErrNoRoute)
	_, err := h.Route(t.Context(), domain.RouteQuery{})
	assert.ErrorIs(t, err, domain.ErrNoRoute)
}
