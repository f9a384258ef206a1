// internal/navigation/navigation_test.go
package navigation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docs-browser/internal/model"
)

// MockSource is a mock of the Source interface.
type MockSource struct {
	mock.Mock
}

func (m *MockSource) ReadIndices(ctx context.Context) ([]model.Topic, error) {
	args := m.Called(ctx)
	topics, _ := args.Get(0).([]model.Topic)
	return topics, args.Error(1)
}

func (m *MockSource) FetchBlog(ctx context.Context, topic, subTopic string) string {
	args := m.Called(ctx, topic, subTopic)
	return args.String(0)
}

func (m *MockSource) ClearCache() {
	m.Called()
}

var testTopics = []model.Topic{
	{TopicName: "Generics", NoOfSubTopics: 2, SubTopicList: []model.SubTopic{{SubTopicName: "Wildcards"}, {SubTopicName: "Bounds"}}},
	{TopicName: "Streams", NoOfSubTopics: 1, SubTopicList: []model.SubTopic{{SubTopicName: "Collectors"}}},
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func setupController(t *testing.T, start string) (*Controller, *MockSource, *MemoryHistory) {
	t.Helper()
	src := new(MockSource)
	hist := NewMemoryHistory(mustParse(t, start))
	return NewController(src, hist, discardLogger()), src, hist
}

func TestSelectionURLBinding(t *testing.T) {
	t.Run("writes topic then subtopic", func(t *testing.T) {
		u := SelectionToURL(mustParse(t, "http://localhost/"), model.Selection{Topic: "Generics", SubTopic: "Wildcards"})
		assert.Equal(t, "topic=Generics&subtopic=Wildcards", u.RawQuery)
	})

	t.Run("percent-encodes reserved characters", func(t *testing.T) {
		sel := model.Selection{Topic: "Generics/Types", SubTopic: "Upper & Lower"}
		u := SelectionToURL(mustParse(t, "http://localhost/"), sel)
		assert.Equal(t, "topic=Generics%2FTypes&subtopic=Upper+%26+Lower", u.RawQuery)
		assert.Equal(t, sel, SelectionFromURL(u))
	})

	t.Run("keeps unrelated parameters", func(t *testing.T) {
		u := SelectionToURL(mustParse(t, "http://localhost/?q=wild&topic=Old&collapsed=1"), model.Selection{Topic: "Generics", SubTopic: "Wildcards"})
		assert.Equal(t, "collapsed=1&q=wild&topic=Generics&subtopic=Wildcards", u.RawQuery)
	})

	t.Run("zero selection strips both parameters", func(t *testing.T) {
		u := SelectionToURL(mustParse(t, "http://localhost/docs?topic=Generics&subtopic=Wildcards"), model.Selection{})
		assert.Equal(t, "", u.RawQuery)
		assert.Equal(t, "/docs", u.Path)
	})

	t.Run("does not modify the input", func(t *testing.T) {
		in := mustParse(t, "http://localhost/?topic=A")
		SelectionToURL(in, model.Selection{Topic: "B"})
		assert.Equal(t, "topic=A", in.RawQuery)
	})

	t.Run("reads missing parameters as empty", func(t *testing.T) {
		assert.Equal(t, model.Selection{Topic: "Generics"}, SelectionFromURL(mustParse(t, "/?topic=Generics")))
		assert.True(t, SelectionFromURL(nil).IsZero())
	})
}

func TestMemoryHistory(t *testing.T) {
	hist := NewMemoryHistory(mustParse(t, "/"))
	var heard []string
	stop := hist.Listen(func(u *url.URL) { heard = append(heard, u.RawQuery) })

	hist.Push(mustParse(t, "/?a=1"))
	hist.Push(mustParse(t, "/?a=2"))
	assert.Empty(t, heard, "push must not notify")

	require.True(t, hist.Back())
	assert.Equal(t, "a=1", hist.Location().RawQuery)
	require.True(t, hist.Forward())
	assert.False(t, hist.Forward())
	assert.Equal(t, []string{"a=1", "a=2"}, heard)

	hist.Back()
	hist.Push(mustParse(t, "/?b=1"))
	assert.Equal(t, 3, hist.Len(), "push drops forward entries")

	stop()
	hist.Back()
	assert.Len(t, heard, 3)
}

func TestController_Mount(t *testing.T) {
	ctx := context.Background()

	t.Run("loads the index on every mount and derives the selection", func(t *testing.T) {
		ctrl, src, _ := setupController(t, "/?topic=Generics&subtopic=Wildcards")
		src.On("ReadIndices", ctx).Return(testTopics, nil).Twice()
		src.On("FetchBlog", ctx, "Generics", "Wildcards").Return("# Wildcards").Once()

		require.NoError(t, ctrl.Mount(ctx))
		assert.ErrorIs(t, ctrl.Mount(ctx), ErrAlreadyMounted)

		st := ctrl.State()
		assert.Equal(t, testTopics, st.Topics)
		assert.False(t, st.IndexLoading)
		assert.NoError(t, st.IndexErr)
		assert.Equal(t, PhaseLoaded, st.Phase)
		assert.Equal(t, "# Wildcards", st.Content)

		ctrl.Unmount()
		require.NoError(t, ctrl.Mount(ctx))
		src.AssertNumberOfCalls(t, "ReadIndices", 2)
		src.AssertNumberOfCalls(t, "FetchBlog", 1)
	})

	t.Run("index failure shows the error and retry recovers", func(t *testing.T) {
		ctrl, src, _ := setupController(t, "/")
		indexErr := errors.New("connection refused")
		src.On("ReadIndices", ctx).Return(nil, indexErr).Once()
		src.On("ReadIndices", ctx).Return(testTopics, nil).Once()

		require.NoError(t, ctrl.Mount(ctx))
		st := ctrl.State()
		assert.ErrorIs(t, st.IndexErr, indexErr)
		assert.Empty(t, st.Topics)
		assert.Equal(t, PhaseIdle, st.Phase)

		ctrl.Retry(ctx)
		st = ctrl.State()
		assert.NoError(t, st.IndexErr)
		assert.Equal(t, testTopics, st.Topics)
		src.AssertExpectations(t)
	})
}

func TestController_SelectSubTopic(t *testing.T) {
	ctx := context.Background()

	t.Run("pushes the url and fetches exactly once", func(t *testing.T) {
		ctrl, src, hist := setupController(t, "http://localhost/")
		src.On("FetchBlog", ctx, "Generics", "Wildcards").Return("# Wildcards").Once()

		ctrl.ToggleMobileMenu()
		ctrl.SelectSubTopic(ctx, "Generics", "Wildcards")

		assert.Equal(t, "topic=Generics&subtopic=Wildcards", hist.Location().RawQuery)
		st := ctrl.State()
		assert.Equal(t, model.Selection{Topic: "Generics", SubTopic: "Wildcards"}, st.Selection)
		assert.Equal(t, PhaseLoaded, st.Phase)
		assert.Equal(t, "# Wildcards", st.Content)
		assert.False(t, st.MobileMenuOpen)
		src.AssertNumberOfCalls(t, "FetchBlog", 1)
	})

	t.Run("a topic alone does not fetch", func(t *testing.T) {
		ctrl, src, hist := setupController(t, "http://localhost/")

		ctrl.SelectSubTopic(ctx, "Generics", "")

		assert.Equal(t, "topic=Generics", hist.Location().RawQuery)
		assert.Equal(t, PhaseIdle, ctrl.State().Phase)
		src.AssertNotCalled(t, "FetchBlog", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a stale response is discarded", func(t *testing.T) {
		ctrl, src, _ := setupController(t, "http://localhost/")
		started := make(chan struct{})
		release := make(chan struct{})
		src.On("FetchBlog", ctx, "Generics", "Wildcards").Run(func(mock.Arguments) {
			close(started)
			<-release
		}).Return("old").Once()
		src.On("FetchBlog", ctx, "Streams", "Collectors").Return("new").Once()

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctrl.SelectSubTopic(ctx, "Generics", "Wildcards")
		}()

		<-started
		ctrl.SelectSubTopic(ctx, "Streams", "Collectors")
		close(release)
		wg.Wait()

		st := ctrl.State()
		assert.Equal(t, "Collectors", st.Selection.SubTopic)
		assert.Equal(t, "new", st.Content)
		assert.Equal(t, PhaseLoaded, st.Phase)
	})

	t.Run("close strips the parameters and returns to idle", func(t *testing.T) {
		ctrl, src, hist := setupController(t, "http://localhost/?q=gen")
		src.On("FetchBlog", ctx, "Generics", "Wildcards").Return("# Wildcards").Once()

		ctrl.SelectSubTopic(ctx, "Generics", "Wildcards")
		ctrl.Close()

		assert.Equal(t, "q=gen", hist.Location().RawQuery)
		st := ctrl.State()
		assert.True(t, st.Selection.IsZero())
		assert.Equal(t, PhaseIdle, st.Phase)
		assert.Empty(t, st.Content)
	})
}

func TestController_History(t *testing.T) {
	ctx := context.Background()

	t.Run("back and forward re-derive the selection without pushing", func(t *testing.T) {
		ctrl, src, hist := setupController(t, "http://localhost/")
		src.On("ReadIndices", mock.Anything).Return(testTopics, nil)
		src.On("FetchBlog", mock.Anything, "Generics", "Wildcards").Return("wildcards")
		src.On("FetchBlog", mock.Anything, "Streams", "Collectors").Return("collectors")
		require.NoError(t, ctrl.Mount(ctx))

		ctrl.SelectSubTopic(ctx, "Generics", "Wildcards")
		ctrl.SelectSubTopic(ctx, "Streams", "Collectors")
		entries := hist.Len()

		require.True(t, hist.Back())
		st := ctrl.State()
		assert.Equal(t, "Wildcards", st.Selection.SubTopic)
		assert.Equal(t, "wildcards", st.Content)

		require.True(t, hist.Back())
		st = ctrl.State()
		assert.True(t, st.Selection.IsZero())
		assert.Equal(t, PhaseIdle, st.Phase)

		require.True(t, hist.Forward())
		assert.Equal(t, "wildcards", ctrl.State().Content)
		assert.Equal(t, entries, hist.Len())
	})

	t.Run("unmount stops following the history", func(t *testing.T) {
		ctrl, src, hist := setupController(t, "http://localhost/")
		src.On("ReadIndices", mock.Anything).Return(testTopics, nil)
		src.On("FetchBlog", mock.Anything, "Generics", "Wildcards").Return("wildcards").Once()
		require.NoError(t, ctrl.Mount(ctx))

		ctrl.SelectSubTopic(ctx, "Generics", "Wildcards")
		ctrl.Unmount()
		hist.Back()

		assert.Equal(t, "Wildcards", ctrl.State().Selection.SubTopic)
	})
}

func TestController_RefreshAndView(t *testing.T) {
	ctx := context.Background()
	ctrl, src, _ := setupController(t, "http://localhost/?topic=Generics&subtopic=Wildcards")
	src.On("ReadIndices", ctx).Return(testTopics, nil).Twice()
	src.On("FetchBlog", ctx, "Generics", "Wildcards").Return("v1").Once()
	src.On("FetchBlog", ctx, "Generics", "Wildcards").Return("v2").Once()
	src.On("ClearCache").Return().Once()

	var mu sync.Mutex
	var phases []Phase
	cancel := ctrl.Subscribe(func(s State) {
		mu.Lock()
		defer mu.Unlock()
		phases = append(phases, s.Phase)
	})
	defer cancel()

	require.NoError(t, ctrl.Mount(ctx))
	ctrl.Refresh(ctx)

	assert.Equal(t, "v2", ctrl.State().Content)
	src.AssertExpectations(t)
	mu.Lock()
	assert.Contains(t, phases, PhaseLoading)
	assert.Equal(t, PhaseLoaded, phases[len(phases)-1])
	mu.Unlock()

	ctrl.SetSearchTerm("collect")
	visible := ctrl.VisibleTopics()
	require.Len(t, visible, 1)
	assert.Equal(t, "Streams", visible[0].TopicName)

	ctrl.ToggleSidebar()
	assert.True(t, ctrl.State().SidebarCollapsed)
}
