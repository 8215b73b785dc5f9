package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"campusgpt/api"
)

type fakeClient struct {
	listRoomsFn    func(ctx context.Context) ([]*api.Room, error)
	listMessagesFn func(ctx context.Context, roomID string) ([]*api.Message, error)
	createRoomFn   func(ctx context.Context) (*api.Room, error)
	deleteRoomFn   func(ctx context.Context, roomID string) error
	sendMessageFn  func(ctx context.Context, roomID, text string, attachment *api.Attachment) (*api.Reply, error)
}

func (c *fakeClient) ListRooms(ctx context.Context) ([]*api.Room, error) {
	if c.listRoomsFn == nil {
		return nil, nil
	}
	return c.listRoomsFn(ctx)
}

func (c *fakeClient) ListMessages(ctx context.Context, roomID string) ([]*api.Message, error) {
	if c.listMessagesFn == nil {
		return nil, nil
	}
	return c.listMessagesFn(ctx, roomID)
}

func (c *fakeClient) CreateRoom(ctx context.Context) (*api.Room, error) {
	if c.createRoomFn == nil {
		return &api.Room{ID: "room-new"}, nil
	}
	return c.createRoomFn(ctx)
}

func (c *fakeClient) DeleteRoom(ctx context.Context, roomID string) error {
	if c.deleteRoomFn == nil {
		return nil
	}
	return c.deleteRoomFn(ctx, roomID)
}

func (c *fakeClient) SendMessage(ctx context.Context, roomID, text string, attachment *api.Attachment) (*api.Reply, error) {
	if c.sendMessageFn == nil {
		return &api.Reply{Content: "ok"}, nil
	}
	return c.sendMessageFn(ctx, roomID, text, attachment)
}

// recorder captures the content of the newest assistant message at every
// store notification, in order.
type recorder struct {
	mu       sync.Mutex
	store    *Store
	contents []string
}

func (r *recorder) record() {
	r.mu.Lock()
	defer r.mu.Unlock()
	messages := r.store.Messages()
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == api.RoleAssistant {
			r.contents = append(r.contents, messages[i].Content)
			return
		}
	}
}

func (r *recorder) assistantContents() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.contents...)
}

func newTestStore(t *testing.T, client Client) *Store {
	t.Helper()
	s := New(client, Options{RevealInterval: time.Millisecond})
	t.Cleanup(s.Close)
	return s
}

func TestSubmitAppendsOptimisticallyBeforeNetworkResolves(t *testing.T) {
	release := make(chan struct{})
	client := &fakeClient{
		sendMessageFn: func(ctx context.Context, roomID, text string, attachment *api.Attachment) (*api.Reply, error) {
			<-release
			return &api.Reply{Content: "On Monday."}, nil
		},
	}
	s := newTestStore(t, client)
	s.SwitchRoom(context.Background(), "room-1")

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.SubmitUserMessage(context.Background(), "When is the next exam?", nil)
	}()

	require.Eventually(t, func() bool {
		messages := s.Messages()
		return len(messages) == 1 &&
			messages[0].Role == api.RoleUser &&
			messages[0].Content == "When is the next exam?" &&
			messages[0].Status == StatusPending &&
			s.AwaitingResponse()
	}, time.Second, time.Millisecond)

	close(release)
	<-done

	require.False(t, s.AwaitingResponse())
	require.Eventually(t, func() bool {
		messages := s.Messages()
		return len(messages) == 2 &&
			messages[0].Status == StatusConfirmed &&
			messages[1].Role == api.RoleAssistant &&
			messages[1].Content == "On Monday." &&
			!messages[1].Revealing
	}, time.Second, time.Millisecond)
}

func TestSubmitRejectsBlankInput(t *testing.T) {
	s := newTestStore(t, &fakeClient{})
	s.SwitchRoom(context.Background(), "room-1")

	for _, text := range []string{"", "   ", "\n\t  \n"} {
		_, accepted := s.SubmitUserMessage(context.Background(), text, nil)
		require.False(t, accepted)
	}
	require.Empty(t, s.Messages())
	require.False(t, s.AwaitingResponse())
}

func TestSubmitRejectedWhileAwaitingResponse(t *testing.T) {
	release := make(chan struct{})
	client := &fakeClient{
		sendMessageFn: func(ctx context.Context, roomID, text string, attachment *api.Attachment) (*api.Reply, error) {
			<-release
			return &api.Reply{Content: "done"}, nil
		},
	}
	s := newTestStore(t, client)
	s.SwitchRoom(context.Background(), "room-1")

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.SubmitUserMessage(context.Background(), "first", nil)
	}()
	require.Eventually(t, s.AwaitingResponse, time.Second, time.Millisecond)

	_, accepted := s.SubmitUserMessage(context.Background(), "second", nil)
	require.False(t, accepted)
	require.Len(t, s.Messages(), 1)

	close(release)
	<-done
}

func TestSubmitFailureMarksMessageFailedAndRetryRecovers(t *testing.T) {
	failing := true
	client := &fakeClient{
		sendMessageFn: func(ctx context.Context, roomID, text string, attachment *api.Attachment) (*api.Reply, error) {
			if failing {
				return nil, &api.TransportError{Op: "sending message", Err: fmt.Errorf("connection refused")}
			}
			return &api.Reply{Content: "recovered"}, nil
		},
	}
	s := newTestStore(t, client)
	s.SwitchRoom(context.Background(), "room-1")

	id, accepted := s.SubmitUserMessage(context.Background(), "hello?", nil)
	require.True(t, accepted)

	messages := s.Messages()
	require.Len(t, messages, 1)
	require.Equal(t, StatusFailed, messages[0].Status)
	require.Error(t, messages[0].Err)
	require.False(t, s.AwaitingResponse())

	failing = false
	require.True(t, s.RetryMessage(context.Background(), id))

	require.Eventually(t, func() bool {
		messages := s.Messages()
		return len(messages) == 2 &&
			messages[0].Status == StatusConfirmed &&
			messages[1].Content == "recovered" &&
			!messages[1].Revealing
	}, time.Second, time.Millisecond)

	// A confirmed message cannot be retried again.
	require.False(t, s.RetryMessage(context.Background(), id))
}

func TestLoadRoomMessagesRoundTrip(t *testing.T) {
	persisted := []*api.Message{
		{ID: "m1", Role: api.RoleUser, Content: "When is the next exam?"},
		{ID: "m2", Role: api.RoleAssistant, Content: "The next exam is on Monday."},
	}
	client := &fakeClient{
		listMessagesFn: func(ctx context.Context, roomID string) ([]*api.Message, error) {
			return persisted, nil
		},
	}
	s := newTestStore(t, client)
	s.SwitchRoom(context.Background(), "room-1")

	messages := s.Messages()
	require.Len(t, messages, 2)
	for i, message := range messages {
		require.Equal(t, persisted[i].ID, message.ID)
		require.Equal(t, persisted[i].Role, message.Role)
		require.Equal(t, persisted[i].Content, message.Content)
		require.Equal(t, StatusConfirmed, message.Status)
	}
	require.False(t, s.LoadingMessages())
}

func TestLoadRoomMessagesFailsOpen(t *testing.T) {
	client := &fakeClient{
		listMessagesFn: func(ctx context.Context, roomID string) ([]*api.Message, error) {
			return nil, &api.TransportError{Op: "listing messages", Err: fmt.Errorf("timeout")}
		},
	}
	s := newTestStore(t, client)
	s.SwitchRoom(context.Background(), "room-1")

	require.Empty(t, s.Messages())
	require.False(t, s.LoadingMessages())
	require.Equal(t, "room-1", s.ActiveRoomID())
}

func TestSwitchRoomClearsPreviousSequenceBeforeLoading(t *testing.T) {
	enteredB := make(chan struct{})
	release := make(chan struct{})
	client := &fakeClient{
		listMessagesFn: func(ctx context.Context, roomID string) ([]*api.Message, error) {
			if roomID == "room-b" {
				close(enteredB)
				<-release
				return []*api.Message{{ID: "b1", Role: api.RoleUser, Content: "hi from b"}}, nil
			}
			return []*api.Message{{ID: "a1", Role: api.RoleUser, Content: "hi from a"}}, nil
		},
	}
	s := newTestStore(t, client)
	s.SwitchRoom(context.Background(), "room-a")
	require.Len(t, s.Messages(), 1)

	go s.SwitchRoom(context.Background(), "room-b")
	<-enteredB

	// Room A's sequence is gone before room B's messages arrive.
	require.Empty(t, s.Messages())
	require.Equal(t, "room-b", s.ActiveRoomID())
	require.True(t, s.LoadingMessages())

	close(release)
	require.Eventually(t, func() bool {
		messages := s.Messages()
		return len(messages) == 1 && messages[0].ID == "b1"
	}, time.Second, time.Millisecond)
	require.False(t, s.LoadingMessages())
}

func TestCreateRoomSwitchesActiveAndRefreshesList(t *testing.T) {
	client := &fakeClient{
		createRoomFn: func(ctx context.Context) (*api.Room, error) {
			return &api.Room{ID: "room-9", Title: "New chat"}, nil
		},
		listRoomsFn: func(ctx context.Context) ([]*api.Room, error) {
			return []*api.Room{{ID: "room-9", Title: "New chat"}}, nil
		},
	}
	s := newTestStore(t, client)

	roomID, err := s.CreateRoom(context.Background())
	require.NoError(t, err)
	require.Equal(t, "room-9", roomID)
	require.Equal(t, "room-9", s.ActiveRoomID())

	rooms := s.Rooms()
	require.Len(t, rooms, 1)
	require.Equal(t, "room-9", rooms[0].ID)
}

func TestCreateRoomPropagatesError(t *testing.T) {
	client := &fakeClient{
		createRoomFn: func(ctx context.Context) (*api.Room, error) {
			return nil, &api.TransportError{Op: "creating room", Err: fmt.Errorf("boom")}
		},
	}
	s := newTestStore(t, client)

	_, err := s.CreateRoom(context.Background())
	require.Error(t, err)
	require.Empty(t, s.ActiveRoomID())
}

func TestDeleteActiveRoomResetsSession(t *testing.T) {
	client := &fakeClient{
		listMessagesFn: func(ctx context.Context, roomID string) ([]*api.Message, error) {
			return []*api.Message{{ID: "m1", Role: api.RoleUser, Content: "hello"}}, nil
		},
	}
	s := newTestStore(t, client)
	s.SwitchRoom(context.Background(), "room-1")
	require.Len(t, s.Messages(), 1)

	require.NoError(t, s.DeleteRoom(context.Background(), "room-1"))
	require.Empty(t, s.ActiveRoomID())
	require.Empty(t, s.Messages())
	require.False(t, s.AwaitingResponse())
}

func TestDeleteInactiveRoomKeepsSession(t *testing.T) {
	client := &fakeClient{
		listMessagesFn: func(ctx context.Context, roomID string) ([]*api.Message, error) {
			return []*api.Message{{ID: "m1", Role: api.RoleUser, Content: "hello"}}, nil
		},
	}
	s := newTestStore(t, client)
	s.SwitchRoom(context.Background(), "room-1")

	require.NoError(t, s.DeleteRoom(context.Background(), "room-2"))
	require.Equal(t, "room-1", s.ActiveRoomID())
	require.Len(t, s.Messages(), 1)
}

func TestDeleteRoomPropagatesError(t *testing.T) {
	client := &fakeClient{
		deleteRoomFn: func(ctx context.Context, roomID string) error {
			return &api.TransportError{Op: "deleting room", Err: fmt.Errorf("boom")}
		},
	}
	s := newTestStore(t, client)
	require.Error(t, s.DeleteRoom(context.Background(), "room-1"))
}

func TestSecondSubmissionFastForwardsRunningReveal(t *testing.T) {
	replies := []string{
		"one two three four five six seven eight nine ten",
		"short",
	}
	var calls int
	client := &fakeClient{
		sendMessageFn: func(ctx context.Context, roomID, text string, attachment *api.Attachment) (*api.Reply, error) {
			reply := replies[calls]
			calls++
			return &api.Reply{Content: reply}, nil
		},
	}
	s := New(client, Options{RevealInterval: 30 * time.Millisecond})
	t.Cleanup(s.Close)
	s.SwitchRoom(context.Background(), "room-1")

	_, accepted := s.SubmitUserMessage(context.Background(), "first question", nil)
	require.True(t, accepted)
	// The awaiting flag cleared when the first call settled, so the second
	// submission lands while the first reveal is still animating.
	_, accepted = s.SubmitUserMessage(context.Background(), "second question", nil)
	require.True(t, accepted)

	require.Eventually(t, func() bool {
		messages := s.Messages()
		return len(messages) == 4 && !messages[1].Revealing && !messages[3].Revealing
	}, 2*time.Second, time.Millisecond)

	// The overtaken reply holds its full text, not the truncated prefix it
	// had when the second submission interrupted it.
	messages := s.Messages()
	require.Equal(t, api.RoleAssistant, messages[1].Role)
	require.Equal(t, replies[0], messages[1].Content)
	require.Equal(t, api.RoleAssistant, messages[3].Role)
	require.Equal(t, replies[1], messages[3].Content)
}

func TestDeleteActiveRoomDuringLoadClearsLoadingFlag(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	client := &fakeClient{
		listMessagesFn: func(ctx context.Context, roomID string) ([]*api.Message, error) {
			close(entered)
			<-release
			return []*api.Message{{ID: "m1", Role: api.RoleUser, Content: "hello"}}, nil
		},
	}
	s := newTestStore(t, client)

	go s.SwitchRoom(context.Background(), "room-1")
	<-entered
	require.True(t, s.LoadingMessages())

	require.NoError(t, s.DeleteRoom(context.Background(), "room-1"))
	require.False(t, s.LoadingMessages())

	// The stale load settles without resurrecting the flag or the sequence.
	close(release)
	time.Sleep(50 * time.Millisecond)
	require.False(t, s.LoadingMessages())
	require.Empty(t, s.Messages())
	require.Empty(t, s.ActiveRoomID())
}

func TestRoomTeardownDropsPendingAttachments(t *testing.T) {
	client := &fakeClient{
		sendMessageFn: func(ctx context.Context, roomID, text string, attachment *api.Attachment) (*api.Reply, error) {
			return nil, fmt.Errorf("network down")
		},
	}
	s := newTestStore(t, client)
	s.SwitchRoom(context.Background(), "room-1")

	attachment := &api.Attachment{Name: "syllabus.pdf", Content: []byte("%PDF-1.4")}
	_, accepted := s.SubmitUserMessage(context.Background(), "summarize this", attachment)
	require.True(t, accepted)

	s.mu.Lock()
	require.Len(t, s.pendingAttachments, 1)
	s.mu.Unlock()

	s.SwitchRoom(context.Background(), "room-2")
	s.mu.Lock()
	require.Empty(t, s.pendingAttachments)
	s.mu.Unlock()

	_, accepted = s.SubmitUserMessage(context.Background(), "try again here", attachment)
	require.True(t, accepted)
	require.NoError(t, s.DeleteRoom(context.Background(), "room-2"))

	s.mu.Lock()
	require.Empty(t, s.pendingAttachments)
	s.mu.Unlock()
}

func TestSubmitRevealsReplyWordByWord(t *testing.T) {
	var gotRoomID, gotText string
	client := &fakeClient{
		sendMessageFn: func(ctx context.Context, roomID, text string, attachment *api.Attachment) (*api.Reply, error) {
			gotRoomID, gotText = roomID, text
			return &api.Reply{Content: "The next exam is on Monday."}, nil
		},
	}
	rec := &recorder{}
	s := New(client, Options{RevealInterval: time.Millisecond, Notify: rec.record})
	t.Cleanup(s.Close)
	rec.store = s
	s.SwitchRoom(context.Background(), "room-1")

	_, accepted := s.SubmitUserMessage(context.Background(), "When is the next exam?", nil)
	require.True(t, accepted)
	require.Equal(t, "room-1", gotRoomID)
	require.Equal(t, "When is the next exam?", gotText)

	require.Eventually(t, func() bool {
		messages := s.Messages()
		return len(messages) == 2 &&
			messages[1].Content == "The next exam is on Monday." &&
			!messages[1].Revealing
	}, time.Second, time.Millisecond)

	// The reveal walks through every prefix of the reply, one word at a time.
	expected := []string{
		"The",
		"The next",
		"The next exam",
		"The next exam is",
		"The next exam is on",
		"The next exam is on Monday.",
	}
	var steps []string
	for _, content := range rec.assistantContents() {
		if content == "" {
			continue
		}
		if len(steps) == 0 || steps[len(steps)-1] != content {
			steps = append(steps, content)
		}
	}
	require.Equal(t, expected, steps)
}
