package orch

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/Podcast/internal/app"
	"github.com/dkeye/Podcast/internal/core"
	"github.com/dkeye/Podcast/internal/core/mocks"
	"github.com/dkeye/Podcast/internal/domain"
	"go.uber.org/mock/gomock"
)

// fakeConn records frames. A positive limit makes TrySend report
// backpressure once that many frames are queued.
type fakeConn struct {
	mu      sync.Mutex
	frames  []core.Frame
	limit   int
	closed  bool
	onClose func()
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return core.ErrConnectionClosed
	}
	if c.limit > 0 && len(c.frames) >= c.limit {
		return core.ErrBackpressure
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	hook := c.onClose
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// wireMsg is the union of every field the server sends.
type wireMsg struct {
	Type         string          `json:"type"`
	Participants []core.ConnID   `json:"participants"`
	ConnectionID core.ConnID     `json:"connectionId"`
	Count        int             `json:"count"`
	Message      string          `json:"message"`
	SenderID     core.ConnID     `json:"senderId"`
	Offer        json.RawMessage `json:"offer"`
	Answer       json.RawMessage `json:"answer"`
	Candidate    json.RawMessage `json:"candidate"`
	RoomID       domain.RoomID   `json:"roomId"`
}

// drain returns and forgets everything received so far.
func (c *fakeConn) drain(t *testing.T) []wireMsg {
	t.Helper()
	c.mu.Lock()
	frames := c.frames
	c.frames = nil
	c.mu.Unlock()

	out := make([]wireMsg, 0, len(frames))
	for _, f := range frames {
		var m wireMsg
		if err := json.Unmarshal(f, &m); err != nil {
			t.Fatalf("bad frame %s: %v", f, err)
		}
		out = append(out, m)
	}
	return out
}

func ofType(msgs []wireMsg, typ string) []wireMsg {
	var out []wireMsg
	for _, m := range msgs {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}

var activeSession = &domain.Session{ID: 1, RoomID: "r2", Status: domain.SessionActive}

type harness struct {
	t     *testing.T
	o     *Orchestrator
	store *mocks.MockSessionStore
	conns map[core.ConnID]*fakeConn
}

// newHarness runs an orchestrator over a mock store that accepts any
// audit write.
func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithAudit(t, func(store *mocks.MockSessionStore) {
		store.EXPECT().RecordParticipantJoin(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		store.EXPECT().RecordParticipantLeave(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	})
}

// newHarnessWithAudit lets the caller set the audit write expectations.
func newHarnessWithAudit(t *testing.T, expectAudit func(*mocks.MockSessionStore)) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	expectAudit(store)

	audit := app.NewAuditor(store, time.Second)
	o := New(Options{
		Gate:  &app.Gate{Store: store, RequireActive: true},
		Audit: audit,
	})
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		_ = o.Run(ctx)
		close(stopped)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
		o.WaitPending()
		audit.Wait()
	})
	return &harness{t: t, o: o, store: store, conns: make(map[core.ConnID]*fakeConn)}
}

// knownRooms makes r2 and r3 admissible and everything else missing.
func (h *harness) knownRooms() {
	h.store.EXPECT().FindSessionByRoomID(gomock.Any(), domain.RoomID("r2")).Return(activeSession, nil).AnyTimes()
	h.store.EXPECT().FindSessionByRoomID(gomock.Any(), domain.RoomID("r3")).
		Return(&domain.Session{ID: 2, RoomID: "r3", Status: domain.SessionActive}, nil).AnyTimes()
	h.store.EXPECT().FindSessionByRoomID(gomock.Any(), gomock.Any()).Return(nil, core.ErrRoomNotFound).AnyTimes()
}

func (h *harness) barrier() {
	h.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := h.o.Do(ctx, func() {}); err != nil {
		h.t.Fatalf("barrier: %v", err)
	}
}

// settle waits until every submitted event, including admission results,
// has been handled.
func (h *harness) settle() {
	h.t.Helper()
	h.barrier()
	h.o.WaitPending()
	h.barrier()
}

// connect registers id like a transport would: closing it posts a
// Disconnect, the way a read pump does when its socket dies.
func (h *harness) connect(id core.ConnID, limit int) *fakeConn {
	h.t.Helper()
	c := &fakeConn{limit: limit}
	c.onClose = func() { h.o.Submit(core.Disconnect{ID: id}) }
	h.conns[id] = c
	h.o.Submit(core.Connect{ID: id, User: domain.NewGuest(string(id)), Conn: c})
	h.barrier()
	if limit == 0 {
		msgs := c.drain(h.t)
		if len(msgs) != 1 || msgs[0].Type != core.TypeWhoAmI || msgs[0].ConnectionID != id {
			h.t.Fatalf("connect %s: got %+v", id, msgs)
		}
	}
	return c
}

func (h *harness) join(id core.ConnID, room domain.RoomID) {
	h.o.Submit(core.JoinRequest{ID: id, RoomID: room})
	h.settle()
}

// snapshot reads loop-owned state on the loop.
func (h *harness) snapshot(fn func()) {
	h.t.Helper()
	if err := h.o.Do(context.Background(), fn); err != nil {
		h.t.Fatalf("snapshot: %v", err)
	}
}

func (h *harness) members(room domain.RoomID) []core.ConnID {
	var out []core.ConnID
	h.snapshot(func() { out = h.o.Rooms.Members(room) })
	return out
}
