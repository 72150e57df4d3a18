package orch

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/dkeye/Podcast/internal/core"
	"github.com/dkeye/Podcast/internal/core/mocks"
	"github.com/dkeye/Podcast/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestEndToEndScenarios(t *testing.T) {
	h := newHarness(t)
	h.knownRooms()

	// 1. join of a room without a durable record
	a := h.connect("A", 0)
	h.join("A", "R1")
	msgs := a.drain(t)
	if len(msgs) != 1 || msgs[0].Type != core.TypeError || msgs[0].Message != "Session not found" {
		t.Fatalf("A after R1 = %+v", msgs)
	}
	var hasR1 bool
	h.snapshot(func() { hasR1 = h.o.Rooms.Has("R1") })
	if hasR1 {
		t.Fatal("rejected join must not create the room")
	}

	// 2. alone in r2
	h.join("A", "r2")
	msgs = a.drain(t)
	if len(msgs) != 2 || msgs[0].Type != core.TypeExistingParticipants || len(msgs[0].Participants) != 0 {
		t.Fatalf("A after join = %+v", msgs)
	}
	if msgs[1].Type != core.TypeParticipantCount || msgs[1].Count != 1 {
		t.Fatalf("A count = %+v", msgs[1])
	}

	// 3. B joins
	b := h.connect("B", 0)
	h.join("B", "r2")
	bm := b.drain(t)
	if len(bm) != 2 || !slices.Equal(bm[0].Participants, []core.ConnID{"A"}) || bm[1].Count != 2 {
		t.Fatalf("B after join = %+v", bm)
	}
	am := a.drain(t)
	if len(am) != 2 || am[0].Type != core.TypeUserConnected || am[0].ConnectionID != "B" || am[1].Count != 2 {
		t.Fatalf("A after B joined = %+v", am)
	}

	// 4. targeted offer
	h.o.Submit(core.SignalRequest{ID: "A", Kind: core.KindOffer, Payload: json.RawMessage(`{"sdp":"v=0"}`), RoomID: "r2", TargetID: "B"})
	h.barrier()
	bm = b.drain(t)
	if len(bm) != 1 || bm[0].Type != "offer" || bm[0].SenderID != "A" || string(bm[0].Offer) != `{"sdp":"v=0"}` {
		t.Fatalf("B offer = %+v", bm)
	}
	if am := a.drain(t); len(am) != 0 {
		t.Fatalf("sender must not get its own offer: %+v", am)
	}

	// 5. B disconnects
	h.o.Submit(core.Disconnect{ID: "B"})
	h.barrier()
	am = a.drain(t)
	if len(am) != 2 || am[0].Type != core.TypeUserDisconnected || am[0].ConnectionID != "B" || am[1].Count != 1 {
		t.Fatalf("A after B left = %+v", am)
	}
	if got := h.members("r2"); !slices.Equal(got, []core.ConnID{"A"}) {
		t.Fatalf("r2 members = %v", got)
	}

	// 6. A disconnects, C recreates the room
	h.o.Submit(core.Disconnect{ID: "A"})
	h.barrier()
	var hasR2 bool
	h.snapshot(func() { hasR2 = h.o.Rooms.Has("r2") })
	if hasR2 {
		t.Fatal("empty room must be deleted")
	}
	h.connect("C", 0)
	h.join("C", "r2")
	if got := h.members("r2"); !slices.Equal(got, []core.ConnID{"C"}) {
		t.Fatalf("recreated r2 = %v", got)
	}
}

func TestNoGhostMember(t *testing.T) {
	h := newHarness(t)
	started := make(chan struct{})
	release := make(chan struct{})
	h.store.EXPECT().FindSessionByRoomID(gomock.Any(), domain.RoomID("slow")).
		DoAndReturn(func(context.Context, domain.RoomID) (*domain.Session, error) {
			close(started)
			<-release
			return &domain.Session{ID: 9, RoomID: "slow", Status: domain.SessionActive}, nil
		})

	h.connect("A", 0)
	h.o.Submit(core.JoinRequest{ID: "A", RoomID: "slow"})
	<-started
	h.o.Submit(core.Disconnect{ID: "A"})
	h.barrier()
	close(release)
	h.settle()

	var (
		hasRoom bool
		n       int
	)
	h.snapshot(func() {
		hasRoom = h.o.Rooms.Has("slow")
		n = h.o.Registry.Len()
	})
	if hasRoom || n != 0 {
		t.Fatalf("ghost member: room=%v registered=%d", hasRoom, n)
	}
}

func TestJoinWhileJoining(t *testing.T) {
	h := newHarness(t)
	started := make(chan struct{})
	release := make(chan struct{})
	h.store.EXPECT().FindSessionByRoomID(gomock.Any(), domain.RoomID("r2")).
		DoAndReturn(func(context.Context, domain.RoomID) (*domain.Session, error) {
			close(started)
			<-release
			return activeSession, nil
		})

	a := h.connect("A", 0)
	h.o.Submit(core.JoinRequest{ID: "A", RoomID: "r2"})
	<-started
	h.o.Submit(core.JoinRequest{ID: "A", RoomID: "r2"})
	h.barrier()
	msgs := a.drain(t)
	if len(msgs) != 1 || msgs[0].Type != core.TypeError || msgs[0].Message != "Join already in progress" {
		t.Fatalf("second join = %+v", msgs)
	}

	close(release)
	h.settle()
	if got := h.members("r2"); !slices.Equal(got, []core.ConnID{"A"}) {
		t.Fatalf("r2 = %v", got)
	}
}

func TestFailedAuditKeepsMembership(t *testing.T) {
	h := newHarnessWithAudit(t, func(store *mocks.MockSessionStore) {
		store.EXPECT().RecordParticipantJoin(gomock.Any(), activeSession.ID, domain.UserID("guest-A")).
			Return(errors.New("database is locked")).Times(1)
		store.EXPECT().RecordParticipantLeave(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	})
	h.knownRooms()

	a := h.connect("A", 0)
	h.join("A", "r2")
	h.o.Audit.Wait()
	h.barrier()

	msgs := a.drain(t)
	if got := ofType(msgs, core.TypeError); len(got) != 0 {
		t.Fatalf("audit failure reached the client: %+v", got)
	}
	if got := ofType(msgs, core.TypeExistingParticipants); len(got) != 1 || len(got[0].Participants) != 0 {
		t.Fatalf("existing-participants = %+v", msgs)
	}
	if got := ofType(msgs, core.TypeParticipantCount); len(got) != 1 || got[0].Count != 1 {
		t.Fatalf("participant-count = %+v", msgs)
	}
	if got := h.members("r2"); !slices.Equal(got, []core.ConnID{"A"}) {
		t.Fatalf("r2 = %v", got)
	}
}

func TestRejoinLeavesPreviousRoom(t *testing.T) {
	h := newHarness(t)
	h.knownRooms()
	a := h.connect("A", 0)
	b := h.connect("B", 0)
	h.join("A", "r2")
	h.join("B", "r2")
	a.drain(t)
	b.drain(t)

	h.join("A", "r3")

	bm := b.drain(t)
	if len(bm) != 2 || bm[0].Type != core.TypeUserDisconnected || bm[0].ConnectionID != "A" || bm[1].Count != 1 {
		t.Fatalf("B after A moved = %+v", bm)
	}
	am := a.drain(t)
	existing := ofType(am, core.TypeExistingParticipants)
	if len(existing) != 1 || len(existing[0].Participants) != 0 {
		t.Fatalf("A in r3 = %+v", am)
	}
	if got := h.members("r2"); !slices.Equal(got, []core.ConnID{"B"}) {
		t.Fatalf("r2 = %v", got)
	}
	if got := h.members("r3"); !slices.Equal(got, []core.ConnID{"A"}) {
		t.Fatalf("r3 = %v", got)
	}
}

func TestLeaveIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.knownRooms()
	a := h.connect("A", 0)
	b := h.connect("B", 0)
	h.join("A", "r2")
	h.join("B", "r2")
	a.drain(t)
	b.drain(t)

	h.o.Submit(core.LeaveRequest{ID: "A"})
	h.o.Submit(core.LeaveRequest{ID: "A"})
	h.o.Submit(core.Disconnect{ID: "A"})
	h.o.Submit(core.Disconnect{ID: "A"})
	h.barrier()

	bm := b.drain(t)
	if got := ofType(bm, core.TypeUserDisconnected); len(got) != 1 {
		t.Fatalf("B saw %d user-disconnected, want 1: %+v", len(got), bm)
	}
	if got := ofType(a.drain(t), core.TypeLeft); len(got) != 2 {
		t.Fatalf("A got %d left acks, want 2", len(got))
	}
	if got := h.members("r2"); !slices.Equal(got, []core.ConnID{"B"}) {
		t.Fatalf("r2 = %v", got)
	}
}

func TestSignalOnlyReachesTarget(t *testing.T) {
	h := newHarness(t)
	h.knownRooms()
	conns := map[core.ConnID]*fakeConn{}
	for _, id := range []core.ConnID{"A", "B", "C", "D", "E"} {
		conns[id] = h.connect(id, 0)
	}
	h.join("A", "r2")
	h.join("B", "r2")
	h.join("C", "r2")
	h.join("D", "r3")
	for _, c := range conns {
		c.drain(t)
	}

	candidate := json.RawMessage(`{"candidate":"candidate:1 1 udp 1 10.0.0.1 9 typ host"}`)
	h.o.Submit(core.SignalRequest{ID: "A", Kind: core.KindICECandidate, Payload: candidate, TargetID: "B"})
	h.o.Submit(core.SignalRequest{ID: "A", Kind: core.KindAnswer, Payload: json.RawMessage(`{}`), TargetID: "D"})
	h.o.Submit(core.SignalRequest{ID: "A", Kind: core.KindOffer, Payload: json.RawMessage(`{}`), TargetID: "nobody"})
	h.o.Submit(core.SignalRequest{ID: "E", Kind: core.KindOffer, Payload: json.RawMessage(`{}`), TargetID: "B"})
	h.o.Submit(core.SignalRequest{ID: "A", Kind: "bogus", Payload: json.RawMessage(`{}`), TargetID: "B"})
	h.barrier()

	bm := conns["B"].drain(t)
	if len(bm) != 1 || bm[0].Type != string(core.KindICECandidate) || bm[0].SenderID != "A" || string(bm[0].Candidate) != string(candidate) {
		t.Fatalf("B = %+v", bm)
	}
	for _, id := range []core.ConnID{"A", "C", "D", "E"} {
		if msgs := conns[id].drain(t); len(msgs) != 0 {
			t.Fatalf("%s unexpectedly received %+v", id, msgs)
		}
	}
}

func TestBackpressure(t *testing.T) {
	h := newHarness(t)
	h.knownRooms()
	a := h.connect("A", 0)
	h.join("A", "r2")
	a.drain(t)

	// whoami fills the single slot, so presence delivery overflows
	slow := h.connect("S", 1)
	h.join("S", "r2")
	h.settle()
	if !slow.isClosed() {
		t.Fatal("slow member should be kicked on presence overflow")
	}
	am := a.drain(t)
	if got := ofType(am, core.TypeUserDisconnected); len(got) != 1 || got[0].ConnectionID != "S" {
		t.Fatalf("A should see the kicked member leave: %+v", am)
	}
	if got := h.members("r2"); !slices.Equal(got, []core.ConnID{"A"}) {
		t.Fatalf("r2 = %v", got)
	}

	// a full buffer on signaling only drops the message
	b := h.connect("B", 0)
	h.join("B", "r2")
	a.drain(t)
	b.drain(t)
	b.mu.Lock()
	b.limit = 1
	b.frames = []core.Frame{core.Frame(`{"type":"pong"}`)}
	b.mu.Unlock()
	h.o.Submit(core.SignalRequest{ID: "A", Kind: core.KindOffer, Payload: json.RawMessage(`{}`), TargetID: "B"})
	h.barrier()
	if b.isClosed() {
		t.Fatal("signal overflow must not kick")
	}
	if msgs := b.drain(t); len(msgs) != 1 || msgs[0].Type != core.TypePong {
		t.Fatalf("B = %+v", msgs)
	}
}

func TestWhoAmIAndListRooms(t *testing.T) {
	h := newHarness(t)
	h.knownRooms()
	a := h.connect("A", 0)
	h.join("A", "r2")
	a.drain(t)

	h.o.Submit(core.WhoAmIRequest{ID: "A"})
	h.barrier()
	msgs := a.drain(t)
	if len(msgs) != 1 || msgs[0].RoomID != "r2" || msgs[0].ConnectionID != "A" {
		t.Fatalf("whoami = %+v", msgs)
	}

	rooms, err := h.o.ListRooms(context.Background())
	if err != nil {
		t.Fatalf("ListRooms: %v", err)
	}
	if len(rooms) != 1 || rooms[0].RoomID != "r2" || rooms[0].MemberCount != 1 {
		t.Fatalf("rooms = %+v", rooms)
	}
}

func TestSubmitAfterStop(t *testing.T) {
	o := New(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := o.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if o.Submit(core.WhoAmIRequest{ID: "x"}) {
		t.Fatal("Submit after stop should fail")
	}
	if _, err := o.ListRooms(context.Background()); err == nil {
		t.Fatal("ListRooms after stop should fail")
	}
}
