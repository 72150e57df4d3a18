package orch

import (
	"context"
	"time"

	"github.com/dkeye/Podcast/internal/app"
	"github.com/dkeye/Podcast/internal/core"
	"github.com/dkeye/Podcast/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
)

const (
	DefaultAdmissionTimeout = 5 * time.Second
	defaultQueueSize        = 256
)

// Admitter is the admission gate the loop consults before a join.
type Admitter interface {
	Admit(ctx context.Context, roomID domain.RoomID, user *domain.User) (*domain.Session, error)
}

type Options struct {
	Gate             Admitter
	Audit            *app.Auditor
	Policy           app.Policy
	AdmissionTimeout time.Duration
	QueueSize        int
}

// Orchestrator owns the connection registry and the room table. Every
// mutation happens on the goroutine running Run; transports talk to it
// through Submit.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    *app.RoomTable
	Gate     Admitter
	Audit    *app.Auditor
	Policy   app.Policy

	admissionTimeout time.Duration

	events  chan core.Event
	done    chan struct{}
	ctx     context.Context
	pending conc.WaitGroup
}

func New(opts Options) *Orchestrator {
	if opts.AdmissionTimeout <= 0 {
		opts.AdmissionTimeout = DefaultAdmissionTimeout
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.Policy == nil {
		opts.Policy = app.SimplePolicy{}
	}
	return &Orchestrator{
		Registry:         app.NewRegistry(),
		Rooms:            app.NewRoomTable(),
		Gate:             opts.Gate,
		Audit:            opts.Audit,
		Policy:           opts.Policy,
		admissionTimeout: opts.AdmissionTimeout,
		events:           make(chan core.Event, opts.QueueSize),
		done:             make(chan struct{}),
		ctx:              context.Background(),
	}
}

// Run processes events until ctx is done. It must be called once.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.ctx = ctx
	defer close(o.done)
	log.Info().Str("module", "orch").Msg("event loop started")
	for {
		select {
		case <-ctx.Done():
			o.closeAll()
			log.Info().Str("module", "orch").Msg("event loop stopped")
			return nil
		case ev := <-o.events:
			o.Handle(ev)
		}
	}
}

// Submit queues ev for the loop. It returns false once the loop has stopped.
func (o *Orchestrator) Submit(ev core.Event) bool {
	select {
	case <-o.done:
		return false
	default:
	}
	select {
	case o.events <- ev:
		return true
	case <-o.done:
		return false
	}
}

// Do runs fn on the loop goroutine and waits for it.
func (o *Orchestrator) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !o.Submit(core.Query{Fn: func() {
		defer close(finished)
		fn()
	}}) {
		return core.ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-o.done:
		return core.ErrStopped
	}
}

// ListRooms returns a presence snapshot taken on the loop.
func (o *Orchestrator) ListRooms(ctx context.Context) ([]core.RoomInfo, error) {
	var out []core.RoomInfo
	if err := o.Do(ctx, func() { out = o.Rooms.List() }); err != nil {
		return nil, err
	}
	return out, nil
}

// WaitPending blocks until in-flight admission lookups have re-entered the loop.
func (o *Orchestrator) WaitPending() {
	if r := o.pending.WaitAndRecover(); r != nil {
		log.Error().Str("module", "orch").Str("panic", r.String()).Msg("admission task panicked")
	}
}

// Handle dispatches a single event. Only the loop goroutine may call it.
func (o *Orchestrator) Handle(ev core.Event) {
	switch ev := ev.(type) {
	case core.Connect:
		o.onConnect(ev)
	case core.Disconnect:
		o.onDisconnect(ev)
	case core.JoinRequest:
		o.onJoinRequest(ev)
	case core.AdmissionResult:
		o.onAdmission(ev)
	case core.LeaveRequest:
		o.onLeaveRequest(ev)
	case core.SignalRequest:
		o.onSignal(ev)
	case core.WhoAmIRequest:
		o.sendWhoAmI(ev.ID)
	case core.Query:
		ev.Fn()
	default:
		log.Warn().Str("module", "orch").Msgf("unknown event %T", ev)
	}
}

func (o *Orchestrator) closeAll() {
	for _, id := range o.Registry.All() {
		if conn, ok := o.Registry.Conn(id); ok {
			conn.Close()
		}
	}
}
