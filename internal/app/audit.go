package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dkeye/Podcast/internal/core"
	"github.com/dkeye/Podcast/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
)

const DefaultAuditTimeout = 5 * time.Second

type auditTask struct {
	op     string
	userID domain.UserID
	fn     func(ctx context.Context) error
}

// Auditor writes participant rows off the loop. Writes run one at a time in
// the order they were recorded, so a leave never lands before its join.
// Failures only reach the log; callers never wait on a write.
type Auditor struct {
	store   core.SessionStore
	timeout time.Duration

	mu      sync.Mutex
	queue   []auditTask
	running bool
	wg      conc.WaitGroup
}

func NewAuditor(store core.SessionStore, timeout time.Duration) *Auditor {
	if timeout <= 0 {
		timeout = DefaultAuditTimeout
	}
	return &Auditor{store: store, timeout: timeout}
}

func (a *Auditor) RecordJoin(sessionID int64, userID domain.UserID) {
	a.enqueue(auditTask{op: "join", userID: userID, fn: func(ctx context.Context) error {
		return a.store.RecordParticipantJoin(ctx, sessionID, userID)
	}})
}

func (a *Auditor) RecordLeave(userID domain.UserID) {
	a.enqueue(auditTask{op: "leave", userID: userID, fn: func(ctx context.Context) error {
		return a.store.RecordParticipantLeave(ctx, userID)
	}})
}

// enqueue never blocks; it starts the drainer when none is running.
func (a *Auditor) enqueue(t auditTask) {
	if a == nil || a.store == nil {
		return
	}
	a.mu.Lock()
	a.queue = append(a.queue, t)
	if !a.running {
		a.running = true
		a.wg.Go(a.drain)
	}
	a.mu.Unlock()
}

func (a *Auditor) drain() {
	defer func() {
		if r := recover(); r != nil {
			a.mu.Lock()
			a.running = false
			a.mu.Unlock()
			panic(r)
		}
	}()
	for {
		a.mu.Lock()
		if len(a.queue) == 0 {
			a.running = false
			a.mu.Unlock()
			return
		}
		t := a.queue[0]
		a.queue[0] = auditTask{}
		a.queue = a.queue[1:]
		a.mu.Unlock()

		a.run(t)
	}
}

func (a *Auditor) run(t auditTask) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	if err := t.fn(ctx); err != nil {
		log.Warn().
			Err(fmt.Errorf("%w: %w", core.ErrAuditWriteFailed, err)).
			Str("module", "app.audit").
			Str("op", t.op).
			Str("user", string(t.userID)).
			Msg("participant audit write failed")
	}
}

// Wait blocks until every queued write has finished.
func (a *Auditor) Wait() {
	if a == nil {
		return
	}
	if r := a.wg.WaitAndRecover(); r != nil {
		log.Error().Str("module", "app.audit").Str("panic", r.String()).Msg("audit task panicked")
	}
}
