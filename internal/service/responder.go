package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"ransomsim/internal/errors"
	"ransomsim/internal/metrics"
	"ransomsim/internal/models"
	"ransomsim/internal/tracing"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// replyJob is one scheduled automated reply. The inbound text travels
// with the job; the conversation record is re-read at delivery time.
type replyJob struct {
	conversationID string
	text           string
}

// Responder delivers automated replies after a human-like randomized
// delay. Work is handed to a bounded worker pool so scheduling never
// blocks the inbound path and failures are logged instead of lost in
// anonymous goroutines.
type Responder struct {
	engine   *Engine
	store    ConversationStore
	presence *PresenceTracker
	logger   *logrus.Logger

	minDelay time.Duration
	maxDelay time.Duration
	workers  int

	jobs   chan replyJob
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	running bool
	mu      sync.Mutex

	// sleep is replaced in tests to avoid real delays. It returns
	// false when the context was cancelled before the delay elapsed.
	sleep func(ctx context.Context, d time.Duration) bool
}

func NewResponder(engine *Engine, store ConversationStore, presence *PresenceTracker, cfg models.ChatConfig, logger *logrus.Logger) *Responder {
	return &Responder{
		engine:   engine,
		store:    store,
		presence: presence,
		logger:   logger,
		minDelay: time.Duration(cfg.ReplyDelayMinSec) * time.Second,
		maxDelay: time.Duration(cfg.ReplyDelayMaxSec) * time.Second,
		workers:  cfg.ResponderWorkers,
		jobs:     make(chan replyJob, cfg.ResponderQueue),
		sleep:    sleepContext,
	}
}

// Start launches the worker pool.
func (r *Responder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return fmt.Errorf("responder is already running")
	}

	r.ctx, r.cancel = context.WithCancel(ctx)
	r.running = true

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.workLoop()
	}

	r.logger.WithFields(logrus.Fields{
		"workers":   r.workers,
		"delay_min": r.minDelay,
		"delay_max": r.maxDelay,
	}).Info("Responder started")

	return nil
}

// Stop cancels in-flight delays and waits for the workers to drain.
// Presence marks held by interrupted jobs are cleared on the way out.
func (r *Responder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}

	r.cancel()
	r.wg.Wait()
	r.running = false

	r.logger.Info("Responder stopped")
}

// ScheduleReply queues an automated reply for the conversation and
// immediately marks it as composing. It never blocks: when the queue
// is full the reply is dropped with a warning and the presence mark is
// released.
func (r *Responder) ScheduleReply(conversationID, text string) {
	r.presence.Set(conversationID)

	select {
	case r.jobs <- replyJob{conversationID: conversationID, text: text}:
		metrics.IncrementCounter("replies_scheduled_total", nil, "Automated replies scheduled")
		metrics.SetGauge("responder_queue_depth", float64(len(r.jobs)), nil, "Pending automated replies")
	default:
		r.presence.Clear(conversationID)
		metrics.IncrementCounter("replies_dropped_total", map[string]string{"reason": "queue_full"}, "Automated replies dropped")
		r.logger.WithField("conversation_id", conversationID).Warn("Responder queue full, dropping reply")
	}
}

func (r *Responder) workLoop() {
	defer r.wg.Done()

	for {
		select {
		case <-r.ctx.Done():
			r.drain()
			return
		case job := <-r.jobs:
			r.deliver(job)
		}
	}
}

// drain releases presence marks for jobs that will never run.
func (r *Responder) drain() {
	for {
		select {
		case job := <-r.jobs:
			r.presence.Clear(job.conversationID)
		default:
			return
		}
	}
}

// deliver runs one scheduled reply to completion. The presence mark is
// released on every path out, including panics inside composition.
func (r *Responder) deliver(job replyJob) {
	defer r.presence.Clear(job.conversationID)
	defer func() {
		if rec := recover(); rec != nil {
			metrics.IncrementCounter("replies_failed_total", map[string]string{"reason": "panic"}, "Automated replies failed")
			r.logger.WithFields(logrus.Fields{
				"conversation_id": job.conversationID,
				"panic":           rec,
			}).Error("Reply delivery panicked")
		}
	}()

	delay := r.randomDelay()
	if !r.sleep(r.ctx, delay) {
		return
	}
	metrics.RecordTimer("reply_delay_duration", delay, nil, "Randomized delay before reply delivery")

	ctx, span := tracing.StartSpan(r.ctx, "responder.deliver",
		attribute.String("conversation.id", job.conversationID),
		attribute.Int64("reply.delay_ms", delay.Milliseconds()),
	)
	defer span.End()

	start := time.Now()
	reply, err := r.engine.HandleInbound(ctx, job.conversationID, job.text)
	if err != nil {
		// A scripting failure must never surface to the victim; the
		// reply is silently dropped.
		tracing.RecordError(ctx, err)
		metrics.IncrementCounter("replies_failed_total", map[string]string{"reason": "compose"}, "Automated replies failed")
		errors.LogError(r.logger, errors.NewCompositionError(job.conversationID, err), "Failed to compose automated reply")
		return
	}
	if reply == "" {
		// Auto-respond was switched off during the delay.
		metrics.IncrementCounter("replies_suppressed_total", nil, "Automated replies suppressed")
		return
	}

	msg := &models.ChatMessage{
		ConversationID: job.conversationID,
		Sender:         models.SenderGang,
		Body:           reply,
	}
	if err := r.store.SaveMessage(ctx, msg); err != nil {
		tracing.RecordError(ctx, err)
		metrics.IncrementCounter("replies_failed_total", map[string]string{"reason": "append"}, "Automated replies failed")
		errors.LogError(r.logger, errors.NewCompositionError(job.conversationID, err), "Failed to append automated reply")
		return
	}

	metrics.IncrementCounter("replies_delivered_total", nil, "Automated replies delivered")
	metrics.RecordTimer("reply_compose_duration", time.Since(start), nil, "Reply composition and append duration")

	r.logger.WithFields(logrus.Fields{
		"conversation_id": job.conversationID,
		"message_id":      msg.ID,
		"delay":           delay,
	}).Info("Automated reply delivered")
}

func (r *Responder) randomDelay() time.Duration {
	if r.maxDelay <= r.minDelay {
		return r.minDelay
	}
	return r.minDelay + time.Duration(rand.Int63n(int64(r.maxDelay-r.minDelay)+1))
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
