package event

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/ToolForge_Go/internal/logger"
)

// ResilientPublisher wraps a Bus with background retries and a dead-letter file.
// A failed publish never reaches the caller; it is retried with exponential
// backoff and written to the dead-letter file once retries run out.
type ResilientPublisher struct {
	bus        Bus
	retryQueue chan retryEntry
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter

	// mu orders enqueues against shutdown: once closed is set no entry can
	// reach retryQueue, so the final drain sees everything queued.
	mu           sync.RWMutex
	closed       bool
	fileClosed   bool
	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

type retryEntry struct {
	event   Event
	attempt int
	lastErr error
}

// NewResilientPublisher creates a publisher and starts its retry worker
func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}

	rp.wg.Add(1)
	go rp.retryWorker()

	return rp, nil
}

// PublishWithRetry publishes synchronously once and queues a retry on failure
func (p *ResilientPublisher) PublishWithRetry(ctx context.Context, event Event) {
	err := p.bus.Publish(ctx, event)
	if err == nil {
		return
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed,
		"event_type", event.Type,
		"error", err)

	p.enqueue(retryEntry{event: event, attempt: 1, lastErr: err})
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.bus.Subscribe(eventType, handler)
}

func (p *ResilientPublisher) enqueue(entry retryEntry) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		if p.fileClosed {
			logger.Error(LogMsgEventDroppedClosed, "event_type", entry.event.Type)
			return
		}
		p.writeDeadLetter(entry)
		return
	}

	select {
	case p.retryQueue <- entry:
	default:
		logger.Warn(LogMsgRetryQueueFull, "event_type", entry.event.Type)
		p.writeDeadLetter(entry)
	}
}

func (p *ResilientPublisher) retryWorker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.shutdown:
			p.drain()
			return
		case entry := <-p.retryQueue:
			p.process(entry)
		}
	}
}

func (p *ResilientPublisher) process(entry retryEntry) {
	timer := time.NewTimer(CalculateRetryDelay(p.retryDelay, entry.attempt))
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-p.shutdown:
		p.lastAttempt(entry)
		return
	}

	err := p.bus.Publish(context.Background(), entry.event)
	if err == nil {
		logger.Info(LogMsgEventRetrySucceeded, "event_type", entry.event.Type, "attempt", entry.attempt)
		return
	}

	entry.lastErr = err
	if entry.attempt >= p.maxRetries {
		logger.Warn(LogMsgEventRetryExhausted, "event_type", entry.event.Type, "attempts", entry.attempt)
		p.writeDeadLetter(entry)
		return
	}

	logger.Debug(LogMsgEventRetryFailed, "event_type", entry.event.Type, "attempt", entry.attempt, "error", err)
	entry.attempt++
	select {
	case p.retryQueue <- entry:
	default:
		p.writeDeadLetter(entry)
	}
}

// drain gives every queued event one final attempt before exit
func (p *ResilientPublisher) drain() {
	n := 0
	for {
		select {
		case entry := <-p.retryQueue:
			p.lastAttempt(entry)
			n++
		default:
			if n > 0 {
				logger.Info(LogMsgQueueDrainedShutdown, "events", n)
			}
			return
		}
	}
}

func (p *ResilientPublisher) lastAttempt(entry retryEntry) {
	if err := p.bus.Publish(context.Background(), entry.event); err != nil {
		entry.lastErr = err
		logger.Warn(LogMsgEventDroppedShutdown, "event_type", entry.event.Type)
		p.writeDeadLetter(entry)
	}
}

func (p *ResilientPublisher) writeDeadLetter(entry retryEntry) {
	if p.deadLetter == nil {
		return
	}
	if err := p.deadLetter.Write(entry.event, entry.attempt, entry.lastErr); err != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "error", err)
	}
}

// Shutdown stops the worker, draining queued retries, then closes the dead-letter file
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.shutdownOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.shutdown)
		p.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.deadLetter == nil || p.fileClosed {
		return nil
	}
	p.fileClosed = true
	return p.deadLetter.Close()
}
