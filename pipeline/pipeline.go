package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/warp/shift-calendar/generic"
	"github.com/warp/shift-calendar/ocr"
	"github.com/warp/shift-calendar/schedule"
	"github.com/warp/shift-calendar/shift"
)

const (
	// DefaultTimeout bounds one recognition run started by Submit.
	DefaultTimeout = 60 * time.Second

	// DefaultHistory is how many finished submissions are retained.
	DefaultHistory = 100
)

// =============================================================================
// PIPELINE
// =============================================================================

type Pipeline struct {
	recognizer ocr.Recognizer
	extractor  *schedule.Extractor
	calendar   *shift.Calendar
	validate   func([]byte) error
	timeout    time.Duration
	history    int
	logger     *slog.Logger

	mu      sync.RWMutex
	entries map[uuid.UUID]*entry
	events  generic.Hub[Event]
	wg      sync.WaitGroup
}

type entry struct {
	sub       Submission
	resolving bool
	done      chan struct{} // closed when recognition finishes
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTimeout bounds background recognition.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.timeout = d }
}

// WithImageValidator replaces the upload check. nil accepts any payload,
// which the JSON recognizer needs.
func WithImageValidator(fn func([]byte) error) Option {
	return func(p *Pipeline) { p.validate = fn }
}

// WithHistory sets how many submissions are kept. Older finished and stale
// submissions are dropped first; in-flight ones are kept regardless.
func WithHistory(n int) Option {
	return func(p *Pipeline) { p.history = n }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// ValidateImage accepts PNG, JPEG and WebP uploads.
func ValidateImage(data []byte) error {
	_, err := ocr.SniffImage(data)
	return err
}

func New(recognizer ocr.Recognizer, extractor *schedule.Extractor, calendar *shift.Calendar, opts ...Option) *Pipeline {
	p := &Pipeline{
		recognizer: recognizer,
		extractor:  extractor,
		calendar:   calendar,
		validate:   ValidateImage,
		timeout:    DefaultTimeout,
		history:    DefaultHistory,
		logger:     slog.Default(),
		entries:    make(map[uuid.UUID]*entry),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.extractor == nil {
		p.extractor = schedule.NewExtractor(schedule.WithLogger(p.logger))
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Subscribe registers fn for submission state changes.
func (p *Pipeline) Subscribe(fn func(Event)) func() {
	return p.events.Subscribe(fn)
}

// =============================================================================
// RUNNING
// =============================================================================

// Process runs a submission to completion on the caller's goroutine.
// The returned error is the submission's Err; a week conflict is not an
// error and leaves the submission awaiting a choice.
func (p *Pipeline) Process(ctx context.Context, image []byte) (Submission, error) {
	e, err := p.start(image)
	if err != nil {
		return Submission{}, err
	}
	p.run(ctx, e, image)

	sub, _ := p.Get(e.sub.ID)
	return sub, sub.Err
}

// Submit registers a submission and recognizes it in the background.
// Cancelling ctx after Submit returns does not stop recognition.
func (p *Pipeline) Submit(ctx context.Context, image []byte) (Submission, error) {
	e, err := p.start(image)
	if err != nil {
		return Submission{}, err
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
		defer cancel()
		p.run(runCtx, e, image)
	}()

	p.mu.RLock()
	defer p.mu.RUnlock()
	return e.sub.clone(), nil
}

// Wait blocks until the submission has left recognition.
func (p *Pipeline) Wait(ctx context.Context, id uuid.UUID) (Submission, error) {
	p.mu.RLock()
	e, ok := p.entries[id]
	p.mu.RUnlock()
	if !ok {
		return Submission{}, fmt.Errorf("%w: %s", generic.ErrSubmissionNotFound, id)
	}

	select {
	case <-e.done:
	case <-ctx.Done():
		return Submission{}, ctx.Err()
	}
	return p.Get(id)
}

// Close waits for background recognition to finish.
func (p *Pipeline) Close() {
	p.wg.Wait()
}

func (p *Pipeline) start(image []byte) (*entry, error) {
	if p.validate != nil {
		if err := p.validate(image); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	e := &entry{
		sub: Submission{
			ID:        uuid.New(),
			State:     StateIdle,
			CreatedAt: now,
			UpdatedAt: now,
		},
		done: make(chan struct{}),
	}

	p.mu.Lock()
	p.entries[e.sub.ID] = e
	p.pruneLocked()
	p.mu.Unlock()

	p.transition(e, func(s *Submission) { s.State = StateRecognizing })
	return e, nil
}

func (p *Pipeline) run(ctx context.Context, e *entry, image []byte) {
	defer close(e.done)
	id := e.sub.ID

	words, err := p.recognizer.Recognize(ctx, image)
	if err == nil && len(words) == 0 {
		err = errors.New("no text recognized")
	}
	if err != nil {
		if !errors.Is(err, generic.ErrOCRFailure) {
			err = fmt.Errorf("%w: %w", generic.ErrOCRFailure, err)
		}
		p.logger.Warn("recognition failed", "submission", id, "error", err)
		p.fail(e, err)
		return
	}

	window, err := p.extractor.Extract(words)
	if err != nil {
		p.logger.Info("schedule not recognized", "submission", id, "words", len(words), "error", err)
		p.fail(e, err)
		return
	}
	p.transition(e, func(s *Submission) {
		s.State = StateExtracted
		s.WeekStart = window.WeekStart
		s.Pairs = window.Pairs
	})

	report, err := p.calendar.ApplyWeek(ctx, window.WeekStart, window.Entries(), shift.ApplyIfAbsent)
	switch {
	case errors.Is(err, generic.ErrWeekConflict):
		p.logger.Info("week already has records, awaiting choice",
			"submission", id, "week_start", window.WeekStart.String())
		p.transition(e, func(s *Submission) { s.State = StateAwaitingChoice })
	case err != nil:
		p.logger.Error("failed to apply week", "submission", id, "error", err)
		p.transition(e, func(s *Submission) { s.Err = err })
	default:
		p.transition(e, func(s *Submission) {
			s.State = StateApplied
			s.Report = &report
		})
	}
}

func (p *Pipeline) fail(e *entry, err error) {
	p.transition(e, func(s *Submission) {
		s.State = StateRecognitionFailed
		s.Err = err
	})
}

// transition mutates the submission under the lock and publishes a snapshot.
func (p *Pipeline) transition(e *entry, fn func(*Submission)) {
	p.mu.Lock()
	fn(&e.sub)
	e.sub.UpdatedAt = time.Now().UTC()
	snap := e.sub.clone()
	p.mu.Unlock()

	p.events.Publish(Event{Submission: snap})
}

// pruneLocked drops the oldest submissions beyond the history limit.
// Finished submissions go first, then stale ones: awaiting a choice nobody
// is making, or extracted but failed to apply. Submissions still
// recognizing or being resolved are never dropped.
func (p *Pipeline) pruneLocked() {
	if p.history <= 0 || len(p.entries) <= p.history {
		return
	}
	var finished, stale []*entry
	for _, e := range p.entries {
		switch {
		case e.sub.State.Terminal():
			finished = append(finished, e)
		case e.stale():
			stale = append(stale, e)
		}
	}
	for _, group := range [][]*entry{finished, stale} {
		sort.Slice(group, func(i, j int) bool {
			return group[i].sub.CreatedAt.Before(group[j].sub.CreatedAt)
		})
		for _, e := range group {
			if len(p.entries) <= p.history {
				return
			}
			delete(p.entries, e.sub.ID)
			p.logger.Debug("submission pruned", "submission", e.sub.ID, "state", string(e.sub.State))
		}
	}
}

func (e *entry) stale() bool {
	if e.resolving {
		return false
	}
	switch e.sub.State {
	case StateAwaitingChoice:
		return true
	case StateExtracted:
		return e.sub.Err != nil
	}
	return false
}

// =============================================================================
// RESOLUTION
// =============================================================================

// Resolve applies the user's choice to a submission awaiting one.
func (p *Pipeline) Resolve(ctx context.Context, id uuid.UUID, choice Choice) (Submission, error) {
	p.mu.Lock()
	e, ok := p.entries[id]
	if !ok {
		p.mu.Unlock()
		return Submission{}, fmt.Errorf("%w: %s", generic.ErrSubmissionNotFound, id)
	}
	if e.sub.State != StateAwaitingChoice || e.resolving {
		state := e.sub.State
		p.mu.Unlock()
		return Submission{}, fmt.Errorf("%w: submission %s is %s", generic.ErrInvalidTransition, id, state)
	}
	e.resolving = true
	window := e.sub.Window()
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		e.resolving = false
		p.mu.Unlock()
	}()

	var (
		mode  shift.ApplyMode
		state State
	)
	switch choice {
	case ChoiceCancel:
		p.logger.Info("submission cancelled", "submission", id)
		p.transition(e, func(s *Submission) { s.State = StateCancelled })
		return p.Get(id)
	case ChoiceAppend:
		mode, state = shift.ApplyAppend, StateAppendApplied
	case ChoiceOverwrite:
		mode, state = shift.ApplyOverwrite, StateOverwriteApplied
	default:
		return Submission{}, fmt.Errorf("%w: unknown choice %q", generic.ErrInvalidTransition, choice)
	}

	report, err := p.calendar.ApplyWeek(ctx, window.WeekStart, window.Entries(), mode)
	if err != nil {
		p.logger.Error("failed to apply week", "submission", id, "mode", mode, "error", err)
		return Submission{}, fmt.Errorf("failed to apply week: %w", err)
	}
	p.transition(e, func(s *Submission) {
		s.State = state
		s.Report = &report
	})
	return p.Get(id)
}

// =============================================================================
// QUERIES
// =============================================================================

// Get returns a snapshot of the submission.
func (p *Pipeline) Get(id uuid.UUID) (Submission, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.entries[id]
	if !ok {
		return Submission{}, fmt.Errorf("%w: %s", generic.ErrSubmissionNotFound, id)
	}
	return e.sub.clone(), nil
}

// List returns retained submissions, oldest first.
func (p *Pipeline) List() []Submission {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Submission, 0, len(p.entries))
	for _, e := range p.entries {
		out = append(out, e.sub.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
