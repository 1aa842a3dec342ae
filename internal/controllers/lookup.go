package controllers

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/google/uuid"

	"country-capital/internal/logger"
	"country-capital/internal/models"
	"country-capital/internal/services"
)

// LookupView is the display side of the lookup form. Implementations marshal onto the UI thread themselves.
type LookupView interface {
	SetSubmitHandler(handler func(raw string))
	ShowLoading(message string)
	ShowCapital(capital string)
	ShowFlag(img image.Image, description string)
	ShowFlagUnavailable(message string)
	ShowError(message string)
	SetBusy(busy bool)
	UpdateStatus(status string)
}

// LookupController runs one submission at a time: validate, consult the cache, fetch the capital, then the flag.
// A submission made while a lookup is running supersedes it: the running lookup stops rendering and
// the newest query runs as soon as the network is free.
type LookupController struct {
	service *services.LookupService
	view    LookupView
	logger  logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	// mu guards the fields below and orders view updates against supersession.
	mu       sync.Mutex
	seq      uint64
	busy     bool
	pending  *submission
	inflight sync.WaitGroup
}

type submission struct {
	id    string
	seq   uint64
	query models.Query
}

// NewLookupController creates a controller whose requests are bound to ctx.
func NewLookupController(ctx context.Context, service *services.LookupService, log logger.Logger) *LookupController {
	if log == nil {
		log = logger.NoOpLogger{}
	}
	ctrlCtx, cancel := context.WithCancel(ctx)
	return &LookupController{
		service: service,
		logger:  log,
		ctx:     ctrlCtx,
		cancel:  cancel,
	}
}

// SetView associates the view with this controller and connects its events.
func (lc *LookupController) SetView(view LookupView) {
	lc.view = view
	view.SetSubmitHandler(lc.Submit)
	view.UpdateStatus("Ready")
}

// Submit handles the "Get Capital" action.
func (lc *LookupController) Submit(raw string) {
	sub := &submission{id: uuid.NewString(), query: models.NormalizeQuery(raw)}

	lc.mu.Lock()
	lc.seq++
	sub.seq = lc.seq

	if sub.query.IsEmpty() {
		lc.pending = nil
		lc.displayError(services.MsgEmptyQuery)
		lc.mu.Unlock()
		lc.logger.Debug("LookupController", "empty submission rejected", map[string]interface{}{
			"submission": sub.id,
		})
		return
	}

	if lc.busy {
		lc.pending = sub
		lc.mu.Unlock()
		lc.logger.Debug("LookupController", "submission queued behind running lookup", map[string]interface{}{
			"submission": sub.id,
			"query":      sub.query.String(),
		})
		return
	}

	lc.busy = true
	lc.inflight.Add(1)
	lc.view.SetBusy(true)
	lc.mu.Unlock()

	if record, found := lc.service.Cached(sub.query); found {
		lc.logger.Info("LookupController", "rendering cached country", map[string]interface{}{
			"submission": sub.id,
			"query":      sub.query.String(),
		})
		lc.renderCapital(sub, record)
		go lc.run(sub, record)
		return
	}

	lc.render(sub, func() { lc.view.ShowLoading(services.MsgLoading) })
	go lc.run(sub, nil)
}

// Wait blocks until every accepted submission, queued ones included, has been handled.
func (lc *LookupController) Wait() {
	lc.inflight.Wait()
}

// Shutdown aborts outstanding requests and waits for the submission goroutine to exit.
func (lc *LookupController) Shutdown() {
	lc.mu.Lock()
	lc.pending = nil
	lc.mu.Unlock()

	lc.cancel()
	lc.Wait()
}

// run completes sub and then every submission queued behind it. cached is the record
// already rendered synchronously by Submit, nil on a cache miss.
func (lc *LookupController) run(sub *submission, cached models.CountryRecord) {
	for sub != nil {
		if cached != nil {
			if lc.current(sub) {
				lc.renderFlag(sub, cached)
			}
		} else {
			lc.resolve(sub)
		}
		cached = nil
		sub = lc.next()
	}
}

// next hands over the queued submission, or marks the form idle when there is none.
func (lc *LookupController) next() *submission {
	lc.mu.Lock()
	sub := lc.pending
	lc.pending = nil
	if sub == nil {
		lc.busy = false
		lc.view.SetBusy(false)
	}
	lc.mu.Unlock()

	if sub == nil {
		lc.inflight.Done()
		return nil
	}

	lc.logger.Debug("LookupController", "running queued submission", map[string]interface{}{
		"submission": sub.id,
		"query":      sub.query.String(),
	})
	if record, found := lc.service.Cached(sub.query); found {
		if lc.renderCapital(sub, record) {
			lc.renderFlag(sub, record)
		}
		return lc.next()
	}
	lc.render(sub, func() { lc.view.ShowLoading(services.MsgLoading) })
	return sub
}

func (lc *LookupController) current(sub *submission) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return sub.seq == lc.seq
}

// render applies update unless a newer submission has been made since sub.
func (lc *LookupController) render(sub *submission, update func()) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if sub.seq != lc.seq {
		lc.logger.Debug("LookupController", "superseded result discarded", map[string]interface{}{
			"submission": sub.id,
			"query":      sub.query.String(),
		})
		return false
	}
	update()
	return true
}

func (lc *LookupController) resolve(sub *submission) {
	ctx := logger.WithSubmission(lc.ctx, sub.id)
	result, err := lc.service.Resolve(ctx, sub.query)
	if err != nil {
		lc.logger.Error("LookupController", err, map[string]interface{}{
			"submission": sub.id,
			"query":      sub.query.String(),
		})
		lc.render(sub, func() {
			lc.displayError(services.Describe(err))
			lc.view.UpdateStatus(fmt.Sprintf("Lookup failed for %q", sub.query))
		})
		return
	}

	if lc.renderCapital(sub, result.Record) {
		lc.renderFlag(sub, result.Record)
	}
}

func (lc *LookupController) renderCapital(sub *submission, record models.CountryRecord) bool {
	name := record.CommonName()
	if name == "" {
		name = record.Capital()
	}
	status := fmt.Sprintf("Showing %s (%d cached)", name, lc.service.CacheSize())

	return lc.render(sub, func() {
		lc.view.ShowCapital(record.Capital())
		lc.view.UpdateStatus(status)
	})
}

func (lc *LookupController) renderFlag(sub *submission, record models.CountryRecord) {
	img, err := lc.service.Flag(logger.WithSubmission(lc.ctx, sub.id), record)
	if err != nil {
		lc.logger.Warning("LookupController", "flag unavailable", map[string]interface{}{
			"submission": sub.id,
			"error":      err.Error(),
		})
		lc.render(sub, func() { lc.view.ShowFlagUnavailable(services.MsgFlagNotFound) })
		return
	}
	lc.render(sub, func() { lc.view.ShowFlag(img, record.FlagDescription()) })
}

// displayError replaces the result area with message and clears the flag.
func (lc *LookupController) displayError(message string) {
	lc.view.ShowError(message)
}
