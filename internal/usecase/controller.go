package usecase

import (
	"context"
	"fmt"
	"sync"

	"portfolio/internal/domain"

	"github.com/sirupsen/logrus"
)

// ControllerHooks are the controller's outward signals. Any of them may be
// nil. OnBusyChange is called with the controller's lock held and must not
// call back into the controller.
type ControllerHooks struct {
	// OnBusyChange tells the trigger to disable (true) or re-enable (false)
	// itself.
	OnBusyChange func(busy bool)
	OnSuccess    func(req domain.ExportRequest)
	OnError      func(req domain.ExportRequest, err error)
}

// Controller lets at most one export run at a time. Activations that arrive
// while an export is in flight are dropped.
type Controller struct {
	engine Engine
	hooks  ControllerHooks
	base   context.Context
	log    logrus.FieldLogger

	mu    sync.Mutex
	state domain.GenerationState
	wg    sync.WaitGroup
}

// NewController runs exports under base. Exports are never cancelled by the
// controller; base only carries values and the lifetime of the process.
func NewController(base context.Context, engine Engine, hooks ControllerHooks, log logrus.FieldLogger) *Controller {
	if base == nil {
		base = context.Background()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{engine: engine, hooks: hooks, base: base, log: log}
}

// Activate starts an export unless one is already running. It reports
// whether the activation was accepted.
func (c *Controller) Activate(req domain.ExportRequest) bool {
	c.mu.Lock()
	if c.state == domain.StateInFlight {
		c.mu.Unlock()
		c.log.WithField("element", req.TargetElementID).Debug("export already in flight, activation dropped")
		return false
	}
	c.state = domain.StateInFlight
	c.wg.Add(1)
	c.busy(true)
	c.mu.Unlock()

	go c.run(req)
	return true
}

func (c *Controller) run(req domain.ExportRequest) {
	defer c.wg.Done()

	err := c.export(req)

	c.mu.Lock()
	c.state = domain.StateIdle
	c.busy(false)
	c.mu.Unlock()

	if err != nil {
		c.log.WithError(err).WithField("kind", domain.KindOf(err)).Warn("export failed")
		if c.hooks.OnError != nil {
			c.hooks.OnError(req, err)
		}
		return
	}
	if c.hooks.OnSuccess != nil {
		c.hooks.OnSuccess(req)
	}
}

// export converts panics and non-error failures into errors so every
// activation settles through exactly one callback.
func (c *Controller) export(req domain.ExportRequest) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.WithField("panic", fmt.Sprintf("%v", r)).Error("export panicked")
			err = domain.NormalizeFailure(r)
		}
	}()
	return domain.NormalizeFailure(c.engine.Export(c.base, req))
}

func (c *Controller) busy(b bool) {
	if c.hooks.OnBusyChange != nil {
		c.hooks.OnBusyChange(b)
	}
}

func (c *Controller) State() domain.GenerationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Busy() bool { return c.State() == domain.StateInFlight }

// Wait blocks until the in-flight export, if any, has settled and its
// callbacks have returned.
func (c *Controller) Wait() { c.wg.Wait() }
