package cli

import "sync"

// Buffer size of the input channel. Pasted text arrives as one key event per
// rune, so this is large enough to hold a typical path.
const inputChSize = 128

// Maximum number of events handled between two redraws, so that a long paste
// is shown while it is typed in.
const maxEventsPerFrame = 64

// An event is an os.Signal, a term.Event, an ingest.Result, or one of the
// app's own event types.
type event any

// Flag passed to loopHandler.redraw.
type redrawFlag uint

// Bit flags for redrawFlag.
const (
	// fullRedraw is set on the first redraw and when Redraw has been called
	// with full = true.
	fullRedraw redrawFlag = 1 << iota
	// finalRedraw is set on the last redraw before Run returns.
	finalRedraw
)

// loopHandler does the concrete work of a loop. Its methods are never called
// concurrently, so they may manipulate shared state without synchronization.
type loopHandler interface {
	handle(event)
	// An error makes Run return it without a final redraw.
	redraw(redrawFlag) error
}

// The main loop of an App. Events are funneled from any number of goroutines
// into one channel and handled serially, and redraw requests are coalesced.
type loop struct {
	h       loopHandler
	inputCh chan event

	redrawCh    chan struct{}
	redrawMutex sync.Mutex
	redrawFull  bool

	returnCh chan error

	// Goroutines feeding inputCh.
	feeders sync.WaitGroup
}

func newLoop(h loopHandler) *loop {
	return &loop{
		h:        h,
		inputCh:  make(chan event, inputChSize),
		redrawCh: make(chan struct{}, 1),
		returnCh: make(chan error, 1),
	}
}

// Redraw requests a redraw. If full is true, a full redraw is requested. It
// never blocks.
func (lp *loop) Redraw(full bool) {
	lp.redrawMutex.Lock()
	defer lp.redrawMutex.Unlock()
	if full {
		lp.redrawFull = true
	}
	select {
	case lp.redrawCh <- struct{}{}:
	default:
	}
}

func (lp *loop) takeRedrawFull() bool {
	lp.redrawMutex.Lock()
	defer lp.redrawMutex.Unlock()
	full := lp.redrawFull
	lp.redrawFull = false
	return full
}

// Input provides an event. It may block if the input buffer is full.
func (lp *loop) Input(ev event) {
	lp.inputCh <- ev
}

// Return requests Run to return err. It never blocks. Only the first call in
// an iteration of the loop has an effect.
func (lp *loop) Return(err error) {
	select {
	case lp.returnCh <- err:
	default:
	}
}

// HasReturned returns whether Return has been called during the current loop
// iteration.
func (lp *loop) HasReturned() bool {
	return len(lp.returnCh) == 1
}

// spawn runs f on a new goroutine that wait waits for.
func (lp *loop) spawn(f func()) {
	lp.feeders.Add(1)
	go func() {
		defer lp.feeders.Done()
		f()
	}()
}

// relay feeds values received from ch to lp until ch is closed or stop is
// closed.
func relay[T any](lp *loop, ch <-chan T, stop <-chan struct{}) {
	lp.spawn(func() {
		for {
			select {
			case v, ok := <-ch:
				if !ok {
					return
				}
				select {
				case lp.inputCh <- v:
				case <-stop:
					return
				}
			case <-stop:
				return
			}
		}
	})
}

// wait waits for the goroutines started with spawn or relay.
func (lp *loop) wait() { lp.feeders.Wait() }

// Run redraws and handles events until Return is called or a redraw fails.
// It is fully serial: it does not spawn any goroutines and never calls two
// handler methods in parallel.
func (lp *loop) Run() error {
	for {
		var flag redrawFlag
		if lp.takeRedrawFull() {
			flag |= fullRedraw
		}
		if err := lp.h.redraw(flag); err != nil {
			return err
		}
		select {
		case ev := <-lp.inputCh:
			if returned, err := lp.handleBatch(ev); returned {
				return lp.finish(err)
			}
		case err := <-lp.returnCh:
			return lp.finish(err)
		case <-lp.redrawCh:
		}
	}
}

// handleBatch handles ev and the events that are already queued, up to
// maxEventsPerFrame.
func (lp *loop) handleBatch(ev event) (returned bool, err error) {
	for i := 1; ; i++ {
		lp.h.handle(ev)
		select {
		case err := <-lp.returnCh:
			return true, err
		default:
		}
		if i == maxEventsPerFrame {
			return false, nil
		}
		select {
		case ev = <-lp.inputCh:
		default:
			return false, nil
		}
	}
}

func (lp *loop) finish(err error) error {
	lp.h.redraw(finalRedraw)
	return err
}
