// File: internal/browser/session.go
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/surveyfill-cli/internal/config"
	"github.com/xkilldash9x/surveyfill-cli/internal/humanoid"
)

// Session is one isolated tab context filling the survey for one row.
type Session struct {
	id      string
	ctx     context.Context
	cancel  context.CancelFunc
	cfg     *config.Config
	logger  *zap.Logger
	cadence *humanoid.Cadence

	// limiter paces successive interactions so consecutive control fills do
	// not land faster than a person could move between them.
	limiter *rate.Limiter

	onClose func()

	mu       sync.Mutex
	isClosed bool
}

func newSession(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, logger *zap.Logger, onClose func()) *Session {
	id := uuid.New().String()
	return &Session{
		id:      id,
		ctx:     ctx,
		cancel:  cancel,
		cfg:     cfg,
		logger:  logger.With(zap.String("session_id", id)),
		cadence: humanoid.New(cfg.Typing),
		limiter: rate.NewLimiter(rate.Every(400*time.Millisecond), 2),
		onClose: onClose,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Close tears down the tab. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isClosed {
		return
	}
	s.isClosed = true
	s.cancel()
	if s.onClose != nil {
		s.onClose()
	}
	s.logger.Debug("Session closed.")
}

// run executes chromedp actions under the session context with a timeout.
func (s *Session) run(timeout time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

// pace blocks until the interaction limiter admits the next action.
func (s *Session) pace() error {
	return s.limiter.Wait(s.ctx)
}

// Navigate loads the start URL and waits for the page to settle.
func (s *Session) Navigate(url string) error {
	s.logger.Debug("Navigating.", zap.String("url", url))
	if err := s.run(s.cfg.Network.NavigationTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return humanoid.Sleep(s.ctx, s.cfg.Network.SettleWait)
}

// pollUntil evaluates pred every interval until it reports true, the budget
// runs out, or the session ends. onTick runs after each failed check with
// the 1-based poll count, for nudge hooks.
func (s *Session) pollUntil(timeout time.Duration, pred func(context.Context) (bool, error), onTick func(int)) (bool, error) {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(s.cfg.Network.PollInterval)
	defer ticker.Stop()

	for count := 1; ; count++ {
		ok, err := pred(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return false, nil
			}
			return false, err
		}
		if ok {
			return true, nil
		}
		if onTick != nil {
			onTick(count)
		}
		select {
		case <-ctx.Done():
			return false, nil
		case <-ticker.C:
		}
	}
}
