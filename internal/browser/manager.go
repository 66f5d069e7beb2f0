// File: internal/browser/manager.go

// Package browser drives the survey page over CDP. A Manager owns the
// Chromium allocator; each respondent row gets its own Session (an isolated
// tab context) so state from one row can never leak into the next.
package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/surveyfill-cli/internal/config"
)

// Manager handles the browser process lifecycle and session creation.
type Manager struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	cfg         *config.Config
	logger      *zap.Logger

	mu sync.Mutex
	wg sync.WaitGroup
}

// execOptions translates the browser config into chromedp allocator options.
func execOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(cfg.ViewportWidth, cfg.ViewportHeight),
	)
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	for _, arg := range cfg.Args {
		if !strings.Contains(arg, "=") {
			opts = append(opts, chromedp.Flag(strings.TrimPrefix(arg, "--"), true))
			continue
		}
		parts := strings.SplitN(arg, "=", 2)
		opts = append(opts, chromedp.Flag(strings.TrimPrefix(parts[0], "--"), parts[1]))
	}
	return opts
}

// NewManager creates the allocator context. The browser process itself
// launches lazily with the first session.
func NewManager(ctx context.Context, cfg *config.Config, logger *zap.Logger) *Manager {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, execOptions(cfg.Browser)...)
	return &Manager{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		cfg:         cfg,
		logger:      logger.Named("browser"),
	}
}

// NewSession opens a fresh tab context for one row.
func (m *Manager) NewSession(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var opts []chromedp.ContextOption
	if m.cfg.Browser.Debug {
		opts = append(opts, chromedp.WithDebugf(m.logger.Sugar().Debugf))
	}
	tabCtx, tabCancel := chromedp.NewContext(m.allocCtx, opts...)

	// Touching the context forces target creation, surfacing launch errors
	// here instead of on the first real action.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		return nil, fmt.Errorf("failed to open browser tab: %w", err)
	}

	m.wg.Add(1)
	s := newSession(tabCtx, tabCancel, m.cfg, m.logger, m.wg.Done)
	return s, nil
}

// Close tears down every open session and the browser process.
func (m *Manager) Close() {
	m.allocCancel()
	m.wg.Wait()
}
