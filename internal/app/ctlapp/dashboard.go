package ctlapp

import (
	"context"
	"sync"
	"time"

	"github.com/petnest/petnest/internal/console"
)

func (a *App) newDashboardLoader() *console.DashboardLoader {
	return console.NewDashboardLoader(a.api, a.cache, console.DashboardOptions{
		FreshFor:     a.cfg.Dashboard.FreshFor,
		StaleFor:     a.cfg.Dashboard.StaleFor,
		FetchTimeout: a.cfg.Dashboard.FetchTimeout,
		ActivityRows: a.cfg.Dashboard.ActivityRows,
		Notifier:     a.notifier,
		Logger:       a.logger,
	})
}

func (a *App) dashboard(ctx context.Context, args []string) error {
	fs := newFlagSet("dashboard", a.out)
	watch := fs.Bool("watch", false, "keep refreshing until interrupted")
	if err := fs.Parse(args); err != nil {
		return err
	}

	loader := a.newDashboardLoader()
	var mu sync.Mutex
	render := func(view console.DashboardView) {
		mu.Lock()
		defer mu.Unlock()
		writeDashboard(a.out, view)
	}

	for {
		view := loader.Load(ctx, render)
		if !*watch {
			loader.Wait()
			return nil
		}

		wait := time.Until(view.RefreshAt)
		if wait < time.Second {
			wait = a.cfg.Dashboard.FreshFor
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			loader.Wait()
			return nil
		case <-timer.C:
		}
	}
}
