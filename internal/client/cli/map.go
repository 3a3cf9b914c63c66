package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Overland-East-Bay/trip-journal/internal/adapters/httpapi"
	"github.com/Overland-East-Bay/trip-journal/internal/mapview"
)

type mapOptions struct {
	dashboard bool
	watch     bool
	interval  time.Duration
	debounce  time.Duration
}

func newMapCmd(a *app) *cobra.Command {
	var opts mapOptions
	cmd := &cobra.Command{
		Use:   "map [tripId]",
		Short: "Show the map of a trip or of all your trips",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dashboard == (len(args) == 1) {
				return errors.New("give either a trip id or --dashboard")
			}
			if opts.interval <= 0 {
				return errors.New("--interval must be positive")
			}
			tripID := ""
			if len(args) == 1 {
				tripID = args[0]
			}
			return a.showMap(cmd, tripID, opts)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&opts.dashboard, "dashboard", false, "map every trip you can see")
	f.BoolVar(&opts.watch, "watch", false, "keep polling and print the viewport when it changes")
	f.DurationVar(&opts.interval, "interval", 5*time.Second, "poll interval for --watch")
	f.DurationVar(&opts.debounce, "debounce", 500*time.Millisecond, "quiet period before refitting the viewport")
	return cmd
}

func (a *app) fetchMap(ctx context.Context, tripID string) (httpapi.MapResponse, error) {
	c := a.client()
	if tripID == "" {
		return c.DashboardMap(ctx)
	}
	return c.TripMap(ctx, tripID)
}

func (a *app) showMap(cmd *cobra.Command, tripID string, opts mapOptions) error {
	ctx := cmd.Context()
	out := &lockedWriter{w: cmd.OutOrStdout()}

	mv, err := a.fetchMap(ctx, tripID)
	if err != nil {
		return err
	}
	if !opts.watch {
		for _, l := range mv.Locations {
			fmt.Fprintf(out, "%-8s %10.5f %11.5f  %s  %s\n", l.Category, l.Latitude, l.Longitude, l.Title, l.Description)
		}
		if mv.Viewport == nil {
			fmt.Fprintln(out, formatViewport(mapview.Viewport{}, false))
		} else {
			fmt.Fprintln(out, formatViewport(*mv.Viewport, true))
		}
		return nil
	}

	cam := mapview.NewCamera(opts.debounce, func(vp mapview.Viewport, ok bool) {
		if ok {
			vp = vp.Normalize()
		}
		fmt.Fprintln(out, formatViewport(vp, ok))
	})
	defer cam.Close()
	cam.Update(mv.Locations)

	ticker := time.NewTicker(opts.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			mv, err := a.fetchMap(ctx, tripID)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				// Keep watching through transient failures.
				log.Warn().Err(err).Msg("map poll failed")
				continue
			}
			cam.Update(mv.Locations)
		}
	}
}

func formatViewport(vp mapview.Viewport, ok bool) string {
	if !ok {
		return "viewport: none"
	}
	if vp.Mode == mapview.ModeCenter {
		return fmt.Sprintf("viewport: center %.5f,%.5f zoom %d", vp.Latitude, vp.Longitude, vp.Zoom)
	}
	return fmt.Sprintf("viewport: bounds sw %.5f,%.5f ne %.5f,%.5f padding %dpx max zoom %d",
		vp.SouthWestLat, vp.SouthWestLng, vp.NorthEastLat, vp.NorthEastLng, vp.PaddingPx, vp.MaxZoom)
}

// lockedWriter serializes writes from the camera's timer goroutine.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
