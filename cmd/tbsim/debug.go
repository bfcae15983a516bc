package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tbsim/internal/geometry"
	"github.com/1broseidon/tbsim/internal/ipc"
	"github.com/1broseidon/tbsim/internal/overlay"
	"github.com/1broseidon/tbsim/internal/platform"
)

func newDebugCommand() *cobra.Command {
	debugCmd := &cobra.Command{
		Use:   "debug",
		Short: "Debugging aids",
	}

	rectsCmd := &cobra.Command{
		Use:   "rects",
		Short: "Outline the window and its placement rectangles on screen",
		Long: `Draws the current frame (gray), destination (blue), detection
area (green) and content area (orange) of the daemon's window until
interrupted. With --once the rectangles are printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := ipc.NewClient()
			if once, _ := cmd.Flags().GetBool("once"); once {
				rects, err := client.GetRects()
				if err != nil {
					return err
				}
				for _, line := range overlay.Legend(rectsTitle(rects), rectItems(rects)) {
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return nil
			}
			interval, _ := cmd.Flags().GetDuration("interval")
			return runRectsOverlay(client, interval)
		},
	}
	rectsCmd.Flags().Bool("once", false, "Print the rectangles and exit")
	rectsCmd.Flags().Duration("interval", 200*time.Millisecond, "Refresh interval")
	debugCmd.AddCommand(rectsCmd)
	return debugCmd
}

func rectsTitle(r *ipc.RectsData) string {
	return fmt.Sprintf("%s, %s", r.Docking, r.Hiding)
}

func rectItems(r *ipc.RectsData) []overlay.Item {
	detection := r.Detection.Geometry()
	if r.Infinite {
		detection = geometry.Infinite()
	}
	return []overlay.Item{
		{Label: "frame", Rect: r.Frame.Geometry(), Color: overlay.ColorFrame},
		{Label: "destination", Rect: r.Destination.Geometry(), Color: overlay.ColorDestination},
		{Label: "detection", Rect: detection, Color: overlay.ColorDetection},
		{Label: "content", Rect: r.Content.Geometry(), Color: overlay.ColorContent},
	}
}

// legendBounds is the frame of the monitor under the mouse, or the first
// monitor.
func legendBounds(m *ipc.MonitorsData) geometry.Rect {
	if len(m.Monitors) == 0 {
		return geometry.Rect{}
	}
	for _, mon := range m.Monitors {
		if mon.UnderMouse {
			return mon.Frame.Geometry()
		}
	}
	return m.Monitors[0].Frame.Geometry()
}

func runRectsOverlay(client *ipc.Client, interval time.Duration) error {
	backend, err := platform.Open(configuredDisplay())
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	defer backend.Close()

	display, ok := backend.(overlay.Display)
	if !ok {
		return fmt.Errorf("debug rects: %w", platform.ErrUnsupported)
	}
	mgr := overlay.NewManager(display)
	defer mgr.Cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		rects, err := client.GetRects()
		if err != nil {
			return err
		}
		monitors, err := client.GetMonitors()
		if err != nil {
			return err
		}
		items := rectItems(rects)
		if err := mgr.Render(items, overlay.Legend(rectsTitle(rects), items), legendBounds(monitors)); err != nil {
			return err
		}
		// Flush queued requests so the outlines show without further events.
		display.XUtil().Sync()

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func configuredDisplay() string {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return ""
	}
	return cfg.Display
}
