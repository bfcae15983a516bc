package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tbsim/internal/ipc"
	"github.com/1broseidon/tbsim/internal/platform"
	"github.com/1broseidon/tbsim/internal/screen"
	"github.com/1broseidon/tbsim/internal/tui"
)

func newWindowCommands() []*cobra.Command {
	dockCmd := &cobra.Command{
		Use:       "dock top|bottom",
		Short:     "Dock the window to the top or bottom screen edge",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"top", "bottom"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] != "top" && args[0] != "bottom" {
				return fmt.Errorf("dock takes top or bottom, got %q", args[0])
			}
			return ipc.NewClient().Dock(args[0])
		},
	}

	simple := func(use, short string, run func(*ipc.Client) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, args []string) error { return run(ipc.NewClient()) },
		}
	}

	return []*cobra.Command{
		dockCmd,
		simple("undock", "Make the window floating again", (*ipc.Client).Undock),
		simple("toggle", "Cycle floating, top and bottom", (*ipc.Client).Toggle),
		simple("close", "Close the window (the daemon keeps running)", (*ipc.Client).Close),
		simple("open", "Show the window again after close", (*ipc.Client).Open),
		simple("reload", "Reload the daemon configuration", (*ipc.Client).Reload),
	}
}

func newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show window and daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			status, err := ipc.NewClient().GetStatus()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, status)
			}
			if !tui.IsTerminal(out) {
				return writeStatusPlain(out, status)
			}
			fmt.Fprintln(out, tui.RenderStatus(status, time.Now()))
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Output JSON")
	return cmd
}

func writeStatusPlain(w io.Writer, st *ipc.StatusData) error {
	deadline := "never"
	if st.HideDeadline != nil {
		deadline = st.HideDeadline.Format(time.RFC3339Nano)
	}
	_, err := fmt.Fprintf(w,
		"daemon_running: %v\ndocking:        %s\nhiding:         %s\nframe:          %.0f %.0f %.0f %.0f\nalpha:          %.2f\nmonitor:        %s\nchrome:         %v\nanimating:      %v\nclosed:         %v\nhide_deadline:  %s\ncontent:        %v\nuptime_seconds: %d\n",
		st.DaemonRunning, st.Docking, st.Hiding,
		st.Frame.X, st.Frame.Y, st.Frame.Width, st.Frame.Height,
		st.Alpha, st.Monitor, st.Chrome, st.Animating, st.Closed, deadline,
		st.ContentMounted, st.UptimeSeconds)
	return err
}

func newMonitorsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitors",
		Short: "List monitors and their visible frames",
		Long: `Lists monitors as the daemon sees them. Without a running daemon, or
with --local, the window system is queried directly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			local, _ := cmd.Flags().GetBool("local")
			monitors, err := fetchMonitors(ipc.NewClient(), local, openLocalLocator)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), monitors)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderMonitors(monitors))
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Output JSON")
	cmd.Flags().Bool("local", false, "Query the window system instead of the daemon")
	return cmd
}

type monitorsClient interface {
	GetMonitors() (*ipc.MonitorsData, error)
}

// fetchMonitors asks the daemon, falling back to a local locator when no
// daemon is reachable.
func fetchMonitors(client monitorsClient, local bool, open func() (screen.Locator, func(), error)) (*ipc.MonitorsData, error) {
	if !local {
		monitors, err := client.GetMonitors()
		if err == nil || !errors.Is(err, ipc.ErrDaemonUnreachable) {
			return monitors, err
		}
	}
	locator, closeFn, err := open()
	if err != nil {
		return nil, fmt.Errorf("failed to open window system: %w", err)
	}
	defer closeFn()
	data, err := monitorsData(locator)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func openLocalLocator() (screen.Locator, func(), error) {
	backend, err := platform.Open(configuredDisplay())
	if err != nil {
		return nil, nil, err
	}
	return backend, backend.Close, nil
}

func newSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Edit persisted window settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := ipc.NewClient()
			if show, _ := cmd.Flags().GetBool("show"); show {
				v, err := client.GetSettings()
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), v)
			}
			err := tui.RunSettings(client)
			if errors.Is(err, tui.ErrCancelled) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Settings unchanged")
				return nil
			}
			return err
		},
	}
	cmd.Flags().Bool("show", false, "Print the current settings as JSON instead of editing")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
