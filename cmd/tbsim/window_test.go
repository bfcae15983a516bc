package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/1broseidon/tbsim/internal/geometry"
	"github.com/1broseidon/tbsim/internal/ipc"
	"github.com/1broseidon/tbsim/internal/screen"
	"github.com/1broseidon/tbsim/internal/testutil"
)

type fakeMonitorsClient struct {
	data  *ipc.MonitorsData
	err   error
	calls int
}

func (f *fakeMonitorsClient) GetMonitors() (*ipc.MonitorsData, error) {
	f.calls++
	return f.data, f.err
}

func localLocator(opened *int) func() (screen.Locator, func(), error) {
	return func() (screen.Locator, func(), error) {
		*opened++
		return &testutil.Locator{
			Mouse:      geometry.Point{X: 2000, Y: 500},
			MonitorSet: []screen.Monitor{testutil.MacBookMonitor(), testutil.SideMonitor()},
		}, func() {}, nil
	}
}

func TestFetchMonitors_PrefersDaemon(t *testing.T) {
	client := &fakeMonitorsClient{data: &ipc.MonitorsData{MouseX: 1}}
	opened := 0
	got, err := fetchMonitors(client, false, localLocator(&opened))
	if err != nil {
		t.Fatalf("fetchMonitors: %v", err)
	}
	if got != client.data || opened != 0 {
		t.Fatalf("expected daemon answer without local query, opened=%d", opened)
	}
}

func TestFetchMonitors_FallsBackWithoutDaemon(t *testing.T) {
	client := &fakeMonitorsClient{err: fmt.Errorf("%w: no socket", ipc.ErrDaemonUnreachable)}
	opened := 0
	got, err := fetchMonitors(client, false, localLocator(&opened))
	if err != nil {
		t.Fatalf("fetchMonitors: %v", err)
	}
	if opened != 1 || len(got.Monitors) != 2 {
		t.Fatalf("expected local monitors, opened=%d got=%+v", opened, got)
	}
	if got.Monitors[0].UnderMouse || !got.Monitors[1].UnderMouse {
		t.Fatalf("expected side monitor under the mouse: %+v", got.Monitors)
	}
}

func TestFetchMonitors_DaemonErrorIsReturned(t *testing.T) {
	boom := errors.New("daemon error: no monitors")
	client := &fakeMonitorsClient{err: boom}
	opened := 0
	if _, err := fetchMonitors(client, false, localLocator(&opened)); !errors.Is(err, boom) || opened != 0 {
		t.Fatalf("expected daemon error passed through, err=%v opened=%d", err, opened)
	}
}

func TestFetchMonitors_LocalSkipsDaemon(t *testing.T) {
	client := &fakeMonitorsClient{}
	opened := 0
	if _, err := fetchMonitors(client, true, localLocator(&opened)); err != nil {
		t.Fatalf("fetchMonitors: %v", err)
	}
	if client.calls != 0 || opened != 1 {
		t.Fatalf("expected only the local locator, calls=%d opened=%d", client.calls, opened)
	}
}
