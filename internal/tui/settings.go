package tui

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/1broseidon/tbsim/internal/dock"
	"github.com/1broseidon/tbsim/internal/settings"
)

// ErrCancelled is returned when the user leaves the form without saving.
var ErrCancelled = errors.New("settings edit cancelled")

// SettingsClient reads and writes the daemon's persisted settings.
type SettingsClient interface {
	GetSettings() (*settings.Values, error)
	SetSettings(v settings.Values) error
}

// SettingsForm edits the user-facing settings. Values are bound as strings
// for huh and converted on submit.
type SettingsForm struct {
	base settings.Values

	fDocking string
	fTimeout string
}

// NewSettingsForm starts from the current values.
func NewSettingsForm(v settings.Values) *SettingsForm {
	return &SettingsForm{
		base:     v,
		fDocking: string(v.Docking),
		fTimeout: strconv.FormatFloat(v.DetectionTimeout, 'f', -1, 64),
	}
}

// Form builds the huh form bound to f.
func (f *SettingsForm) Form() *huh.Form {
	dockingOpts := []huh.Option[string]{
		huh.NewOption("Floating", string(dock.Floating)),
		huh.NewOption("Docked to top", string(dock.DockedToTop)),
		huh.NewOption("Docked to bottom", string(dock.DockedToBottom)),
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("docking").
				Title("Docking").
				Description("Where the Touch Bar window sits").
				Options(dockingOpts...).
				Value(&f.fDocking),

			huh.NewInput().
				Key("detection_timeout").
				Title("Hide After").
				Description("Seconds a docked window stays shown after the mouse leaves").
				Validate(validateTimeout).
				Value(&f.fTimeout),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

// Values converts the bound fields back into settings.
func (f *SettingsForm) Values() (settings.Values, error) {
	v := f.base
	d, err := dock.ParseDocking(f.fDocking)
	if err != nil {
		return settings.Values{}, err
	}
	v.Docking = d

	secs, err := parseTimeout(f.fTimeout)
	if err != nil {
		return settings.Values{}, err
	}
	v.DetectionTimeout = secs

	if err := v.Validate(); err != nil {
		return settings.Values{}, err
	}
	return v, nil
}

func parseTimeout(s string) (float64, error) {
	secs, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if secs <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return secs, nil
}

func validateTimeout(s string) error {
	_, err := parseTimeout(s)
	return err
}

// RunSettings shows the settings form and saves the result through client.
func RunSettings(client SettingsClient) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("settings requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	current, err := client.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	f := NewSettingsForm(*current)
	if err := f.Form().Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return err
	}

	v, err := f.Values()
	if err != nil {
		return err
	}
	if err := client.SetSettings(v); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
