package browser

import (
	"os"
	"runtime"

	"github.com/adrg/xdg"
)

// Env holds the host facts the Locator needs.
type Env struct {
	// GOOS is the target operating system ("linux", "darwin", "windows").
	GOOS string
	// Home is the user's home directory.
	Home string
	// AppData is %APPDATA% on Windows.
	AppData string
	// LocalAppData is %LOCALAPPDATA% on Windows.
	LocalAppData string
	// ConfigHome is the XDG config home on Linux.
	ConfigHome string
}

// DefaultEnv returns the Env of the running process.
func DefaultEnv() Env {
	home, err := os.UserHomeDir()
	if err != nil {
		home = xdg.Home
	}
	return Env{
		GOOS:         runtime.GOOS,
		Home:         home,
		AppData:      os.Getenv("APPDATA"),
		LocalAppData: os.Getenv("LOCALAPPDATA"),
		ConfigHome:   xdg.ConfigHome,
	}
}
