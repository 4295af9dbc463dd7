package shared

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// EnvBrowser names a browser command that takes precedence over the platform default.
const EnvBrowser = "BROWSER"

// OpenBrowser opens url in the browser named by $BROWSER, or the system default.
//
// Used by `pldiff auth login` to start the authorization flow. Supports macOS, Linux, and Windows.
func OpenBrowser(url string) error {
	cmd, err := browserCommand(runtime.GOOS, os.Getenv(EnvBrowser), url)
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}

func browserCommand(goos, override, url string) (*exec.Cmd, error) {
	if override != "" {
		return exec.Command(override, url), nil
	}

	switch goos {
	case "darwin":
		return exec.Command("open", url), nil
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", url), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}
