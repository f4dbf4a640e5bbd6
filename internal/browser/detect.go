// Package browser provides Chrome/Chromedp initialization and configuration.
package browser

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// DetectBrowser attempts to find a Chrome/Chromium executable on the system.
// Returns the path to the executable, or empty string if not found.
func DetectBrowser() string {
	var candidates []string

	switch runtime.GOOS {
	case "windows":
		candidates = windowsCandidates()
	case "darwin":
		candidates = macOSCandidates()
	default: // linux and others
		candidates = linuxCandidates()
	}

	for _, path := range candidates {
		if path == "" {
			continue
		}
		expanded := os.ExpandEnv(path)
		if _, err := os.Stat(expanded); err == nil {
			return expanded
		}
	}

	// Fallback: try to find in PATH
	for _, name := range []string{"chrome", "chromium", "chromium-browser", "google-chrome"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

func windowsCandidates() []string {
	localAppData := os.Getenv("LOCALAPPDATA")
	programFiles := os.Getenv("ProgramFiles")
	programFilesX86 := os.Getenv("ProgramFiles(x86)")

	return []string{
		filepath.Join(programFiles, "Google", "Chrome", "Application", "chrome.exe"),
		filepath.Join(programFilesX86, "Google", "Chrome", "Application", "chrome.exe"),
		filepath.Join(localAppData, "Google", "Chrome", "Application", "chrome.exe"),
		filepath.Join(programFiles, "Chromium", "Application", "chrome.exe"),
		filepath.Join(localAppData, "Chromium", "Application", "chrome.exe"),
		filepath.Join(programFiles, "Microsoft", "Edge", "Application", "msedge.exe"),
		filepath.Join(programFilesX86, "Microsoft", "Edge", "Application", "msedge.exe"),
	}
}

func macOSCandidates() []string {
	return []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		os.ExpandEnv("$HOME/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"),
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
	}
}

func linuxCandidates() []string {
	return []string{
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/var/lib/flatpak/exports/bin/com.google.Chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/snap/bin/chromium",
		"/var/lib/flatpak/exports/bin/org.chromium.Chromium",
		"/usr/bin/microsoft-edge-stable",
	}
}

// DefaultProfilePath returns a dedicated browser profile path for the
// current OS, kept separate from the user's main browser profile so
// the portal session does not clash with open browser windows.
func DefaultProfilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(homeDir, ".ldar-scraper-profile")
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", "ldar-scraper-profile")
	default: // linux
		return filepath.Join(homeDir, ".config", "ldar-scraper-profile")
	}
}
