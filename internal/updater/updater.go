// Package updater checks for and applies new releases of the binary
// using GitHub releases.
package updater

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creativeprojects/go-selfupdate"

	"github.com/smazurov/mjpeggrab/internal/logging"
	"github.com/smazurov/mjpeggrab/internal/version"
)

// DefaultRepository is the GitHub repository releases are fetched from.
const DefaultRepository = "smazurov/mjpeggrab"

// UpdateInfo describes the result of an update check.
type UpdateInfo struct {
	CurrentVersion  string
	LatestVersion   string
	ReleaseNotes    string
	ReleaseURL      string
	PublishedAt     time.Time
	UpdateAvailable bool
}

// Updater checks for and applies binary updates.
type Updater struct {
	repository selfupdate.Repository
	updater    *selfupdate.Updater
	logger     logging.Logger
}

// New creates an updater for the given repository slug (e.g. "owner/repo").
func New(repository string, prerelease bool) (*Updater, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub source: %w", err)
	}

	u, err := selfupdate.NewUpdater(selfupdate.Config{
		Source:     source,
		Prerelease: prerelease,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}

	return &Updater{
		repository: selfupdate.ParseSlug(repository),
		updater:    u,
		logger:     logging.GetLogger("updater"),
	}, nil
}

// Check queries the repository for the latest release and compares it
// against the running version without downloading anything.
func (u *Updater) Check(ctx context.Context) (*UpdateInfo, error) {
	currentVersion := version.Version

	release, found, err := u.updater.DetectLatest(ctx, u.repository)
	if err != nil {
		return nil, fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("repository not found or has no releases")
	}

	// Dev builds are always considered outdated
	isNewer := currentVersion == "dev" || release.GreaterThan(currentVersion)

	info := &UpdateInfo{
		CurrentVersion:  currentVersion,
		LatestVersion:   release.Version(),
		UpdateAvailable: isNewer,
	}
	if isNewer {
		info.ReleaseNotes = release.ReleaseNotes
		info.ReleaseURL = release.URL
		info.PublishedAt = release.PublishedAt
	}
	return info, nil
}

// Apply downloads the latest release and replaces the running binary.
func (u *Updater) Apply(ctx context.Context) (*UpdateInfo, error) {
	if canWrite, reason := checkWritePermission(); !canWrite {
		return nil, fmt.Errorf("cannot update: %s", reason)
	}

	info, err := u.Check(ctx)
	if err != nil {
		return nil, err
	}
	if !info.UpdateAvailable {
		return info, nil
	}

	release, found, err := u.updater.DetectLatest(ctx, u.repository)
	if err != nil || !found {
		return nil, fmt.Errorf("failed to fetch release: %w", err)
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	u.logger.Info("Applying update",
		"from", info.CurrentVersion, "to", release.Version())

	if err := u.updater.UpdateTo(ctx, release, exe); err != nil {
		return nil, fmt.Errorf("failed to apply update: %w", err)
	}

	return info, nil
}

// checkWritePermission verifies the binary's directory is writable before
// attempting an in-place replacement.
func checkWritePermission() (bool, string) {
	exe, err := os.Executable()
	if err != nil {
		return false, fmt.Sprintf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return false, fmt.Sprintf("failed to resolve symlinks: %v", err)
	}

	dir := filepath.Dir(exe)

	// Try creating temp file in same directory
	tmp := filepath.Join(dir, ".mjpeggrab.update.test")
	f, err := os.Create(tmp)
	if err != nil {
		return false, fmt.Sprintf("no write permission to %s: %v", dir, err)
	}
	f.Close()
	os.Remove(tmp)
	return true, ""
}
