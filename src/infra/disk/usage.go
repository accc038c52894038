package disk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/disk"
)

// Probe measures the space available to unprivileged users on the volume
// holding path (available blocks × block size).
type Probe struct {
	path string
}

// NewProbe creates a probe for path. A leading "~" is the user's home.
func NewProbe(path string) (*Probe, error) {
	expanded, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	return &Probe{path: expanded}, nil
}

// Path returns the probed path.
func (p *Probe) Path() string {
	return p.path
}

// FreeBytes returns the available bytes.
func (p *Probe) FreeBytes(ctx context.Context) (uint64, error) {
	usage, err := disk.UsageWithContext(ctx, p.path)
	if err != nil {
		return 0, fmt.Errorf("failed to read disk usage of %s: %w", p.path, err)
	}
	return usage.Free, nil
}

func expandHome(path string) (string, error) {
	if path == "" || path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/")), nil
	}
	return path, nil
}
