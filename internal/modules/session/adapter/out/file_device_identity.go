package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	sessionout "dawn/internal/modules/session/port/out"
)

// FileDeviceIdentity persists a random device id in the data directory the
// first time it is asked for one.
type FileDeviceIdentity struct {
	mu   sync.Mutex
	path string
}

func NewFileDeviceIdentity(dataDir string) sessionout.DeviceIdentity {
	return &FileDeviceIdentity{path: filepath.Join(dataDir, "device-id")}
}

func (d *FileDeviceIdentity) DeviceID(_ context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	payload, err := os.ReadFile(d.path)
	if err == nil {
		if id := strings.TrimSpace(string(payload)); id != "" {
			return id, nil
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("read device id: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return "", fmt.Errorf("create device id dir: %w", err)
	}
	id := uuid.NewString()
	if err := os.WriteFile(d.path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("write device id: %w", err)
	}
	return id, nil
}
