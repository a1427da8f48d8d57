package relay

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"sourcesound/internal/fileutil"
	"sourcesound/internal/logging"
)

// Activator makes source the sound the game plays back from target.
type Activator interface {
	Activate(source, target string) error
}

// FileActivator replaces target with a byte-for-byte copy of source. If the
// old target cannot be removed it stays in place and the error is returned.
type FileActivator struct {
	Logger *slog.Logger
}

// Activate deletes target, ignoring a missing file, and copies source over.
func (a FileActivator) Activate(source, target string) error {
	if _, err := fileutil.RemoveIfExists(target); err != nil {
		return fmt.Errorf("remove previous sound: %w", err)
	}
	written, err := fileutil.CopyFile(source, target)
	if err != nil {
		return fmt.Errorf("copy %s: %w", source, err)
	}
	if a.Logger != nil {
		a.Logger.Info("sound activated",
			logging.String(logging.FieldEventType, "sound_activated"),
			logging.String("source", source),
			logging.String("target", target),
			logging.String("size", humanize.Bytes(uint64(written))),
		)
	}
	return nil
}
