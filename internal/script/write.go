package script

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile replaces dir/name with text.
func WriteFile(dir, name, text string) error {
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
