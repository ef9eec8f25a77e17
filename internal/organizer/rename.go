package organizer

import (
	"errors"
	"io/fs"
	"os"
)

var errDestinationExists = errors.New("destination already exists")

// renameChecked refuses to replace an existing destination. The check and
// the rename are separate steps; renameNoReplace uses it only where the
// platform offers nothing atomic.
func renameChecked(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return errDestinationExists
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.Rename(src, dst)
}
