package brain

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/stephen-netu/brain-bridge/internal/errors"
)

// writeDocument atomically replaces the context document at path.
// The text lands via a temp file and rename so no reader ever observes
// a partial document.
func writeDocument(fs afero.Fs, path, content string) error {
	dir := filepath.Dir(path)

	tmp, err := afero.TempFile(fs, dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return errors.NewWriteError(path, err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			tmp.Close()
			_ = fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.WriteString(content); err != nil {
		return errors.NewWriteError(path, err)
	}
	if err := tmp.Sync(); err != nil {
		return errors.NewWriteError(path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewWriteError(path, err)
	}

	if err := fs.Rename(tmpName, path); err != nil {
		return errors.NewWriteError(path, err)
	}

	success = true
	return nil
}
