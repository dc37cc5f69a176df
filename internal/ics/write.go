package ics

import (
	"touhoucal/internal/fileutil"
	appLog "touhoucal/internal/log"
)

// WriteFile replaces path with the calendar content.
func WriteFile(path, content string) error {
	if err := fileutil.WriteAtomic(path, []byte(content), 0o644); err != nil {
		return err
	}
	appLog.Debug("calendar written", "path", path, "bytes", len(content))
	return nil
}
