package entries

import (
	"fmt"

	"github.com/flowsilk/flowpack/header"
)

// FileVersionLegacy carries a pre-header-entry file's bare version byte,
// encountered only when reading a legacy-format stream. The write path never
// emits it.
type FileVersionLegacy struct {
	Version uint8
}

func (e *FileVersionLegacy) Type() header.EntryType { return header.ENTRY_FILE_VERSION_LEGACY }

func (e *FileVersionLegacy) Marshal(dst []byte) []byte {
	return append(dst, e.Version)
}

func (e *FileVersionLegacy) Unmarshal(src []byte) error {
	if len(src) < 1 {
		return fmt.Errorf("entries: file-version-legacy: truncated")
	}
	e.Version = src[0]
	return nil
}

func (e *FileVersionLegacy) ToJSON(dst []byte) []byte {
	return append(dst, fmt.Sprintf(`%d`, e.Version)...)
}
