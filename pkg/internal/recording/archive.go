package recording

import (
	"fmt"
	"io"
	"path"

	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
	"github.com/joeydtaylor/ecgflow/pkg/internal/utils"
)

// LoadArchive loads every *.txt entry of a .zip, .tar.gz or .tar archive. Entries in nested
// folders are keyed by their base name.
func LoadArchive(src string) (types.NamedSignalSet, error) {
	set := types.NamedSignalSet{}
	err := utils.WalkArchive(src, func(name string, r io.Reader) error {
		if path.Ext(name) != Extension {
			return nil
		}
		sig, err := Parse(r)
		if err != nil {
			return fmt.Errorf("recording %s: %w", name, err)
		}
		set[KeyFor(name)] = sig
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}
