// Package recording loads raw sensor traces into a NamedSignalSet and converts them to volts.
package recording

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
)

// ADCScale converts 10-bit ADC counts on a 5 V reference to volts.
const ADCScale = 5.0 / 1023.0

// Extension is the file suffix of a recording; the base name without it is the recording key.
const Extension = ".txt"

// Parse reads whitespace-separated numbers from r into a signal.
func Parse(r io.Reader) (types.Signal, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 1<<20)
	sc.Split(bufio.ScanWords)

	sig := types.Signal{}
	for sc.Scan() {
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", len(sig), err)
		}
		sig = append(sig, v)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return sig, nil
}

// KeyFor returns the recording key for a file or object name.
func KeyFor(name string) string {
	return strings.TrimSuffix(filepath.Base(name), Extension)
}

// LoadDir loads every *.txt file directly inside dir.
func LoadDir(dir string) (types.NamedSignalSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	set := types.NamedSignalSet{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Extension {
			continue
		}
		sig, err := loadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("recording %s: %w", e.Name(), err)
		}
		set[KeyFor(e.Name())] = sig
	}
	return set, nil
}

func loadFile(path string) (types.Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Scale multiplies every sample of every signal by factor and returns a new set.
func Scale(set types.NamedSignalSet, factor float64) types.NamedSignalSet {
	out := make(types.NamedSignalSet, len(set))
	for k, sig := range set {
		out[k] = ScaleSignal(sig, factor)
	}
	return out
}

// ScaleSignal returns sig multiplied by factor.
func ScaleSignal(sig types.Signal, factor float64) types.Signal {
	out := make(types.Signal, len(sig))
	for i, v := range sig {
		out[i] = v * factor
	}
	return out
}

// Truncate keeps the first seconds*fs samples. Non-positive seconds or a shorter signal return
// a full copy.
func Truncate(sig types.Signal, seconds, fs float64) types.Signal {
	n := int(seconds * fs)
	if seconds <= 0 || n >= len(sig) {
		return sig.Clone()
	}
	return sig[:n].Clone()
}
