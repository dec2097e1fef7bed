// Package trace reads and writes choice traces.
//
// A trace is a JSON-lines file with one object per choice:
//
//	{"seq":0,"machine":"Client(1)","bound":3,"value":2}
//
// Writer satisfies machine.Recorder, so a Chooser can stream its choices to
// disk as it makes them, and Load turns the file back into the choices a
// ReplayStrategy needs.
package trace

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/antithesishq/pforeign-go/machine"
	"github.com/antithesishq/pforeign-go/prt"
)

// Record is the wire form of a machine.Choice.
type Record struct {
	Seq     uint64  `json:"seq"`
	Machine string  `json:"machine"`
	Bound   prt.Int `json:"bound"`
	Value   prt.Int `json:"value"`
}

func fromChoice(c machine.Choice) Record {
	return Record{Seq: c.Seq, Machine: c.Machine, Bound: c.Bound, Value: c.Value}
}

func (r Record) choice() machine.Choice {
	return machine.Choice{Seq: r.Seq, Machine: r.Machine, Bound: r.Bound, Value: r.Value}
}

// Writer is safe for concurrent use.
type Writer struct {
	mu     sync.Mutex
	out    *bufio.Writer
	closer io.Closer
}

var _ machine.Recorder = (*Writer)(nil)

func NewWriter(w io.Writer) *Writer {
	tw := &Writer{out: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		tw.closer = c
	}
	return tw
}

// Create opens path for writing, creating it if needed and truncating it.
func Create(path string) (*Writer, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening trace: %w", err)
	}
	return NewWriter(file), nil
}

// Record writes c and flushes, so a trace survives a crash of the run that
// produced it.
func (w *Writer) Record(c machine.Choice) error {
	data, err := json.Marshal(fromChoice(c))
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err = w.out.Write(append(data, '\n')); err != nil {
		return err
	}
	return w.out.Flush()
}

func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.out.Flush()
}

// Close flushes and closes the underlying writer if it is an io.Closer.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

// Read parses a trace. Blank lines are skipped.
func Read(r io.Reader) ([]machine.Choice, error) {
	var choices []machine.Choice
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(text, &rec); err != nil {
			return nil, fmt.Errorf("trace line %d: %w", line, err)
		}
		choices = append(choices, rec.choice())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return choices, nil
}

// Load reads the trace at path.
func Load(path string) ([]machine.Choice, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// ForMachine keeps the choices made by the machine called name, renumbered
// from zero so they can seed a ReplayStrategy.
func ForMachine(choices []machine.Choice, name string) []machine.Choice {
	var out []machine.Choice
	for _, c := range choices {
		if c.Machine != name {
			continue
		}
		c.Seq = uint64(len(out))
		out = append(out, c)
	}
	return out
}
