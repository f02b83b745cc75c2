// Package replay records and re-runs keyfall input streams.
//
// A recording holds the seed, the configuration and every tick that carried
// intents. Replaying it on a fresh engine reproduces the run exactly, which
// Play verifies against the recorded final hash.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/keyfall/internal/config"
	"github.com/vovakirdan/keyfall/internal/games/keyfall/engine"
)

// Version is the recording format written by this package.
const Version = 1

var (
	// ErrVersion is returned when a recording was written by another format version.
	ErrVersion = errors.New("replay: unsupported recording version")
	// ErrMismatch is returned when a replay ends in a different state.
	ErrMismatch = errors.New("replay: final state mismatch")
)

// Tick holds the intents consumed by engine tick N.
type Tick struct {
	N      uint64         `msgpack:"n"`
	Inputs []engine.Input `msgpack:"in"`
}

// Recording is a replayable run.
type Recording struct {
	Version   int             `msgpack:"version"`
	Seed      int64           `msgpack:"seed"`
	TickRate  int             `msgpack:"tick_rate"`
	Config    []byte          `msgpack:"config"` // YAML, same schema as keyfall.yaml
	Ticks     []Tick          `msgpack:"ticks"`
	Total     uint64          `msgpack:"total"`
	Hash      uint64          `msgpack:"hash"`
	Final     engine.Snapshot `msgpack:"final"`
	CreatedAt time.Time       `msgpack:"created_at"`
}

// New starts a recording for a run of cfg with seed.
func New(cfg config.KeyfallConfig, seed int64, tickRate int) (*Recording, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("replay: cannot encode config: %w", err)
	}
	if tickRate <= 0 {
		tickRate = 60
	}
	return &Recording{
		Version:   Version,
		Seed:      seed,
		TickRate:  tickRate,
		Config:    data,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Record stores the intents pushed before tick n. Empty ticks are skipped.
func (r *Recording) Record(n uint64, inputs []engine.Input) {
	if len(inputs) == 0 {
		return
	}
	r.Ticks = append(r.Ticks, Tick{N: n, Inputs: append([]engine.Input(nil), inputs...)})
}

// Finish seals the recording with the final state.
func (r *Recording) Finish(snap engine.Snapshot) {
	r.Total = snap.Tick
	r.Hash = snap.Hash()
	r.Final = snap
}

// Dt returns the simulated time per tick.
func (r *Recording) Dt() time.Duration {
	if r.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(r.TickRate)
}

// LoadConfig decodes and validates the embedded configuration.
func (r *Recording) LoadConfig() (config.KeyfallConfig, error) {
	cfg, err := config.ParseKeyfall(r.Config)
	if err != nil {
		return config.KeyfallConfig{}, fmt.Errorf("replay: %w", err)
	}
	return cfg, nil
}

// Driver picks the intents for the next tick from the current state.
type Driver func(engine.Snapshot) []engine.Input

// Run advances e for up to ticks ticks, or until the run ends, feeding it
// what drive returns and recording every intent.
func Run(e *engine.Engine, rec *Recording, ticks int, drive Driver) engine.Snapshot {
	dt := rec.Dt()
	for range ticks {
		snap := e.Snapshot()
		if snap.GameOver {
			break
		}
		inputs := drive(snap)
		rec.Record(snap.Tick+1, inputs)
		for _, in := range inputs {
			e.Push(in)
		}
		e.Step(engine.Frame{Dt: dt, Ship: e.DefaultShip()})
	}
	final := e.Snapshot()
	rec.Finish(final)
	return final
}

// Result is the outcome of Play.
type Result struct {
	Snapshot engine.Snapshot
	Hash     uint64
}

// Play re-runs r on a fresh engine and checks the final hash.
func Play(r *Recording, logger *log.Logger) (Result, error) {
	cfg, err := r.LoadConfig()
	if err != nil {
		return Result{}, err
	}

	e := engine.New(cfg, engine.Options{Logger: logger, Seed: r.Seed})
	dt := r.Dt()
	next := 0
	for n := uint64(1); n <= r.Total; n++ {
		for next < len(r.Ticks) && r.Ticks[next].N <= n {
			for _, in := range r.Ticks[next].Inputs {
				e.Push(in)
			}
			next++
		}
		e.Step(engine.Frame{Dt: dt, Ship: e.DefaultShip()})
	}

	snap := e.Snapshot()
	res := Result{Snapshot: snap, Hash: snap.Hash()}
	if res.Hash != r.Hash {
		return res, fmt.Errorf("%w: recorded %016x, replayed %016x", ErrMismatch, r.Hash, res.Hash)
	}
	return res, nil
}

// Encode writes r as msgpack.
func Encode(w io.Writer, r *Recording) error {
	if err := msgpack.NewEncoder(w).Encode(r); err != nil {
		return fmt.Errorf("replay: cannot encode recording: %w", err)
	}
	return nil
}

// Decode reads a msgpack recording.
func Decode(rd io.Reader) (*Recording, error) {
	var r Recording
	if err := msgpack.NewDecoder(rd).Decode(&r); err != nil {
		return nil, fmt.Errorf("replay: cannot decode recording: %w", err)
	}
	if r.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, r.Version)
	}
	return &r, nil
}

// Save writes r to path.
func Save(path string, r *Recording) error {
	f, err := os.Create(path) //#nosec G304 -- user-provided output path
	if err != nil {
		return fmt.Errorf("replay: cannot create %s: %w", path, err)
	}
	if err := Encode(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a recording from path.
func Load(path string) (*Recording, error) {
	f, err := os.Open(path) //#nosec G304 -- user-provided input path
	if err != nil {
		return nil, fmt.Errorf("replay: cannot open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
