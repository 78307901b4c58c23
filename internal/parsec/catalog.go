package parsec

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Trajectory is the age-ordered track of one mass slot.
type Trajectory []Snapshot

// ClosestSnapshotIndex returns the index of the snapshot whose age is nearest
// to ageYears. The earlier snapshot wins ties. An empty trajectory yields 0.
func (t Trajectory) ClosestSnapshotIndex(ageYears float64) int {
	best := 0
	bestDiff := 0.0
	for i, s := range t {
		diff := abs(s.Age - ageYears)
		if i == 0 || diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}
	return best
}

// ClosestSnapshot returns the snapshot whose age is nearest to ageYears.
// It panics on an empty trajectory.
func (t Trajectory) ClosestSnapshot(ageYears float64) Snapshot {
	return t[t.ClosestSnapshotIndex(ageYears)]
}

// LifeExpectancyYears returns the age of the last snapshot.
// It panics on an empty trajectory.
func (t Trajectory) LifeExpectancyYears() float64 {
	return t[len(t)-1].Age
}

// Catalog maps mass grid slots to trajectories. It is immutable once loaded
// and safe for concurrent reads.
type Catalog struct {
	trajectories [GridSize]Trajectory
}

// NewCatalog builds a catalog from already parsed trajectories keyed by slot.
// Slots outside the grid are ignored.
func NewCatalog(tracks map[int]Trajectory) *Catalog {
	c := &Catalog{}
	for i, t := range tracks {
		if i >= 0 && i < GridSize {
			c.trajectories[i] = append(Trajectory(nil), t...)
		}
	}
	return c
}

// Load parses every regular file in dir into a catalog.
func Load(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read track directory %s: %w", dir, errors.Join(ErrDataUnavailable, err))
	}

	c := &Catalog{}
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if err := c.readFile(filepath.Join(dir, entry.Name())); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// readFile appends the rows of one track file. The first row with a numeric
// mass fixes the slot for the whole file.
func (c *Catalog) readFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	slot := -1
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < minColumns {
			return fmt.Errorf("%s:%d: %d columns, need %d: %w",
				filepath.Base(path), lineNo, len(fields), minColumns, ErrDataUnavailable)
		}

		if slot < 0 {
			mass, err := strconv.ParseFloat(fields[colMass], 64)
			if err != nil {
				continue
			}
			slot = ClosestMassIndex(mass)
		}

		snap, ok := parseRow(fields)
		if !ok {
			continue
		}
		c.trajectories[slot] = append(c.trajectories[slot], snap)
	}
	if err := scanner.Err(); err != nil {
		return &IOError{Op: "read", Path: path, Err: err}
	}
	return nil
}

func parseRow(fields []string) (Snapshot, bool) {
	var vals [5]float64
	for i, col := range [...]int{colMass, colAge, colLogL, colLogTe, colLogR} {
		v, err := strconv.ParseFloat(fields[col], 64)
		if err != nil {
			return Snapshot{}, false
		}
		vals[i] = v
	}
	return Snapshot{Mass: vals[0], Age: vals[1], LogL: vals[2], LogTe: vals[3], LogR: vals[4]}, true
}

// Len returns the number of mass slots.
func (c *Catalog) Len() int {
	return GridSize
}

// Trajectory returns the trajectory of slot i. It panics if i is out of range.
func (c *Catalog) Trajectory(i int) Trajectory {
	if i < 0 || i >= GridSize {
		panic(fmt.Sprintf("parsec: trajectory index %d out of range [0,%d)", i, GridSize))
	}
	return c.trajectories[i]
}

// Populated returns the indices of the slots that hold at least one snapshot.
func (c *Catalog) Populated() []int {
	var idx []int
	for i, t := range c.trajectories {
		if len(t) > 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// ParamsForMassAndAge returns the snapshot nearest to the given age in the
// slot nearest to massSolar. Mass loss means a slot's current mass can fall
// below the request, in which case heavier slots are tried.
func (c *Catalog) ParamsForMassAndAge(massSolar, ageYears float64) (Snapshot, bool) {
	var (
		snap  Snapshot
		found bool
	)
	for i := ClosestMassIndex(massSolar); i < GridSize; i++ {
		t := c.trajectories[i]
		if len(t) == 0 {
			continue
		}
		snap, found = t.ClosestSnapshot(ageYears), true
		if snap.Mass >= massSolar {
			break
		}
	}
	return snap, found
}
