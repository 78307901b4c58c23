package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/litescript/ls-stellar/internal/astro"
	"github.com/litescript/ls-stellar/internal/evolution"
	"github.com/litescript/ls-stellar/internal/population"
	"github.com/litescript/ls-stellar/internal/stars"
)

// Run is one population generation.
type Run struct {
	ID            string `gorm:"primaryKey;size:36"`
	CreatedAt     time.Time
	MaxDistanceLy float64
	Drawn         int
	Kept          int
	Params        datatypes.JSON
	Stars         []StarRecord `gorm:"foreignKey:RunID"`
}

// RunParams are the generator settings saved with a run.
type RunParams struct {
	StarsPerCubicLy  float64 `json:"stars_per_cubic_ly"`
	ThinDiskAgeYears float64 `json:"thin_disk_age_years"`
	MaxChunkSize     int     `json:"max_chunk_size"`
	Workers          int     `json:"workers"`
	Seed             uint64  `json:"seed"`
}

// StarRecord is a star row. Drift rates are only meaningful when
// HasLifestage is set. Reference stars carry an age but no evolution age.
type StarRecord struct {
	ID                 uint   `gorm:"primaryKey"`
	RunID              string `gorm:"size:36;index"`
	Name               string
	MassSolar          float64
	AgeYears           *float64
	LuminositySolar    float64
	TemperatureK       float64
	RadiusSolar        *float64
	DistanceLy         float64
	DirX               float64
	DirY               float64
	DirZ               float64
	EvolutionAgeYears  *float64
	LifetimeYears      float64
	Fate               string `gorm:"size:32"`
	HasLifestage       bool
	MassPerYear        float64
	RadiusPerYear      float64
	LuminosityPerYear  float64
	TemperaturePerYear float64
}

// RunInput is what SaveRun needs to record a generation. Config.Seed must be
// the seed the run actually used so that it can be replayed.
type RunInput struct {
	MaxDistanceLy float64
	Drawn         int
	Config        population.Config
	Stars         []stars.Star
}

func newRun(in RunInput) (*Run, error) {
	params, err := json.Marshal(RunParams{
		StarsPerCubicLy:  in.Config.StarsPerCubicLy,
		ThinDiskAgeYears: in.Config.ThinDiskAgeYears,
		MaxChunkSize:     in.Config.MaxChunkSize,
		Workers:          in.Config.Workers,
		Seed:             in.Config.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("encode run params: %w", err)
	}

	run := &Run{
		ID:            uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
		MaxDistanceLy: in.MaxDistanceLy,
		Drawn:         in.Drawn,
		Kept:          len(in.Stars),
		Params:        datatypes.JSON(params),
		Stars:         make([]StarRecord, 0, len(in.Stars)),
	}
	for _, s := range in.Stars {
		rec := recordOf(s)
		rec.RunID = run.ID
		run.Stars = append(run.Stars, rec)
	}
	return run, nil
}

func recordOf(s stars.Star) StarRecord {
	v := s.Direction.Vec()
	rec := StarRecord{
		Name:            s.Name,
		MassSolar:       s.MassSolar,
		AgeYears:        s.AgeYears,
		LuminositySolar: s.LuminositySolar,
		TemperatureK:    s.TemperatureK,
		RadiusSolar:     s.RadiusSolar,
		DistanceLy:      s.DistanceLy,
		DirX:            v.X,
		DirY:            v.Y,
		DirZ:            v.Z,
		LifetimeYears:   s.Evolution.Lifetime(),
		Fate:            s.Evolution.Fate().String(),
	}
	if age, ok := s.Evolution.Age(); ok {
		rec.EvolutionAgeYears = &age
	}
	if ls, ok := s.Evolution.Lifestage(); ok {
		rec.HasLifestage = true
		rec.MassPerYear = ls.MassPerYear
		rec.RadiusPerYear = ls.RadiusPerYear
		rec.LuminosityPerYear = ls.LuminosityPerYear
		rec.TemperaturePerYear = ls.TemperaturePerYear
	}
	return rec
}

// Star rebuilds the star, including its evolution.
func (r StarRecord) Star() (stars.Star, error) {
	fate, err := evolution.ParseFate(r.Fate)
	if err != nil {
		return stars.Star{}, fmt.Errorf("star %d: %w", r.ID, err)
	}
	dir, err := astro.NewDirection(astro.Vec3{X: r.DirX, Y: r.DirY, Z: r.DirZ})
	if err != nil {
		return stars.Star{}, fmt.Errorf("star %d: %w", r.ID, err)
	}

	var ls *evolution.Lifestage
	if r.HasLifestage {
		ls = &evolution.Lifestage{
			MassPerYear:        r.MassPerYear,
			RadiusPerYear:      r.RadiusPerYear,
			LuminosityPerYear:  r.LuminosityPerYear,
			TemperaturePerYear: r.TemperaturePerYear,
		}
	}

	return stars.Star{
		Name:            r.Name,
		MassSolar:       r.MassSolar,
		AgeYears:        r.AgeYears,
		LuminositySolar: r.LuminositySolar,
		TemperatureK:    r.TemperatureK,
		Color:           astro.ColorFromTemperature(r.TemperatureK),
		RadiusSolar:     r.RadiusSolar,
		DistanceLy:      r.DistanceLy,
		Direction:       dir,
		Evolution:       evolution.New(ls, r.EvolutionAgeYears, r.LifetimeYears, fate),
	}, nil
}

// Population rebuilds the stars of a loaded run.
func (r *Run) Population() ([]stars.Star, error) {
	out := make([]stars.Star, 0, len(r.Stars))
	for _, rec := range r.Stars {
		s, err := rec.Star()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Settings decodes the generator settings of the run.
func (r *Run) Settings() (RunParams, error) {
	return decodeParams(r.Params)
}
