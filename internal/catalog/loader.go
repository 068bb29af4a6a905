package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/visitroute/visitroute/internal/interest"
	"github.com/visitroute/visitroute/pkg/geo"
)

// activityRecord is the on-disk catalog shape. Opening/closing times and
// durations are fractional hours; interest weights are flattened keys.
// Conversion to minutes happens exactly once, here at the boundary.
type activityRecord struct {
	ActivityID   string  `json:"activityId"`
	Name         string  `json:"name"`
	SectionID    string  `json:"sectionId"`
	OpeningTime  float64 `json:"openingTime"`
	ClosingTime  float64 `json:"closingTime"`
	Duration     float64 `json:"duration"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Architecture float64 `json:"interests.architecture"`
	Landscape    float64 `json:"interests.landscape"`
	Politic      float64 `json:"interests.politic"`
	History      float64 `json:"interests.history"`
	Courtlife    float64 `json:"interests.courtlife"`
	Art          float64 `json:"interests.art"`
	Engineering  float64 `json:"interests.engineering"`
	Spirituality float64 `json:"interests.spirituality"`
	Nature       float64 `json:"interests.nature"`
}

func (r activityRecord) toActivity() Activity {
	return Activity{
		ID:          r.ActivityID,
		Name:        r.Name,
		SectionID:   r.SectionID,
		OpeningTime: r.OpeningTime * 60,
		ClosingTime: r.ClosingTime * 60,
		Duration:    r.Duration * 60,
		Interests: interest.Vector{
			r.Architecture,
			r.Landscape,
			r.Politic,
			r.History,
			r.Courtlife,
			r.Art,
			r.Engineering,
			r.Spirituality,
			r.Nature,
		},
		Location: geo.Coordinate{Lat: r.Latitude, Lon: r.Longitude},
	}
}

// Load reads a JSON activity catalog and validates it.
func Load(r io.Reader) ([]Activity, error) {
	var records []activityRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	activities := make([]Activity, 0, len(records))
	for _, rec := range records {
		activities = append(activities, rec.toActivity())
	}

	if err := Validate(activities); err != nil {
		return nil, err
	}

	return activities, nil
}

// LoadFile reads a JSON activity catalog from disk.
func LoadFile(path string) ([]Activity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Validate checks catalog-wide invariants. Activity IDs and display names
// must be unique: names key the travel graph, so a duplicate would silently
// merge two distinct locations. Duplicates are rejected rather than resolved
// by first match.
func Validate(activities []Activity) error {
	if len(activities) == 0 {
		return ErrEmptyCatalog
	}

	ids := make(map[string]struct{}, len(activities))
	names := make(map[string]struct{}, len(activities))

	for _, a := range activities {
		if a.ID == "" {
			return fmt.Errorf("activity %q has an empty id", a.Name)
		}
		if a.Name == "" {
			return fmt.Errorf("activity %q has an empty name", a.ID)
		}
		if _, dup := ids[a.ID]; dup {
			return fmt.Errorf("duplicate activity id %q", a.ID)
		}
		if _, dup := names[a.Name]; dup {
			return fmt.Errorf("duplicate activity name %q", a.Name)
		}
		ids[a.ID] = struct{}{}
		names[a.Name] = struct{}{}

		if a.Duration < 0 {
			return fmt.Errorf("activity %q has a negative duration", a.Name)
		}
		if a.ClosingTime < a.OpeningTime {
			return fmt.Errorf("activity %q closes before it opens", a.Name)
		}
	}

	return nil
}
