package handler

import (
	"github.com/visitroute/visitroute/internal/api/models"
	"github.com/visitroute/visitroute/internal/catalog"
	"github.com/visitroute/visitroute/internal/itinerary"
	"github.com/visitroute/visitroute/internal/plan"
	"github.com/visitroute/visitroute/internal/recommend"
)

func toSwipes(in []models.SwipeInput) []catalog.Swipe {
	out := make([]catalog.Swipe, len(in))
	for i, s := range in {
		out[i] = catalog.Swipe{ActivityID: s.ActivityID, Liked: s.Like}
	}
	return out
}

func toScoredActivity(s recommend.ScoredActivity) models.ScoredActivity {
	return models.ScoredActivity{
		ActivityID:      s.ID,
		Name:            s.Name,
		SectionID:       s.SectionID,
		OpeningTime:     itinerary.FormatClock(s.OpeningTime),
		ClosingTime:     itinerary.FormatClock(s.ClosingTime),
		DurationMinutes: s.Duration,
		Location:        models.Point{Lat: s.Location.Lat, Lon: s.Location.Lon},
		Score:           s.Score,
	}
}

func toItinerary(it *itinerary.Itinerary) models.Itinerary {
	visits := make([]models.ItineraryVisit, len(it.Visits))
	for i, v := range it.Visits {
		visits[i] = models.ItineraryVisit{
			ActivityID:      v.ActivityID,
			ActivityName:    v.ActivityName,
			SectionID:       v.SectionID,
			Arrival:         itinerary.FormatClock(v.Arrival),
			Departure:       itinerary.FormatClock(v.Departure),
			DurationMinutes: v.Duration,
			WaitMinutes:     v.Wait,
			TravelMinutes:   v.TravelFromPrevious,
			Score:           v.RecommendationScore,
		}
	}
	return models.Itinerary{
		Visits: visits,
		Stats: models.ItineraryStats{
			TravelMinutes: it.Stats.TotalTravel,
			VisitMinutes:  it.Stats.TotalVisit,
			WaitMinutes:   it.Stats.TotalWait,
			Activities:    it.Stats.Activities,
		},
	}
}

func toPlan(p *plan.Plan) models.Plan {
	return models.Plan{
		ID:        p.ID,
		Title:     p.Title,
		Itinerary: toItinerary(&p.Itinerary),
		CreatedAt: models.Timestamp(p.CreatedAt),
	}
}
