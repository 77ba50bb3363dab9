package stats

import (
	"context"

	"github.com/verte-zerg/inkbound/internal/model"
)

// Source is the read side of the store a report is built from.
type Source interface {
	ListEncounters(ctx context.Context, cfg model.HistoryConfig) ([]model.EncounterAggregate, error)
	ListCharAggregates(ctx context.Context, ids []string) ([]model.CharAggregate, error)
	InkBalance(ctx context.Context) (int, error)
	LoadStandings(ctx context.Context) (map[string]int, error)
}

// Report contains precomputed data for history rendering.
type Report struct {
	Encounters     []model.EncounterAggregate
	WindowIDs      []string
	CharAggsAll    []model.CharAggregate
	CharAggsWindow []model.CharAggregate
	Ink            int
	Standings      map[string]int
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, st Source, cfg model.HistoryConfig) (Report, error) {
	encounters, err := st.ListEncounters(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	windowIDs := lastIDs(encounters, cfg.CurveWindow)
	charAggsAll, err := st.ListCharAggregates(ctx, encounterIDs(encounters))
	if err != nil {
		return Report{}, err
	}
	charAggsWindow, err := st.ListCharAggregates(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}
	ink, err := st.InkBalance(ctx)
	if err != nil {
		return Report{}, err
	}
	standings, err := st.LoadStandings(ctx)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Encounters:     encounters,
		WindowIDs:      windowIDs,
		CharAggsAll:    charAggsAll,
		CharAggsWindow: charAggsWindow,
		Ink:            ink,
		Standings:      standings,
	}, nil
}

func encounterIDs(encounters []model.EncounterAggregate) []string {
	ids := make([]string, len(encounters))
	for i, e := range encounters {
		ids[i] = e.ID
	}
	return ids
}

func lastIDs(encounters []model.EncounterAggregate, window int) []string {
	if window <= 0 || len(encounters) <= window {
		return encounterIDs(encounters)
	}
	return encounterIDs(encounters[len(encounters)-window:])
}
