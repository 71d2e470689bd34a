package monkeytype

import (
	"strconv"

	"github.com/typebadge/typebadge/internal/model"
)

// parseRuns extracts wpm/acc pairs from decoded scoreboard entries. The
// fields are coerced independently so a run with a bad accuracy value still
// contributes its speed. Entries that are not objects stay in the batch as
// empty runs; only a fully empty payload counts as no data.
func parseRuns(entries []any) []model.Run {
	runs := make([]model.Run, 0, len(entries))
	for _, entry := range entries {
		var run model.Run
		if record, ok := entry.(map[string]any); ok {
			if raw, ok := record["wpm"]; ok {
				if v, ok := toFloat64(raw); ok {
					run.WPM = &v
				}
			}
			if raw, ok := record["acc"]; ok {
				if v, ok := toFloat64(raw); ok {
					run.Acc = &v
				}
			}
		}
		runs = append(runs, run)
	}
	return runs
}

func toFloat64(v any) (float64, bool) {
	switch num := v.(type) {
	case float64:
		return num, true
	case string:
		if num == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
