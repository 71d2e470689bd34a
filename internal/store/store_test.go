package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/typebadge/typebadge/internal/model"
)

func TestInsertAndListSnapshots(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "typebadge.db")
	st, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	base := time.Unix(0, 0).UTC()
	for i := 0; i < 3; i++ {
		snap := model.Snapshot{
			FetchedAt: base.Add(time.Duration(i) * time.Hour),
			Username:  "luke",
			BestWPM:   100 + i,
			AvgAcc:    95.5,
			Runs:      10,
		}
		if _, err := st.InsertSnapshot(ctx, snap); err != nil {
			t.Fatalf("insert snapshot: %v", err)
		}
	}
	if _, err := st.InsertSnapshot(ctx, model.Snapshot{
		FetchedAt: base.Add(30 * time.Minute),
		Username:  "other",
		BestWPM:   70,
		AvgAcc:    90,
		Runs:      2,
	}); err != nil {
		t.Fatalf("insert snapshot: %v", err)
	}

	snaps, err := st.ListSnapshots(ctx, model.HistoryConfig{Username: "luke"})
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(snaps))
	}
	for i := 1; i < len(snaps); i++ {
		if snaps[i].FetchedAt.Before(snaps[i-1].FetchedAt) {
			t.Fatalf("snapshots not ordered by fetch time: %+v", snaps)
		}
	}
	if snaps[0].BestWPM != 100 || snaps[2].BestWPM != 102 {
		t.Fatalf("unexpected snapshot order: %+v", snaps)
	}

	last, err := st.ListSnapshots(ctx, model.HistoryConfig{Username: "luke", Last: 2})
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(last) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(last))
	}
	if last[0].BestWPM != 101 {
		t.Fatalf("expected last-N window, got %+v", last)
	}

	all, err := st.ListSnapshots(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 snapshots, got %d", len(all))
	}
}
