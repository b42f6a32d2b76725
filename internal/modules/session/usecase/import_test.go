package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	protocolusecase "dawn/internal/modules/protocol/usecase"
	sessionout "dawn/internal/modules/session/adapter/out"
	sessiondto "dawn/internal/modules/session/dto"
	sessionin "dawn/internal/modules/session/port/in"
	"dawn/internal/modules/session/service"
	"dawn/internal/modules/session/usecase"
	apperrors "dawn/internal/platform/errors"
	"dawn/internal/platform/sqlitedb"
)

func localExport(base time.Time) sessiondto.LocalExport {
	score := func(n int) *int { return &n }
	done := func(t time.Time) *time.Time { t = t.Add(11 * time.Minute); return &t }
	shown := base.UnixMilli()
	return sessiondto.LocalExport{
		DeviceID:    "dev-local",
		DayIndex:    2,
		Entitlement: "free",
		Sessions: []sessiondto.LocalSession{
			{
				ID: "local-a", StartedAt: base, Context: "standard", ProtocolID: "standard-day0", DayIndex: 0,
				CompletedAt: done(base), ReactionPreScore: score(700), ReactionPostScore: score(760),
				EnergyPre: score(2), EnergyPost: score(9), MinutesSavedEst: score(4),
				ReactionPreEvents: []sessiondto.ReactionEvent{{Timestamp: shown + 290, StimulusShownAt: shown, ReactionTimeMS: 290}},
			},
			{
				ID: "local-b", StartedAt: base.AddDate(0, 0, 1), Context: "gentle", ProtocolID: "gentle-day1", DayIndex: 1,
				CompletedAt: done(base.AddDate(0, 0, 1)), ReactionPreScore: score(700),
			},
			{
				ID: "local-c", StartedAt: base.AddDate(0, 0, 2), Context: "standard", ProtocolID: "standard-day2", DayIndex: 2,
			},
		},
	}
}

func sqliteInteractor(t *testing.T) sessionin.Usecase {
	t.Helper()
	db, err := sqlitedb.Open(filepath.Join(t.TempDir(), "dawn.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo, err := sessionout.NewSQLiteSessionRepository(context.Background(), db)
	if err != nil {
		t.Fatalf("repo: %v", err)
	}
	clk := &fakeClock{now: time.Date(2026, 3, 4, 7, 0, 0, 0, time.UTC)}
	return usecase.NewInteractor(
		service.NewSessionService(clk, &fakeID{}),
		repo,
		protocolusecase.NewInteractor(),
		fakeEntitlements{plan: "plus"},
		nil,
		sqlitedb.NewTxManager(db),
		usecase.Policy{FreeFullSessions: 3, ProgramDays: 14, HistoryWindow: 5},
		nil,
		zap.NewNop(),
	)
}

func TestImportIsIdempotent(t *testing.T) {
	t.Parallel()
	uc := sqliteInteractor(t)
	ctx := context.Background()
	export := localExport(time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC))

	first, err := uc.Import(ctx, sessiondto.ImportInput{OwnerID: owner, Export: export})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if first.Imported != 2 || first.Updated != 0 || first.Skipped != 1 {
		t.Fatalf("unexpected first import: %+v", first)
	}
	second, err := uc.Import(ctx, sessiondto.ImportInput{OwnerID: owner, Export: export})
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if second.Imported != 0 || second.Updated != 2 {
		t.Fatalf("unexpected second import: %+v", second)
	}

	dash, err := uc.Dashboard(ctx, owner)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(dash.Sessions) != 2 || dash.DayIndex != 2 || dash.TotalMinutesSaved != 4 {
		t.Fatalf("unexpected dashboard after import: %+v", dash)
	}
	if dash.Sessions[1].EnergyPost != nil {
		t.Fatalf("out of range energy should be dropped: %v", *dash.Sessions[1].EnergyPost)
	}

	start, err := uc.Start(ctx, sessiondto.StartInput{OwnerID: owner})
	if err != nil {
		t.Fatalf("start after import: %v", err)
	}
	if start.DayIndex != 2 {
		t.Fatalf("imported history should drive the day index, got %d", start.DayIndex)
	}
}

func TestImportSameExportForTwoOwners(t *testing.T) {
	t.Parallel()
	uc := sqliteInteractor(t)
	ctx := context.Background()
	export := localExport(time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC))

	for _, who := range []string{"alice", "bob"} {
		out, err := uc.Import(ctx, sessiondto.ImportInput{OwnerID: who, Export: export})
		if err != nil {
			t.Fatalf("%s import: %v", who, err)
		}
		if out.Imported != 2 || out.Updated != 0 {
			t.Fatalf("%s import: %+v", who, out)
		}
	}

	ids := map[string]bool{}
	for _, who := range []string{"alice", "bob"} {
		dash, err := uc.Dashboard(ctx, who)
		if err != nil {
			t.Fatalf("%s dashboard: %v", who, err)
		}
		if len(dash.Sessions) != 2 {
			t.Fatalf("%s has %d sessions, want 2", who, len(dash.Sessions))
		}
		for _, s := range dash.Sessions {
			if s.SessionID == "local-a" || s.SessionID == "local-b" {
				t.Fatalf("%s kept the export id %q", who, s.SessionID)
			}
			ids[s.SessionID] = true
		}
	}
	if len(ids) != 4 {
		t.Fatalf("sessions share ids across owners: %v", ids)
	}
}

func TestImportRequiresOwner(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "plus")
	_, err := h.uc.Import(context.Background(), sessiondto.ImportInput{Export: localExport(time.Now().UTC())})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
