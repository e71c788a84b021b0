package roster

import (
	"context"
	"errors"
	"testing"

	"github.com/keyxmakerx/dossier/internal/apperror"
)

// --- Mock Repository ---

var errRepoDown = errors.New("snapshot store down")

// mockSnapshotRepo implements SnapshotRepository for testing.
type mockSnapshotRepo struct {
	loadFn    func(key string) ([]byte, error)
	saveFn    func(key string, payload []byte) error
	saveAllFn func(payloads map[string][]byte) error

	saves    []string
	saveAlls []map[string][]byte
}

func (m *mockSnapshotRepo) Load(_ context.Context, key string) ([]byte, error) {
	if m.loadFn != nil {
		return m.loadFn(key)
	}
	return nil, nil
}

func (m *mockSnapshotRepo) Save(_ context.Context, key string, payload []byte) error {
	m.saves = append(m.saves, key)
	if m.saveFn != nil {
		return m.saveFn(key, payload)
	}
	return nil
}

func (m *mockSnapshotRepo) SaveAll(_ context.Context, payloads map[string][]byte) error {
	m.saveAlls = append(m.saveAlls, payloads)
	if m.saveAllFn != nil {
		return m.saveAllFn(payloads)
	}
	return nil
}

// --- Test Helpers ---

func newTestService(repo *mockSnapshotRepo) RosterService {
	return NewRosterService(newTestStore(), repo)
}

// assertAppError checks that an error is an AppError with the expected code.
func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status code %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// --- Campaign creation ---

func TestCreateCampaign_Defaults(t *testing.T) {
	repo := &mockSnapshotRepo{}
	svc := newTestService(repo)

	campaign, err := svc.CreateCampaign(context.Background(), CreateCampaignInput{
		Title:  "Curse of Strahd",
		System: "DnD 5e",
		Theme:  ThemeGothic,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if campaign.ID == "" {
		t.Error("expected a generated id")
	}
	if campaign.Setting != "Curse of Strahd" {
		t.Errorf("expected setting to default to the title, got %q", campaign.Setting)
	}
	if campaign.Description == "" {
		t.Error("expected a default description")
	}
	if len(campaign.Characters) != 0 {
		t.Errorf("expected an empty roster, got %d characters", len(campaign.Characters))
	}
	if len(repo.saves) != 1 || repo.saves[0] != SnapshotCampaigns {
		t.Errorf("expected one campaigns snapshot write, got %v", repo.saves)
	}
}

func TestCreateCampaign_BlankTitle(t *testing.T) {
	repo := &mockSnapshotRepo{}
	svc := newTestService(repo)

	_, err := svc.CreateCampaign(context.Background(), CreateCampaignInput{Title: "   "})
	assertAppError(t, err, 422)

	if len(svc.ListCampaigns(context.Background())) != 2 {
		t.Error("expected a rejected create to leave the archive untouched")
	}
	if len(repo.saves) != 0 {
		t.Error("expected no snapshot write for a rejected create")
	}
}

func TestCreateCampaign_InvalidTheme(t *testing.T) {
	svc := newTestService(&mockSnapshotRepo{})

	_, err := svc.CreateCampaign(context.Background(), CreateCampaignInput{
		Title: "Valid Title",
		Theme: Theme("grimdark"),
	})
	assertAppError(t, err, 422)
}

func TestCreateCampaign_EmptyThemeDefaultsToFantasy(t *testing.T) {
	svc := newTestService(&mockSnapshotRepo{})

	campaign, err := svc.CreateCampaign(context.Background(), CreateCampaignInput{Title: "Plain"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if campaign.Theme != ThemeFantasy {
		t.Errorf("expected fantasy default, got %q", campaign.Theme)
	}
}

// --- Character creation ---

func TestCreateCharacter_PCDefaults(t *testing.T) {
	svc := newTestService(&mockSnapshotRepo{})

	// camp-1 is a fantasy campaign.
	ch, err := svc.CreateCharacter(context.Background(), "camp-1", TypePC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ch.Name != "New Adventurer" {
		t.Errorf("expected default PC name, got %q", ch.Name)
	}
	if ch.Level != 1 {
		t.Errorf("expected level 1, got %d", ch.Level)
	}
	if ch.Status != StatusAlive {
		t.Errorf("expected Alive, got %q", ch.Status)
	}
	if ch.SecretFile != nil {
		t.Error("expected no secret file in a fantasy campaign")
	}
}

func TestCreateCharacter_NPCDefaults(t *testing.T) {
	svc := newTestService(&mockSnapshotRepo{})

	ch, err := svc.CreateCharacter(context.Background(), "camp-1", TypeNPC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ch.Name != "New NPC" {
		t.Errorf("expected default NPC name, got %q", ch.Name)
	}
	if ch.Level != 0 {
		t.Errorf("expected level 0, got %d", ch.Level)
	}
}

func TestCreateCharacter_EmptyTypeDefaultsToPC(t *testing.T) {
	svc := newTestService(&mockSnapshotRepo{})

	ch, err := svc.CreateCharacter(context.Background(), "camp-1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch.Type != TypePC {
		t.Errorf("expected PC, got %q", ch.Type)
	}
}

func TestCreateCharacter_SecretFileGating(t *testing.T) {
	// camp-2 is gothic: PCs get a locked placeholder file, NPCs never do.
	svc := newTestService(&mockSnapshotRepo{})

	pc, err := svc.CreateCharacter(context.Background(), "camp-2", TypePC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pc.SecretFile == nil {
		t.Fatal("expected a secret file for a PC in a gothic campaign")
	}
	if pc.SecretFile.Title != "Classified Record" {
		t.Errorf("expected placeholder title, got %q", pc.SecretFile.Title)
	}
	if pc.SecretFile.IsUnlocked {
		t.Error("expected the placeholder file to start locked")
	}

	npc, err := svc.CreateCharacter(context.Background(), "camp-2", TypeNPC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if npc.SecretFile != nil {
		t.Error("expected no secret file for an NPC, regardless of theme")
	}
}

func TestCreateCharacter_UnknownCampaign(t *testing.T) {
	svc := newTestService(&mockSnapshotRepo{})
	_, err := svc.CreateCharacter(context.Background(), "nope", TypePC)
	assertAppError(t, err, 404)
}

// --- Character update ---

func TestUpdateCharacter_FullReplace(t *testing.T) {
	svc := newTestService(&mockSnapshotRepo{})

	updated, err := svc.UpdateCharacter(context.Background(), "camp-1", Character{
		ID:     "c1",
		Name:   "Gromph the Grey",
		Type:   TypePC,
		Status: StatusRetired,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Level != 0 {
		t.Errorf("expected omitted level to stick as 0 (full replace), got %d", updated.Level)
	}

	campaign, _ := svc.GetCampaign(context.Background(), "camp-1")
	if campaign.Characters[0].Status != StatusRetired {
		t.Errorf("expected stored status Retired, got %q", campaign.Characters[0].Status)
	}
}

func TestUpdateCharacter_InvalidStatus(t *testing.T) {
	svc := newTestService(&mockSnapshotRepo{})

	_, err := svc.UpdateCharacter(context.Background(), "camp-1", Character{
		ID:     "c1",
		Type:   TypePC,
		Status: CharacterStatus("Undead"),
	})
	assertAppError(t, err, 422)
}

// --- Deletes and cascade persistence ---

func TestDeleteCampaign_PersistsBothSlicesTogether(t *testing.T) {
	repo := &mockSnapshotRepo{}
	svc := newTestService(repo)

	if err := svc.AppendCampaignBackdrop(context.Background(), "camp-1", "a.jpg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.DeleteCampaign(context.Background(), "camp-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.saveAlls) != 1 {
		t.Fatalf("expected one batched snapshot write, got %d", len(repo.saveAlls))
	}
	batch := repo.saveAlls[0]
	if _, ok := batch[SnapshotCampaigns]; !ok {
		t.Error("expected the campaigns slice in the cascade batch")
	}
	if _, ok := batch[SnapshotCampaignBackdrops]; !ok {
		t.Error("expected the backdrop registry in the cascade batch")
	}
}

func TestDeleteCharacter(t *testing.T) {
	svc := newTestService(&mockSnapshotRepo{})

	if err := svc.DeleteCharacter(context.Background(), "camp-1", "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	campaign, _ := svc.GetCampaign(context.Background(), "camp-1")
	if len(campaign.Characters) != 0 {
		t.Error("expected the character to be removed")
	}
}

// --- Degraded persistence ---

func TestMutation_SaveFailureKeepsMemoryAndFlagsDegraded(t *testing.T) {
	repo := &mockSnapshotRepo{
		saveFn: func(_ string, _ []byte) error { return errRepoDown },
	}
	svc := newTestService(repo)

	campaign, err := svc.CreateCampaign(context.Background(), CreateCampaignInput{Title: "Doomed"})
	if err != nil {
		t.Fatalf("expected the mutation to succeed despite the save failure, got %v", err)
	}

	// The campaign exists in memory even though the write failed.
	if _, err := svc.GetCampaign(context.Background(), campaign.ID); err != nil {
		t.Errorf("expected the campaign to survive in memory: %v", err)
	}
	if !svc.Degraded() {
		t.Error("expected the service to report degraded storage")
	}

	// A later successful write clears the flag.
	repo.saveFn = nil
	if err := svc.SetLogo(context.Background(), campaign.ID, "logo"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Degraded() {
		t.Error("expected the degraded flag to clear after a successful write")
	}
}

// --- End to end ---

func TestCreateScenario_EndToEnd(t *testing.T) {
	repo := &mockSnapshotRepo{}
	svc := NewRosterService(NewStore(nil, nil, nil), repo)
	ctx := context.Background()

	campaign, err := svc.CreateCampaign(ctx, CreateCampaignInput{
		Title:  "Night City Stories",
		System: "Cyberpunk RED",
		Theme:  ThemeCyberpunk,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pc, err := svc.CreateCharacter(ctx, campaign.ID, TypePC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pc.SecretFile == nil {
		t.Fatal("expected a secret file for a cyberpunk PC")
	}

	pc.Name = "Rogue"
	pc.Class = "Solo"
	pc.Level = 3
	if _, err := svc.UpdateCharacter(ctx, campaign.ID, *pc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.AppendCampaignBackdrop(ctx, campaign.ID, "neon.jpg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.AppendGlobalBackdrop(ctx, "global.jpg")

	image, ok := svc.CurrentBackdrop(ctx, campaign.ID, 4)
	if !ok || image != "neon.jpg" {
		t.Errorf("expected the campaign backdrop, got %q (ok=%v)", image, ok)
	}

	got, err := svc.GetCampaign(ctx, campaign.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Characters) != 1 || got.Characters[0].Name != "Rogue" {
		t.Errorf("expected the updated roster, got %+v", got.Characters)
	}
	if got.Characters[0].SecretFile == nil {
		t.Error("expected the secret file to survive the update")
	}
}
