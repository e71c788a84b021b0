package roster

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"
)

// --- Campaign snapshot normalization ---

func TestNormalizeCampaigns_AbsentSeedsDemoData(t *testing.T) {
	campaigns := NormalizeCampaigns(nil)

	if len(campaigns) != len(SeedCampaigns()) {
		t.Fatalf("expected seed dataset, got %d campaigns", len(campaigns))
	}
	if campaigns[0].Title != "Forgotten Realms" {
		t.Errorf("expected first seed campaign, got %q", campaigns[0].Title)
	}
}

func TestNormalizeCampaigns_UnparsableStartsEmpty(t *testing.T) {
	campaigns := NormalizeCampaigns([]byte(`{not json`))

	if campaigns == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(campaigns) != 0 {
		t.Errorf("expected empty collection, got %d campaigns", len(campaigns))
	}
}

func TestNormalizeCampaigns_EmptyArrayStaysEmpty(t *testing.T) {
	// An empty array is a deliberate state (everything deleted), not a
	// fresh install; it must not re-seed.
	campaigns := NormalizeCampaigns([]byte(`[]`))

	if len(campaigns) != 0 {
		t.Errorf("expected no campaigns, got %d", len(campaigns))
	}
}

func TestMigrateCampaigns_DefaultsMissingType(t *testing.T) {
	raw := `[{
		"id": "camp-1",
		"title": "Old Snapshot",
		"theme": "fantasy",
		"characters": [
			{"id": "c1", "name": "Untyped", "level": 3, "status": "Alive"},
			{"id": "c2", "name": "Typed", "type": "NPC", "level": 0, "status": "Alive"}
		]
	}]`

	campaigns := NormalizeCampaigns([]byte(raw))
	if len(campaigns) != 1 {
		t.Fatalf("expected 1 campaign, got %d", len(campaigns))
	}

	chars := campaigns[0].Characters
	if chars[0].Type != TypePC {
		t.Errorf("expected untyped legacy record to become PC, got %q", chars[0].Type)
	}
	if chars[1].Type != TypeNPC {
		t.Errorf("expected explicit type to be untouched, got %q", chars[1].Type)
	}
}

func TestMigrateCampaigns_Idempotent(t *testing.T) {
	campaigns := MigrateCampaigns(SeedCampaigns())

	first, err := json.Marshal(campaigns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := json.Marshal(MigrateCampaigns(campaigns))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(first) != string(second) {
		t.Error("expected a second migration pass to change nothing")
	}
}

func TestMigrateCampaigns_NilRosterBecomesEmpty(t *testing.T) {
	campaigns := MigrateCampaigns([]Campaign{{ID: "camp-1", Title: "Bare"}})

	if campaigns[0].Characters == nil {
		t.Error("expected nil roster to become an empty slice")
	}
}

// --- Backdrop snapshot normalization ---

func TestNormalizeCampaignBackdrops_CurrentShape(t *testing.T) {
	raw := `{"camp-1": ["a.jpg", "b.jpg"], "camp-2": []}`

	backdrops := NormalizeCampaignBackdrops([]byte(raw))

	want := map[string][]string{
		"camp-1": {"a.jpg", "b.jpg"},
		"camp-2": {},
	}
	if !reflect.DeepEqual(backdrops, want) {
		t.Errorf("expected %v, got %v", want, backdrops)
	}
}

func TestNormalizeCampaignBackdrops_LegacySingleString(t *testing.T) {
	raw := `{"camp-1": "solo.jpg"}`

	backdrops := NormalizeCampaignBackdrops([]byte(raw))

	if !reflect.DeepEqual(backdrops["camp-1"], []string{"solo.jpg"}) {
		t.Errorf("expected legacy string to become a one-element list, got %v", backdrops["camp-1"])
	}
}

func TestNormalizeCampaignBackdrops_DropsUnreadableEntryOnly(t *testing.T) {
	raw := `{"camp-1": ["keep.jpg"], "camp-2": 42}`

	backdrops := NormalizeCampaignBackdrops([]byte(raw))

	if _, ok := backdrops["camp-2"]; ok {
		t.Error("expected unreadable entry to be dropped")
	}
	if !reflect.DeepEqual(backdrops["camp-1"], []string{"keep.jpg"}) {
		t.Errorf("expected readable entry to survive, got %v", backdrops["camp-1"])
	}
}

func TestNormalizeCampaignBackdrops_Unparsable(t *testing.T) {
	backdrops := NormalizeCampaignBackdrops([]byte(`[nope`))

	if len(backdrops) != 0 {
		t.Errorf("expected empty registry, got %v", backdrops)
	}
}

func TestNormalizeGlobalBackdrop(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want []string
	}{
		{"absent", nil, []string{}},
		{"array", []byte(`["a.jpg", "b.jpg"]`), []string{"a.jpg", "b.jpg"}},
		{"legacy string", []byte(`"solo.jpg"`), []string{"solo.jpg"}},
		{"null", []byte(`null`), []string{}},
		{"number", []byte(`42`), []string{}},
		{"garbage", []byte(`{broken`), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeGlobalBackdrop(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

// --- Load ---

func TestLoad_ReadErrorAbortsStartup(t *testing.T) {
	repo := &mockSnapshotRepo{
		loadFn: func(_ string) ([]byte, error) {
			return nil, errRepoDown
		},
	}

	if _, err := Load(context.Background(), repo); err == nil {
		t.Fatal("expected a load error when the snapshot store is down")
	}
}

func TestLoad_FreshInstallSeeds(t *testing.T) {
	store, err := Load(context.Background(), &mockSnapshotRepo{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.ListCampaigns()) != 3 {
		t.Errorf("expected the 3 seed campaigns, got %d", len(store.ListCampaigns()))
	}
	if len(store.GlobalBackdrop()) != 0 {
		t.Error("expected an empty global backdrop on first run")
	}
}
