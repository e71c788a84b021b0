package roster

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisRepo(t *testing.T) SnapshotRepository {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisSnapshotRepository(rdb)
}

func TestRedisRepository_AbsentKey(t *testing.T) {
	repo := newTestRedisRepo(t)

	data, err := repo.Load(context.Background(), SnapshotCampaigns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data != nil {
		t.Errorf("expected nil payload for an absent key, got %q", data)
	}
}

func TestRedisRepository_SaveLoad(t *testing.T) {
	repo := newTestRedisRepo(t)
	ctx := context.Background()

	payload := []byte(`[{"id":"camp-1","title":"Test"}]`)
	if err := repo.Save(ctx, SnapshotCampaigns, payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.Load(ctx, SnapshotCampaigns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("expected %q, got %q", payload, got)
	}
}

func TestRedisRepository_SaveAll(t *testing.T) {
	repo := newTestRedisRepo(t)
	ctx := context.Background()

	err := repo.SaveAll(ctx, map[string][]byte{
		SnapshotCampaigns:         []byte(`[]`),
		SnapshotCampaignBackdrops: []byte(`{}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, key := range []string{SnapshotCampaigns, SnapshotCampaignBackdrops} {
		data, err := repo.Load(ctx, key)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if data == nil {
			t.Errorf("expected key %q to be written", key)
		}
	}
}

func TestRedisRepository_LoadIntoStore(t *testing.T) {
	repo := newTestRedisRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, SnapshotCampaigns, []byte(`[{"id":"camp-9","title":"Persisted","theme":"noir","characters":[]}]`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store, err := Load(ctx, repo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	campaign, err := store.GetCampaign("camp-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if campaign.Title != "Persisted" {
		t.Errorf("expected the persisted campaign, got %q", campaign.Title)
	}
}
