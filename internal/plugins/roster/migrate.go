package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Snapshot key names. The repository stores each slice under its own key so
// a corrupt payload in one slice never poisons the others.
const (
	SnapshotCampaigns         = "campaigns"
	SnapshotCampaignBackdrops = "campaign_backdrops"
	SnapshotGlobalBackdrop    = "global_backdrop"
)

// Load reads the three persisted slices, normalizes and migrates each one
// independently, and returns a populated store. Read errors from the
// repository abort startup (the backing store is down, not corrupt); decode
// failures degrade that slice to its empty value.
func Load(ctx context.Context, snapshots SnapshotRepository) (*Store, error) {
	rawCampaigns, err := snapshots.Load(ctx, SnapshotCampaigns)
	if err != nil {
		return nil, fmt.Errorf("loading campaigns snapshot: %w", err)
	}
	rawBackdrops, err := snapshots.Load(ctx, SnapshotCampaignBackdrops)
	if err != nil {
		return nil, fmt.Errorf("loading campaign backdrops snapshot: %w", err)
	}
	rawGlobal, err := snapshots.Load(ctx, SnapshotGlobalBackdrop)
	if err != nil {
		return nil, fmt.Errorf("loading global backdrop snapshot: %w", err)
	}

	return NewStore(
		NormalizeCampaigns(rawCampaigns),
		NormalizeCampaignBackdrops(rawBackdrops),
		NormalizeGlobalBackdrop(rawGlobal),
	), nil
}

// NormalizeCampaigns upgrades a persisted campaigns payload to the current
// shape. An absent payload seeds the built-in demo dataset (first run);
// an unparsable payload degrades to an empty collection rather than
// failing startup. Both directions are logged so the operator can tell a
// fresh install from a corrupt snapshot.
func NormalizeCampaigns(raw []byte) []Campaign {
	if raw == nil {
		slog.Info("no campaigns snapshot found, seeding demo dataset")
		return SeedCampaigns()
	}

	var campaigns []Campaign
	if err := json.Unmarshal(raw, &campaigns); err != nil {
		slog.Error("campaigns snapshot is unreadable, starting empty",
			slog.Any("error", err),
		)
		return []Campaign{}
	}
	if campaigns == nil {
		campaigns = []Campaign{}
	}

	return MigrateCampaigns(campaigns)
}

// MigrateCampaigns applies in-place schema upgrades to decoded campaigns.
// Idempotent: running it over already-current data changes nothing.
func MigrateCampaigns(campaigns []Campaign) []Campaign {
	for i := range campaigns {
		if campaigns[i].Characters == nil {
			campaigns[i].Characters = []Character{}
		}
		for j := range campaigns[i].Characters {
			ch := &campaigns[i].Characters[j]
			// Records written before the PC/NPC split have no type field.
			// Everything from that era was a player character.
			if ch.Type == "" {
				ch.Type = TypePC
			}
		}
	}
	return campaigns
}

// NormalizeCampaignBackdrops upgrades the per-campaign backdrop registry.
// Legacy snapshots stored a single image string per campaign; those are
// wrapped into one-element lists. Unreadable payloads degrade to an empty
// registry.
func NormalizeCampaignBackdrops(raw []byte) map[string][]string {
	backdrops := make(map[string][]string)
	if raw == nil {
		return backdrops
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		slog.Error("campaign backdrops snapshot is unreadable, starting empty",
			slog.Any("error", err),
		)
		return backdrops
	}

	for id, entry := range entries {
		var list []string
		if err := json.Unmarshal(entry, &list); err == nil {
			if list == nil {
				list = []string{}
			}
			backdrops[id] = list
			continue
		}
		var single string
		if err := json.Unmarshal(entry, &single); err == nil {
			backdrops[id] = []string{single}
			continue
		}
		// Neither shape decodes: drop this campaign's list only.
		slog.Warn("dropping unreadable backdrop list",
			slog.String("campaign_id", id),
		)
	}
	return backdrops
}

// NormalizeGlobalBackdrop upgrades the global backdrop list. A JSON array
// passes through, a JSON string becomes a one-element list, and anything
// else degrades to an empty list.
func NormalizeGlobalBackdrop(raw []byte) []string {
	if raw == nil {
		return []string{}
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		if list == nil {
			list = []string{}
		}
		return list
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}

	slog.Error("global backdrop snapshot is unreadable, starting empty")
	return []string{}
}
