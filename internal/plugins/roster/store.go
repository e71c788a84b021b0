package roster

import (
	"sync"

	"github.com/keyxmakerx/dossier/internal/apperror"
)

// maxBackdrops caps each backdrop list. Backdrops are embedded images, so
// an unbounded append-only list would eventually exhaust the snapshot
// store; appending to a full list evicts the oldest entry.
const maxBackdrops = 20

// Store is the in-memory source of truth for the archive: the campaign
// tree plus the two backdrop registries. Every mutation is atomic under
// the write lock; no partial state is ever visible to readers.
//
// The store enforces the structural invariants (id uniqueness, cascade on
// campaign delete, backdrop cap). Input validation and creation defaults
// live in the service.
type Store struct {
	mu                sync.RWMutex
	campaigns         []Campaign
	campaignBackdrops map[string][]string
	globalBackdrop    []string
}

// NewStore creates a store from normalized state (see Load).
func NewStore(campaigns []Campaign, campaignBackdrops map[string][]string, globalBackdrop []string) *Store {
	if campaigns == nil {
		campaigns = []Campaign{}
	}
	if campaignBackdrops == nil {
		campaignBackdrops = make(map[string][]string)
	}
	if globalBackdrop == nil {
		globalBackdrop = []string{}
	}
	return &Store{
		campaigns:         campaigns,
		campaignBackdrops: campaignBackdrops,
		globalBackdrop:    globalBackdrop,
	}
}

// --- Reads ---

// ListCampaigns returns a copy of the campaign collection in display order.
func (s *Store) ListCampaigns() []Campaign {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyCampaigns(s.campaigns)
}

// GetCampaign returns a copy of the campaign with the given id.
func (s *Store) GetCampaign(id string) (*Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.campaigns {
		if s.campaigns[i].ID == id {
			c := copyCampaign(s.campaigns[i])
			return &c, nil
		}
	}
	return nil, apperror.NewNotFound("campaign not found")
}

// CampaignBackdrops returns a copy of a campaign's backdrop list. A
// campaign with no entry yields an empty list, not an error: an empty
// backdrop list is a normal state.
func (s *Store) CampaignBackdrops(id string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.campaignBackdrops[id]...)
}

// GlobalBackdrop returns a copy of the global backdrop list.
func (s *Store) GlobalBackdrop() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.globalBackdrop...)
}

// CurrentBackdrop selects the image shown at the given rotation tick. The
// campaign's own list wins when non-empty; otherwise the global list is
// used; when both are empty there is no backdrop and ok is false. An empty
// campaignID selects from the global list only.
func (s *Store) CurrentBackdrop(campaignID string, tick int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.globalBackdrop
	if campaignID != "" {
		if own := s.campaignBackdrops[campaignID]; len(own) > 0 {
			list = own
		}
	}
	if len(list) == 0 {
		return "", false
	}
	if tick < 0 {
		tick = -tick
	}
	return list[tick%len(list)], true
}

// --- Mutations ---

// AddCampaign appends a campaign. The id must not collide with an existing
// campaign; the service generates fresh UUIDs so a collision means a bug.
func (s *Store) AddCampaign(c Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.campaigns {
		if s.campaigns[i].ID == c.ID {
			return apperror.NewConflict("a campaign with this id already exists")
		}
	}
	if c.Characters == nil {
		c.Characters = []Character{}
	}
	s.campaigns = append(s.campaigns, c)
	return nil
}

// RemoveCampaign deletes a campaign and its backdrop registry entry as one
// atomic operation.
func (s *Store) RemoveCampaign(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.campaigns {
		if s.campaigns[i].ID == id {
			s.campaigns = append(s.campaigns[:i], s.campaigns[i+1:]...)
			delete(s.campaignBackdrops, id)
			return nil
		}
	}
	return apperror.NewNotFound("campaign not found")
}

// SetLogo replaces a campaign's logo payload.
func (s *Store) SetLogo(id, logo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.campaigns {
		if s.campaigns[i].ID == id {
			s.campaigns[i].Logo = logo
			return nil
		}
	}
	return apperror.NewNotFound("campaign not found")
}

// AddCharacter appends a character to a campaign's roster. The character id
// must be unique within the roster.
func (s *Store) AddCharacter(campaignID string, ch Character) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.campaigns {
		if s.campaigns[i].ID != campaignID {
			continue
		}
		for j := range s.campaigns[i].Characters {
			if s.campaigns[i].Characters[j].ID == ch.ID {
				return apperror.NewConflict("a character with this id already exists")
			}
		}
		s.campaigns[i].Characters = append(s.campaigns[i].Characters, ch)
		return nil
	}
	return apperror.NewNotFound("campaign not found")
}

// ReplaceCharacter swaps the character with a matching id for the given
// record. Full-record replace, not a field-level patch: every field of the
// stored record, including preserved unknown fields, comes from ch.
func (s *Store) ReplaceCharacter(campaignID string, ch Character) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.campaigns {
		if s.campaigns[i].ID != campaignID {
			continue
		}
		for j := range s.campaigns[i].Characters {
			if s.campaigns[i].Characters[j].ID == ch.ID {
				s.campaigns[i].Characters[j] = ch
				return nil
			}
		}
		return apperror.NewNotFound("character not found")
	}
	return apperror.NewNotFound("campaign not found")
}

// RemoveCharacter deletes a character from a campaign's roster.
func (s *Store) RemoveCharacter(campaignID, characterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.campaigns {
		if s.campaigns[i].ID != campaignID {
			continue
		}
		chars := s.campaigns[i].Characters
		for j := range chars {
			if chars[j].ID == characterID {
				s.campaigns[i].Characters = append(chars[:j], chars[j+1:]...)
				return nil
			}
		}
		return apperror.NewNotFound("character not found")
	}
	return apperror.NewNotFound("campaign not found")
}

// AppendCampaignBackdrop appends an image to a campaign's backdrop list,
// evicting the oldest entry at the cap.
func (s *Store) AppendCampaignBackdrop(campaignID, image string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.campaignExistsLocked(campaignID) {
		return apperror.NewNotFound("campaign not found")
	}
	s.campaignBackdrops[campaignID] = appendCapped(s.campaignBackdrops[campaignID], image)
	return nil
}

// ClearCampaignBackdrop empties a campaign's backdrop list.
func (s *Store) ClearCampaignBackdrop(campaignID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.campaignExistsLocked(campaignID) {
		return apperror.NewNotFound("campaign not found")
	}
	s.campaignBackdrops[campaignID] = []string{}
	return nil
}

// AppendGlobalBackdrop appends an image to the global backdrop list,
// evicting the oldest entry at the cap.
func (s *Store) AppendGlobalBackdrop(image string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.globalBackdrop = appendCapped(s.globalBackdrop, image)
}

// ClearGlobalBackdrop empties the global backdrop list.
func (s *Store) ClearGlobalBackdrop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.globalBackdrop = []string{}
}

// --- Snapshot ---

// Snapshot returns deep copies of the three persisted slices, taken under
// one read lock so they are mutually consistent.
func (s *Store) Snapshot() (campaigns []Campaign, campaignBackdrops map[string][]string, globalBackdrop []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	campaigns = copyCampaigns(s.campaigns)
	campaignBackdrops = make(map[string][]string, len(s.campaignBackdrops))
	for id, list := range s.campaignBackdrops {
		campaignBackdrops[id] = append([]string{}, list...)
	}
	globalBackdrop = append([]string{}, s.globalBackdrop...)
	return campaigns, campaignBackdrops, globalBackdrop
}

// campaignExistsLocked reports whether a campaign id exists. Caller holds the lock.
func (s *Store) campaignExistsLocked(id string) bool {
	for i := range s.campaigns {
		if s.campaigns[i].ID == id {
			return true
		}
	}
	return false
}

// appendCapped appends to a backdrop list, dropping the oldest entries
// when the cap is exceeded.
func appendCapped(list []string, image string) []string {
	list = append(list, image)
	if len(list) > maxBackdrops {
		list = append([]string{}, list[len(list)-maxBackdrops:]...)
	}
	return list
}

// copyCampaigns deep-copies a campaign slice.
func copyCampaigns(campaigns []Campaign) []Campaign {
	out := make([]Campaign, len(campaigns))
	for i := range campaigns {
		out[i] = copyCampaign(campaigns[i])
	}
	return out
}

// copyCampaign deep-copies a campaign, including the roster and any secret
// files, so callers can never mutate store state through a returned value.
// Extra maps hold immutable raw JSON and are shared.
func copyCampaign(c Campaign) Campaign {
	chars := make([]Character, len(c.Characters))
	for i := range c.Characters {
		chars[i] = c.Characters[i]
		if sf := c.Characters[i].SecretFile; sf != nil {
			sfCopy := *sf
			chars[i].SecretFile = &sfCopy
		}
	}
	c.Characters = chars
	return c
}
