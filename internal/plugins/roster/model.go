// Package roster manages the campaign archive: campaigns, their character
// rosters, optional secret files, and the backdrop image registries. The
// whole tree lives in an in-memory store and is written through to a
// snapshot repository after every committed mutation.
//
// This is the CORE plugin -- the rest of the application exists to expose
// and protect it.
package roster

import (
	"encoding/json"

	"github.com/google/uuid"
)

// --- Themes ---

// Theme is the visual/narrative genre preset applied to a campaign.
type Theme string

const (
	ThemeFantasy     Theme = "fantasy"
	ThemeGothic      Theme = "gothic"
	ThemeCyberpunk   Theme = "cyberpunk"
	ThemeSciFi       Theme = "sci-fi"
	ThemeDarkFantasy Theme = "dark-fantasy"
	ThemeModern      Theme = "modern"
	ThemeComedy      Theme = "comedy"
	ThemeHorror      Theme = "horror"
	ThemePostApoc    Theme = "post-apoc"
	ThemeWestern     Theme = "western"
	ThemeNoir        Theme = "noir"
	ThemeSteampunk   Theme = "steampunk"
	ThemeSuperhero   Theme = "superhero"
)

// allThemes is the closed set of valid themes.
var allThemes = map[Theme]bool{
	ThemeFantasy: true, ThemeGothic: true, ThemeCyberpunk: true,
	ThemeSciFi: true, ThemeDarkFantasy: true, ThemeModern: true,
	ThemeComedy: true, ThemeHorror: true, ThemePostApoc: true,
	ThemeWestern: true, ThemeNoir: true, ThemeSteampunk: true,
	ThemeSuperhero: true,
}

// secretFileThemes are the themes where a freshly created PC gets a secret
// file. "Secret file" is only thematically appropriate for mystery and
// intrigue flavored settings; a sunny fantasy party has no dossier drawer.
var secretFileThemes = map[Theme]bool{
	ThemeGothic:    true,
	ThemeCyberpunk: true,
	ThemeSciFi:     true,
	ThemeNoir:      true,
}

// IsValid returns true if this is a member of the theme enumeration.
func (t Theme) IsValid() bool {
	return allThemes[t]
}

// HasSecretFiles returns true if new PCs in this theme get a secret file.
func (t Theme) HasSecretFiles() bool {
	return secretFileThemes[t]
}

// --- Character enums ---

// CharacterType distinguishes player characters from NPCs.
type CharacterType string

const (
	TypePC  CharacterType = "PC"
	TypeNPC CharacterType = "NPC"
)

// IsValid returns true for the two supported character types.
func (t CharacterType) IsValid() bool {
	return t == TypePC || t == TypeNPC
}

// CharacterStatus is the in-fiction state of a character.
type CharacterStatus string

const (
	StatusAlive   CharacterStatus = "Alive"
	StatusDead    CharacterStatus = "Dead"
	StatusMIA     CharacterStatus = "MIA"
	StatusRetired CharacterStatus = "Retired"
)

// IsValid returns true if this is a member of the status enumeration.
func (s CharacterStatus) IsValid() bool {
	switch s {
	case StatusAlive, StatusDead, StatusMIA, StatusRetired:
		return true
	}
	return false
}

// --- Domain models ---

// SecretFile is the optional hidden sub-record on a PC character. The
// IsUnlocked flag is carried for snapshot compatibility; revealing a file
// is session-local display state and no mutation writes this field.
type SecretFile struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	ImageURL   string `json:"imageUrl,omitempty"`
	IsUnlocked bool   `json:"isUnlocked"`
}

// Character is a PC or NPC record within a campaign. Unknown fields from
// newer snapshot versions are kept in Extra and written back verbatim.
type Character struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        CharacterType   `json:"type"`
	Race        string          `json:"race"`
	Class       string          `json:"class"`
	Level       int             `json:"level"`
	Status      CharacterStatus `json:"status"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	SecretFile  *SecretFile     `json:"secretFile,omitempty"`

	// Extra holds fields this version does not understand. Preserved across
	// load/store round trips so a newer front-end's data survives.
	Extra map[string]json.RawMessage `json:"-"`
}

// characterKnownKeys must list every tagged field above.
var characterKnownKeys = []string{
	"id", "name", "type", "race", "class", "level",
	"status", "description", "imageUrl", "secretFile",
}

// UnmarshalJSON decodes the known fields and stashes everything else in Extra.
func (c *Character) UnmarshalJSON(data []byte) error {
	type alias Character
	var known alias
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	extra, err := splitUnknown(data, characterKnownKeys)
	if err != nil {
		return err
	}
	*c = Character(known)
	c.Extra = extra
	return nil
}

// MarshalJSON re-encodes the known fields and merges Extra back in.
func (c Character) MarshalJSON() ([]byte, error) {
	type alias Character
	base, err := json.Marshal(alias(c))
	if err != nil {
		return nil, err
	}
	return mergeUnknown(base, c.Extra)
}

// Campaign is the top-level archive container: a named setting owning an
// ordered character roster. Character order is display order.
type Campaign struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	System      string      `json:"system"`
	Setting     string      `json:"setting"`
	Theme       Theme       `json:"theme"`
	Description string      `json:"description"`
	Logo        string      `json:"logo"`
	Characters  []Character `json:"characters"`

	// Extra holds unrecognized fields, preserved like Character.Extra.
	Extra map[string]json.RawMessage `json:"-"`
}

// campaignKnownKeys must list every tagged field above.
var campaignKnownKeys = []string{
	"id", "title", "system", "setting", "theme",
	"description", "logo", "characters",
}

// UnmarshalJSON decodes the known fields and stashes everything else in Extra.
func (c *Campaign) UnmarshalJSON(data []byte) error {
	type alias Campaign
	var known alias
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	extra, err := splitUnknown(data, campaignKnownKeys)
	if err != nil {
		return err
	}
	*c = Campaign(known)
	c.Extra = extra
	return nil
}

// MarshalJSON re-encodes the known fields and merges Extra back in.
func (c Campaign) MarshalJSON() ([]byte, error) {
	type alias Campaign
	base, err := json.Marshal(alias(c))
	if err != nil {
		return nil, err
	}
	return mergeUnknown(base, c.Extra)
}

// splitUnknown returns the keys of data not present in known, or nil when
// there are none.
func splitUnknown(data []byte, known []string) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(raw, k)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return raw, nil
}

// mergeUnknown merges preserved unknown fields into an encoded object.
// Known fields win on a key collision; a collision means a field this
// version understands was also stashed, which cannot happen via our own
// UnmarshalJSON.
func mergeUnknown(base []byte, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return base, nil
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, exists := merged[k]; !exists {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// --- Request DTOs (bound from HTTP requests) ---

// CreateCampaignRequest holds the data submitted by the campaign creation form.
type CreateCampaignRequest struct {
	Title   string `json:"title"`
	System  string `json:"system"`
	Setting string `json:"setting"`
	Theme   string `json:"theme"`
}

// SetLogoRequest holds a replacement logo payload.
type SetLogoRequest struct {
	Logo string `json:"logo"`
}

// CreateCharacterRequest holds the data for adding a character to a roster.
type CreateCharacterRequest struct {
	Type string `json:"type"`
}

// AppendBackdropRequest holds an image payload to append to a backdrop list.
type AppendBackdropRequest struct {
	Image string `json:"image"`
}

// --- Service input DTOs ---

// CreateCampaignInput is the validated input for creating a campaign.
type CreateCampaignInput struct {
	Title   string
	System  string
	Setting string
	Theme   Theme
}

// generateID returns a fresh campaign or character identifier. UUIDs give
// the uniqueness the store requires without depending on creation time.
func generateID() string {
	return uuid.NewString()
}
