package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/keyxmakerx/dossier/internal/apperror"
)

// Creation defaults for new records.
const (
	newCampaignDescription = "A new adventure awaits."
	newPCName              = "New Adventurer"
	newNPCName             = "New NPC"
	secretFileTitle        = "Classified Record"
	secretFileContent      = "No recorded data."
)

// RosterService handles business logic for the archive: validation,
// creation defaults, the secret-file theme gate, and write-through
// persistence after every committed mutation.
type RosterService interface {
	// Campaigns
	ListCampaigns(ctx context.Context) []Campaign
	GetCampaign(ctx context.Context, id string) (*Campaign, error)
	CreateCampaign(ctx context.Context, input CreateCampaignInput) (*Campaign, error)
	DeleteCampaign(ctx context.Context, id string) error
	SetLogo(ctx context.Context, id, logo string) error

	// Characters
	CreateCharacter(ctx context.Context, campaignID string, ctype CharacterType) (*Character, error)
	UpdateCharacter(ctx context.Context, campaignID string, ch Character) (*Character, error)
	DeleteCharacter(ctx context.Context, campaignID, characterID string) error

	// Backdrops
	CampaignBackdrops(ctx context.Context, campaignID string) ([]string, error)
	GlobalBackdrop(ctx context.Context) []string
	AppendCampaignBackdrop(ctx context.Context, campaignID, image string) error
	ClearCampaignBackdrop(ctx context.Context, campaignID string) error
	AppendGlobalBackdrop(ctx context.Context, image string)
	ClearGlobalBackdrop(ctx context.Context)
	CurrentBackdrop(ctx context.Context, campaignID string, tick int) (string, bool)

	// Degraded reports whether the most recent snapshot write failed. The
	// in-memory store stays authoritative either way; this only signals
	// that durability is currently lost.
	Degraded() bool
}

// rosterService implements RosterService.
type rosterService struct {
	store     *Store
	snapshots SnapshotRepository

	mu          sync.Mutex
	lastSaveErr error
}

// NewRosterService creates a roster service over a loaded store and a
// snapshot repository.
func NewRosterService(store *Store, snapshots SnapshotRepository) RosterService {
	return &rosterService{
		store:     store,
		snapshots: snapshots,
	}
}

// --- Campaigns ---

// ListCampaigns returns all campaigns in display order.
func (s *rosterService) ListCampaigns(ctx context.Context) []Campaign {
	return s.store.ListCampaigns()
}

// GetCampaign returns one campaign by id.
func (s *rosterService) GetCampaign(ctx context.Context, id string) (*Campaign, error) {
	return s.store.GetCampaign(id)
}

// CreateCampaign validates input, fills creation defaults, and appends a
// new campaign with an empty roster. A blank title rejects the request
// before anything is mutated.
func (s *rosterService) CreateCampaign(ctx context.Context, input CreateCampaignInput) (*Campaign, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperror.NewValidation("campaign title is required")
	}
	if len(title) > 200 {
		return nil, apperror.NewValidation("campaign title must be at most 200 characters")
	}

	theme := input.Theme
	if theme == "" {
		theme = ThemeFantasy
	}
	if !theme.IsValid() {
		return nil, apperror.NewValidation(fmt.Sprintf("unknown theme %q", input.Theme))
	}

	// An omitted setting falls back to the title itself.
	setting := strings.TrimSpace(input.Setting)
	if setting == "" {
		setting = title
	}

	campaign := Campaign{
		ID:          generateID(),
		Title:       title,
		System:      strings.TrimSpace(input.System),
		Setting:     setting,
		Theme:       theme,
		Description: newCampaignDescription,
		Characters:  []Character{},
	}

	if err := s.store.AddCampaign(campaign); err != nil {
		return nil, err
	}
	s.persistCampaigns(ctx)

	slog.Info("campaign created",
		slog.String("campaign_id", campaign.ID),
		slog.String("title", campaign.Title),
		slog.String("theme", string(campaign.Theme)),
	)

	return &campaign, nil
}

// DeleteCampaign removes a campaign, its roster, and its backdrop list as
// one operation, then persists both affected slices together.
func (s *rosterService) DeleteCampaign(ctx context.Context, id string) error {
	if err := s.store.RemoveCampaign(id); err != nil {
		return err
	}
	s.persistCascade(ctx)

	slog.Info("campaign deleted", slog.String("campaign_id", id))
	return nil
}

// SetLogo replaces a campaign's logo payload.
func (s *rosterService) SetLogo(ctx context.Context, id, logo string) error {
	if err := s.store.SetLogo(id, logo); err != nil {
		return err
	}
	s.persistCampaigns(ctx)
	return nil
}

// --- Characters ---

// CreateCharacter appends a new character with type-dependent defaults.
// The secret file is attached only for a PC in a secret-file theme; an NPC
// never gets one regardless of theme.
func (s *rosterService) CreateCharacter(ctx context.Context, campaignID string, ctype CharacterType) (*Character, error) {
	if ctype == "" {
		ctype = TypePC
	}
	if !ctype.IsValid() {
		return nil, apperror.NewValidation(fmt.Sprintf("unknown character type %q", ctype))
	}

	campaign, err := s.store.GetCampaign(campaignID)
	if err != nil {
		return nil, err
	}

	ch := Character{
		ID:     generateID(),
		Name:   newNPCName,
		Type:   ctype,
		Level:  0,
		Status: StatusAlive,
	}
	if ctype == TypePC {
		ch.Name = newPCName
		ch.Level = 1
		if campaign.Theme.HasSecretFiles() {
			ch.SecretFile = &SecretFile{
				Title:   secretFileTitle,
				Content: secretFileContent,
			}
		}
	}

	if err := s.store.AddCharacter(campaignID, ch); err != nil {
		return nil, err
	}
	s.persistCampaigns(ctx)

	slog.Info("character created",
		slog.String("campaign_id", campaignID),
		slog.String("character_id", ch.ID),
		slog.String("type", string(ch.Type)),
	)

	return &ch, nil
}

// UpdateCharacter replaces the whole stored record with ch -- every field,
// including preserved unknown fields, comes from the submitted record.
func (s *rosterService) UpdateCharacter(ctx context.Context, campaignID string, ch Character) (*Character, error) {
	if strings.TrimSpace(ch.ID) == "" {
		return nil, apperror.NewValidation("character id is required")
	}
	if !ch.Type.IsValid() {
		return nil, apperror.NewValidation(fmt.Sprintf("unknown character type %q", ch.Type))
	}
	if !ch.Status.IsValid() {
		return nil, apperror.NewValidation(fmt.Sprintf("unknown character status %q", ch.Status))
	}

	if err := s.store.ReplaceCharacter(campaignID, ch); err != nil {
		return nil, err
	}
	s.persistCampaigns(ctx)
	return &ch, nil
}

// DeleteCharacter removes a character from its campaign's roster.
func (s *rosterService) DeleteCharacter(ctx context.Context, campaignID, characterID string) error {
	if err := s.store.RemoveCharacter(campaignID, characterID); err != nil {
		return err
	}
	s.persistCampaigns(ctx)

	slog.Info("character deleted",
		slog.String("campaign_id", campaignID),
		slog.String("character_id", characterID),
	)
	return nil
}

// --- Backdrops ---

// CampaignBackdrops returns a campaign's backdrop list.
func (s *rosterService) CampaignBackdrops(ctx context.Context, campaignID string) ([]string, error) {
	if _, err := s.store.GetCampaign(campaignID); err != nil {
		return nil, err
	}
	return s.store.CampaignBackdrops(campaignID), nil
}

// GlobalBackdrop returns the global backdrop list.
func (s *rosterService) GlobalBackdrop(ctx context.Context) []string {
	return s.store.GlobalBackdrop()
}

// AppendCampaignBackdrop appends an image to a campaign's backdrop list.
func (s *rosterService) AppendCampaignBackdrop(ctx context.Context, campaignID, image string) error {
	if strings.TrimSpace(image) == "" {
		return apperror.NewValidation("backdrop image is required")
	}
	if err := s.store.AppendCampaignBackdrop(campaignID, image); err != nil {
		return err
	}
	s.persistCampaignBackdrops(ctx)
	return nil
}

// ClearCampaignBackdrop empties a campaign's backdrop list.
func (s *rosterService) ClearCampaignBackdrop(ctx context.Context, campaignID string) error {
	if err := s.store.ClearCampaignBackdrop(campaignID); err != nil {
		return err
	}
	s.persistCampaignBackdrops(ctx)
	return nil
}

// AppendGlobalBackdrop appends an image to the global backdrop list.
func (s *rosterService) AppendGlobalBackdrop(ctx context.Context, image string) {
	if strings.TrimSpace(image) == "" {
		return
	}
	s.store.AppendGlobalBackdrop(image)
	s.persistGlobalBackdrop(ctx)
}

// ClearGlobalBackdrop empties the global backdrop list.
func (s *rosterService) ClearGlobalBackdrop(ctx context.Context) {
	s.store.ClearGlobalBackdrop()
	s.persistGlobalBackdrop(ctx)
}

// CurrentBackdrop selects the image for the given rotation tick.
func (s *rosterService) CurrentBackdrop(ctx context.Context, campaignID string, tick int) (string, bool) {
	return s.store.CurrentBackdrop(campaignID, tick)
}

// Degraded reports whether the most recent snapshot write failed.
func (s *rosterService) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaveErr != nil
}

// --- Write-through persistence ---
//
// A snapshot write failure never rolls back the in-memory mutation: the
// store stays authoritative for the session and the failure is logged and
// surfaced through Degraded(). A later successful write clears the flag.

// persistCampaigns writes the campaigns slice.
func (s *rosterService) persistCampaigns(ctx context.Context) {
	campaigns, _, _ := s.store.Snapshot()
	payload, err := json.Marshal(campaigns)
	if err != nil {
		s.recordSaveResult(fmt.Errorf("encoding campaigns snapshot: %w", err))
		return
	}
	s.recordSaveResult(s.snapshots.Save(ctx, SnapshotCampaigns, payload))
}

// persistCampaignBackdrops writes the per-campaign backdrop registry.
func (s *rosterService) persistCampaignBackdrops(ctx context.Context) {
	_, backdrops, _ := s.store.Snapshot()
	payload, err := json.Marshal(backdrops)
	if err != nil {
		s.recordSaveResult(fmt.Errorf("encoding backdrops snapshot: %w", err))
		return
	}
	s.recordSaveResult(s.snapshots.Save(ctx, SnapshotCampaignBackdrops, payload))
}

// persistGlobalBackdrop writes the global backdrop list.
func (s *rosterService) persistGlobalBackdrop(ctx context.Context) {
	_, _, global := s.store.Snapshot()
	payload, err := json.Marshal(global)
	if err != nil {
		s.recordSaveResult(fmt.Errorf("encoding global backdrop snapshot: %w", err))
		return
	}
	s.recordSaveResult(s.snapshots.Save(ctx, SnapshotGlobalBackdrop, payload))
}

// persistCascade writes the campaigns slice and backdrop registry as one
// unit, used after a campaign delete so the two cannot diverge in storage.
func (s *rosterService) persistCascade(ctx context.Context) {
	campaigns, backdrops, _ := s.store.Snapshot()

	campaignsPayload, err := json.Marshal(campaigns)
	if err != nil {
		s.recordSaveResult(fmt.Errorf("encoding campaigns snapshot: %w", err))
		return
	}
	backdropsPayload, err := json.Marshal(backdrops)
	if err != nil {
		s.recordSaveResult(fmt.Errorf("encoding backdrops snapshot: %w", err))
		return
	}

	s.recordSaveResult(s.snapshots.SaveAll(ctx, map[string][]byte{
		SnapshotCampaigns:         campaignsPayload,
		SnapshotCampaignBackdrops: backdropsPayload,
	}))
}

// recordSaveResult tracks the outcome of a snapshot write and logs failures.
func (s *rosterService) recordSaveResult(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		slog.Error("snapshot write failed, continuing with in-memory state",
			slog.Any("error", err),
		)
	} else if s.lastSaveErr != nil {
		slog.Info("snapshot writes recovered")
	}
	s.lastSaveErr = err
}
