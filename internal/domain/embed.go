package domain

import (
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

type EmbedProvider string

const (
	ProviderYouTube    EmbedProvider = "youtube"
	ProviderSpotify    EmbedProvider = "spotify"
	ProviderBandcamp   EmbedProvider = "bandcamp"
	ProviderSoundCloud EmbedProvider = "soundcloud"
	ProviderVimeo      EmbedProvider = "vimeo"
)

var embedHosts = map[string]EmbedProvider{
	"youtube.com":       ProviderYouTube,
	"youtu.be":          ProviderYouTube,
	"open.spotify.com":  ProviderSpotify,
	"bandcamp.com":      ProviderBandcamp,
	"soundcloud.com":    ProviderSoundCloud,
	"vimeo.com":         ProviderVimeo,
	"player.vimeo.com":  ProviderVimeo,
	"music.youtube.com": ProviderYouTube,
}

type MediaEmbed struct {
	ID         uuid.UUID     `json:"id"`
	EntityType EntityType    `json:"entityType"`
	EntityID   uuid.UUID     `json:"entityId"`
	URL        string        `json:"url"`
	Title      string        `json:"title,omitempty"`
	Provider   EmbedProvider `json:"provider"`
	Position   int           `json:"position"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// DetectProvider validates a media URL and reports which player it embeds.
// Bandcamp artist pages live on subdomains, so suffix matches count.
func DetectProvider(raw string) (EmbedProvider, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", errors.Wrapf(ErrInvalidInput, "invalid media url %q", raw)
	}
	if u.Scheme != "https" {
		return "", errors.Wrap(ErrInvalidInput, "media url must use https")
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if p, ok := embedHosts[host]; ok {
		return p, nil
	}
	for h, p := range embedHosts {
		if strings.HasSuffix(host, "."+h) {
			return p, nil
		}
	}
	return "", errors.Wrapf(ErrInvalidInput, "unsupported media host %q", host)
}

func NewMediaEmbed(t EntityType, entityID uuid.UUID, rawURL, title string, position int, now time.Time) (MediaEmbed, error) {
	if !t.Valid() {
		return MediaEmbed{}, errors.Wrapf(ErrInvalidInput, "unknown entity type %q", t)
	}
	provider, err := DetectProvider(rawURL)
	if err != nil {
		return MediaEmbed{}, err
	}
	return MediaEmbed{
		ID:         uuid.New(),
		EntityType: t,
		EntityID:   entityID,
		URL:        strings.TrimSpace(rawURL),
		Title:      strings.TrimSpace(title),
		Provider:   provider,
		Position:   position,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
