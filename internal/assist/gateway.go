package assist

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"celebrisaludos/internal/media/sniffer"
	"celebrisaludos/internal/media/svg"
	"celebrisaludos/internal/metrics"
)

const (
	opGreeting = "greeting"
	opAdmin    = "admin_suggestions"
	opImage    = "image_concept"

	outcomeOK           = "ok"
	outcomeUnconfigured = "unconfigured"
	outcomeError        = "error"
	outcomeFallback     = "parse_fallback"
	outcomeNoData       = "no_data"
)

// Gateway wraps the generative provider. None of its methods return errors;
// failures degrade to fixed fallback content.
type Gateway struct {
	provider Provider
	images   ImageStore
	log      zerolog.Logger
}

// NewGateway accepts a nil provider (canned mode) and a nil image store (inline data URIs).
func NewGateway(provider Provider, images ImageStore, log zerolog.Logger) *Gateway {
	return &Gateway{
		provider: provider,
		images:   images,
		log:      log,
	}
}

func (g *Gateway) Configured() bool {
	return g.provider != nil
}

func (g *Gateway) SuggestGreeting(ctx context.Context, occasion, recipient string) string {
	if g.provider == nil {
		metrics.RecordAssist(opGreeting, outcomeUnconfigured)
		return cannedGreeting(occasion, recipient)
	}

	text, err := g.provider.GenerateText(ctx, greetingPrompt(occasion, recipient))
	if err != nil {
		g.failed(opGreeting, err)
		return greetingUnavailable
	}

	metrics.RecordAssist(opGreeting, outcomeOK)
	return FormatIdeas(text)
}

func (g *Gateway) SuggestAdminContent(ctx context.Context, occasion, recipient, fanMessage string) AdminSuggestions {
	if g.provider == nil {
		metrics.RecordAssist(opAdmin, outcomeUnconfigured)
		return cannedAdminSuggestions(occasion, recipient, fanMessage)
	}

	text, err := g.provider.GenerateText(ctx, adminPrompt(occasion, recipient, fanMessage))
	if err != nil {
		g.failed(opAdmin, err)
		return AdminSuggestions{Script: scriptFailed, Note: noteUnavailable}
	}

	out, fallback := parseAdminSuggestions(text)
	if fallback {
		g.log.Debug().Msg("admin suggestion markers missing, using whole response")
		metrics.RecordAssist(opAdmin, outcomeFallback)
		return out
	}
	metrics.RecordAssist(opAdmin, outcomeOK)
	return out
}

// GenerateImageConcept returns a URL or data URI for a concept image.
func (g *Gateway) GenerateImageConcept(ctx context.Context, prompt string) string {
	if g.provider == nil {
		metrics.RecordAssist(opImage, outcomeUnconfigured)
		return PlaceholderImageURL(prompt)
	}

	img, err := g.provider.GenerateImage(ctx, imagePrompt(prompt))
	if err != nil {
		g.failed(opImage, err)
		return PlaceholderImageURL("image_error")
	}
	if len(img.Data) == 0 {
		g.log.Warn().Msg("image provider returned no image bytes")
		metrics.RecordAssist(opImage, outcomeNoData)
		return PlaceholderImageURL("image_no_data")
	}

	kind, err := sniffer.Detect(img.Data)
	if err != nil {
		g.log.Warn().Err(err).Str("declared_mime", img.MIME).Msg("unrecognised image payload")
		metrics.RecordAssist(opImage, outcomeNoData)
		return PlaceholderImageURL("image_no_data")
	}

	data := img.Data
	if kind.Type == sniffer.TypeSVG {
		clean, err := svg.Sanitize(data)
		if err != nil {
			g.log.Warn().Err(err).Msg("sanitize svg concept")
			metrics.RecordAssist(opImage, outcomeNoData)
			return PlaceholderImageURL("image_no_data")
		}
		data = clean
	}

	metrics.RecordAssist(opImage, outcomeOK)

	if g.images != nil {
		u, err := g.images.PutConcept(ctx, data, kind.Ext(), kind.MIME)
		if err == nil {
			return u
		}
		g.log.Warn().Err(err).Msg("store concept image, returning inline copy")
	}
	return fmt.Sprintf("data:%s;base64,%s", kind.MIME, base64.StdEncoding.EncodeToString(data))
}

func (g *Gateway) failed(operation string, err error) {
	event := g.log.Error().Err(err).Str("operation", operation)
	if !errors.Is(err, ErrExternalServiceUnavailable) {
		event = event.Bool("unclassified", true)
	}
	event.Msg("ai assist call failed")
	metrics.RecordAssist(operation, outcomeError)
}

// PlaceholderImageURL builds a stock image URL seeded by the prompt.
func PlaceholderImageURL(seed string) string {
	seed = whitespacePattern.ReplaceAllString(seed, "_")
	return fmt.Sprintf("https://picsum.photos/seed/%s/300/200", url.PathEscape(seed))
}

func isBirthday(occasion string) bool {
	lower := strings.ToLower(occasion)
	return strings.Contains(lower, "birthday") || strings.Contains(lower, "cumpleaños")
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
