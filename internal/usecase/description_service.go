package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/valyala/bytebufferpool"

	"github.com/dugoutlabs/ballstats/internal/domain/player"
	"github.com/dugoutlabs/ballstats/internal/platform/cache"
	"github.com/dugoutlabs/ballstats/internal/platform/logging"
	"github.com/dugoutlabs/ballstats/internal/platform/resilience"
)

// TextGenerator produces free text for a prompt within a token budget.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// DescriptionService builds a natural-language description for a player
// record. Describe is total: any provider failure is swallowed and replaced
// with a deterministic template, so the enrichment route stays available
// while the provider is degraded. The Description.Source field lets callers
// observe degraded mode.
type DescriptionService struct {
	generator TextGenerator
	maxTokens int
	store     *cache.Store
	flight    resilience.SingleFlight
	logger    *logging.Logger
}

func NewDescriptionService(generator TextGenerator, maxTokens int, store *cache.Store, logger *logging.Logger) *DescriptionService {
	if logger == nil {
		logger = logging.Default()
	}
	if maxTokens < 1 {
		maxTokens = 250
	}

	return &DescriptionService{
		generator: generator,
		maxTokens: maxTokens,
		store:     store,
		logger:    logger,
	}
}

func (s *DescriptionService) Describe(ctx context.Context, record player.Player) player.Description {
	ctx, span := startUsecaseSpan(ctx, "usecase.DescriptionService.Describe")
	defer span.End()

	key := descriptionCacheKey(record)
	if s.store != nil {
		if cached, ok := s.store.Get(ctx, key); ok {
			if text, ok := cached.(string); ok && text != "" {
				return player.Description{Text: text, Source: player.DescriptionSourceGenerated}
			}
		}
	}

	text, err, shared := s.flight.Do(key, func() (any, error) {
		return s.generator.Complete(ctx, buildDescriptionPrompt(record), s.maxTokens)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "description generation degraded to fallback",
			"player_id", record.ID,
			"error", err,
		)
		return player.Description{
			Text:   fallbackDescription(record),
			Source: player.DescriptionSourceFallback,
		}
	}

	generated, _ := text.(string)
	if generated == "" {
		return player.Description{
			Text:   fallbackDescription(record),
			Source: player.DescriptionSourceFallback,
		}
	}

	if s.store != nil && !shared {
		s.store.Set(ctx, key, generated)
	}

	return player.Description{Text: generated, Source: player.DescriptionSourceGenerated}
}

func buildDescriptionPrompt(record player.Player) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("Write a detailed description for the baseball player: ")
	_, _ = buf.WriteString(record.Name)
	_, _ = buf.WriteString(". Include information about their ")
	_, _ = buf.WriteString(strconv.Itoa(record.Year))
	_, _ = buf.WriteString(" season when they had ")
	_, _ = buf.WriteString(strconv.Itoa(record.Hits))
	_, _ = buf.WriteString(" hits at age ")
	_, _ = buf.WriteString(record.AgeThatYear)
	_, _ = buf.WriteString(".")

	return buf.String()
}

func fallbackDescription(record player.Player) string {
	return fmt.Sprintf(
		"No AI-generated description available for %s at this time. During the %d season, they recorded %d hits at age %s.",
		record.Name, record.Year, record.Hits, record.AgeThatYear,
	)
}

func descriptionCacheKey(record player.Player) string {
	return fmt.Sprintf("description:%d:%s:%d:%d:%s", record.ID, record.Name, record.Year, record.Hits, record.AgeThatYear)
}
