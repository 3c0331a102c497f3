package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/dugoutlabs/ballstats/internal/domain/player"
	"github.com/dugoutlabs/ballstats/internal/usecase"
)

const descriptionSourceHeader = "X-Description-Source"

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	records, err := h.playerService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(records))
	for _, record := range records {
		items = append(items, playerToDTO(record))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	id, err := parsePlayerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	record, err := h.playerService.Get(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "player_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(record))
}

func (h *Handler) DescribePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DescribePlayer")
	defer span.End()

	id, err := parsePlayerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	record, err := h.playerService.Get(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "describe player failed", "player_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	description := h.descriptionService.Describe(ctx, record)

	w.Header().Set(descriptionSourceHeader, string(description.Source))
	writeSuccess(ctx, w, http.StatusOK, describedPlayerDTO{
		playerDTO:   playerToDTO(record),
		Description: description.Text,
	})
}

func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePlayer")
	defer span.End()

	id, err := parsePlayerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	req, err := decodePlayerRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.playerService.Create(ctx, id, req.toPlayer()); err != nil {
		h.logger.WarnContext(ctx, "create player failed", "player_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, map[string]any{
		"message":   "Player added successfully",
		"player_id": id,
	})
}

func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePlayer")
	defer span.End()

	id, err := parsePlayerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	req, err := decodePlayerRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	record, err := h.playerService.Update(ctx, id, req.toPlayer())
	if err != nil {
		h.logger.WarnContext(ctx, "update player failed", "player_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(record))
}

func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePlayer")
	defer span.End()

	id, err := parsePlayerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.playerService.Delete(ctx, id); err != nil {
		h.logger.WarnContext(ctx, "delete player failed", "player_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Player with ID %d deleted successfully", id),
	})
}

func (h *Handler) LoadPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LoadPlayers")
	defer span.End()

	result, err := h.playerService.SeedFromFeed(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "seed players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	message := fmt.Sprintf("Successfully loaded %d players", result.Loaded)
	if !result.Seeded {
		message = fmt.Sprintf("Collection already contains %d players", result.ExistingCount)
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"message": message})
}

func parsePlayerID(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.PathValue("id"))
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: player id %q is not an integer", usecase.ErrInvalidInput, raw)
	}

	return id, nil
}

func decodePlayerRequest(r *http.Request) (playerUpsertRequest, error) {
	var req playerUpsertRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return playerUpsertRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}

// playerUpsertRequest is the write payload for create and update. The path id
// is authoritative; a body id, when present, is ignored. Pointer fields make
// field presence checkable while still admitting zero values.
type playerUpsertRequest struct {
	ID          *int    `json:"id"`
	Name        *string `json:"Player" validate:"required"`
	AgeThatYear *string `json:"AgeThatYear" validate:"required"`
	Hits        *int    `json:"Hits" validate:"required,min=0"`
	Year        *int    `json:"Year" validate:"required"`
	Bats        *string `json:"Bats" validate:"required"`
	Rank        *string `json:"Rank" validate:"required"`
}

func (req playerUpsertRequest) toPlayer() player.Player {
	record := player.Player{}
	if req.Name != nil {
		record.Name = *req.Name
	}
	if req.AgeThatYear != nil {
		record.AgeThatYear = *req.AgeThatYear
	}
	if req.Hits != nil {
		record.Hits = *req.Hits
	}
	if req.Year != nil {
		record.Year = *req.Year
	}
	if req.Bats != nil {
		record.Bats = *req.Bats
	}
	if req.Rank != nil {
		record.Rank = *req.Rank
	}

	return record
}

type playerDTO struct {
	ID          int    `json:"id"`
	Name        string `json:"Player"`
	AgeThatYear string `json:"AgeThatYear"`
	Hits        int    `json:"Hits"`
	Year        int    `json:"Year"`
	Bats        string `json:"Bats"`
	Rank        string `json:"Rank"`
}

type describedPlayerDTO struct {
	playerDTO
	Description string `json:"description"`
}

func playerToDTO(record player.Player) playerDTO {
	return playerDTO{
		ID:          record.ID,
		Name:        record.Name,
		AgeThatYear: record.AgeThatYear,
		Hits:        record.Hits,
		Year:        record.Year,
		Bats:        record.Bats,
		Rank:        record.Rank,
	}
}
