package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/dugoutlabs/ballstats/internal/domain/player"
	"github.com/dugoutlabs/ballstats/internal/infrastructure/repository/memory"
	"github.com/dugoutlabs/ballstats/internal/platform/logging"
	"github.com/dugoutlabs/ballstats/internal/usecase"
)

type stubFeed struct {
	players []player.Player
	err     error
}

func (s *stubFeed) FetchPlayers(_ context.Context) ([]player.Player, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]player.Player(nil), s.players...), nil
}

type stubGenerator struct {
	text string
	err  error
}

func (s *stubGenerator) Complete(_ context.Context, _ string, _ int) (string, error) {
	return s.text, s.err
}

func newTestRouter(t *testing.T, feed usecase.FeedClient, generator usecase.TextGenerator) http.Handler {
	t.Helper()

	repo := memory.NewPlayerRepository()
	playerSvc := usecase.NewPlayerService(repo, feed, 1000, logging.NewNop())
	descriptionSvc := usecase.NewDescriptionService(generator, 250, nil, logging.NewNop())
	handler := NewHandler(playerSvc, descriptionSvc, logging.NewNop(), "ballstats-api", "test")

	return NewRouter(handler, logging.NewNop(), []string{"*"})
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	return recorder
}

func decodeData(t *testing.T, recorder *httptest.ResponseRecorder, out any) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := sonic.Unmarshal(recorder.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if err := sonic.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

const ichiroBody = `{"Player":"Ichiro Suzuki","AgeThatYear":"30","Hits":262,"Year":2004,"Bats":"L","Rank":"1"}`

func TestPlayerLifecycle(t *testing.T) {
	router := newTestRouter(t, &stubFeed{}, &stubGenerator{text: "x"})

	created := doRequest(t, router, http.MethodPost, "/api/players/7", ichiroBody)
	if created.Code != http.StatusCreated {
		t.Fatalf("create: unexpected status %d: %s", created.Code, created.Body.String())
	}
	var createData struct {
		Message  string `json:"message"`
		PlayerID int    `json:"player_id"`
	}
	decodeData(t, created, &createData)
	if createData.Message != "Player added successfully" || createData.PlayerID != 7 {
		t.Fatalf("unexpected create response: %+v", createData)
	}

	fetched := doRequest(t, router, http.MethodGet, "/api/players/7", "")
	if fetched.Code != http.StatusOK {
		t.Fatalf("get: unexpected status %d", fetched.Code)
	}
	var record playerDTO
	decodeData(t, fetched, &record)
	if record.ID != 7 || record.Name != "Ichiro Suzuki" || record.Hits != 262 {
		t.Fatalf("unexpected record: %+v", record)
	}

	updated := doRequest(t, router, http.MethodPut, "/api/players/7",
		`{"Player":"Ichiro Suzuki","AgeThatYear":"31","Hits":206,"Year":2005,"Bats":"L","Rank":"2"}`)
	if updated.Code != http.StatusOK {
		t.Fatalf("update: unexpected status %d: %s", updated.Code, updated.Body.String())
	}
	decodeData(t, updated, &record)
	if record.Hits != 206 || record.Year != 2005 {
		t.Fatalf("unexpected updated record: %+v", record)
	}

	deleted := doRequest(t, router, http.MethodDelete, "/api/players/7", "")
	if deleted.Code != http.StatusOK {
		t.Fatalf("delete: unexpected status %d", deleted.Code)
	}
	var deleteData struct {
		Message string `json:"message"`
	}
	decodeData(t, deleted, &deleteData)
	if deleteData.Message != "Player with ID 7 deleted successfully" {
		t.Fatalf("unexpected delete message: %q", deleteData.Message)
	}

	gone := doRequest(t, router, http.MethodGet, "/api/players/7", "")
	if gone.Code != http.StatusNotFound {
		t.Fatalf("get after delete: unexpected status %d", gone.Code)
	}
}

func TestCreatePlayer_DuplicateID(t *testing.T) {
	router := newTestRouter(t, &stubFeed{}, &stubGenerator{text: "x"})

	if got := doRequest(t, router, http.MethodPost, "/api/players/7", ichiroBody); got.Code != http.StatusCreated {
		t.Fatalf("first create: unexpected status %d", got.Code)
	}

	duplicate := doRequest(t, router, http.MethodPost, "/api/players/7", ichiroBody)
	if duplicate.Code != http.StatusBadRequest {
		t.Fatalf("duplicate create: unexpected status %d", duplicate.Code)
	}
	if !strings.Contains(duplicate.Body.String(), "alreadyExists") {
		t.Fatalf("expected alreadyExists reason, got %s", duplicate.Body.String())
	}
}

func TestCreatePlayer_InvalidPayload(t *testing.T) {
	router := newTestRouter(t, &stubFeed{}, &stubGenerator{text: "x"})

	malformed := doRequest(t, router, http.MethodPost, "/api/players/7", `{"Player":`)
	if malformed.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: unexpected status %d", malformed.Code)
	}

	missingField := doRequest(t, router, http.MethodPost, "/api/players/7", `{"Player":"Ichiro Suzuki"}`)
	if missingField.Code != http.StatusBadRequest {
		t.Fatalf("missing fields: unexpected status %d", missingField.Code)
	}

	unknownField := doRequest(t, router, http.MethodPost, "/api/players/7",
		`{"Player":"Ichiro Suzuki","AgeThatYear":"30","Hits":262,"Year":2004,"Bats":"L","Rank":"1","Steals":45}`)
	if unknownField.Code != http.StatusBadRequest {
		t.Fatalf("unknown field: unexpected status %d", unknownField.Code)
	}
}

func TestGetPlayer_NonIntegerID(t *testing.T) {
	router := newTestRouter(t, &stubFeed{}, &stubGenerator{text: "x"})

	got := doRequest(t, router, http.MethodGet, "/api/players/ruth", "")
	if got.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", got.Code)
	}
}

func TestListPlayers(t *testing.T) {
	router := newTestRouter(t, &stubFeed{}, &stubGenerator{text: "x"})

	empty := doRequest(t, router, http.MethodGet, "/api/players", "")
	if empty.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", empty.Code)
	}
	var items []playerDTO
	decodeData(t, empty, &items)
	if len(items) != 0 {
		t.Fatalf("expected empty list, got %d items", len(items))
	}

	if got := doRequest(t, router, http.MethodPost, "/api/players/7", ichiroBody); got.Code != http.StatusCreated {
		t.Fatalf("create: unexpected status %d", got.Code)
	}

	listed := doRequest(t, router, http.MethodGet, "/api/players", "")
	decodeData(t, listed, &items)
	if len(items) != 1 || items[0].ID != 7 {
		t.Fatalf("unexpected list: %+v", items)
	}
}

func TestDescribePlayer(t *testing.T) {
	router := newTestRouter(t, &stubFeed{}, &stubGenerator{text: "A great contact hitter."})

	if got := doRequest(t, router, http.MethodPost, "/api/players/7", ichiroBody); got.Code != http.StatusCreated {
		t.Fatalf("create: unexpected status %d", got.Code)
	}

	described := doRequest(t, router, http.MethodGet, "/api/players/description/7", "")
	if described.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", described.Code)
	}
	if source := described.Header().Get(descriptionSourceHeader); source != "generated" {
		t.Fatalf("unexpected description source: %q", source)
	}
	var data describedPlayerDTO
	decodeData(t, described, &data)
	if data.ID != 7 || data.Description != "A great contact hitter." {
		t.Fatalf("unexpected described player: %+v", data)
	}
}

func TestDescribePlayer_FallbackWhenProviderFails(t *testing.T) {
	router := newTestRouter(t, &stubFeed{}, &stubGenerator{err: errors.New("provider down")})

	if got := doRequest(t, router, http.MethodPost, "/api/players/7", ichiroBody); got.Code != http.StatusCreated {
		t.Fatalf("create: unexpected status %d", got.Code)
	}

	described := doRequest(t, router, http.MethodGet, "/api/players/description/7", "")
	if described.Code != http.StatusOK {
		t.Fatalf("degraded describe must still return 200, got %d", described.Code)
	}
	if source := described.Header().Get(descriptionSourceHeader); source != "fallback" {
		t.Fatalf("unexpected description source: %q", source)
	}
	var data describedPlayerDTO
	decodeData(t, described, &data)
	if !strings.Contains(data.Description, "No AI-generated description available for Ichiro Suzuki") {
		t.Fatalf("unexpected fallback description: %q", data.Description)
	}
}

func TestDescribePlayer_NotFound(t *testing.T) {
	router := newTestRouter(t, &stubFeed{}, &stubGenerator{text: "x"})

	got := doRequest(t, router, http.MethodGet, "/api/players/description/42", "")
	if got.Code != http.StatusNotFound {
		t.Fatalf("unexpected status %d", got.Code)
	}
}

func TestLoadPlayers(t *testing.T) {
	feed := &stubFeed{players: []player.Player{
		{ID: 1, Name: "A", AgeThatYear: "25", Hits: 200, Year: 1990, Bats: "R", Rank: "1"},
		{ID: 2, Name: "B", AgeThatYear: "28", Hits: 150, Year: 1991, Bats: "L", Rank: ""},
	}}
	router := newTestRouter(t, feed, &stubGenerator{text: "x"})

	first := doRequest(t, router, http.MethodGet, "/api/players/load", "")
	if first.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", first.Code, first.Body.String())
	}
	var data struct {
		Message string `json:"message"`
	}
	decodeData(t, first, &data)
	if data.Message != "Successfully loaded 2 players" {
		t.Fatalf("unexpected load message: %q", data.Message)
	}

	second := doRequest(t, router, http.MethodGet, "/api/players/load", "")
	if second.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", second.Code)
	}
	decodeData(t, second, &data)
	if data.Message != "Collection already contains 2 players" {
		t.Fatalf("unexpected repeat load message: %q", data.Message)
	}
}

func TestLoadPlayers_UpstreamFailure(t *testing.T) {
	router := newTestRouter(t, &stubFeed{err: usecase.ErrUpstreamUnavailable}, &stubGenerator{text: "x"})

	got := doRequest(t, router, http.MethodGet, "/api/players/load", "")
	if got.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", got.Code)
	}
	if !strings.Contains(got.Body.String(), "upstreamUnavailable") {
		t.Fatalf("expected upstreamUnavailable reason, got %s", got.Body.String())
	}
}

func TestHealthzAndRoot(t *testing.T) {
	router := newTestRouter(t, &stubFeed{}, &stubGenerator{text: "x"})

	health := doRequest(t, router, http.MethodGet, "/healthz", "")
	if health.Code != http.StatusOK {
		t.Fatalf("healthz: unexpected status %d", health.Code)
	}

	root := doRequest(t, router, http.MethodGet, "/", "")
	if root.Code != http.StatusOK {
		t.Fatalf("root: unexpected status %d", root.Code)
	}
	var data map[string]string
	decodeData(t, root, &data)
	if data["service"] != "ballstats-api" {
		t.Fatalf("unexpected root payload: %+v", data)
	}
}

func TestRequestIDHeader(t *testing.T) {
	router := newTestRouter(t, &stubFeed{}, &stubGenerator{text: "x"})

	generated := doRequest(t, router, http.MethodGet, "/api/players", "")
	if generated.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected a generated request id header")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/players", nil)
	req.Header.Set(requestIDHeader, "req-123")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	if got := recorder.Header().Get(requestIDHeader); got != "req-123" {
		t.Fatalf("expected caller request id to be echoed, got %q", got)
	}
}
