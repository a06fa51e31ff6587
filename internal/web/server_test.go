package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/peterkuimelis/counterspell/internal/deck"
	"github.com/peterkuimelis/counterspell/internal/scryfall"
	"github.com/peterkuimelis/counterspell/internal/search"
)

type fakeProvider struct {
	result *scryfall.SearchResult
	err    error
}

func (f *fakeProvider) SearchCards(ctx context.Context, query string) (*scryfall.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeProvider) ListSymbols(ctx context.Context) (scryfall.SymbolMap, error) {
	return scryfall.SymbolMap{}, nil
}

func testCard(id, name string) scryfall.Card {
	return scryfall.Card{
		ID:       id,
		Name:     name,
		TypeLine: "Instant",
		ImageURIs: &scryfall.ImageURIs{
			Normal:  "https://img.example/" + id + ".jpg",
			ArtCrop: "https://img.example/" + id + "-art.jpg",
		},
	}
}

func newTestServer(t *testing.T, provider search.Provider) (*Server, *deck.Store) {
	t.Helper()
	store := deck.NewStore(nil)
	return NewServer(search.New(provider, 0, nil), store), store
}

func getJSON(t *testing.T, ts *httptest.Server, path string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return resp
}

func postJSON(t *testing.T, ts *httptest.Server, path string, body any, out any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp
}

func TestSearchEndpoint(t *testing.T) {
	provider := &fakeProvider{result: &scryfall.SearchResult{
		TotalCards: 1,
		Data:       []scryfall.Card{testCard("abc", "Counterspell")},
	}}
	srv, _ := newTestServer(t, provider)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	var page search.Page
	resp := getJSON(t, ts, "/api/search?q=counterspell", &page)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if page.TotalCards != 1 || len(page.Cards) != 1 {
		t.Fatalf("page = %+v", page)
	}
	if page.Cards[0].Name != "Counterspell" {
		t.Errorf("card name = %q", page.Cards[0].Name)
	}
}

func TestSearchEndpointEmptyQuery(t *testing.T) {
	srv, _ := newTestServer(t, &fakeProvider{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	var body map[string]string
	resp := getJSON(t, ts, "/api/search?q=%20%20", &body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body["error"] != "Please enter a search query" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestSearchEndpointProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: &scryfall.APIError{
		Status:  400,
		Details: "All of your terms were ignored.",
	}}
	srv, _ := newTestServer(t, provider)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	var body map[string]string
	resp := getJSON(t, ts, "/api/search?q=bogus", &body)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
	want := "Counter Spell: All of your terms were ignored."
	if body["error"] != want {
		t.Errorf("error = %q, want %q", body["error"], want)
	}
}

func TestAddCardFlow(t *testing.T) {
	provider := &fakeProvider{result: &scryfall.SearchResult{
		TotalCards: 1,
		Data:       []scryfall.Card{testCard("abc", "Counterspell")},
	}}
	srv, store := newTestServer(t, provider)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	// Cards must come off a search result before they can be added.
	var page search.Page
	getJSON(t, ts, "/api/search?q=counterspell", &page)

	var view deck.View
	resp := postJSON(t, ts, "/api/deck/cards",
		map[string]any{"zone": "mainboard", "card_id": "abc", "quantity": 3}, &view)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if view.TotalCards != 3 {
		t.Errorf("TotalCards = %d, want 3", view.TotalCards)
	}
	if store.TotalCount() != 3 {
		t.Errorf("store TotalCount = %d", store.TotalCount())
	}
}

func TestAddCardUnknownID(t *testing.T) {
	srv, _ := newTestServer(t, &fakeProvider{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp := postJSON(t, ts, "/api/deck/cards",
		map[string]any{"zone": "mainboard", "card_id": "nope", "quantity": 1}, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestAddCardBadQuantity(t *testing.T) {
	provider := &fakeProvider{result: &scryfall.SearchResult{
		TotalCards: 1,
		Data:       []scryfall.Card{testCard("abc", "Counterspell")},
	}}
	srv, _ := newTestServer(t, provider)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	var page search.Page
	getJSON(t, ts, "/api/search?q=counterspell", &page)

	var body map[string]string
	resp := postJSON(t, ts, "/api/deck/cards",
		map[string]any{"zone": "mainboard", "card_id": "abc", "quantity": 0}, &body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if !strings.Contains(body["error"], "at least 1") {
		t.Errorf("error = %q", body["error"])
	}
}

func TestCommanderCapReturnsConflict(t *testing.T) {
	cards := []scryfall.Card{
		testCard("c1", "Tymna the Weaver"),
		testCard("c2", "Thrasios, Triton Hero"),
		testCard("c3", "Kenrith, the Returned King"),
	}
	provider := &fakeProvider{result: &scryfall.SearchResult{TotalCards: 3, Data: cards}}
	srv, _ := newTestServer(t, provider)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	var page search.Page
	getJSON(t, ts, "/api/search?q=commander", &page)

	for _, id := range []string{"c1", "c2"} {
		resp := postJSON(t, ts, "/api/deck/commander", map[string]any{"card_id": id}, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("commander %s: status = %d", id, resp.StatusCode)
		}
	}

	var body map[string]string
	resp := postJSON(t, ts, "/api/deck/commander", map[string]any{"card_id": "c3"}, &body)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
	if !strings.Contains(body["error"], "two commanders") {
		t.Errorf("error = %q", body["error"])
	}
}

func TestRemoveCardEndpoint(t *testing.T) {
	provider := &fakeProvider{result: &scryfall.SearchResult{
		TotalCards: 1,
		Data:       []scryfall.Card{testCard("abc", "Counterspell")},
	}}
	srv, store := newTestServer(t, provider)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	var page search.Page
	getJSON(t, ts, "/api/search?q=counterspell", &page)
	postJSON(t, ts, "/api/deck/cards",
		map[string]any{"zone": "mainboard", "card_id": "abc", "quantity": 2}, nil)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/deck/cards/mainboard/abc", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if store.TotalCount() != 0 {
		t.Errorf("TotalCount = %d after removal", store.TotalCount())
	}
}

func TestRenameAndClear(t *testing.T) {
	srv, store := newTestServer(t, &fakeProvider{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	var view deck.View
	postJSON(t, ts, "/api/deck/name", map[string]any{"name": "Izzet Tempo"}, &view)
	if view.Name != "Izzet Tempo" {
		t.Errorf("Name = %q", view.Name)
	}

	postJSON(t, ts, "/api/deck/clear", nil, &view)
	if view.Name != "" || view.TotalCards != 0 {
		t.Errorf("cleared view = %+v", view)
	}
	if store.Snapshot().Name != "" {
		t.Error("store name survived clear")
	}
}

func TestDeckSnapshotEndpoint(t *testing.T) {
	srv, store := newTestServer(t, &fakeProvider{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	store.SetName("Grixis Control")

	var view deck.View
	resp := getJSON(t, ts, "/api/deck", &view)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if view.Name != "Grixis Control" {
		t.Errorf("Name = %q", view.Name)
	}
}

func TestWebSocketPushesSnapshots(t *testing.T) {
	provider := &fakeProvider{result: &scryfall.SearchResult{
		TotalCards: 1,
		Data:       []scryfall.Card{testCard("abc", "Counterspell")},
	}}
	srv, store := newTestServer(t, provider)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	readView := func() deck.View {
		t.Helper()
		_, data, err := conn.Read(ctx)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var v deck.View
		if err := json.Unmarshal(data, &v); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return v
	}

	// Initial snapshot arrives before any mutation.
	if v := readView(); v.TotalCards != 0 {
		t.Fatalf("initial TotalCards = %d", v.TotalCards)
	}

	store.AddToZone(deck.ZoneMainboard, testCard("abc", "Counterspell"), 4)

	if v := readView(); v.TotalCards != 4 {
		t.Fatalf("pushed TotalCards = %d, want 4", v.TotalCards)
	}
}

func TestIndexServed(t *testing.T) {
	srv, _ := newTestServer(t, &fakeProvider{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestUnknownPathIs404(t *testing.T) {
	srv, _ := newTestServer(t, &fakeProvider{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(fmt.Sprintf("%s/no/such/page", ts.URL))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
