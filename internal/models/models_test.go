package models

import (
	"encoding/json"
	"testing"
)

func TestGameRegional(t *testing.T) {
	regional := Game{GameID: "g1", Meta: GameMeta{Zipcodes: []string{"10001"}}}
	if !regional.Regional() {
		t.Error("game with zip codes should be regional")
	}

	global := Game{GameID: "g2"}
	if global.Regional() {
		t.Error("game without zip codes should not be regional")
	}
}

func TestUserPageHasNext(t *testing.T) {
	withNext := []byte(`{"_embedded":{"items":[{"user_id":"u1"}]},"_links":{"next":{"href":"/group/g/users?page=2"}}}`)
	var page UserPage
	if err := json.Unmarshal(withNext, &page); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !page.HasNext() {
		t.Error("expected next page to be advertised")
	}

	lastPage := []byte(`{"_embedded":{"items":[]}}`)
	page = UserPage{}
	if err := json.Unmarshal(lastPage, &page); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.HasNext() {
		t.Error("expected no next page")
	}
}

func TestMissingEmbeddedYieldsEmptyCollections(t *testing.T) {
	var games GamePage
	if err := json.Unmarshal([]byte(`{}`), &games); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(games.Embedded.Games) != 0 {
		t.Errorf("expected no games, got %v", games.Embedded.Games)
	}
}
