package catalog

import (
	"strings"
	"testing"

	types "github.com/yungbote/shelfsignal-backend/internal/domain"
)

func edition(isbn13, isbn10, olid, asin string) *types.WorkEdition {
	return &types.WorkEdition{ISBN13: isbn13, ISBN10: isbn10, OpenLibraryID: olid, ASIN: asin}
}

func TestShouldMergeSharedISBN13(t *testing.T) {
	a := []*types.WorkEdition{edition("9780261103344", "", "", "")}
	b := []*types.WorkEdition{edition("9780261103344", "0261103342", "", "")}
	ok, reason := ShouldMerge(a, b)
	if !ok {
		t.Fatal("shared isbn13 should merge")
	}
	if !strings.Contains(reason, "isbn13") {
		t.Fatalf("reason should name isbn13, got %q", reason)
	}
}

func TestShouldMergeStrengthOrdering(t *testing.T) {
	// Shares both an isbn10 and an asin; the stronger identifier names
	// the reason.
	a := []*types.WorkEdition{edition("", "0261103342", "", "B000XYZ")}
	b := []*types.WorkEdition{edition("", "0261103342", "", "B000XYZ")}
	ok, reason := ShouldMerge(a, b)
	if !ok {
		t.Fatal("shared identifiers should merge")
	}
	if !strings.Contains(reason, "isbn10") {
		t.Fatalf("isbn10 outranks asin, got %q", reason)
	}
}

func TestShouldMergeNoSharedIdentifier(t *testing.T) {
	a := []*types.WorkEdition{edition("9780261103344", "", "", "")}
	b := []*types.WorkEdition{edition("9780547928227", "", "OL123", "")}
	if ok, reason := ShouldMerge(a, b); ok || reason != "" {
		t.Fatalf("disjoint identifiers must not merge, got %v %q", ok, reason)
	}
}

func TestShouldMergeIgnoresEmptyIdentifiers(t *testing.T) {
	a := []*types.WorkEdition{edition("", "", "", "")}
	b := []*types.WorkEdition{edition("", "", "", "")}
	if ok, _ := ShouldMerge(a, b); ok {
		t.Fatal("empty identifiers must never match each other")
	}
}

func TestTrigramSimilarityBasics(t *testing.T) {
	if got := TrigramSimilarity("The Hobbit", "the hobbit!"); got != 1.0 {
		t.Fatalf("case and punctuation should not matter, got %v", got)
	}
	if got := TrigramSimilarity("The Hobbit", "War and Peace"); got >= 0.3 {
		t.Fatalf("unrelated titles should score low, got %v", got)
	}
	near := TrigramSimilarity("The Fellowship of the Ring", "Fellowship of the Ring")
	if near < 0.6 {
		t.Fatalf("near-identical titles should pass the 0.6 screen, got %v", near)
	}
	if got := TrigramSimilarity("", "anything"); got != 0 {
		t.Fatalf("empty input scores 0, got %v", got)
	}
}

func TestNormalizeText(t *testing.T) {
	if got := normalizeText("  The  HOBBIT, or There & Back Again! "); got != "the hobbit or there back again" {
		t.Fatalf("got %q", got)
	}
}
