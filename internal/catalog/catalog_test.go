package catalog

import "testing"

func TestQuestionsAreWellFormed(t *testing.T) {
	qs := Questions()
	if len(qs) == 0 {
		t.Fatal("empty catalog")
	}

	seen := make(map[string]bool)
	for _, q := range qs {
		if q.ID == "" || q.Title == "" {
			t.Errorf("question %+v missing id or title", q)
		}
		if seen[q.ID] {
			t.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestCatalogDeclaresOneOrderManager(t *testing.T) {
	count := 0
	for _, q := range Questions() {
		if q.Kind == KindOrderManager {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one order-manager question, got %d", count)
	}
}

func TestCompositeIsFirst(t *testing.T) {
	q, ok := composite()
	if !ok {
		t.Fatal("no composite-company question declared")
	}
	if q.ID != "company_referent" {
		t.Errorf("composite id = %q", q.ID)
	}
	if Questions()[0].ID != q.ID {
		t.Error("client identity must open the interview")
	}
}

func TestByIndexClamps(t *testing.T) {
	if ByIndex(-1).ID != Questions()[0].ID {
		t.Error("negative index must clamp to the first question")
	}
	last := Questions()[Total()-1]
	if ByIndex(Total()+5).ID != last.ID {
		t.Error("overflow index must clamp to the last question")
	}
}
