package storefront

import "testing"

func uintPtr(v uint) *uint { return &v }

func sampleCategories() []Category {
	return []Category{
		{ID: 1, Name: "Двигатель", SortOrder: 1},
		{ID: 2, Name: "Фильтры", ParentID: uintPtr(1)},
		{ID: 3, Name: "Масляные фильтры", ParentID: uintPtr(2)},
		{ID: 4, Name: "Подвеска", SortOrder: 5},
		{ID: 5, Name: "Сирота", ParentID: uintPtr(99)},
	}
}

func TestBuildCategoryTree(t *testing.T) {
	tree := BuildCategoryTree(sampleCategories())
	if len(tree) != 3 {
		t.Fatalf("expected 3 roots, got %d", len(tree))
	}
	if tree[0].ID != 4 {
		t.Fatalf("higher sort order should come first, got %d", tree[0].ID)
	}
	var engine *CategoryNode
	for _, n := range tree {
		if n.ID == 1 {
			engine = n
		}
	}
	if engine == nil || len(engine.Children) != 1 || len(engine.Children[0].Children) != 1 {
		t.Fatalf("unexpected engine subtree %+v", engine)
	}
}

func TestCategoryPathAndDescendants(t *testing.T) {
	tree := BuildCategoryTree(sampleCategories())
	path := CategoryPath(tree, 3)
	if len(path) != 3 || path[0].ID != 1 || path[2].ID != 3 {
		t.Fatalf("unexpected path %+v", path)
	}
	if CategoryPath(tree, 404) != nil {
		t.Fatalf("missing category should have nil path")
	}
	ids := DescendantIDs(tree, 1)
	if len(ids) != 3 {
		t.Fatalf("expected 3 ids, got %v", ids)
	}
}
