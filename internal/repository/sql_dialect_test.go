package repository

import (
	"testing"
)

func TestBuildLikeConditionByDialectSQLite(t *testing.T) {
	condition, argCount := buildLikeConditionByDialect("sqlite", []string{"name", " ", "part_number"})
	if argCount != 2 {
		t.Fatalf("arg count want 2 got %d", argCount)
	}
	want := "(name LIKE ? OR part_number LIKE ?)"
	if condition != want {
		t.Fatalf("condition mismatch, want %s got %s", want, condition)
	}
}

func TestBuildLikeConditionByDialectPostgres(t *testing.T) {
	condition, argCount := buildLikeConditionByDialect("postgres", []string{"brand"})
	if argCount != 1 || condition != "(brand ILIKE ?)" {
		t.Fatalf("unexpected postgres condition %s (%d)", condition, argCount)
	}
}

func TestBuildLikeConditionEmptyColumns(t *testing.T) {
	condition, argCount := buildLikeConditionByDialect("sqlite", nil)
	if condition != "" || argCount != 0 {
		t.Fatalf("expected empty condition, got %q (%d)", condition, argCount)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%колодки%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%колодки%" {
			t.Fatalf("args[%d] unexpected %v", idx, arg)
		}
	}
}
