package repository

import (
	"strings"
	"testing"
)

func TestLikeOperatorByDialect(t *testing.T) {
	if got := likeOperatorByDialect("postgres"); got != "ILIKE" {
		t.Fatalf("postgres want ILIKE got %s", got)
	}
	if got := likeOperatorByDialect("sqlite"); got != "LIKE" {
		t.Fatalf("sqlite want LIKE got %s", got)
	}
	if got := dbDialectName(nil); got != "sqlite" {
		t.Fatalf("nil db should default to sqlite, got %s", got)
	}
}

func TestBuildLikeConditionSkipsBlankColumns(t *testing.T) {
	condition, argCount := buildLikeConditionByDialect("postgres", []string{"products.name", " ", "products.slug"})
	if argCount != 2 {
		t.Fatalf("arg count want 2 got %d", argCount)
	}
	want := "products.name ILIKE ? OR products.slug ILIKE ?"
	if condition != want {
		t.Fatalf("condition want %s got %s", want, condition)
	}
}

func TestJSONArrayContainsExprByDialect(t *testing.T) {
	if got := jsonArrayContainsExprByDialect("postgres", "products.tags"); got != "jsonb_exists(products.tags::jsonb, ?)" {
		t.Fatalf("postgres expr mismatch: %s", got)
	}
	if got := jsonArrayContainsExprByDialect("sqlite", "products.tags"); !strings.Contains(got, "json_each(products.tags)") {
		t.Fatalf("sqlite expr mismatch: %s", got)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%test%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%test%" {
			t.Fatalf("args[%d] want %%test%% got %v", idx, arg)
		}
	}
}
