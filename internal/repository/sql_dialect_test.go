package repository

import (
	"strings"
	"testing"
)

func TestLikeOperatorByDialect(t *testing.T) {
	if got := likeOperatorByDialect("postgres"); got != "ILIKE" {
		t.Fatalf("postgres operator want ILIKE got %s", got)
	}
	if got := likeOperatorByDialect(" PostgreSQL "); got != "ILIKE" {
		t.Fatalf("postgresql operator want ILIKE got %s", got)
	}
	if got := likeOperatorByDialect("sqlite"); got != "LIKE" {
		t.Fatalf("sqlite operator want LIKE got %s", got)
	}
	if got := likeOperatorByDialect(""); got != "LIKE" {
		t.Fatalf("empty dialect operator want LIKE got %s", got)
	}
}

func TestBuildSearchCondition(t *testing.T) {
	condition, argCount := buildSearchCondition(nil, []string{"slug", "name", " ", "description"})
	if argCount != 3 {
		t.Fatalf("arg count want 3 got %d", argCount)
	}
	if condition != "slug LIKE ? OR name LIKE ? OR description LIKE ?" {
		t.Fatalf("condition mismatch, got %s", condition)
	}
}

func TestBuildSearchConditionPostgres(t *testing.T) {
	condition, argCount := buildSearchConditionByDialect("postgres", []string{"name", "description"})
	if argCount != 2 {
		t.Fatalf("arg count want 2 got %d", argCount)
	}
	if !strings.Contains(condition, "name ILIKE ?") || !strings.Contains(condition, "description ILIKE ?") {
		t.Fatalf("condition should use ILIKE, got %s", condition)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%paella%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%paella%" {
			t.Fatalf("args[%d] want %%paella%% got %v", idx, arg)
		}
	}
}
