// AngelaMos | 2026
// directory_test.go

package search

import (
	"context"
	"testing"

	"github.com/mentorcamp/backend/internal/config"
)

func TestNewWithoutHostIsNop(t *testing.T) {
	d := New(config.MeilisearchConfig{Index: "users"})
	if _, ok := d.(Nop); !ok {
		t.Fatalf("got %T, want Nop", d)
	}

	hits, err := d.SearchUsers(context.Background(), "anyone", 10)
	if err != nil || len(hits) != 0 {
		t.Fatalf("unexpected result: %v %v", hits, err)
	}
}

func TestNewWithHostIsMeili(t *testing.T) {
	d := New(config.MeilisearchConfig{Host: "http://127.0.0.1:7700", Index: "users"})
	md, ok := d.(*MeiliDirectory)
	if !ok {
		t.Fatalf("got %T, want *MeiliDirectory", d)
	}
	if md.index != "users" {
		t.Fatalf("index = %q", md.index)
	}
}
