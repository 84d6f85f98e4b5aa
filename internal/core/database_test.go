// AngelaMos | 2026
// database_test.go

package core

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapStoreError(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name           string
		in             error
		want           error
		wantConstraint string
	}{
		{name: "nil", in: nil, want: nil},
		{name: "no rows", in: sql.ErrNoRows, want: ErrNotFound},
		{name: "wrapped no rows", in: fmt.Errorf("get user: %w", sql.ErrNoRows), want: ErrNotFound},
		{
			name:           "unique",
			in:             &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"},
			want:           ErrDuplicateKey,
			wantConstraint: "users_email_key",
		},
		{
			name:           "foreign key",
			in:             &pgconn.PgError{Code: "23503", ConstraintName: "mentees_team_id_fkey"},
			want:           ErrNotFound,
			wantConstraint: "mentees_team_id_fkey",
		},
		{name: "passthrough", in: other, want: other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapStoreError(tt.in)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("MapStoreError() = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("MapStoreError() = %v, want %v", got, tt.want)
			}
			if c := ConstraintName(got); c != tt.wantConstraint {
				t.Errorf("ConstraintName() = %q, want %q", c, tt.wantConstraint)
			}
		})
	}
}

func TestJitteredDuration(t *testing.T) {
	base := 30 * time.Minute
	for range 50 {
		got := jitteredDuration(base)
		if got < base || got >= base+base/7 {
			t.Fatalf("jitteredDuration(%v) = %v", base, got)
		}
	}
	if got := jitteredDuration(0); got != 0 {
		t.Errorf("jitteredDuration(0) = %v", got)
	}
}
