// AngelaMos | 2026
// security_test.go

package core

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=1,p=4$") {
		t.Errorf("hash = %q", hash)
	}

	ok, upgraded, err := VerifyPassword("correct horse", hash)
	if err != nil || !ok || upgraded != "" {
		t.Errorf("VerifyPassword(match) = %v, %q, %v", ok, upgraded, err)
	}

	ok, _, err = VerifyPassword("wrong horse", hash)
	if err != nil || ok {
		t.Errorf("VerifyPassword(mismatch) = %v, %v", ok, err)
	}
}

func TestVerifyPasswordUpgradesOldCost(t *testing.T) {
	old := argonParams{memory: 32 * 1024, time: 2, threads: 2, keyLen: 32}
	salt := []byte("0123456789abcdef")
	hash := old.encode(salt, old.derive("s3cret", salt))

	ok, upgraded, err := VerifyPassword("s3cret", hash)
	if err != nil || !ok {
		t.Fatalf("VerifyPassword() = %v, %v", ok, err)
	}
	if upgraded == "" {
		t.Fatal("expected an upgraded hash")
	}

	ok, again, err := VerifyPassword("s3cret", upgraded)
	if err != nil || !ok || again != "" {
		t.Errorf("upgraded hash verify = %v, %q, %v", ok, again, err)
	}
}

func TestVerifyPasswordMalformed(t *testing.T) {
	salt := base64.RawStdEncoding.EncodeToString([]byte("0123456789abcdef"))
	for name, hash := range map[string]string{
		"empty":       "",
		"bcrypt":      "$2a$10$abcdefghijklmnopqrstuu",
		"old version": "$argon2id$v=16$m=65536,t=1,p=4$" + salt + "$" + salt,
		"bad params":  "$argon2id$v=19$m=x,t=1,p=4$" + salt + "$" + salt,
		"bad salt":    "$argon2id$v=19$m=65536,t=1,p=4$!!$" + salt,
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := VerifyPassword("pw", hash)
			if !errors.Is(err, ErrMalformedHash) {
				t.Errorf("error = %v, want ErrMalformedHash", err)
			}
		})
	}
}

func TestVerifyPasswordTimingSafeWithoutHash(t *testing.T) {
	empty := ""
	for _, hash := range []*string{nil, &empty} {
		ok, upgraded, err := VerifyPasswordTimingSafe("mentorcamp-absent-user", hash)
		if ok || upgraded != "" || err != nil {
			t.Errorf("VerifyPasswordTimingSafe() = %v, %q, %v", ok, upgraded, err)
		}
	}
}

func TestHashToken(t *testing.T) {
	a, b := HashToken("token-a"), HashToken("token-b")
	if a == b || len(a) != 64 {
		t.Errorf("HashToken gave %q and %q", a, b)
	}
	if HashToken("token-a") != a {
		t.Error("HashToken is not deterministic")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ada@Example.COM "); got != "ada@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}
