package domain

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestUserModelTagsAndDefaults(t *testing.T) {
	typ := reflect.TypeOf(User{})

	email, ok := typ.FieldByName("Email")
	if !ok {
		t.Fatal("missing User.Email field")
	}
	if got := email.Tag.Get("json"); got != "email" {
		t.Fatalf("User.Email json tag mismatch: %q", got)
	}
	if !strings.Contains(email.Tag.Get("gorm"), "uniqueIndex") {
		t.Fatalf("User.Email gorm tag missing uniqueIndex: %q", email.Tag.Get("gorm"))
	}

	verified, ok := typ.FieldByName("EmailVerified")
	if !ok {
		t.Fatal("missing User.EmailVerified field")
	}
	if !strings.Contains(verified.Tag.Get("gorm"), "default:false") {
		t.Fatalf("User.EmailVerified gorm tag missing default:false: %q", verified.Tag.Get("gorm"))
	}
}

func TestSensitiveFieldsAreHiddenFromJSON(t *testing.T) {
	cases := []struct {
		typeName string
		typ      reflect.Type
		field    string
	}{
		{typeName: "LocalCredential", typ: reflect.TypeOf(LocalCredential{}), field: "PasswordHash"},
		{typeName: "Session", typ: reflect.TypeOf(Session{}), field: "RefreshTokenHash"},
		{typeName: "VerificationToken", typ: reflect.TypeOf(VerificationToken{}), field: "TokenHash"},
	}

	for _, tc := range cases {
		f, ok := tc.typ.FieldByName(tc.field)
		if !ok {
			t.Fatalf("%s.%s missing", tc.typeName, tc.field)
		}
		if got := f.Tag.Get("json"); got != "-" {
			t.Fatalf("expected %s.%s json tag '-' for sensitive field, got %q", tc.typeName, tc.field, got)
		}
	}
}

func TestVerificationTokenActivePredicate(t *testing.T) {
	now := time.Now().UTC()
	used := now.Add(-time.Minute)

	cases := []struct {
		name  string
		token VerificationToken
		want  bool
	}{
		{name: "live", token: VerificationToken{ExpiresAt: now.Add(time.Hour)}, want: true},
		{name: "expired unconsumed", token: VerificationToken{ExpiresAt: now.Add(-time.Second)}, want: false},
		{name: "consumed", token: VerificationToken{ExpiresAt: now.Add(time.Hour), UsedAt: &used}, want: false},
		{name: "consumed and expired", token: VerificationToken{ExpiresAt: now.Add(-time.Hour), UsedAt: &used}, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.token.Active(now); got != tc.want {
				t.Fatalf("Active(now)=%v want=%v for %+v", got, tc.want, tc.token)
			}
		})
	}
}

func TestSessionAndVerificationTokenIndexContracts(t *testing.T) {
	sessionType := reflect.TypeOf(Session{})
	expires, ok := sessionType.FieldByName("ExpiresAt")
	if !ok {
		t.Fatal("missing Session.ExpiresAt")
	}
	if !strings.Contains(expires.Tag.Get("gorm"), "index") {
		t.Fatalf("Session.ExpiresAt should be indexed: %q", expires.Tag.Get("gorm"))
	}

	vtType := reflect.TypeOf(VerificationToken{})
	hash, ok := vtType.FieldByName("TokenHash")
	if !ok {
		t.Fatal("missing VerificationToken.TokenHash")
	}
	if !strings.Contains(hash.Tag.Get("gorm"), "uniqueIndex") {
		t.Fatalf("VerificationToken.TokenHash should be unique indexed: %q", hash.Tag.Get("gorm"))
	}
	userIdx, ok := vtType.FieldByName("UserID")
	if !ok {
		t.Fatal("missing VerificationToken.UserID")
	}
	if !strings.Contains(userIdx.Tag.Get("gorm"), "idx_verification_user_used") {
		t.Fatalf("VerificationToken.UserID should share the user/used sweep index: %q", userIdx.Tag.Get("gorm"))
	}
}

func TestBudgetUserCategoryUniquePair(t *testing.T) {
	typ := reflect.TypeOf(Budget{})
	for _, field := range []string{"UserID", "Category"} {
		f, ok := typ.FieldByName(field)
		if !ok {
			t.Fatalf("missing Budget.%s", field)
		}
		if !strings.Contains(f.Tag.Get("gorm"), "idx_budget_user_category,unique") {
			t.Fatalf("expected Budget.%s in unique pair index, got %q", field, f.Tag.Get("gorm"))
		}
	}
}
