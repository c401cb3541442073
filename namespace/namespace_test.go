package namespace

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNamespace_Key(t *testing.T) {
	tests := []struct {
		name string
		ns   Namespace
		key  string
		want string
	}{
		{"rooted", New("app"), "users", "app:users"},
		{"trimmed root", New(":app:"), "users", "app:users"},
		{"already prefixed", New("app"), "app:users", "app:users"},
		{"no root", New(""), "users", "users"},
		{"zero value", Namespace{}, "users", "users"},
		{"custom delimiter", New("app", WithDelimiter("/")), "users", "app/users"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ns.Key(tt.key); got != tt.want {
				t.Errorf("Key(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestNamespace_StripHas(t *testing.T) {
	ns := New("app")
	if got := ns.Strip("app:users"); got != "users" {
		t.Errorf("Strip = %q", got)
	}
	if got := ns.Strip("other:users"); got != "other:users" {
		t.Errorf("Strip foreign key = %q", got)
	}
	if !ns.Has("app:x") || ns.Has("apple") || ns.Has("other:x") {
		t.Error("Has mismatch")
	}
	if (Namespace{}).Has("anything") {
		t.Error("empty namespace should contain nothing")
	}
}

func TestNamespace_Append(t *testing.T) {
	base := New("app")
	child := base.Append("users", "", ":v2:")

	if got := child.Root(); got != "app:users:v2" {
		t.Errorf("Root = %q", got)
	}
	if got := child.Prefix(); got != "app:users:v2:" {
		t.Errorf("Prefix = %q", got)
	}
	if base.Root() != "app" {
		t.Errorf("Append mutated the parent: %q", base.Root())
	}
	if got := New("").Append("a", "b").Root(); got != "a:b" {
		t.Errorf("Append on empty = %q", got)
	}
	if got := New("a", WithDelimiter(".")).Append("b").Key("c"); got != "a.b.c" {
		t.Errorf("delimiter not inherited: %q", got)
	}
}

func TestNamespace_Keys(t *testing.T) {
	got := New("app").Keys("a", "app:b")
	if diff := cmp.Diff([]string{"app:a", "app:b"}, got); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
}
