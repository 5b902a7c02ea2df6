package admin

import (
	"errors"
	"testing"
)

func TestSecretStore_ExactMatchOnly(t *testing.T) {
	store := NewSecretStore("Open-Sesame")

	cases := []struct {
		presented string
		want      bool
	}{
		{"Open-Sesame", true},
		{"Open", false},         // prefix
		{"Sesame", false},       // suffix
		{"Open-Sesame!", false}, // extension
		{"open-sesame", false},  // case
		{" Open-Sesame", false}, // no trimming
		{"", false},
	}
	for _, tc := range cases {
		got, err := store.Verify(tc.presented)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.presented, err)
		}
		if got != tc.want {
			t.Errorf("%q: expected %v, got %v", tc.presented, tc.want, got)
		}
	}
}

func TestSecretStore_Unconfigured(t *testing.T) {
	store := NewSecretStore("")

	for _, presented := range []string{"", "anything"} {
		ok, err := store.Verify(presented)
		if ok {
			t.Errorf("%q: unconfigured store must never verify", presented)
		}
		if !errors.Is(err, ErrSecretNotConfigured) {
			t.Errorf("%q: expected ErrSecretNotConfigured, got %v", presented, err)
		}
	}
}
