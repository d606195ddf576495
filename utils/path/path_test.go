package path

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolve(t *testing.T) {
	root := RootPath()
	cases := []struct {
		name string
		in   string
		dirs []string
		want string
	}{
		{"empty", "", nil, ""},
		{"absolute", "/etc/travelmail.yaml", []string{"conf"}, "/etc/travelmail.yaml"},
		{"env file at root", ".env", nil, filepath.Join(root, ".env")},
		{"yaml under conf", "local.yaml", []string{"conf"}, filepath.Join(root, "conf", "local.yaml")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Resolve(tc.in, tc.dirs...); got != tc.want {
				t.Fatalf("Resolve(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestExists(t *testing.T) {
	if ok, err := Exists(filepath.Join(RootPath(), "go.mod")); err != nil || !ok {
		t.Fatalf("go.mod should exist: %v %v", ok, err)
	}
	missing := filepath.Join(t.TempDir(), "nope")
	if ok, err := Exists(missing); err != nil || ok {
		t.Fatalf("missing file reported: %v %v", ok, err)
	}
	if _, err := os.Stat(RootPath()); err != nil {
		t.Fatalf("root path: %v", err)
	}
}
