package secret

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/ksyq12/certdeploy/internal/input"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestResolve(t *testing.T) {
	keyring.MockInit()
	if err := keyring.Set(KeyringService, "Tomcat9", "from-keyring"); err != nil {
		t.Fatalf("seed keyring: %v", err)
	}

	tests := []struct {
		name       string
		lookup     Lookup
		want       string
		wantSource Source
		wantErr    bool
	}{
		{
			name: "flag wins",
			lookup: Lookup{
				Flag:    "from-flag",
				Stdin:   input.NewStringReader("from-stdin\n"),
				Getenv:  env(map[string]string{EnvPassword: "from-env"}),
				Keyring: OSKeyring{},
				Account: "Tomcat9",
			},
			want:       "from-flag",
			wantSource: SourceFlag,
		},
		{
			name: "stdin before environment",
			lookup: Lookup{
				Stdin:  input.NewStringReader("from-stdin\r\n"),
				Getenv: env(map[string]string{EnvPassword: "from-env"}),
			},
			want:       "from-stdin",
			wantSource: SourceStdin,
		},
		{
			name:    "empty stdin is an error",
			lookup:  Lookup{Stdin: input.NewStringReader()},
			wantErr: true,
		},
		{
			name: "environment",
			lookup: Lookup{
				Getenv:  env(map[string]string{EnvPassword: "from-env"}),
				Keyring: OSKeyring{},
				Account: "Tomcat9",
			},
			want:       "from-env",
			wantSource: SourceEnv,
		},
		{
			name:       "legacy environment variable",
			lookup:     Lookup{Getenv: env(map[string]string{EnvPasswordLegacy: "legacy"})},
			want:       "legacy",
			wantSource: SourceEnv,
		},
		{
			name: "keyring fallback",
			lookup: Lookup{
				Getenv:  env(nil),
				Keyring: OSKeyring{},
				Account: "Tomcat9",
			},
			want:       "from-keyring",
			wantSource: SourceKeyring,
		},
		{
			name: "nothing found",
			lookup: Lookup{
				Getenv:  env(nil),
				Keyring: OSKeyring{},
				Account: "OtherService",
			},
			want:       "",
			wantSource: SourceNone,
		},
		{
			name:       "no sources",
			lookup:     Lookup{},
			want:       "",
			wantSource: SourceNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, source, err := Resolve(tt.lookup)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("password = %q, want %q", got, tt.want)
			}
			if source != tt.wantSource {
				t.Errorf("source = %q, want %q", source, tt.wantSource)
			}
		})
	}
}

func TestResolveKeyringUnavailable(t *testing.T) {
	keyring.MockInitWithError(errors.New("dbus: no session bus"))
	defer keyring.MockInit()

	got, source, err := Resolve(Lookup{Keyring: OSKeyring{}, Account: "Tomcat9"})
	if err != nil {
		t.Fatalf("an unavailable keyring should not be fatal: %v", err)
	}
	if got != "" || source != SourceNone {
		t.Errorf("expected no password, got %q from %q", got, source)
	}
}

func TestStore(t *testing.T) {
	keyring.MockInit()

	if err := Store(OSKeyring{}, "Tomcat9", "s3cret"); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	got, err := keyring.Get(KeyringService, "Tomcat9")
	if err != nil || got != "s3cret" {
		t.Errorf("keyring entry = %q, %v", got, err)
	}

	if err := Store(OSKeyring{}, "", "s3cret"); err == nil {
		t.Error("empty account should fail")
	}
	if err := Store(OSKeyring{}, "Tomcat9", ""); err == nil {
		t.Error("empty password should fail")
	}
}
