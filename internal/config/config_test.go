package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("USERPROFILE", tempDir)

	configDir := filepath.Join(tempDir, ".config", "certdeploy")

	t.Run("New", func(t *testing.T) {
		cfg := New()
		if cfg.ServiceName != "Tomcat9" {
			t.Errorf("expected Tomcat9 service, got %s", cfg.ServiceName)
		}
		if cfg.ConfigFile != "server.xml" {
			t.Errorf("expected server.xml, got %s", cfg.ConfigFile)
		}
		if cfg.Store != StoreS3 {
			t.Errorf("expected s3 store, got %s", cfg.Store)
		}
	})

	t.Run("LoadNonexistent", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.ServiceName != DefaultServiceName {
			t.Errorf("expected default service, got %s", cfg.ServiceName)
		}
		if cfg.Path() != filepath.Join(configDir, "config.yaml") {
			t.Errorf("unexpected path %s", cfg.Path())
		}
	})

	t.Run("SaveAndLoad", func(t *testing.T) {
		cfg := New()
		cfg.Bucket = "corp-certificates"
		cfg.ObjectKey = "tomcat/prod/server.pfx"
		cfg.ConfigDir = `C:\Tomcat9\conf`
		cfg.CertDir = `C:\certs`
		cfg.Store = StoreAzBlob
		cfg.Azure.AccountURL = "https://corpcerts.blob.core.windows.net/"

		if err := cfg.Save(); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		if _, err := os.Stat(filepath.Join(configDir, "config.yaml")); os.IsNotExist(err) {
			t.Fatal("config file was not created")
		}

		loaded, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if loaded.Bucket != cfg.Bucket || loaded.ObjectKey != cfg.ObjectKey {
			t.Errorf("object location not preserved: %+v", loaded)
		}
		if loaded.ConfigDir != `C:\Tomcat9\conf` {
			t.Errorf("config dir not preserved: %s", loaded.ConfigDir)
		}
		if loaded.Store != StoreAzBlob || loaded.Azure.AccountURL != cfg.Azure.AccountURL {
			t.Errorf("store settings not preserved: %+v", loaded)
		}
	})
}

func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantErr     string
		wantService string
		wantStore   string
	}{
		{
			name:        "partial profile keeps defaults",
			content:     "bucket: certs\n",
			wantService: DefaultServiceName,
			wantStore:   StoreS3,
		},
		{
			name:        "empty values fall back to defaults",
			content:     "service_name: \"\"\nstore: \"\"\n",
			wantService: DefaultServiceName,
			wantStore:   StoreS3,
		},
		{
			name:        "custom service and file store",
			content:     "service_name: Tomcat10\nstore: file\nfile:\n  root: /srv/certs\n",
			wantService: "Tomcat10",
			wantStore:   StoreFile,
		},
		{
			name:    "invalid store",
			content: "store: ftp\n",
			wantErr: "invalid store",
		},
		{
			name:    "malformed yaml",
			content: "bucket: [unterminated\n",
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "profile.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			cfg, err := LoadFrom(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.ServiceName != tt.wantService {
				t.Errorf("ServiceName = %s, want %s", cfg.ServiceName, tt.wantService)
			}
			if cfg.Store != tt.wantStore {
				t.Errorf("Store = %s, want %s", cfg.Store, tt.wantStore)
			}
		})
	}
}

func TestSaveToLoadedPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "profile.yaml")
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	cfg.Bucket = "certs"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("profile not written to loaded path: %v", err)
	}
	if !strings.Contains(string(data), "bucket: certs") {
		t.Errorf("unexpected profile content:\n%s", data)
	}
}

func TestIsValidStore(t *testing.T) {
	for _, s := range ValidStores() {
		if !IsValidStore(s) {
			t.Errorf("%s should be valid", s)
		}
	}
	if IsValidStore("gcs") {
		t.Error("gcs should not be valid")
	}
}
