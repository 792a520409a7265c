package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

func TestInit_Run(t *testing.T) {
	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create"},
		{name: "overwrite with force", force: true, exists: true},
		{name: "exists without force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing: true\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			var cli struct {
				LogLevel  string `default:"warn" name:"log-level"`
				KeepGoing bool   `name:"keep-going"`
				MaxDepth  int    `default:"10000" name:"max-depth"`
			}

			parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
			if err != nil {
				t.Fatal(err)
			}

			ktx, err := parser.Parse([]string{"--max-depth=64"})
			if err != nil {
				t.Fatal(err)
			}

			ctx := WithContext(context.Background(), ktx)

			err = (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrWriteConfig) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			data, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var conf map[string]any
			if err := yaml.Unmarshal(data, &conf); err != nil {
				t.Fatalf("config is not YAML: %v\n%s", err, data)
			}

			if conf["log-level"] != "warn" {
				t.Errorf("log-level = %v", conf["log-level"])
			}

			if fmt.Sprint(conf["max-depth"]) != "64" {
				t.Errorf("max-depth = %#v", conf["max-depth"])
			}

			if conf["keep-going"] != false {
				t.Errorf("keep-going = %v", conf["keep-going"])
			}

			if _, ok := conf["help"]; ok {
				t.Error("help flag written to config")
			}
		})
	}
}
