package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func boolPtr(b bool) *bool { return &b }

func TestLoadFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.toml", `
paths = ["module_a"]
no_overwrite = true
exclude_lint = ["module_a/migrations", "module_b"]
pylint_disable_checks = ["import-error"]
odoo_version = "16.0"
color = "never"
`)

	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(f.Paths) != 1 || f.Paths[0] != "module_a" {
		t.Errorf("Paths = %v", f.Paths)
	}
	if f.NoOverwrite == nil || !*f.NoOverwrite {
		t.Errorf("NoOverwrite = %v, want true", f.NoOverwrite)
	}
	if f.FailOptional != nil {
		t.Errorf("FailOptional should be unset, got %v", *f.FailOptional)
	}
	if len(f.ExcludeLint) != 2 {
		t.Errorf("ExcludeLint = %v", f.ExcludeLint)
	}
	if f.OdooVersion != "16.0" {
		t.Errorf("OdooVersion = %q", f.OdooVersion)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()
	f, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f != nil {
		t.Errorf("expected nil file, got %+v", f)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"syntax", `paths = [`},
		{"unknown key", `worktree_dir = "/tmp"`},
		{"bad color", `color = "sometimes"`},
		{"wrong type", `no_overwrite = "yes"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeConfig(t, t.TempDir(), "config.toml", tt.content)
			if _, err := LoadFile(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadFile_ExpandsTemplateDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	path := writeConfig(t, t.TempDir(), "config.toml", `template_dir = "~/vauxoo-cfg"`)

	f, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, "vauxoo-cfg"); f.TemplateDir != want {
		t.Errorf("TemplateDir = %q, want %q", f.TemplateDir, want)
	}
}

func TestLoadLocal(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeConfig(t, dir, LocalConfigFileName, `fail_optional = true`)

	f, err := LoadLocal(dir)
	if err != nil {
		t.Fatal(err)
	}
	if f.FailOptional == nil || !*f.FailOptional {
		t.Errorf("FailOptional = %v, want true", f.FailOptional)
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	global := &File{
		Paths:               []string{"a"},
		NoOverwrite:         boolPtr(true),
		PylintDisableChecks: []string{"import-error"},
		OdooVersion:         "15.0",
		Color:               "always",
	}
	local := &File{
		NoOverwrite:         boolPtr(false),
		PylintDisableChecks: []string{},
		OdooVersion:         "16.0",
	}

	merged := Merge(global, local)

	if len(merged.Paths) != 1 || merged.Paths[0] != "a" {
		t.Errorf("Paths should be inherited, got %v", merged.Paths)
	}
	if *merged.NoOverwrite {
		t.Error("NoOverwrite should be overridden to false")
	}
	if len(merged.PylintDisableChecks) != 0 {
		t.Errorf("an empty local list should clear the global one, got %v", merged.PylintDisableChecks)
	}
	if merged.OdooVersion != "16.0" || merged.Color != "always" {
		t.Errorf("OdooVersion=%q Color=%q", merged.OdooVersion, merged.Color)
	}
	if global.OdooVersion != "15.0" || !*global.NoOverwrite {
		t.Error("Merge must not mutate global")
	}
}

func TestMerge_Nil(t *testing.T) {
	t.Parallel()
	if Merge(nil, nil) != nil {
		t.Error("Merge(nil, nil) should be nil")
	}
	local := &File{OdooVersion: "16.0"}
	if got := Merge(nil, local); got.OdooVersion != "16.0" {
		t.Errorf("Merge(nil, local) = %+v", got)
	}
	global := &File{Color: "never"}
	if got := Merge(global, nil); got.Color != "never" || got == global {
		t.Errorf("Merge(global, nil) should copy global, got %+v", got)
	}
}

func TestGlobalPath(t *testing.T) {
	t.Parallel()
	got, err := GlobalPath(Env{"PRE_COMMIT_VAUXOO_CONFIG": "/etc/pcv.toml"})
	if err != nil || got != "/etc/pcv.toml" {
		t.Errorf("GlobalPath = %q, %v", got, err)
	}
	got, err = GlobalPath(Env{})
	if err == nil && filepath.Base(got) != "config.toml" {
		t.Errorf("GlobalPath = %q", got)
	}
}
