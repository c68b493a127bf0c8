package addons

import "testing"

func TestConfigVarKey(t *testing.T) {
	tests := []struct {
		attachment string
		want       string
	}{
		{"DATABASE", "DATABASE_URL"},
		{"shared-postgresql", "SHARED_POSTGRESQL_URL"},
		{"db1", "DB1_URL"},
		{"amber-carbon-4821", "AMBER_CARBON_4821_URL"},
	}
	for _, tt := range tests {
		if got := ConfigVarKey(tt.attachment); got != tt.want {
			t.Errorf("ConfigVarKey(%q) = %q, want %q", tt.attachment, got, tt.want)
		}
	}
}

func TestConfigVarValue(t *testing.T) {
	if got := ConfigVarValue("postgres", "db1"); got != "@postgres/db1" {
		t.Errorf("ConfigVarValue() = %q, want %q", got, "@postgres/db1")
	}
}

func TestDeriveAttachmentName(t *testing.T) {
	if got := DeriveAttachmentName("amber-carbon-4821"); got != "AMBER_CARBON_4821" {
		t.Errorf("DeriveAttachmentName() = %q, want %q", got, "AMBER_CARBON_4821")
	}
}

func TestResourceService(t *testing.T) {
	r := &Resource{Plan: "postgres:standard"}
	if got := r.Service(); got != "postgres" {
		t.Errorf("Service() = %q, want %q", got, "postgres")
	}
	r = &Resource{Plan: "redis"}
	if got := r.Service(); got != "redis" {
		t.Errorf("Service() = %q, want %q", got, "redis")
	}
}
