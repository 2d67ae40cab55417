package validation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gravamen/contractgraph-backend/internal/domain"
	apperrors "github.com/gravamen/contractgraph-backend/internal/pkg/errors"
)

func TestRegistryAppliesDefaults(t *testing.T) {
	registry := NewRegistry(testLogger())
	if err := registry.Register(domain.ClientStandards{ClientID: "C1", ClientName: "Client One"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	std, err := registry.Get("C1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if std.PreferredCapType != "aggregate" {
		t.Fatalf("preferred cap type default: got %q", std.PreferredCapType)
	}
	if std.OpenSourcePolicy != "prohibited" {
		t.Fatalf("open source policy default: got %q", std.OpenSourcePolicy)
	}
	if std.IPOwnershipRequired == nil || !*std.IPOwnershipRequired {
		t.Fatalf("ip ownership should default to required")
	}
	if std.AuditRightsRequired == nil || !*std.AuditRightsRequired {
		t.Fatalf("audit rights should default to required")
	}
	if std.RequiredCarveOuts == nil || std.RequiredFrameworks == nil {
		t.Fatalf("slice fields should never be nil after registration")
	}
}

func TestRegistryRejectsEmptyID(t *testing.T) {
	registry := NewRegistry(testLogger())
	err := registry.Register(domain.ClientStandards{ClientName: "anonymous"})
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	registry := NewRegistry(testLogger())
	_, err := registry.Get("MISSING")
	if !errors.Is(err, apperrors.ErrUnknownClient) {
		t.Fatalf("want ErrUnknownClient, got %v", err)
	}
}

func TestRegistryListSorted(t *testing.T) {
	registry := NewRegistry(testLogger())
	for _, id := range []string{"ZETA", "ALPHA", "MIKE"} {
		if err := registry.Register(domain.ClientStandards{ClientID: id, ClientName: id}); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}
	list := registry.List()
	if len(list) != 3 {
		t.Fatalf("list length: want=3 got=%d", len(list))
	}
	want := []string{"ALPHA", "MIKE", "ZETA"}
	for i, s := range list {
		if s.ClientID != want[i] {
			t.Fatalf("list order: want=%v got[%d]=%s", want, i, s.ClientID)
		}
	}
}

func TestRegistryLoadFile(t *testing.T) {
	content := `clients:
  - client_id: BIGBANK
    client_name: BigBank Corp
    max_liability_cap: 5000000
    required_carve_outs: [gross negligence, fraud]
    required_sla_uptime: 99.9
    required_frameworks: [SOC2, PCI-DSS]
    certification_required: true
  - client_id: TECHSTARTUP
    client_name: TechStartup Inc
    gdpr_required: true
    sublicensing_allowed: true
`
	path := filepath.Join(t.TempDir(), "standards.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	registry := NewRegistry(testLogger())
	n, err := registry.LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if n != 2 {
		t.Fatalf("registered count: want=2 got=%d", n)
	}

	std, err := registry.Get("BIGBANK")
	if err != nil {
		t.Fatalf("get BIGBANK: %v", err)
	}
	if std.MaxLiabilityCap == nil || *std.MaxLiabilityCap != 5_000_000 {
		t.Fatalf("max cap: got %v", std.MaxLiabilityCap)
	}
	if std.RequiredSLAUptime == nil || *std.RequiredSLAUptime != 99.9 {
		t.Fatalf("sla uptime: got %v", std.RequiredSLAUptime)
	}
	if len(std.RequiredCarveOuts) != 2 || std.RequiredCarveOuts[0] != "gross negligence" {
		t.Fatalf("carve outs: got %v", std.RequiredCarveOuts)
	}

	tech, err := registry.Get("TECHSTARTUP")
	if err != nil {
		t.Fatalf("get TECHSTARTUP: %v", err)
	}
	if !tech.GDPRRequired || !tech.SublicensingAllowed {
		t.Fatalf("techstartup flags: gdpr=%v sublicensing=%v", tech.GDPRRequired, tech.SublicensingAllowed)
	}
}

func TestRegistryLoadFileBareList(t *testing.T) {
	content := `- client_id: MEDTECH
  client_name: MedTech Solutions
  breach_notification_max_hours: 24
`
	path := filepath.Join(t.TempDir(), "standards.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	registry := NewRegistry(testLogger())
	n, err := registry.LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if n != 1 {
		t.Fatalf("registered count: want=1 got=%d", n)
	}
	std, err := registry.Get("MEDTECH")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if std.BreachNotificationMaxHours == nil || *std.BreachNotificationMaxHours != 24 {
		t.Fatalf("breach hours: got %v", std.BreachNotificationMaxHours)
	}
}
