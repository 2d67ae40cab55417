package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gravamen/contractgraph-backend/internal/domain"
)

// contractFacts is the immutable snapshot one validation runs over. Each
// rule group reads its own slice and nothing else.
type contractFacts struct {
	caps           []domain.LiabilityCapFact
	obligations    []domain.ObligationFact
	compliance     []domain.ComplianceFact
	ip             []domain.IPFact
	insurance      []domain.InsuranceFact
	dataProtection []domain.DataProtectionFact
	termination    []domain.TerminationFact
}

type ruleGroup func(contractFacts, domain.ClientStandards) []domain.Issue

// ruleGroups lists every check category in report order.
var ruleGroups = []ruleGroup{
	checkLiability,
	checkObligations,
	checkCompliance,
	checkIP,
	checkInsurance,
	checkDataProtection,
	checkTermination,
}

func checkLiability(f contractFacts, std domain.ClientStandards) []domain.Issue {
	var issues []domain.Issue

	if len(f.caps) == 0 {
		if std.MaxLiabilityCap != nil || std.MinLiabilityCap != nil {
			issues = append(issues, domain.Issue{
				Type:     "missing_liability_cap",
				Severity: domain.SeverityCritical,
				Message:  "Contract has no liability cap, but client requires one",
			})
		}
		return issues
	}

	cap := f.caps[0]

	if nonzero(std.MaxLiabilityCap) && nonzero(cap.Amount) && *cap.Amount > *std.MaxLiabilityCap {
		issues = append(issues, domain.Issue{
			Type:     "liability_cap_exceeds_max",
			Severity: domain.SeverityCritical,
			Found:    *cap.Amount,
			Allowed:  *std.MaxLiabilityCap,
			Message:  fmt.Sprintf("Liability cap $%s exceeds client max of $%s", money(*cap.Amount), money(*std.MaxLiabilityCap)),
		})
	}

	if nonzero(std.MinLiabilityCap) && nonzero(cap.Amount) && *cap.Amount < *std.MinLiabilityCap {
		issues = append(issues, domain.Issue{
			Type:     "liability_cap_below_min",
			Severity: domain.SeverityWarning,
			Found:    *cap.Amount,
			Required: *std.MinLiabilityCap,
			Message:  fmt.Sprintf("Liability cap $%s below client minimum of $%s", money(*cap.Amount), money(*std.MinLiabilityCap)),
		})
	}

	if std.PreferredCapType != "" && cap.Type != std.PreferredCapType {
		issues = append(issues, domain.Issue{
			Type:      "wrong_cap_type",
			Severity:  domain.SeverityWarning,
			Found:     cap.Type,
			Preferred: std.PreferredCapType,
			Message:   fmt.Sprintf("Cap type is %s, client prefers %s", cap.Type, std.PreferredCapType),
		})
	}

	for _, required := range std.RequiredCarveOuts {
		if !anyContainsFold(cap.CarveOuts, required) {
			issues = append(issues, domain.Issue{
				Type:     "missing_carve_out",
				Severity: domain.SeverityWarning,
				Required: required,
				Message:  "Missing required carve-out: " + required,
			})
		}
	}

	return issues
}

func checkObligations(f contractFacts, std domain.ClientStandards) []domain.Issue {
	var issues []domain.Issue

	if len(f.obligations) == 0 {
		if len(std.RequiredDeliverables) > 0 {
			issues = append(issues, domain.Issue{
				Type:     "missing_obligations",
				Severity: domain.SeverityWarning,
				Message:  "No obligations defined in contract",
			})
		}
		return issues
	}

	if nonzero(std.RequiredSLAUptime) {
		want := uptime(*std.RequiredSLAUptime)
		found := false
		for _, o := range f.obligations {
			if o.PerformanceStandards != "" && strings.Contains(o.PerformanceStandards, want) {
				found = true
				break
			}
		}
		if !found {
			issues = append(issues, domain.Issue{
				Type:     "insufficient_sla",
				Severity: domain.SeverityCritical,
				Required: want + "% uptime",
				Message:  fmt.Sprintf("Contract does not specify required SLA of %s%%", want),
			})
		}
	}

	var allDeliverables []string
	for _, o := range f.obligations {
		allDeliverables = append(allDeliverables, o.Deliverables...)
	}
	for _, required := range std.RequiredDeliverables {
		if !anyContainsFold(allDeliverables, required) {
			issues = append(issues, domain.Issue{
				Type:     "missing_deliverable",
				Severity: domain.SeverityWarning,
				Required: required,
				Message:  "Missing required deliverable: " + required,
			})
		}
	}

	return issues
}

func checkCompliance(f contractFacts, std domain.ClientStandards) []domain.Issue {
	var issues []domain.Issue

	have := make(map[string]bool, len(f.compliance))
	for _, c := range f.compliance {
		have[c.Framework] = true
	}

	for _, required := range std.RequiredFrameworks {
		if !have[required] {
			issues = append(issues, domain.Issue{
				Type:     "missing_compliance_framework",
				Severity: domain.SeverityCritical,
				Required: required,
				Message:  "Contract does not comply with required framework: " + required,
			})
		}
	}

	auditRequired := std.AuditRightsRequired != nil && *std.AuditRightsRequired
	if std.CertificationRequired || auditRequired {
		for _, c := range f.compliance {
			if std.CertificationRequired && !c.CertificationRequired {
				issues = append(issues, domain.Issue{
					Type:      "certification_not_required",
					Severity:  domain.SeverityWarning,
					Framework: c.Framework,
					Message:   c.Framework + " certification not required in contract",
				})
			}
			if auditRequired && !c.AuditRights {
				issues = append(issues, domain.Issue{
					Type:      "no_audit_rights",
					Severity:  domain.SeverityCritical,
					Framework: c.Framework,
					Message:   "No audit rights for " + c.Framework,
				})
			}
		}
	}

	return issues
}

func checkIP(f contractFacts, std domain.ClientStandards) []domain.Issue {
	var issues []domain.Issue

	if std.IPOwnershipRequired != nil && *std.IPOwnershipRequired {
		owns := false
		for _, p := range f.ip {
			if p.Type == "ownership" {
				owns = true
				break
			}
		}
		if !owns {
			issues = append(issues, domain.Issue{
				Type:     "no_ip_ownership",
				Severity: domain.SeverityCritical,
				Message:  "Client does not own IP, but ownership is required",
			})
		}
	}

	if !std.SublicensingAllowed {
		for _, p := range f.ip {
			if p.Sublicensable {
				issues = append(issues, domain.Issue{
					Type:     "sublicensing_not_allowed",
					Severity: domain.SeverityCritical,
					Message:  "Contract allows sublicensing, but client policy prohibits it",
				})
				break
			}
		}
	}

	return issues
}

func checkInsurance(f contractFacts, std domain.ClientStandards) []domain.Issue {
	var issues []domain.Issue

	coverage := make(map[string]*float64, len(f.insurance))
	for _, rec := range f.insurance {
		coverage[rec.Type] = rec.Coverage
	}

	if nonzero(std.MinGeneralLiability) {
		got := coverage["Commercial General Liability"]
		if !nonzero(got) || *got < *std.MinGeneralLiability {
			issue := domain.Issue{
				Type:     "insufficient_general_liability",
				Severity: domain.SeverityCritical,
				Required: *std.MinGeneralLiability,
				Message:  "General liability coverage insufficient",
			}
			if got != nil {
				issue.Found = *got
			}
			issues = append(issues, issue)
		}
	}

	if nonzero(std.MinCyberLiability) {
		got := coverage["Cyber Liability"]
		if !nonzero(got) || *got < *std.MinCyberLiability {
			issue := domain.Issue{
				Type:     "insufficient_cyber_liability",
				Severity: domain.SeverityCritical,
				Required: *std.MinCyberLiability,
				Message:  "Cyber liability coverage insufficient",
			}
			if got != nil {
				issue.Found = *got
			}
			issues = append(issues, issue)
		}
	}

	return issues
}

func checkDataProtection(f contractFacts, std domain.ClientStandards) []domain.Issue {
	var issues []domain.Issue

	if len(f.dataProtection) == 0 {
		if std.GDPRRequired {
			issues = append(issues, domain.Issue{
				Type:     "no_data_protection",
				Severity: domain.SeverityCritical,
				Message:  "No data protection provisions found",
			})
		}
		return issues
	}

	dp := f.dataProtection[0]

	if std.GDPRRequired && !dp.GDPRCompliant {
		issues = append(issues, domain.Issue{
			Type:     "not_gdpr_compliant",
			Severity: domain.SeverityCritical,
			Message:  "Contract is not GDPR compliant",
		})
	}

	// Textual heuristic: the notification period must mention the configured
	// hour threshold. Only meaningful for thresholds within a day.
	if std.BreachNotificationMaxHours != nil && *std.BreachNotificationMaxHours != 0 {
		maxHours := *std.BreachNotificationMaxHours
		if maxHours <= 24 && !strings.Contains(dp.BreachNotificationPeriod, strconv.Itoa(maxHours)) {
			issues = append(issues, domain.Issue{
				Type:     "breach_notification_too_long",
				Severity: domain.SeverityWarning,
				Found:    dp.BreachNotificationPeriod,
				Required: fmt.Sprintf("%d hours", maxHours),
				Message:  "Breach notification period may exceed client requirements",
			})
		}
	}

	return issues
}

func checkTermination(f contractFacts, std domain.ClientStandards) []domain.Issue {
	var issues []domain.Issue

	if len(f.termination) == 0 {
		if std.TerminationForConvenienceRequired {
			issues = append(issues, domain.Issue{
				Type:     "no_termination_provisions",
				Severity: domain.SeverityCritical,
				Message:  "No termination provisions found",
			})
		}
		return issues
	}

	term := f.termination[0]

	if std.TerminationForConvenienceRequired && !term.ConvenienceAllowed {
		issues = append(issues, domain.Issue{
			Type:     "no_termination_for_convenience",
			Severity: domain.SeverityCritical,
			Message:  "Termination for convenience not allowed",
		})
	}

	return issues
}

func nonzero(p *float64) bool { return p != nil && *p != 0 }

func anyContainsFold(haystacks []string, needle string) bool {
	needle = strings.ToLower(needle)
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

// uptime renders an SLA percentage the way policy files write them:
// integral values keep one decimal ("99.0"), others print exactly ("99.9").
func uptime(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// money renders a dollar amount with comma grouping and no decimals.
func money(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return s
}
