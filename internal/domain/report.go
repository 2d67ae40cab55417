package domain

import (
	"fmt"
	"strings"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Issue is one validation finding. Found/Required/Allowed/Preferred carry
// the compared values when the check has them.
type Issue struct {
	Type      string   `json:"type"`
	Severity  Severity `json:"severity"`
	Message   string   `json:"message"`
	Found     any      `json:"found,omitempty"`
	Required  any      `json:"required,omitempty"`
	Allowed   any      `json:"allowed,omitempty"`
	Preferred any      `json:"preferred,omitempty"`
	Framework string   `json:"framework,omitempty"`
}

// Report is the outcome of validating one contract against one client's
// standards. Compliant is true exactly when CriticalIssues is empty;
// warnings and info never flip it.
type Report struct {
	ClientID         string  `json:"client_id"`
	ClientName       string  `json:"client_name"`
	ContractID       string  `json:"contract_id"`
	PassesValidation bool    `json:"passes_validation"`
	CriticalIssues   []Issue `json:"critical_issues"`
	Warnings         []Issue `json:"warnings"`
	Info             []Issue `json:"info"`
	Compliant        bool    `json:"compliant"`
}

// Render produces the human-readable text form of the report.
func (r *Report) Render() string {
	rule := strings.Repeat("=", 80)
	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString("CONTRACT VALIDATION REPORT\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Client: %s (%s)\n", r.ClientName, r.ClientID)
	fmt.Fprintf(&b, "Contract ID: %s\n", r.ContractID)
	status := "FAIL"
	if r.Compliant {
		status = "PASS"
	}
	fmt.Fprintf(&b, "Overall Status: %s\n\n", status)

	writeSection(&b, "CRITICAL ISSUES:", r.CriticalIssues)
	writeSection(&b, "WARNINGS:", r.Warnings)
	writeSection(&b, "INFORMATION:", r.Info)

	b.WriteString(rule)
	return b.String()
}

func writeSection(b *strings.Builder, header string, issues []Issue) {
	if len(issues) == 0 {
		return
	}
	b.WriteString(header + "\n")
	for _, issue := range issues {
		fmt.Fprintf(b, "  - %s\n", issue.Message)
	}
	b.WriteString("\n")
}
