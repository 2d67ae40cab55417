package validation

import "github.com/gravamen/contractgraph-backend/internal/domain"

// SampleStandards returns the built-in demo clients registered when no
// standards file is configured, so a fresh deployment can validate
// contracts immediately.
func SampleStandards() []domain.ClientStandards {
	return []domain.ClientStandards{
		{
			ClientID:                          "BIGBANK",
			ClientName:                        "BigBank Corp",
			MaxLiabilityCap:                   f64(5_000_000),
			MinLiabilityCap:                   f64(1_000_000),
			PreferredCapType:                  "aggregate",
			RequiredCarveOuts:                 []string{"gross negligence", "fraud", "IP infringement"},
			RequiredSLAUptime:                 f64(99.9),
			IPOwnershipRequired:               bptr(true),
			SublicensingAllowed:               false,
			RequiredFrameworks:                []string{"SOC2", "PCI-DSS"},
			CertificationRequired:             true,
			AuditRightsRequired:               bptr(true),
			MinGeneralLiability:               f64(2_000_000),
			MinCyberLiability:                 f64(10_000_000),
			GDPRRequired:                      false,
			TerminationForConvenienceRequired: true,
		},
		{
			ClientID:                          "TECHSTARTUP",
			ClientName:                        "TechStartup Inc",
			SharedIPAllowed:                   true,
			SublicensingAllowed:               true,
			RequiredFrameworks:                []string{"GDPR"},
			GDPRRequired:                      true,
			TerminationForConvenienceRequired: false,
		},
		{
			ClientID:                          "MEDTECH",
			ClientName:                        "MedTech Solutions",
			MaxLiabilityCap:                   f64(10_000_000),
			MinLiabilityCap:                   f64(2_000_000),
			IPOwnershipRequired:               bptr(true),
			RequiredFrameworks:                []string{"HIPAA", "FDA_CFR"},
			CertificationRequired:             true,
			AuditRightsRequired:               bptr(true),
			MinProfessionalLiability:          f64(5_000_000),
			GDPRRequired:                      true,
			BreachNotificationMaxHours:        iptr(24),
			TerminationForConvenienceRequired: true,
		},
	}
}

func f64(v float64) *float64 { return &v }
func bptr(v bool) *bool      { return &v }
func iptr(v int) *int        { return &v }
