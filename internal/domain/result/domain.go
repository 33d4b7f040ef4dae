package result

import "time"

type Status string

const (
	StatusUp       Status = "up"
	StatusDown     Status = "down"
	StatusDegraded Status = "degraded"
)

// TLSInfo is derived from a single live handshake with the target. It is
// never stored on its own, only as optional columns of a CheckResult row.
type TLSInfo struct {
	NotBefore          time.Time `json:"not_before"`
	NotAfter           time.Time `json:"not_after"`
	DaysUntilExpiry    int       `json:"days_until_expiry"` // negative when expired
	Issuer             string    `json:"issuer"`
	Subject            string    `json:"subject"`
	SelfSigned         bool      `json:"self_signed"`
	CertificateValid   bool      `json:"certificate_valid"`
	ChainValid         bool      `json:"chain_valid"`
	SignatureAlgorithm string    `json:"signature_algorithm"`
	Grade              string    `json:"grade"`
	Score              int       `json:"score"`
}

// CheckResult is the merged outcome of one tick for one target.
// Optional sub-results stay nil when their check failed or did not apply.
type CheckResult struct {
	ID               int64     `json:"id"`
	TargetID         int64     `json:"target_id"`
	CheckedAt        time.Time `json:"checked_at"`
	Status           Status    `json:"status"`
	ResponseTimeMS   int64     `json:"response_time_ms"`
	StatusCode       *int      `json:"status_code,omitempty"`
	ErrorMessage     *string   `json:"error_message,omitempty"`
	PerformanceScore *int      `json:"performance_score,omitempty"`
	TLS              *TLSInfo  `json:"tls,omitempty"`
}
