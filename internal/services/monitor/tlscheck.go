package monitor

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"math"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/NordCoder/Sitewatch/internal/domain/clock"
	"github.com/NordCoder/Sitewatch/internal/domain/result"

	"go.uber.org/zap"
)

// TLSChecker inspects the leaf certificate of an https target over a raw
// handshake. Trust is deliberately not verified: expired and self-signed
// certificates must still be inspectable and graded.
type TLSChecker struct {
	log     *zap.Logger
	clock   clock.Clock
	timeout time.Duration
}

func NewTLSChecker(log *zap.Logger, clk clock.Clock, timeout time.Duration) *TLSChecker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TLSChecker{
		log:     log.With(zap.String("component", "tls_check")),
		clock:   clk,
		timeout: timeout,
	}
}

// Check returns nil when the handshake fails or the target is not https.
// A nil result means "no TLS info available", never an uptime failure.
func (c *TLSChecker) Check(ctx context.Context, rawURL string) *result.TLSInfo {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "https" || u.Hostname() == "" {
		return nil
	}
	port := u.Port()
	if port == "" {
		port = "443"
	}
	addr := net.JoinHostPort(u.Hostname(), port)

	dialCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: c.timeout},
		Config: &tls.Config{
			ServerName:         u.Hostname(),
			InsecureSkipVerify: true,
			MinVersion:         tls.VersionTLS10,
		},
	}
	conn, err := dialer.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		c.log.Debug("handshake failed", zap.String("addr", addr), zap.Error(err))
		return nil
	}
	defer conn.Close()

	state := conn.(*tls.Conn).ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return nil
	}
	return c.describe(state.PeerCertificates[0])
}

func (c *TLSChecker) describe(cert *x509.Certificate) *result.TLSInfo {
	now := c.clock.Now()

	days := int(math.Floor(cert.NotAfter.Sub(now).Hours() / 24))
	selfSigned := cert.Issuer.String() == cert.Subject.String()
	timeValid := !now.Before(cert.NotBefore) && !now.After(cert.NotAfter)
	certValid := timeValid && !selfSigned
	sigAlg := cert.SignatureAlgorithm.String()

	score, grade := GradeCertificate(selfSigned, days, sigAlg)

	return &result.TLSInfo{
		NotBefore:          cert.NotBefore,
		NotAfter:           cert.NotAfter,
		DaysUntilExpiry:    days,
		Issuer:             cert.Issuer.String(),
		Subject:            cert.Subject.String(),
		SelfSigned:         selfSigned,
		CertificateValid:   certValid,
		ChainValid:         certValid,
		SignatureAlgorithm: sigAlg,
		Score:              score,
		Grade:              grade,
	}
}

// GradeCertificate maps certificate health onto a 100-point deduction scale
// and a letter grade. Pure and deterministic for a fixed input.
func GradeCertificate(selfSigned bool, daysUntilExpiry int, sigAlg string) (score int, grade string) {
	score = 100
	if selfSigned {
		score -= 50
	}
	if daysUntilExpiry < 0 {
		score -= 40
	} else {
		if daysUntilExpiry <= 30 {
			score -= 20
		}
		if daysUntilExpiry <= 7 {
			score -= 30
		}
	}
	alg := strings.ToLower(sigAlg)
	switch {
	case strings.Contains(alg, "md5"):
		score -= 50
	case strings.Contains(alg, "sha1"):
		score -= 30
	}
	return score, gradeLetter(score)
}

func gradeLetter(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}
