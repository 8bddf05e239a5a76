package keystore

import (
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	deployerrors "github.com/ksyq12/certdeploy/internal/errors"
	"software.sslmate.com/src/go-pkcs12"
)

// CertInfo summarizes the leaf certificate of a PKCS#12 bundle
type CertInfo struct {
	Subject   string    `json:"subject"`
	Issuer    string    `json:"issuer"`
	Serial    string    `json:"serial"`
	NotBefore time.Time `json:"not_before"`
	NotAfter  time.Time `json:"not_after"`
	DNSNames  []string  `json:"dns_names,omitempty"`
	ChainLen  int       `json:"chain_length"`
	Warning   string    `json:"warning,omitempty"`
}

// Expired reports whether the certificate is no longer valid at now.
// A bundle whose certificate could not be read never counts as expired.
func (c *CertInfo) Expired(now time.Time) bool {
	return !c.NotAfter.IsZero() && now.After(c.NotAfter)
}

// Inspect decodes the bundle at path with password.
// A wrong password or a corrupt bundle is ErrCertificateInvalid.
//
// Bundles keytool still imports but that do not hold exactly one key
// (certificate-only or multi-key) are returned with Warning set instead.
func Inspect(path, password string) (*CertInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, deployerrors.Wrap(deployerrors.ErrCodeExecution, deployerrors.ErrCertificateInvalid.Message, err)
	}

	_, cert, cas, err := pkcs12.DecodeChain(data, password)
	if warning := keyBagWarning(path, err); warning != "" {
		return inspectWithoutKey(data, password, warning), nil
	}
	if err != nil {
		return nil, deployerrors.Wrap(deployerrors.ErrCodeExecution, deployerrors.ErrCertificateInvalid.Message,
			fmt.Errorf("%s: %w", path, err))
	}

	return newCertInfo(cert, len(cas)), nil
}

func newCertInfo(cert *x509.Certificate, cas int) *CertInfo {
	return &CertInfo{
		Subject:   cert.Subject.String(),
		Issuer:    cert.Issuer.String(),
		Serial:    hex.EncodeToString(cert.SerialNumber.Bytes()),
		NotBefore: cert.NotBefore,
		NotAfter:  cert.NotAfter,
		DNSNames:  cert.DNSNames,
		ChainLen:  cas + 1,
	}
}

// keyBagWarning returns a warning for decode errors raised after the MAC
// check passed, where only the key bag layout was unexpected.
func keyBagWarning(path string, err error) string {
	if err == nil {
		return ""
	}
	switch msg := err.Error(); {
	case strings.Contains(msg, "private key missing"):
		return fmt.Sprintf("%s has no private key, keytool will import its certificates only", path)
	case strings.Contains(msg, "expected exactly one key bag"):
		return fmt.Sprintf("%s holds more than one private key, certificate details were not checked", path)
	}
	return ""
}

// inspectWithoutKey reads certificate details from a bundle with no usable
// key entry. Only Java trust stores can be read this way; for anything else
// just the warning is reported.
func inspectWithoutKey(data []byte, password, warning string) *CertInfo {
	certs, err := pkcs12.DecodeTrustStore(data, password)
	if err != nil || len(certs) == 0 {
		return &CertInfo{Warning: warning}
	}
	info := newCertInfo(certs[0], len(certs)-1)
	info.Warning = warning
	return info
}
