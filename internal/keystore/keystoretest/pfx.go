// Package keystoretest builds PKCS#12 fixtures for tests.
package keystoretest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"software.sslmate.com/src/go-pkcs12"
)

// WritePFX writes a self-signed certificate for commonName, valid until
// notAfter, as a password-protected .pfx at path and returns path.
func WritePFX(t testing.TB, path, commonName, password string, notAfter time.Time) string {
	t.Helper()

	key, cert := selfSigned(t, commonName, notAfter)

	// 3DES keeps the bundle readable by older keytool releases
	data, err := pkcs12.LegacyDES.Encode(key, cert, nil, password)
	if err != nil {
		t.Fatalf("encode pkcs12: %v", err)
	}
	return write(t, path, data)
}

// WriteTrustStore writes a certificate-only bundle, the kind Java uses as a
// trust store, and returns path.
func WriteTrustStore(t testing.TB, path, commonName, password string, notAfter time.Time) string {
	t.Helper()

	_, cert := selfSigned(t, commonName, notAfter)
	data, err := pkcs12.LegacyDES.EncodeTrustStore([]*x509.Certificate{cert}, password)
	if err != nil {
		t.Fatalf("encode trust store: %v", err)
	}
	return write(t, path, data)
}

func selfSigned(t testing.TB, commonName string, notAfter time.Time) (*ecdsa.PrivateKey, *x509.Certificate) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(4242),
		Subject:      pkix.Name{CommonName: commonName, Organization: []string{"certdeploy test"}},
		DNSNames:     []string{commonName},
		NotBefore:    notAfter.Add(-24 * time.Hour),
		NotAfter:     notAfter,
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parse certificate: %v", err)
	}
	return key, cert
}

func write(t testing.TB, path string, data []byte) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("create fixture dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("write pfx: %v", err)
	}
	return path
}
