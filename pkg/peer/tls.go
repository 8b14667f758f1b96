package peer

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
)

// loadCert reads node.crt/node.key from certDir, adapted from the
// certificate-file layout the manager's mTLS setup uses: one PEM
// certificate, one PEM key, both in the same directory.
func loadCert(certDir string) (tls.Certificate, error) {
	certPath := filepath.Join(certDir, "node.crt")
	keyPath := filepath.Join(certDir, "node.key")
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("peer: load node certificate: %w", err)
	}
	return cert, nil
}

// loadCACert reads ca.crt from certDir.
func loadCACert(certDir string) (*x509.Certificate, error) {
	caPath := filepath.Join(certDir, "ca.crt")
	caPEM, err := os.ReadFile(caPath)
	if err != nil {
		return nil, fmt.Errorf("peer: read CA certificate: %w", err)
	}
	block, _ := pem.Decode(caPEM)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, fmt.Errorf("peer: decode CA certificate PEM")
	}
	caCert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("peer: parse CA certificate: %w", err)
	}
	return caCert, nil
}

// serverTLSConfig builds the mTLS configuration the gap-fill gRPC server
// listens with: every peer must present a certificate signed by the
// shared CA (§4.6 implies a closed set of trusted replicas, the same
// trust model the coordination cluster's manager-to-manager traffic
// uses).
func serverTLSConfig(certDir string) (*tls.Config, error) {
	cert, err := loadCert(certDir)
	if err != nil {
		return nil, err
	}
	ca, err := loadCACert(certDir)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	pool.AddCert(ca)

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		ClientCAs:    pool,
		ClientAuth:   tls.RequireAndVerifyClientCert,
		MinVersion:   tls.VersionTLS13,
	}, nil
}

// clientTLSConfig builds the mTLS configuration a gap-fill client dials
// a peer with.
func clientTLSConfig(certDir string) (*tls.Config, error) {
	cert, err := loadCert(certDir)
	if err != nil {
		return nil, err
	}
	ca, err := loadCACert(certDir)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	pool.AddCert(ca)

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      pool,
		MinVersion:   tls.VersionTLS13,
	}, nil
}
