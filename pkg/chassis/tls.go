package chassis

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"net"
	"time"
)

// devCertLifetime bounds self-signed certificates; they are regenerated on
// every start anyway.
const devCertLifetime = 30 * 24 * time.Hour

// resolveTLS picks the TLS settings for cfg. An explicit cfg.TLS wins, then
// the cert/key pair, then a self-signed certificate when HTTP/3 is on.
// A nil result with a nil error means plain HTTP. The string names the
// source for logging.
func resolveTLS(cfg Config) (*tls.Config, string, error) {
	switch {
	case cfg.TLS != nil:
		return cfg.TLS, "provided", nil
	case cfg.CertFile != "" && cfg.KeyFile != "":
		pair, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, "", fmt.Errorf("load TLS cert: %w", err)
		}
		return newTLSConfig(pair), "files", nil
	case cfg.HTTP3:
		pair, err := SelfSignedCert(certHosts(cfg.Addr))
		if err != nil {
			return nil, "", fmt.Errorf("generate dev TLS: %w", err)
		}
		return newTLSConfig(pair), "self-signed", nil
	}
	return nil, "none", nil
}

func newTLSConfig(pair tls.Certificate) *tls.Config {
	// HTTP/3 negotiates 1.3 on its own; TCP clients may still speak 1.2.
	return &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{pair},
	}
}

// certHosts returns the names a development certificate should cover:
// loopback plus the host part of the listen address, if any.
func certHosts(addr string) []string {
	hosts := []string{"localhost", "127.0.0.1", "::1"}
	host, _, err := net.SplitHostPort(addr)
	if err != nil || host == "" || host == "0.0.0.0" || host == "::" {
		return hosts
	}
	for _, h := range hosts {
		if h == host {
			return hosts
		}
	}
	return append(hosts, host)
}

// SelfSignedCert builds an in-memory ECDSA P-256 certificate for hosts.
// IP literals go to the IP SANs, everything else to the DNS SANs.
func SelfSignedCert(hosts []string) (tls.Certificate, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("generate key: %w", err)
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("generate serial: %w", err)
	}

	notBefore := time.Now().Add(-time.Minute)
	tmpl := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{Organization: []string{"gazetteer development"}},
		NotBefore:             notBefore,
		NotAfter:              notBefore.Add(devCertLifetime),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			tmpl.IPAddresses = append(tmpl.IPAddresses, ip)
		} else {
			tmpl.DNSNames = append(tmpl.DNSNames, h)
		}
	}
	if len(tmpl.DNSNames) > 0 {
		tmpl.Subject.CommonName = tmpl.DNSNames[0]
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("create certificate: %w", err)
	}
	leaf, err := x509.ParseCertificate(der)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("parse certificate: %w", err)
	}
	return tls.Certificate{
		Certificate: [][]byte{der},
		PrivateKey:  key,
		Leaf:        leaf,
	}, nil
}
