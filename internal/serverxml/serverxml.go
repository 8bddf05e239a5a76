// Package serverxml finds the keystore a Tomcat-style server.xml uses for
// its HTTPS listener.
package serverxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	deployerrors "github.com/ksyq12/certdeploy/internal/errors"
	"golang.org/x/net/html/charset"
)

// SchemeHTTPS is the connector scheme that marks the TLS listener.
const SchemeHTTPS = "https"

// KeystoreLocation is the keystore reference of the first https connector.
type KeystoreLocation struct {
	File     string // absolute path to the keystore
	Password string // keystorePass from the file; not used for the import
	Type     string // keystoreType, empty when unset
	Port     string
}

type connector struct {
	Scheme       string       `xml:"scheme,attr"`
	Port         string       `xml:"port,attr"`
	KeystoreFile string       `xml:"keystoreFile,attr"`
	KeystorePass string       `xml:"keystorePass,attr"`
	KeystoreType string       `xml:"keystoreType,attr"`
	HostConfigs  []hostConfig `xml:"SSLHostConfig"`
}

// hostConfig is the Tomcat 8.5+ nested TLS configuration.
type hostConfig struct {
	Certificates []certificate `xml:"Certificate"`
}

type certificate struct {
	KeystoreFile     string `xml:"certificateKeystoreFile,attr"`
	KeystorePassword string `xml:"certificateKeystorePassword,attr"`
	KeystoreType     string `xml:"certificateKeystoreType,attr"`
}

// Find reads the server configuration at path and returns the keystore of the
// first connector with scheme="https". Relative keystore paths and
// ${catalina.base}/${catalina.home} are resolved against the parent of the
// directory holding path.
func Find(path string) (*KeystoreLocation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, deployerrors.Wrap(deployerrors.ErrCodeConfig, deployerrors.ErrServerConfigInvalid.Message, err)
	}
	defer f.Close()

	base := filepath.Dir(filepath.Dir(path))
	return Parse(f, base)
}

// Parse scans r for the first https connector. Commented-out connectors are
// ignored. Non-UTF-8 files are decoded using their XML encoding declaration.
func Parse(r io.Reader, base string) (*KeystoreLocation, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, deployerrors.ErrNoHTTPSConnector
		}
		if err != nil {
			return nil, deployerrors.Wrap(deployerrors.ErrCodeConfig, deployerrors.ErrServerConfigInvalid.Message, err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Connector" {
			continue
		}

		var c connector
		if err := dec.DecodeElement(&c, &se); err != nil {
			return nil, deployerrors.Wrap(deployerrors.ErrCodeConfig, deployerrors.ErrServerConfigInvalid.Message, err)
		}
		if c.Scheme != SchemeHTTPS {
			continue
		}
		return c.location(base)
	}
}

func (c *connector) location(base string) (*KeystoreLocation, error) {
	loc := &KeystoreLocation{
		File:     c.KeystoreFile,
		Password: c.KeystorePass,
		Type:     c.KeystoreType,
		Port:     c.Port,
	}

	if loc.File == "" {
		for _, hc := range c.HostConfigs {
			for _, cert := range hc.Certificates {
				if cert.KeystoreFile != "" {
					loc.File = cert.KeystoreFile
					loc.Password = cert.KeystorePassword
					loc.Type = cert.KeystoreType
					break
				}
			}
			if loc.File != "" {
				break
			}
		}
	}

	if loc.File == "" {
		return nil, &deployerrors.DeployError{
			Code:    deployerrors.ErrCodeConfig,
			Message: deployerrors.ErrKeystoreFileMissing.Message,
			Err:     fmt.Errorf("connector on port %s", orUnknown(c.Port)),
		}
	}

	loc.File = resolve(loc.File, base)
	return loc, nil
}

// resolve expands the catalina placeholders and anchors relative paths at base.
func resolve(p, base string) string {
	for _, v := range []string{"${catalina.base}", "${catalina.home}"} {
		if strings.HasPrefix(p, v) {
			p = base + strings.TrimPrefix(p, v)
			break
		}
	}
	p = filepath.FromSlash(p)
	if !filepath.IsAbs(p) && !isWindowsAbs(p) && base != "" {
		p = filepath.Join(base, p)
	}
	return filepath.Clean(p)
}

// isWindowsAbs reports drive-letter paths, which filepath.IsAbs rejects on
// non-Windows hosts.
func isWindowsAbs(p string) bool {
	return len(p) >= 3 && p[1] == ':' && (p[2] == '\\' || p[2] == '/')
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
