package deployer

import (
	"fmt"
	"strings"

	deployerrors "github.com/ksyq12/certdeploy/internal/errors"
	"github.com/ksyq12/certdeploy/internal/service"
	"github.com/ksyq12/certdeploy/internal/store"
)

// Defaults applied to empty Request fields.
const (
	DefaultConfigFile  = "server.xml"
	DefaultServiceName = "Tomcat9"
)

// Request holds the parameters of one deployment run. The password and the
// Java installation root are resolved by the caller; Deploy reads no
// environment variables.
type Request struct {
	Bucket      string `json:"bucket"`
	ObjectKey   string `json:"object_key"`
	ConfigDir   string `json:"config_dir"`
	ConfigFile  string `json:"config_file"`
	CertDir     string `json:"cert_dir"`
	Password    string `json:"-"`
	ServiceName string `json:"service_name"`
	JavaHome    string `json:"java_home"`
}

// WithDefaults returns a copy of r with empty optional fields defaulted.
func (r Request) WithDefaults() Request {
	if r.ConfigFile == "" {
		r.ConfigFile = DefaultConfigFile
	}
	if r.ServiceName == "" {
		r.ServiceName = DefaultServiceName
	}
	return r
}

// Validate checks the request. A missing password is reported before any
// other problem, as a configuration error.
func (r Request) Validate() error {
	if r.Password == "" {
		return deployerrors.ErrPasswordMissing
	}

	required := []struct {
		flag  string
		value string
	}{
		{"bucket", r.Bucket},
		{"key", r.ObjectKey},
		{"config-dir", r.ConfigDir},
		{"config-file", r.ConfigFile},
		{"cert-dir", r.CertDir},
	}
	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.flag)
		}
	}
	if len(missing) > 0 {
		return deployerrors.Validation(fmt.Sprintf("missing required value: %s", strings.Join(missing, ", ")))
	}

	if _, err := store.Destination(r.ObjectKey, r.CertDir); err != nil {
		return err
	}
	return service.ValidateName(r.ServiceName)
}
