// Package config manages the certdeploy profile: the deployment defaults
// stored in YAML so a scheduled job can run `certdeploy deploy` with few flags.
//
// The profile lives at ~/.config/certdeploy/config.yaml unless --config
// points elsewhere. A missing file is not an error; the defaults apply.
//
// Example config.yaml:
//
//	bucket: corp-certificates
//	object_key: tomcat/prod/server.pfx
//	config_dir: C:\Tomcat9\conf
//	config_file: server.xml
//	cert_dir: C:\certs
//	service_name: Tomcat9
//	java_home: C:\Program Files\Java\jre
//	store: s3
//	azure:
//	  account_url: https://corpcerts.blob.core.windows.net/
//
// # Precedence
//
// Command-line flags override the profile, which overrides the defaults
// (service_name Tomcat9, config_file server.xml, store s3). The keystore
// password is never stored here; see the secret package.
//
// # Thread Safety
//
// Config operations are NOT thread-safe. Callers must implement their own
// synchronization if accessing Config from multiple goroutines.
package config
