// Package keystore wraps the JDK keytool and reads PKCS#12 bundles.
//
// The keystore package imports a downloaded .pfx into the Java keystore a
// server uses for HTTPS, and checks the bundle before a service is taken
// down for the import.
//
// # Prerequisites
//
// A JDK or JRE providing bin/keytool (bin\keytool.exe on Windows). The
// installation root is always passed in explicitly; the package never reads
// JAVA_HOME itself.
//
// # Usage
//
//	kt := keystore.New("keytool")
//	path, err := kt.Locate(javaHome)
//
//	info, err := keystore.Inspect("/certs/server.pfx", password)
//	fmt.Println(info.Subject, info.NotAfter)
//
//	err = kt.Import(keystore.ImportInputs{
//	    Keytool:     path,
//	    Source:      "/certs/server.pfx",
//	    Destination: "/opt/tomcat/conf/tomcat.jks",
//	    Password:    password,
//	})
//
// # Import Semantics
//
// Import runs keytool -importkeystore with source type PKCS12 and the same
// password for source and destination. The destination keystore is created
// when absent. Existing aliases are overwritten (-noprompt).
//
// # Error Handling
//
// A missing keytool is a configuration error (ErrKeytoolNotFound). A
// non-zero keytool exit is an execution error whose message carries the
// keytool output with the password masked.
package keystore
