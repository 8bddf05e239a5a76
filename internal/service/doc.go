// Package service stops and starts the OS service that serves the keystore.
//
// Each platform's service manager is driven as an external process and its
// exit status is the only success signal:
//
//   - Windows: powershell.exe Stop-Service / Start-Service (blocks until the
//     service reaches the requested state)
//   - Linux: systemctl stop / start
//
// # Basic Usage
//
//	plat, _ := platform.Detect()
//	mgr, err := service.New(plat.ServiceManager)
//	if err := mgr.Stop("Tomcat9"); err != nil {
//	    return err
//	}
//
// An already stopped or missing service is not special-cased: the tool's
// exit status for that case is what the caller sees.
//
// # Testing
//
// Each manager has a WithExecutor constructor taking a mock
// executor.CommandExecutor, and MockManager records Stop/Start calls:
//
//	mgr := service.NewMockManager()
//	mgr.StopFunc = func(name string) error { return errors.New("access denied") }
package service
