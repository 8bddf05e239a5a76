package config

// AzureStore configures the Azure Blob Storage backend
type AzureStore struct {
	AccountURL string `yaml:"account_url,omitempty" json:"account_url,omitempty"` // https://<account>.blob.core.windows.net/
}

// FileStore configures the local directory backend
type FileStore struct {
	Root string `yaml:"root,omitempty" json:"root,omitempty"`
}

// Store backend names
const (
	StoreS3     = "s3"
	StoreAzBlob = "azblob"
	StoreFile   = "file"
)

// ValidStores returns all valid store backends
func ValidStores() []string {
	return []string{StoreS3, StoreAzBlob, StoreFile}
}

// IsValidStore checks if the given store backend is valid
func IsValidStore(s string) bool {
	for _, valid := range ValidStores() {
		if s == valid {
			return true
		}
	}
	return false
}
