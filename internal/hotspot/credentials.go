package hotspot

import (
	"fmt"

	"github.com/jmylchreest/hyprkit/internal/config"
)

// DefaultParent is used when IFNAME is absent.
const DefaultParent = "wlan0"

// Credentials are read once from the key=value hotspot file.
type Credentials struct {
	Parent   string // IFNAME
	SSID     string
	Password string
}

// LoadCredentials reads IFNAME, SSID and PASSWORD from path. A missing or
// empty file is ErrNotConfigured.
func LoadCredentials(path string) (Credentials, error) {
	kv := config.LoadKeyValue(path)
	if kv == nil {
		return Credentials{}, fmt.Errorf("%w: no settings in %s", ErrNotConfigured, path)
	}

	creds := Credentials{
		Parent:   kv["IFNAME"],
		SSID:     kv["SSID"],
		Password: kv["PASSWORD"],
	}
	if creds.Parent == "" {
		creds.Parent = DefaultParent
	}
	return creds, nil
}

// Validate checks the values hostapd would reject.
func (c Credentials) Validate() error {
	if c.SSID == "" {
		return fmt.Errorf("%w: SSID is empty", ErrNotConfigured)
	}
	if len(c.SSID) > 32 {
		return fmt.Errorf("SSID must be at most 32 bytes, got %d", len(c.SSID))
	}
	if n := len(c.Password); n < 8 || n > 63 {
		return fmt.Errorf("passphrase must be 8 to 63 characters, got %d", n)
	}
	return nil
}
