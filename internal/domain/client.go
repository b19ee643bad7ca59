package domain

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// ClientKey is the composite identity of a client definition. Instance is
// empty for the instance-less definition.
type ClientKey struct {
	Name     string
	Instance string
}

func (k ClientKey) String() string {
	if k.Instance == "" {
		return k.Name
	}

	return k.Name + "/" + k.Instance
}

// ClientDefinition is the registered identity for which settings and run
// sessions are tracked. Definitions are created by the settings
// registration layer; this core only reads them and owns their run
// sessions.
type ClientDefinition struct {
	Name                   string
	Instance               string
	SecretHash             string
	LastSettingValueUpdate time.Time
}

func (c ClientDefinition) Key() ClientKey {
	return ClientKey{Name: c.Name, Instance: c.Instance}
}

func (c ClientDefinition) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(c.SecretHash) == "" {
		return fmt.Errorf("secret hash is required")
	}

	return nil
}

// VerifySecret compares the supplied client secret against the stored
// digest in constant time.
func (c ClientDefinition) VerifySecret(secret string) bool {
	if c.SecretHash == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(HashSecret(secret)), []byte(c.SecretHash)) == 1
}

func HashSecret(secret string) string {
	digest := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(digest[:])
}
