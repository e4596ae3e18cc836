package testutil

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// DCOnlyTfvars is a dc-only deployment configuration naming its key ring and crypto key.
const DCOnlyTfvars = `# Domain controller deployment
gcp_credentials_file = "/keys/gcp-cred.json"
gcp_project_id       = "my-project"

kms_keyring_name   = "my-keyring"
kms_cryptokey_name = "my-cryptokey"

dc_admin_password           = "hunter2"
safe_mode_admin_password    = "safemode"
ad_service_account_password = "svc-pass"
`

// SingleConnectorTfvars returns a single-connector configuration whose
// cam_credentials_file points at camCredentialsFile.
func SingleConnectorTfvars(camCredentialsFile string) string {
	return fmt.Sprintf(`# Single connector deployment
gcp_credentials_file = "/keys/gcp-cred.json"
gcp_project_id       = "my-project"

kms_keyring_name   = "my-keyring"
kms_cryptokey_name = "my-cryptokey"

dc_admin_password           = "hunter2"
safe_mode_admin_password    = "safemode"
ad_service_account_password = "svc-pass"

pcoip_registration_code = "ABCDEFGH12@AB12-C345-D67E-89FG"
cam_credentials_file    = "%s"
`, camCredentialsFile)
}

// WriteFile writes content to name inside dir and returns the file path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// LocalSecretsKeyURI returns a base64key:// keeper URL holding a fresh random key.
func LocalSecretsKeyURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}
