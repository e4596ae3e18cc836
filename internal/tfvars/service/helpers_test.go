package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	kmsDomain "github.com/allisson/tfvars-kms/internal/kms/domain"
	tfvarsDomain "github.com/allisson/tfvars-kms/internal/tfvars/domain"
)

const singleConnectorTfvars = `# Teradici deployment
gcp_credentials_file = "/home/user/gcp-cred.json"
gcp_project_id       = "my-project"

# KMS
kms_keyring_name   = "my-keyring"
kms_cryptokey_name = "my-cryptokey"

dc_admin_password           = "hunter2"
safe_mode_admin_password    = "safemode"
ad_service_account_password = "svc-pass"

pcoip_registration_code = "ABCDEFGH12@AB12-C345-D67E-89FG"
cam_credentials_file    = "/home/user/cam-cred.json"
`

const dcOnlyTfvars = `gcp_credentials_file = "/home/user/gcp-cred.json"
gcp_project_id       = "my-project"

dc_admin_password           = "hunter2"
safe_mode_admin_password    = "safemode"
ad_service_account_password = "svc-pass"
`

func mustParse(t *testing.T, content string) *tfvarsDomain.Document {
	t.Helper()
	doc, err := tfvarsDomain.Parse(strings.NewReader(content))
	require.NoError(t, err)
	return doc
}

func testIdentity() kmsDomain.KeyIdentity {
	return kmsDomain.KeyIdentity{
		ProjectID:   "my-project",
		Location:    "global",
		KeyRingID:   "my-keyring",
		CryptoKeyID: "my-cryptokey",
	}
}
