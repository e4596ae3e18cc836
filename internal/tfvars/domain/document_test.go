package domain

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/tfvars-kms/internal/errors"
)

const sampleTfvars = `# GCP settings
gcp_credentials_file = "/home/user/cred.json"
gcp_project_id       = "my-project"

kms_keyring_name   = "my-keyring"
kms_cryptokey_name = "my-cryptokey"

# Domain controller
dc_admin_password           = "hunter2"
safe_mode_admin_password    = "s@fe=mode"
ad_service_account_password = "svc"
`

func TestParse(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		doc, err := Parse(strings.NewReader(sampleTfvars))
		require.NoError(t, err)

		lines := doc.Lines()
		require.Len(t, lines, 11)

		assert.False(t, lines[0].Entry)
		assert.Equal(t, "# GCP settings", lines[0].Raw)
		assert.True(t, lines[1].Entry)
		assert.Equal(t, "gcp_credentials_file", lines[1].Key)
		assert.Equal(t, `"/home/user/cred.json"`, lines[1].Value)
		assert.False(t, lines[3].Entry)
		assert.Equal(t, "", lines[3].Raw)
	})

	t.Run("SplitsOnFirstEquals", func(t *testing.T) {
		doc, err := Parse(strings.NewReader(sampleTfvars))
		require.NoError(t, err)

		value, ok := doc.Get(FieldSafeModeAdminPassword)
		require.True(t, ok)
		assert.Equal(t, `"s@fe=mode"`, value)
		assert.Equal(t, "s@fe=mode", doc.Value(FieldSafeModeAdminPassword))
	})

	t.Run("LastWriteWins", func(t *testing.T) {
		doc, err := Parse(strings.NewReader("a = \"1\"\na = \"2\"\n"))
		require.NoError(t, err)
		assert.Equal(t, "2", doc.Value("a"))
		assert.Len(t, doc.Lines(), 2)
	})

	t.Run("IndentedCommentAndWhitespaceLine", func(t *testing.T) {
		doc, err := Parse(strings.NewReader("  # note without equals\n   \nkey = \"v\"\n"))
		require.NoError(t, err)
		lines := doc.Lines()
		require.Len(t, lines, 3)
		assert.False(t, lines[0].Entry)
		assert.False(t, lines[1].Entry)
		assert.True(t, lines[2].Entry)
	})

	t.Run("CRLF", func(t *testing.T) {
		doc, err := Parse(strings.NewReader("key = \"v\"\r\n# c\r\n"))
		require.NoError(t, err)
		assert.Equal(t, "v", doc.Value("key"))
		assert.Equal(t, "# c", doc.Lines()[1].Raw)
	})

	t.Run("MalformedLine", func(t *testing.T) {
		_, err := Parse(strings.NewReader("# ok\nkey = \"v\"\nbroken line\n"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformedLine))
		assert.Contains(t, err.Error(), "line 3")
	})
}

func TestLoad(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultFileName)
		require.NoError(t, os.WriteFile(path, []byte(sampleTfvars), 0600))

		doc, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "my-project", doc.Value(FieldGCPProjectID))
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.tfvars"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestDocument_IsEncrypted(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "Absent", input: sampleTfvars, expected: false},
		{name: "Empty", input: "kms_cryptokey_id = \"\"\n", expected: false},
		{
			name:     "Present",
			input:    "kms_cryptokey_id = \"projects/p/locations/global/keyRings/r/cryptoKeys/k\"\n",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, doc.IsEncrypted())
		})
	}
}

func TestUnquote(t *testing.T) {
	assert.Equal(t, "abc", Unquote(`"abc"`))
	assert.Equal(t, "abc", Unquote("abc"))
	assert.Equal(t, "", Unquote(`""`))
	assert.Equal(t, `"`, Unquote(`"`))
	assert.Equal(t, `a"b`, Unquote(`"a"b"`))
	assert.Equal(t, `a\b"c`, Unquote(`"a\\b\"c"`))
	assert.Equal(t, "tab\there", Unquote(`"tab\there"`))
	assert.Equal(t, `C:\keys\cred.json`, Unquote(`"C:\\keys\\cred.json"`))
}
