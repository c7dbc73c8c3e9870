package store

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	err := os.WriteFile(path, []byte(content), 0600)
	require.NoError(t, err)
}

func newTestRuleStore(dir string) *RuleStore {
	return NewRuleStore(
		filepath.Join(dir, "categories.yaml"),
		filepath.Join(dir, "banks.yaml"),
		logging.NewMockLogger(),
	)
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "test.yaml")
	writeFile(t, testFile, "test: true")

	s := NewRuleStore("", "", nil)

	file, err := s.FindConfigFile(testFile)
	assert.NoError(t, err)
	assert.Equal(t, testFile, file)

	_, err = s.FindConfigFile(filepath.Join(dir, "nonexistent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadCategories(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []models.CategoryConfig
	}{
		{
			name: "document form",
			content: `categories:
  - name: Food
    keywords: ["biryani", "chai"]
`,
			expected: []models.CategoryConfig{{Name: "Food", Keywords: []string{"biryani", "chai"}}},
		},
		{
			name: "bare list",
			content: `- name: Transport
  keywords: ["irctc"]
`,
			expected: []models.CategoryConfig{{Name: "Transport", Keywords: []string{"irctc"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "categories.yaml"), tt.content)

			got, err := newTestRuleStore(dir).LoadCategories()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLoadCategories_MissingFile(t *testing.T) {
	got, err := newTestRuleStore(t.TempDir()).LoadCategories()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadCategories_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "categories.yaml"), "categories: [unclosed")

	_, err := newTestRuleStore(dir).LoadCategories()
	assert.Error(t, err)
}

func TestLoadBanks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "banks.yaml"), `banks:
  - id: FEDBNK
    name: Federal Bank
`)

	got, err := newTestRuleStore(dir).LoadBanks()
	require.NoError(t, err)
	assert.Equal(t, []models.BankSender{{ID: "FEDBNK", Name: "Federal Bank"}}, got)

	missing, err := newTestRuleStore(t.TempDir()).LoadBanks()
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestMockRuleStore(t *testing.T) {
	m := &MockRuleStore{Categories: []models.CategoryConfig{{Name: "Food"}}}
	got, err := m.LoadCategories()
	require.NoError(t, err)
	assert.Len(t, got, 1)

	m.LoadBanksError = os.ErrPermission
	_, err = m.LoadBanks()
	assert.ErrorIs(t, err, os.ErrPermission)
}
