// Package store loads the optional YAML rule files that extend the built-in
// category keywords and bank sender ids.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"

	"gopkg.in/yaml.v3"
)

const (
	DefaultCategoriesFile = "categories.yaml"
	DefaultBanksFile      = "banks.yaml"
)

// RuleStore manages loading and saving of the rule files.
type RuleStore struct {
	CategoriesFile string
	BanksFile      string
	logger         logging.Logger
}

// NewRuleStore creates a new store for the rule files.
func NewRuleStore(categoriesFile, banksFile string, logger logging.Logger) *RuleStore {
	return &RuleStore{
		CategoriesFile: categoriesFile,
		BanksFile:      banksFile,
		logger:         logging.OrDefault(logger),
	}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *RuleStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join(".sms-ledger", filename),
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "sms-ledger", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// readRuleFile returns the file contents, or nil when the file does not exist.
func (s *RuleStore) readRuleFile(filename, fallback string) ([]byte, string, error) {
	if filename == "" {
		filename = fallback
	}

	path, err := s.FindConfigFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("Rule file not found, using built-in rules",
				logging.F(logging.FieldFile, filename))
			return nil, filename, nil
		}
		return nil, filename, fmt.Errorf("error resolving %s: %w", filename, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("error reading %s: %w", path, err)
	}
	return data, path, nil
}

// LoadCategories loads extra category keywords. A missing file yields an
// empty slice, not an error. Both the "categories:" document and a bare list
// are accepted.
func (s *RuleStore) LoadCategories() ([]models.CategoryConfig, error) {
	data, path, err := s.readRuleFile(s.CategoriesFile, DefaultCategoriesFile)
	if err != nil || data == nil {
		return []models.CategoryConfig{}, err
	}

	var doc models.CategoriesConfig
	if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Categories) > 0 {
		s.logger.Debug("Loaded category rules",
			logging.F(logging.FieldFile, path),
			logging.F(logging.FieldCount, len(doc.Categories)))
		return doc.Categories, nil
	}

	var list []models.CategoryConfig
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("error parsing categories file %s: %w", path, err)
	}
	s.logger.Debug("Loaded category rules",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(list)))
	return list, nil
}

// LoadBanks loads extra bank sender ids. A missing file yields an empty slice.
func (s *RuleStore) LoadBanks() ([]models.BankSender, error) {
	data, path, err := s.readRuleFile(s.BanksFile, DefaultBanksFile)
	if err != nil || data == nil {
		return []models.BankSender{}, err
	}

	var doc models.BanksConfig
	if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Banks) > 0 {
		s.logger.Debug("Loaded bank senders",
			logging.F(logging.FieldFile, path),
			logging.F(logging.FieldCount, len(doc.Banks)))
		return doc.Banks, nil
	}

	var list []models.BankSender
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("error parsing banks file %s: %w", path, err)
	}
	s.logger.Debug("Loaded bank senders",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(list)))
	return list, nil
}
