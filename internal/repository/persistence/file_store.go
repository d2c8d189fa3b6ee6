package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"deal-alert-be/internal/entity"
)

// FileStore keeps each section as a pretty-printed JSON file under dataDir,
// the same layout the dashboard has always used. Writes go through a temp
// file plus rename so a crash mid-write never truncates a section.
type FileStore struct {
	dataDir string
}

func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dataDir, err)
	}
	return &FileStore{dataDir: dataDir}, nil
}

func (s *FileStore) path(section string) string {
	return filepath.Join(s.dataDir, section+".json")
}

func (s *FileStore) read(section string, out interface{}) (bool, error) {
	data, err := os.ReadFile(s.path(section))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", section, err)
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", section, err)
	}
	return true, nil
}

func (s *FileStore) write(section string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", section, err)
	}

	tmp := s.path(section) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", section, err)
	}
	if err := os.Rename(tmp, s.path(section)); err != nil {
		return fmt.Errorf("commit %s: %w", section, err)
	}
	return nil
}

func (s *FileStore) LoadViewed() (map[string]time.Time, error) {
	viewed := make(map[string]time.Time)
	if _, err := s.read(sectionViewed, &viewed); err != nil {
		return nil, err
	}
	return viewed, nil
}

func (s *FileStore) SaveViewed(viewed map[string]time.Time) error {
	return s.write(sectionViewed, viewed)
}

func (s *FileStore) LoadPrices() (map[string]int, error) {
	prices := make(map[string]int)
	if _, err := s.read(sectionPrices, &prices); err != nil {
		return nil, err
	}
	return prices, nil
}

func (s *FileStore) SavePrices(prices map[string]int) error {
	return s.write(sectionPrices, prices)
}

func (s *FileStore) LoadBanned() (map[string]entity.BannedProduct, error) {
	banned := make(map[string]entity.BannedProduct)
	if _, err := s.read(sectionBanned, &banned); err != nil {
		return nil, err
	}
	return banned, nil
}

func (s *FileStore) SaveBanned(banned map[string]entity.BannedProduct) error {
	return s.write(sectionBanned, banned)
}

func (s *FileStore) LoadSettings() (*entity.Settings, error) {
	var settings entity.Settings
	found, err := s.read(sectionSettings, &settings)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &settings, nil
}

func (s *FileStore) SaveSettings(settings entity.Settings) error {
	return s.write(sectionSettings, settings)
}

func (s *FileStore) LoadProducts() ([]entity.Product, error) {
	var products []entity.Product
	if _, err := s.read(sectionProducts, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *FileStore) SaveProducts(products []entity.Product) error {
	return s.write(sectionProducts, products)
}

func (s *FileStore) LoadAlerts() (entity.AlertMap, error) {
	alerts := entity.EmptyAlertMap()
	if _, err := s.read(sectionAlerts, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (s *FileStore) SaveAlerts(alerts entity.AlertMap) error {
	return s.write(sectionAlerts, alerts)
}
