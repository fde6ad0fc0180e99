// Package storage persists downloaded artifacts and catalog metadata.
// Artifacts are grouped per origin store and package; writes go to a
// temporary file first and are renamed into place so readers never see
// partial downloads.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/apkcrawl/apkcrawl-cli/pkg/models"
	"github.com/apkcrawl/apkcrawl-cli/pkg/utils"
)

// FileSink writes packages, splits, auxiliary files and metadata under
// a base directory.
type FileSink struct {
	baseDir string
	log     utils.Logger
}

// NewFileSink creates the base directory if needed.
func NewFileSink(baseDir string, log utils.Logger) (*FileSink, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("no base directory configured")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	if log == nil {
		log = utils.GetGlobalLogger()
	}
	return &FileSink{baseDir: baseDir, log: log}, nil
}

// entryDir is baseDir/<store>/<package>, with spaces in the store name
// replaced so paths stay shell friendly.
func (s *FileSink) entryDir(entry models.CatalogEntry) string {
	storeName := strings.ReplaceAll(string(entry.Origin), " ", "_")
	return filepath.Join(s.baseDir, storeName, entry.PackageID)
}

// PackagePath returns where the primary package of the entry lives.
func (s *FileSink) PackagePath(entry models.CatalogEntry) string {
	name := fmt.Sprintf("%s(%d).apk", entry.PackageID, entry.VersionCode)
	return filepath.Join(s.entryDir(entry), name)
}

// SavePackage stores the primary package.
func (s *FileSink) SavePackage(entry models.CatalogEntry, r io.Reader) error {
	path := s.PackagePath(entry)
	if err := s.writeAtomic(path, r); err != nil {
		return err
	}
	s.log.Debug("saved package %s to %s", entry.PackageID, path)
	return nil
}

// SaveSplit stores one split package under its delivered name.
func (s *FileSink) SaveSplit(entry models.CatalogEntry, name string, r io.Reader) error {
	path := filepath.Join(s.entryDir(entry), "splits", filepath.Base(name))
	if err := s.writeAtomic(path, r); err != nil {
		return err
	}
	s.log.Debug("saved split %s for %s", name, entry.PackageID)
	return nil
}

// SaveAuxFile stores one auxiliary data file under its composed name.
func (s *FileSink) SaveAuxFile(entry models.CatalogEntry, name string, r io.Reader) error {
	path := filepath.Join(s.entryDir(entry), "obb_files", filepath.Base(name))
	if err := s.writeAtomic(path, r); err != nil {
		return err
	}
	s.log.Debug("saved auxiliary file %s for %s", name, entry.PackageID)
	return nil
}

// SaveMetadata writes the catalog entry as a YAML document next to the
// artifacts, so a crawl's findings survive without the backend.
func (s *FileSink) SaveMetadata(entry models.CatalogEntry) error {
	dir := s.entryDir(entry)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create entry directory: %w", err)
	}
	data, err := yaml.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode metadata for %s: %w", entry.PackageID, err)
	}
	name := fmt.Sprintf("%s(%d).yaml", entry.PackageID, entry.VersionCode)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata for %s: %w", entry.PackageID, err)
	}
	return nil
}

// writeAtomic streams r into a temporary file in the target directory
// and renames it into place once complete.
func (s *FileSink) writeAtomic(path string, r io.Reader) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to finish writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}
