package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"dealer-assistant/internal/common/logger"
	"dealer-assistant/internal/models"
)

const sourceFile = "file"

var extensions = []string{".json", ".yaml", ".yml"}

// FileLoader reads <name>.json, <name>.yaml or <name>.yml from the first
// search path that has one.
type FileLoader struct {
	searchPaths   []string
	leadsName     string
	inquiriesName string
	logger        logger.Logger
}

func NewFileLoader(searchPaths []string, leadsName, inquiriesName string, log logger.Logger) *FileLoader {
	return &FileLoader{
		searchPaths:   searchPaths,
		leadsName:     leadsName,
		inquiriesName: inquiriesName,
		logger:        log.With(map[string]interface{}{"loader": sourceFile}),
	}
}

func (l *FileLoader) Load(ctx context.Context) Datasets {
	return Datasets{
		Leads:     l.loadOne(KindLeads, l.leadsName),
		Inquiries: l.loadOne(KindInquiries, l.inquiriesName),
	}
}

func (l *FileLoader) loadOne(kind, name string) []models.Record {
	path, err := l.resolve(name)
	if err != nil {
		logLoadFailure(l.logger, sourceFile, kind, err)
		return nil
	}

	records, err := ReadFile(path)
	if err != nil {
		logLoadFailure(l.logger, sourceFile, kind, err)
		return nil
	}

	logLoaded(l.logger, path, kind, len(records))
	return records
}

func (l *FileLoader) resolve(name string) (string, error) {
	for _, dir := range l.searchPaths {
		for _, ext := range extensions {
			candidate := filepath.Join(dir, name+ext)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
	}
	return "", fmt.Errorf("%s not found in %v", name, l.searchPaths)
}

// ReadFile decodes a dataset file, picking the decoder by extension.
func ReadFile(path string) ([]models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".json":
		return DecodeJSONRecords(f)
	case ".yaml", ".yml":
		return DecodeYAMLRecords(f)
	default:
		return nil, errors.New("unsupported dataset format: " + path)
	}
}
