package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/tbingest/internal/model"
)

// DefaultExtensions are the file types picked up from the import directory.
var DefaultExtensions = []string{"csv", "xlsx", "xls", "txt", "htm", "html", "xml"}

// FileInfo describes a trial-balance file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// importDir is the subdirectory for files waiting to be ingested.
const importDir = "import"

// processedDir is the subdirectory for accepted files.
const processedDir = "import/processed"

// Scan returns files in <repoRoot>/import/ whose extension is one of exts,
// in name order. An empty exts means DefaultExtensions.
func Scan(repoRoot string, exts []string) ([]FileInfo, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	accept := make(map[string]bool, len(exts))
	for _, e := range exts {
		accept[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}

	dir := filepath.Join(repoRoot, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(e.Name()), "."))
		if !accept[ext] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// Load reads a scanned file into an Upload.
func Load(f FileInfo) (model.Upload, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return model.Upload{}, fmt.Errorf("reading %s: %w", f.Name, err)
	}
	return model.NewUpload(f.Name, data), nil
}

// LoadAll reads every scanned file, stopping at the first read error.
func LoadAll(files []FileInfo) ([]model.Upload, error) {
	uploads := make([]model.Upload, 0, len(files))
	for _, f := range files {
		u, err := Load(f)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(repoRoot, fileName string) error {
	src := filepath.Join(repoRoot, importDir, fileName)
	dstDir := filepath.Join(repoRoot, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
