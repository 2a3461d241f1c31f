// =============================================================================
// POS Report - File Manager Utility
// =============================================================================
//
// This module locates the input resources of a report run:
//   - Source resolution (data directory, extension, optional sheet)
//   - Source discovery in the data directory
//   - File inspection helpers
//
// SOURCE SPECIFICATION:
//   A source is configured as a path, relative to the data directory unless
//   absolute. The extension selects the reader:
//
//     products.json          JSON array of objects
//     products.csv           header row + data rows
//     pos.xlsx#products      one sheet of a workbook
//
//   The "#Sheet" suffix is only allowed on workbooks. Without it the caller
//   picks the sheet.
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// =============================================================================
// SOURCE FORMATS
// =============================================================================

// Format identifies the reader for a source file.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// formatsByExtension maps lower-case file extensions to formats.
var formatsByExtension = map[string]Format{
	".json": FormatJSON,
	".csv":  FormatCSV,
	".xlsx": FormatXLSX,
}

// Source is a resolved input resource.
type Source struct {
	// Path is the file path, joined with the data directory if relative.
	Path string

	// Format selects the reader.
	Format Format

	// Sheet is the workbook sheet named after "#", if any.
	Sheet string

	// Size and ModTime describe the file at resolution time.
	Size    int64
	ModTime time.Time
}

// String renders the source the way it is configured.
func (s Source) String() string {
	if s.Sheet != "" {
		return s.Path + "#" + s.Sheet
	}
	return s.Path
}

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager resolves configured sources against a data directory.
type FileManager struct {
	// DataDir is the directory relative source paths are resolved against.
	DataDir string
}

// NewFileManager creates a new FileManager for the given data directory.
func NewFileManager(dataDir string) *FileManager {
	return &FileManager{DataDir: dataDir}
}

// =============================================================================
// SOURCE RESOLUTION
// =============================================================================

// Resolve turns a configured source specification into a Source.
//
// PARAMETERS:
//   - spec: The configured path, optionally suffixed with "#Sheet" for
//           XLSX workbooks.
//
// RETURNS:
//   - The resolved Source.
//   - An error if the extension is unsupported, a sheet is named on a
//     non-workbook, or the file does not exist. Missing files wrap
//     os.ErrNotExist.
func (fm *FileManager) Resolve(spec string) (Source, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Source{}, errors.New("empty source path")
	}

	path, sheet := spec, ""
	if i := strings.LastIndex(spec, "#"); i >= 0 {
		path, sheet = spec[:i], strings.TrimSpace(spec[i+1:])
	}

	format, ok := formatsByExtension[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return Source{}, fmt.Errorf("unsupported source format %q (supported: .json, .csv, .xlsx)", spec)
	}
	if sheet != "" && format != FormatXLSX {
		return Source{}, fmt.Errorf("sheet selector %q is only valid for .xlsx sources", spec)
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(fm.DataDir, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return Source{}, fmt.Errorf("failed to locate source: %w", err)
	}
	if info.IsDir() {
		return Source{}, fmt.Errorf("source %s is a directory", path)
	}

	return Source{
		Path:    path,
		Format:  format,
		Sheet:   sheet,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// =============================================================================
// SOURCE DISCOVERY
// =============================================================================

// DiscoverSources lists the files of the data directory that a source could
// be read from, sorted by name.
//
// RETURNS:
//   - A slice of file names relative to DataDir.
//   - An error if the directory cannot be read.
func (fm *FileManager) DiscoverSources() ([]string, error) {
	entries, err := os.ReadDir(fm.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan data directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := formatsByExtension[strings.ToLower(filepath.Ext(entry.Name()))]; ok {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)
	return names, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
