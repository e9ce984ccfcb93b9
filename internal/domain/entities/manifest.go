package entities

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// ManifestFile is the project manifest read from the working directory.
const ManifestFile = "package.json"

// Manifest holds the project metadata a release needs.
type Manifest struct {
	Name    string            `json:"name"`
	Version string            `json:"version"`
	Scripts map[string]string `json:"scripts"`
}

// LoadManifest reads and validates the manifest in dir.
func LoadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found in %s", ErrManifest, ManifestFile, dir)
		}
		return nil, fmt.Errorf("%w: %w", ErrManifest, err)
	}

	var manifest Manifest
	if unmarshalErr := json.Unmarshal(data, &manifest); unmarshalErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifest, unmarshalErr)
	}
	if validateErr := manifest.Validate(); validateErr != nil {
		return nil, validateErr
	}
	return &manifest, nil
}

// Validate checks that name, version and a build script are present.
func (m *Manifest) Validate() error {
	if m.Name == "" || m.Version == "" || m.Scripts["build"] == "" {
		return fmt.Errorf(
			"%w: %s must declare name, version and scripts.build",
			ErrManifest, ManifestFile,
		)
	}
	if !IsValidVersion(m.Version) {
		return fmt.Errorf("%w: version %q is not MAJOR.MINOR.PATCH", ErrManifest, m.Version)
	}
	return nil
}

// HasScript reports whether the manifest declares the named script.
func (m *Manifest) HasScript(name string) bool {
	_, ok := m.Scripts[name]
	return ok
}

// SyncManifestVersion rewrites the manifest version in dir when it differs from
// version. It returns true if the file was changed.
func SyncManifestVersion(dir, version string) (bool, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrManifest, err)
	}

	updated, changed, err := RewriteManifestVersion(data, version)
	if err != nil || !changed {
		return false, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if writeErr := os.WriteFile(path, updated, info.Mode().Perm()); writeErr != nil {
		return false, fmt.Errorf("failed to write %s: %w", ManifestFile, writeErr)
	}
	return true, nil
}

// RewriteManifestVersion replaces the top-level "version" value of a manifest,
// leaving every other byte untouched.
func RewriteManifestVersion(data []byte, version string) ([]byte, bool, error) {
	start, end, current, err := locateTopLevelVersion(data)
	if err != nil {
		return nil, false, err
	}
	if current == version {
		return data, false, nil
	}

	var out bytes.Buffer
	out.Grow(len(data) + len(version))
	out.Write(data[:start])
	out.WriteString(strconv.Quote(version))
	out.Write(data[end:])
	return out.Bytes(), true, nil
}

// locateTopLevelVersion returns the byte range of the quoted version value.
func locateTopLevelVersion(data []byte) (int, int, string, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))

	opening, err := decoder.Token()
	if err != nil {
		return 0, 0, "", fmt.Errorf("%w: %w", ErrManifest, err)
	}
	if delim, ok := opening.(json.Delim); !ok || delim != '{' {
		return 0, 0, "", fmt.Errorf("%w: %s must be a JSON object", ErrManifest, ManifestFile)
	}

	for decoder.More() {
		keyToken, keyErr := decoder.Token()
		if keyErr != nil {
			return 0, 0, "", fmt.Errorf("%w: %w", ErrManifest, keyErr)
		}
		if key, _ := keyToken.(string); key == "version" {
			span, valueErr := readStringValue(decoder, data)
			if valueErr != nil {
				return 0, 0, "", valueErr
			}
			return span.start, span.end, span.value, nil
		}
		if skipErr := skipValue(decoder); skipErr != nil {
			return 0, 0, "", fmt.Errorf("%w: %w", ErrManifest, skipErr)
		}
	}
	return 0, 0, "", fmt.Errorf("%w: no top-level version field", ErrManifest)
}

type stringSpan struct {
	start int
	end   int
	value string
}

func readStringValue(decoder *json.Decoder, data []byte) (stringSpan, error) {
	token, err := decoder.Token()
	if err != nil {
		return stringSpan{}, fmt.Errorf("%w: %w", ErrManifest, err)
	}
	value, ok := token.(string)
	if !ok {
		return stringSpan{}, fmt.Errorf("%w: version must be a string", ErrManifest)
	}

	end := int(decoder.InputOffset())
	start := bytes.LastIndexByte(data[:end-1], '"')
	if start < 0 {
		return stringSpan{}, fmt.Errorf("%w: malformed version value", ErrManifest)
	}
	return stringSpan{start: start, end: end, value: value}, nil
}

func skipValue(decoder *json.Decoder) error {
	var discard json.RawMessage
	return decoder.Decode(&discard)
}
