// Package export packages generated assets into downloadable archives. All
// packaging is pure: inputs come from the project snapshot, outputs are
// in-memory archives the caller writes to disk or streams over HTTP.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"storyboard/internal/project"
	"storyboard/internal/services"
)

// Archive is a fully assembled downloadable file.
type Archive struct {
	Filename string
	MIME     string
	Data     []byte
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// PackageCharacters bundles every character reference image into a zip. The
// eligible set is the characters that have a materialized image; an empty set
// is a no-op, not an empty archive.
func PackageCharacters(profiles []project.CharacterProfile, now time.Time) (Archive, error) {
	eligible := make([]project.CharacterProfile, 0, len(profiles))
	for _, profile := range profiles {
		if profile.Materialized() {
			eligible = append(eligible, profile)
		}
	}
	if len(eligible) == 0 {
		return Archive{}, services.Wrap(services.ErrNothingToDo, "export", "characters",
			"no character images have been generated", nil)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	seen := make(map[string]int)
	for _, profile := range eligible {
		data, ext, err := decodeDataURI(profile.ImageURL)
		if err != nil {
			zw.Close()
			return Archive{}, fmt.Errorf("character %s: %w", profile.Name, err)
		}
		name := entryName(profile.Name, seen)
		if err := writeEntry(zw, name+ext, data, now); err != nil {
			zw.Close()
			return Archive{}, err
		}
	}
	if err := zw.Close(); err != nil {
		return Archive{}, fmt.Errorf("finalize character archive: %w", err)
	}
	return Archive{
		Filename: fmt.Sprintf("characters_%d.zip", now.UnixMilli()),
		MIME:     "application/zip",
		Data:     buf.Bytes(),
	}, nil
}

// PackageSceneRange bundles the generated images for scenes inside the
// inclusive range [start, end]. Scenes without an image are silently skipped;
// a range with no images at all is a no-op. Entries are named by scene number
// inside a folder that records the requested range.
func PackageSceneRange(scenes []project.Scene, start, end int, now time.Time) (Archive, error) {
	if start > end {
		return Archive{}, services.Wrap(services.ErrValidation, "export", "scenes",
			fmt.Sprintf("start %d must not exceed end %d", start, end), nil)
	}
	if start < 1 {
		return Archive{}, services.Wrap(services.ErrValidation, "export", "scenes",
			"start must be at least 1", nil)
	}

	eligible := make([]project.Scene, 0, len(scenes))
	for _, scene := range scenes {
		if scene.SceneNumber < start || scene.SceneNumber > end || !scene.Materialized() {
			continue
		}
		eligible = append(eligible, scene)
	}
	if len(eligible) == 0 {
		return Archive{}, services.Wrap(services.ErrNothingToDo, "export", "scenes",
			fmt.Sprintf("no generated images between scenes %d and %d", start, end), nil)
	}

	folder := fmt.Sprintf("images_%d_to_%d", start, end)
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, scene := range eligible {
		data, ext, err := decodeDataURI(scene.GeneratedImageURL)
		if err != nil {
			zw.Close()
			return Archive{}, fmt.Errorf("scene %d: %w", scene.SceneNumber, err)
		}
		entry := fmt.Sprintf("%s/scene_%03d%s", folder, scene.SceneNumber, ext)
		if err := writeEntry(zw, entry, data, now); err != nil {
			zw.Close()
			return Archive{}, err
		}
	}
	if err := zw.Close(); err != nil {
		return Archive{}, fmt.Errorf("finalize scene archive: %w", err)
	}
	return Archive{
		Filename: fmt.Sprintf("storyboard_images_%d_%d.zip", start, end),
		MIME:     "application/zip",
		Data:     buf.Bytes(),
	}, nil
}

// Script wraps the refined script text as a plain-text download.
func Script(script string, now time.Time) (Archive, error) {
	if strings.TrimSpace(script) == "" {
		return Archive{}, services.Wrap(services.ErrNothingToDo, "export", "script",
			"the script is empty", nil)
	}
	return Archive{
		Filename: fmt.Sprintf("optimized_script_%d.txt", now.UnixMilli()),
		MIME:     "text/plain; charset=utf-8",
		Data:     []byte(script),
	}, nil
}

// entryName turns a display name into a stable archive entry name: Unicode
// normalized to NFC, whitespace runs collapsed to underscores, duplicates
// suffixed so one entry never shadows another.
func entryName(displayName string, seen map[string]int) string {
	name := norm.NFC.String(strings.TrimSpace(displayName))
	name = whitespaceRun.ReplaceAllString(name, "_")
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	if name == "" {
		name = "character"
	}
	seen[name]++
	if count := seen[name]; count > 1 {
		return fmt.Sprintf("%s_%d", name, count)
	}
	return name
}

func writeEntry(zw *zip.Writer, name string, data []byte, now time.Time) error {
	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: now,
	}
	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("create archive entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write archive entry %s: %w", name, err)
	}
	return nil
}

// decodeDataURI extracts the binary payload from a base64 data URI and maps
// its media type to a file extension.
func decodeDataURI(uri string) ([]byte, string, error) {
	const prefix = "data:"
	if !strings.HasPrefix(uri, prefix) {
		return nil, "", fmt.Errorf("image is not a data URI")
	}
	meta, payload, ok := strings.Cut(uri[len(prefix):], ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URI")
	}
	mediaType, _, _ := strings.Cut(meta, ";")
	if !strings.Contains(meta, ";base64") {
		return nil, "", fmt.Errorf("data URI is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode image payload: %w", err)
	}
	return data, extensionFor(mediaType), nil
}

func extensionFor(mediaType string) string {
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
