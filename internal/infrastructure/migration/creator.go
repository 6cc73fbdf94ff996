package migration

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const (
	upSuffix      = ".up.sql"
	downSuffix    = ".down.sql"
	versionDigits = 6
)

var fileTemplate = template.Must(template.New("migration").Parse(`-- {{.Name}} ({{.Direction}})
-- Created: {{.Created}}
{{- if .Description}}
-- {{.Description}}
{{- end}}

`))

// File is one up/down pair on disk.
type File struct {
	Version  uint
	Name     string
	UpPath   string
	DownPath string
}

// Base is the shared file name prefix, e.g. 000004_sales_and_jobs.
func (f File) Base() string {
	return fmt.Sprintf("%0*d_%s", versionDigits, f.Version, f.Name)
}

// Create writes an empty up/down pair numbered one past the highest version in dir.
func Create(dir, name, description string) (*File, error) {
	slug := slugify(name)
	if slug == "" {
		return nil, errors.New("migration name must contain letters or digits")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	existing, err := List(dir)
	if err != nil {
		return nil, err
	}
	var next uint = 1
	if n := len(existing); n > 0 {
		next = existing[n-1].Version + 1
	}

	f := &File{Version: next, Name: slug}
	f.UpPath = filepath.Join(dir, f.Base()+upSuffix)
	f.DownPath = filepath.Join(dir, f.Base()+downSuffix)

	created := time.Now().UTC().Format(time.RFC3339)
	if err := writeTemplate(f.UpPath, name, "up", description, created); err != nil {
		return nil, err
	}
	if err := writeTemplate(f.DownPath, name, "down", description, created); err != nil {
		_ = os.Remove(f.UpPath)
		return nil, err
	}
	return f, nil
}

func writeTemplate(path, name, direction, description, created string) error {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()
	return fileTemplate.Execute(out, map[string]string{
		"Name":        name,
		"Direction":   direction,
		"Description": description,
		"Created":     created,
	})
}

// List returns the migrations in dir ordered by version. A missing dir is empty.
// Files whose name does not start with a numeric version are skipped.
func List(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return []File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	byVersion := make(map[uint]*File)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		var base string
		var up bool
		switch {
		case strings.HasSuffix(name, upSuffix):
			base, up = strings.TrimSuffix(name, upSuffix), true
		case strings.HasSuffix(name, downSuffix):
			base = strings.TrimSuffix(name, downSuffix)
		default:
			continue
		}
		num, label, ok := strings.Cut(base, "_")
		if !ok {
			continue
		}
		v, err := strconv.ParseUint(num, 10, 32)
		if err != nil {
			continue
		}
		f, found := byVersion[uint(v)]
		if !found {
			f = &File{Version: uint(v), Name: label}
			byVersion[uint(v)] = f
		}
		if up {
			f.UpPath = filepath.Join(dir, name)
		} else {
			f.DownPath = filepath.Join(dir, name)
		}
	}

	files := make([]File, 0, len(byVersion))
	for _, f := range byVersion {
		if f.UpPath == "" {
			continue
		}
		files = append(files, *f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

// slugify lowercases name and collapses separators to single underscores.
func slugify(name string) string {
	var b strings.Builder
	pending := false
	for _, c := range strings.ToLower(name) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(c)
		case c == ' ' || c == '-' || c == '_':
			pending = true
		}
	}
	return b.String()
}
