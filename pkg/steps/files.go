package steps

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/systemstart/bootstrap/pkg/api"
)

type filesStep struct {
	name string
	cfg  *api.FilesConfig
}

// NewFilesStep creates a files step that copies matching files from a
// source directory into a destination directory.
func NewFilesStep(name string, cfg *api.FilesConfig) Step {
	return &filesStep{name: name, cfg: cfg}
}

func (s *filesStep) Name() string { return s.name }

func (s *filesStep) Run(ctx StepContext) (*Outcome, error) {
	source, err := RenderString(s.name, s.cfg.Source, ctx)
	if err != nil {
		return nil, fmt.Errorf("rendering source: %w", err)
	}
	dest, err := RenderString(s.name, s.cfg.Dest, ctx)
	if err != nil {
		return nil, fmt.Errorf("rendering dest: %w", err)
	}

	if !filepath.IsAbs(source) {
		source = filepath.Join(ctx.WorkDir, source)
	}

	files, err := filterFiles(os.DirFS(source), s.cfg.Include, s.cfg.Exclude)
	if err != nil {
		return nil, fmt.Errorf("filtering files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files in %s match the include patterns", source)
	}

	if err := os.MkdirAll(dest, 0o750); err != nil {
		return nil, fmt.Errorf("creating destination directory: %w", err)
	}

	copied, kept := 0, 0
	for _, file := range files {
		target := filepath.Join(dest, file)

		if !s.cfg.Overwrite {
			if _, err := os.Stat(target); err == nil {
				slog.Debug("keeping existing file", "step", s.name, "file", file)
				kept++
				continue
			}
		}

		if err := copyFile(filepath.Join(source, file), target); err != nil {
			return nil, err
		}
		slog.Debug("installed file", "step", s.name, "file", file)
		copied++
	}

	slog.Info("files installed", "step", s.name, "copied", copied, "kept", kept, "dest", dest)
	return &Outcome{
		Status: StatusSuccess,
		Output: fmt.Sprintf("copied %d file(s), kept %d existing", copied, kept),
	}, nil
}

// RemoveInstalledFiles reverses a files step: every file in dest whose
// relative path matches a file the source provides is deleted. Files in
// dest the source does not know about are left alone. Returns how many
// files were removed and how many were already absent.
func RemoveInstalledFiles(ctx StepContext, name string, cfg *api.FilesConfig) (removed, missing int, err error) {
	source, err := RenderString(name, cfg.Source, ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("rendering source: %w", err)
	}
	dest, err := RenderString(name, cfg.Dest, ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("rendering dest: %w", err)
	}

	if !filepath.IsAbs(source) {
		source = filepath.Join(ctx.WorkDir, source)
	}

	files, err := filterFiles(os.DirFS(source), cfg.Include, cfg.Exclude)
	if err != nil {
		return 0, 0, fmt.Errorf("filtering files: %w", err)
	}

	for _, file := range files {
		target := filepath.Join(dest, file)

		switch err := os.Remove(target); {
		case err == nil:
			slog.Debug("removed file", "step", name, "file", file)
			removed++
		case os.IsNotExist(err):
			missing++
		default:
			return removed, missing, fmt.Errorf("removing %s: %w", target, err)
		}
	}

	slog.Info("files removed", "step", name, "removed", removed, "missing", missing, "dest", dest)
	return removed, missing, nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("creating directory for %s: %w", dst, err)
	}

	if err := os.WriteFile(dst, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}

func globFS(fsys fs.FS, patterns []string) ([]string, error) {
	var result []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		result = append(result, matches...)
	}
	slices.Sort(result)
	result = slices.Compact(result)
	return result, nil
}

func filterFiles(fsys fs.FS, include, exclude []string) ([]string, error) {
	if len(include) == 0 {
		include = []string{api.DefaultFileInclude}
	}

	included, err := globFS(fsys, include)
	if err != nil {
		return nil, fmt.Errorf("include filter: %w", err)
	}

	excluded, err := globFS(fsys, exclude)
	if err != nil {
		return nil, fmt.Errorf("exclude filter: %w", err)
	}

	var result []string
	for _, f := range included {
		info, err := fs.Stat(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", f, err)
		}
		if info.IsDir() {
			continue
		}
		if slices.Contains(excluded, f) {
			continue
		}
		result = append(result, f)
	}
	return result, nil
}
