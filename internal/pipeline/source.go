package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Adriano-luizello/Profeta-sub001/internal/storage"
)

var importableExtensions = map[string]bool{".csv": true, ".xlsx": true}

// Importable reports whether a file name has a spreadsheet extension
func Importable(name string) bool {
	return importableExtensions[strings.ToLower(filepath.Ext(name))]
}

// LocalJobs builds jobs for files on disk. Directories are expanded one
// level; non-spreadsheet files inside them are ignored.
func LocalJobs(paths []string) ([]Job, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read dir %s: %w", p, err)
		}
		for _, e := range entries {
			if !e.IsDir() && Importable(e.Name()) {
				files = append(files, filepath.Join(p, e.Name()))
			}
		}
	}

	jobs := make([]Job, 0, len(files))
	for _, f := range files {
		path := f
		jobs = append(jobs, Job{
			Name: filepath.Base(path),
			Fetch: func(ctx context.Context) ([]byte, error) {
				return os.ReadFile(path)
			},
		})
	}

	return jobs, nil
}

// BucketJobs builds jobs for every spreadsheet under prefix. Objects are
// downloaded into tmpDir when a worker picks them up.
func BucketJobs(ctx context.Context, store storage.ObjectStorage, prefix, tmpDir string) ([]Job, error) {
	objects, err := store.ListObjects(ctx, prefix)
	if err != nil {
		return nil, err
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })

	jobs := make([]Job, 0, len(objects))
	for _, obj := range objects {
		if !Importable(obj.Key) {
			continue
		}

		key := obj.Key
		jobs = append(jobs, Job{
			Name: filepath.Base(key),
			Fetch: func(ctx context.Context) ([]byte, error) {
				dest := filepath.Join(tmpDir, filepath.FromSlash(key))
				if err := store.DownloadObject(ctx, key, dest); err != nil {
					return nil, err
				}
				defer os.Remove(dest)
				return os.ReadFile(dest)
			},
		})
	}

	return jobs, nil
}
