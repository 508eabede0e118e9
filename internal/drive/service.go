package drive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/Adriano-luizello/Profeta-sub001/internal/config"
	"github.com/Adriano-luizello/Profeta-sub001/internal/pipeline"
)

// Files is the part of Google Drive the importer needs
type Files interface {
	ListFiles(ctx context.Context, folderID string) ([]*File, error)
	DownloadFile(ctx context.Context, fileID string, w io.Writer) error
}

type Service struct {
	srv *drive.Service
}

var _ Files = (*Service)(nil)

func NewService(ctx context.Context, credentialsJSON string) (*Service, error) {
	config, err := google.JWTConfigFromJSON([]byte(credentialsJSON), drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account credentials: %w", err)
	}

	srv, err := drive.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Drive client: %w", err)
	}

	return &Service{srv: srv}, nil
}

// Credentials returns the service account JSON. GOOGLE_DRIVE_CREDENTIALS_JSON
// wins over the credentials file.
func Credentials(cfg config.DriveConfig) (string, error) {
	if raw := os.Getenv("GOOGLE_DRIVE_CREDENTIALS_JSON"); raw != "" {
		return raw, nil
	}
	if cfg.CredentialsFile == "" {
		return "", errors.New("set DRIVE_CREDENTIALS_FILE or GOOGLE_DRIVE_CREDENTIALS_JSON")
	}

	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return "", fmt.Errorf("failed to read credentials: %w", err)
	}
	return string(data), nil
}

type File struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	Size         int64  `json:"size,string,omitempty"`
}

// ListFiles lists the non-trashed files of a folder, "root" when empty
func (s *Service) ListFiles(ctx context.Context, folderID string) ([]*File, error) {
	if folderID == "" {
		folderID = "root"
	}

	var files []*File
	err := s.srv.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed=false", escapeQuery(folderID))).
		Fields("nextPageToken, files(id, name, mimeType, modifiedTime, size)").
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				files = append(files, &File{
					ID:           f.Id,
					Name:         f.Name,
					MimeType:     f.MimeType,
					ModifiedTime: f.ModifiedTime,
					Size:         f.Size,
				})
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve files: %w", err)
	}

	return files, nil
}

func (s *Service) DownloadFile(ctx context.Context, fileID string, w io.Writer) error {
	resp, err := s.srv.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return fmt.Errorf("unable to download file: %w", err)
	}
	defer resp.Body.Close()

	_, err = io.Copy(w, resp.Body)
	return err
}

// FindFolderByPath resolves a slash separated folder path from the root
func (s *Service) FindFolderByPath(ctx context.Context, path string) (string, error) {
	currentID := "root"
	for _, folder := range strings.Split(path, "/") {
		if folder == "" {
			continue
		}

		result, err := s.srv.Files.List().
			Q(fmt.Sprintf("'%s' in parents and name='%s' and mimeType='application/vnd.google-apps.folder' and trashed=false",
				escapeQuery(currentID), escapeQuery(folder))).
			Fields("files(id, name)").
			Context(ctx).
			Do()
		if err != nil {
			return "", fmt.Errorf("error finding folder %s: %w", folder, err)
		}
		if len(result.Files) == 0 {
			return "", fmt.Errorf("folder not found: %s", folder)
		}

		currentID = result.Files[0].Id
	}

	return currentID, nil
}

func escapeQuery(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `'`, `\'`)
}

// Job wraps a Drive file as a pipeline job. The download happens when a
// worker picks it up.
func Job(files Files, f *File) pipeline.Job {
	id := f.ID
	return pipeline.Job{
		Name: f.Name,
		Fetch: func(ctx context.Context) ([]byte, error) {
			var buf bytes.Buffer
			if err := files.DownloadFile(ctx, id, &buf); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	}
}

// Jobs lists the spreadsheets of a folder as pipeline jobs
func Jobs(ctx context.Context, files Files, folderID string) ([]pipeline.Job, error) {
	listed, err := files.ListFiles(ctx, folderID)
	if err != nil {
		return nil, err
	}

	var jobs []pipeline.Job
	for _, f := range listed {
		if pipeline.Importable(f.Name) {
			jobs = append(jobs, Job(files, f))
		}
	}

	return jobs, nil
}
