// Package gdrive wraps the Google Drive v3 API calls used to create documents.
package gdrive

import (
	"bytes"
	"context"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/egi-ims/document-service/pkg/metrics"
)

const (
	// MimeTypeDocument makes Drive store the upload as an editable Google document.
	MimeTypeDocument = "application/vnd.google-apps.document"
	// MimeTypeHTML is the media type of the uploaded content.
	MimeTypeHTML = "text/html"
	// RootFolder is the alias of the service account's My Drive root.
	RootFolder = "root"
)

// Client is the subset of Drive operations the document service needs.
type Client interface {
	// GetFolder returns the folder with its capabilities and owners.
	GetFolder(ctx context.Context, folderID string) (*drive.File, error)
	// CreateDocument uploads html as a new Google document under the root folder.
	CreateDocument(ctx context.Context, name string, html []byte) (*drive.File, error)
	// CopyToFolder copies a file into folderID, the copy inheriting the folder's sharing.
	CopyToFolder(ctx context.Context, fileID, name, folderID string) (*drive.File, error)
	// MoveToFolder re-parents a file from its current parents into folderID.
	MoveToFolder(ctx context.Context, fileID string, fromParents []string, folderID string) (*drive.File, error)
}

type driveClient struct {
	svc *drive.Service
}

// NewClient returns a Client backed by an authorized Drive service.
func NewClient(svc *drive.Service) Client {
	return &driveClient{svc: svc}
}

func (c *driveClient) GetFolder(ctx context.Context, folderID string) (*drive.File, error) {
	start := time.Now()
	f, err := c.svc.Files.Get(folderID).
		SupportsAllDrives(true).
		Fields("id,capabilities,owners").
		Context(ctx).
		Do()
	observe("get_folder", start, err)
	return f, err
}

func (c *driveClient) CreateDocument(ctx context.Context, name string, html []byte) (*drive.File, error) {
	meta := &drive.File{
		Name:     name,
		MimeType: MimeTypeDocument,
		Parents:  []string{RootFolder},
	}
	start := time.Now()
	f, err := c.svc.Files.Create(meta).
		Media(bytes.NewReader(html), googleapi.ContentType(MimeTypeHTML)).
		SupportsAllDrives(true).
		Fields("id,name,parents").
		Context(ctx).
		Do()
	observe("create_document", start, err)
	return f, err
}

func (c *driveClient) CopyToFolder(ctx context.Context, fileID, name, folderID string) (*drive.File, error) {
	update := &drive.File{
		Name:    name,
		Parents: []string{folderID},
	}
	start := time.Now()
	f, err := c.svc.Files.Copy(fileID, update).
		SupportsAllDrives(true).
		Fields("id,name,webViewLink").
		Context(ctx).
		Do()
	observe("copy_to_folder", start, err)
	return f, err
}

func (c *driveClient) MoveToFolder(ctx context.Context, fileID string, fromParents []string, folderID string) (*drive.File, error) {
	call := c.svc.Files.Update(fileID, &drive.File{}).
		AddParents(folderID).
		SupportsAllDrives(true).
		Fields("id,name,webViewLink").
		Context(ctx)
	if len(fromParents) > 0 {
		call = call.RemoveParents(strings.Join(fromParents, ","))
	}
	start := time.Now()
	f, err := call.Do()
	observe("move_to_folder", start, err)
	return f, err
}

func observe(op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = Reason(err)
	}
	metrics.DriveCallDuration.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
}
