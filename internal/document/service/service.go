package service

import (
	"context"
	"errors"

	"google.golang.org/api/drive/v3"

	"github.com/egi-ims/document-service/internal/config"
	"github.com/egi-ims/document-service/internal/document"
	"github.com/egi-ims/document-service/internal/gdrive"
	"github.com/egi-ims/document-service/pkg/logger"
)

// Service defines the document operations used by the handler layer.
type Service interface {
	// Create validates doc, creates it as a Google document and places it in
	// doc.ParentFolder. Errors are *document.ActionError values.
	Create(ctx context.Context, doc *document.Document) (*document.DocumentInfo, error)
}

// New returns a Service that authenticates through clients on every call.
func New(clients gdrive.ClientFactory, cfg config.GoogleConfig) Service {
	relocation := cfg.Relocation
	if relocation == "" {
		relocation = config.RelocateCopy
	}
	return &driveService{
		clients:         clients,
		relocation:      relocation,
		credentialsFile: cfg.CredentialsFile,
	}
}

type driveService struct {
	clients         gdrive.ClientFactory
	relocation      string
	credentialsFile string
}

func (s *driveService) Create(ctx context.Context, doc *document.Document) (*document.DocumentInfo, error) {
	log := logger.FromContext(ctx)

	if err := document.Validate(doc); err != nil {
		return nil, err
	}

	client, err := s.newClient(ctx, log)
	if err != nil {
		return nil, err
	}

	if _, err := resolveFolder(ctx, log, client, doc.ParentFolder); err != nil {
		return nil, err
	}

	created, err := createDocument(ctx, log, client, doc)
	if err != nil {
		return nil, err
	}

	placed, err := s.relocate(ctx, log, client, created, doc)
	if err != nil {
		return nil, err
	}

	log.WithFields(logger.Fields{"documentId": placed.Id}).Infof("Document created")
	return document.NewDocumentInfo(placed), nil
}

func (s *driveService) newClient(ctx context.Context, log *logger.Entry) (gdrive.Client, error) {
	client, err := s.clients.NewClient(ctx)
	if err == nil {
		return client, nil
	}

	log = log.WithFields(logger.Fields{"credentialsFile": s.credentialsFile})
	switch {
	case errors.Is(err, gdrive.ErrCredentialsNotFound):
		log.Errorf("Credentials file not found")
	case errors.Is(err, gdrive.ErrInvalidCredentials):
		log.Errorf("Error reading from credentials file")
	default:
		log.Errorf("Error creating Google Drive client: %v", err)
	}
	return nil, document.WrapActionError(document.CodeInvalidConfig, err)
}

// resolveFolder fetches the destination folder and checks that documents can be placed in it.
func resolveFolder(ctx context.Context, log *logger.Entry, client gdrive.Client, folderID string) (*drive.File, error) {
	folder, err := client.GetFolder(ctx, folderID)
	if err != nil {
		log.Errorf("Cannot find folder (%s): %v", gdrive.Reason(err), err)
		return nil, document.WrapActionError(document.CodeNotFound, err)
	}

	caps := folder.Capabilities
	if caps == nil {
		caps = &drive.FileCapabilities{}
	}
	if !caps.CanAddChildren {
		log.Errorf("Cannot create files in folder")
		return nil, document.NewActionError(document.CodeInvalidConfig, "Cannot create files in folder")
	}
	if !caps.CanModifyContent || !caps.CanEdit {
		log.Errorf("Cannot modify content")
		return nil, document.NewActionError(document.CodeInvalidConfig, "Cannot modify folder content")
	}
	return folder, nil
}

func createDocument(ctx context.Context, log *logger.Entry, client gdrive.Client, doc *document.Document) (*drive.File, error) {
	created, err := client.CreateDocument(ctx, doc.Name, []byte(doc.Content))
	if err != nil {
		log.Errorf("Cannot create document (%s): %v", gdrive.Reason(err), err)
		return nil, document.WrapActionError(document.CodeCannotCreateDocument, err)
	}
	return created, nil
}

// relocate puts the created file into the destination folder. In copy mode the
// root-parented original stays behind; in move mode it is re-parented in place.
func (s *driveService) relocate(ctx context.Context, log *logger.Entry, client gdrive.Client, created *drive.File, doc *document.Document) (*drive.File, error) {
	var (
		placed *drive.File
		err    error
	)
	if s.relocation == config.RelocateMove {
		from := created.Parents
		if len(from) == 0 {
			from = []string{gdrive.RootFolder}
		}
		placed, err = client.MoveToFolder(ctx, created.Id, from, doc.ParentFolder)
	} else {
		placed, err = client.CopyToFolder(ctx, created.Id, doc.Name, doc.ParentFolder)
	}
	if err != nil {
		log.WithFields(logger.Fields{"createdId": created.Id, "relocation": s.relocation}).
			Errorf("Cannot move document to destination folder (%s): %v", gdrive.Reason(err), err)
		return nil, document.WrapActionError(document.CodeCannotMoveToDestination, err)
	}
	return placed, nil
}
