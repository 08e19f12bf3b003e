package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/drive/v3"

	"github.com/egi-ims/document-service/internal/config"
	"github.com/egi-ims/document-service/internal/document"
	"github.com/egi-ims/document-service/internal/gdrive"
)

// fakeClient implements gdrive.Client and records the calls made on it
type fakeClient struct {
	folder    *drive.File
	folderErr error
	createErr error
	copyErr   error
	moveErr   error

	ops []string
}

func (f *fakeClient) GetFolder(ctx context.Context, folderID string) (*drive.File, error) {
	f.ops = append(f.ops, "get-folder:"+folderID)
	if f.folderErr != nil {
		return nil, f.folderErr
	}
	return f.folder, nil
}

func (f *fakeClient) CreateDocument(ctx context.Context, name string, html []byte) (*drive.File, error) {
	f.ops = append(f.ops, fmt.Sprintf("create-file:%s:%s", name, html))
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &drive.File{Id: "created-1", Name: name, Parents: []string{"root-id"}}, nil
}

func (f *fakeClient) CopyToFolder(ctx context.Context, fileID, name, folderID string) (*drive.File, error) {
	f.ops = append(f.ops, "copy-file:"+fileID+"->"+folderID)
	if f.copyErr != nil {
		return nil, f.copyErr
	}
	return &drive.File{Id: "copy-1", Name: name, WebViewLink: "https://docs.google.com/document/d/copy-1/edit"}, nil
}

func (f *fakeClient) MoveToFolder(ctx context.Context, fileID string, fromParents []string, folderID string) (*drive.File, error) {
	f.ops = append(f.ops, fmt.Sprintf("move-file:%s:%v->%s", fileID, fromParents, folderID))
	if f.moveErr != nil {
		return nil, f.moveErr
	}
	return &drive.File{Id: fileID, Name: "Report", WebViewLink: "https://docs.google.com/document/d/" + fileID + "/edit"}, nil
}

// fakeFactory implements gdrive.ClientFactory
type fakeFactory struct {
	client *fakeClient
	err    error
	calls  int
}

func (f *fakeFactory) NewClient(ctx context.Context) (gdrive.Client, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.client, nil
}

func writableFolder() *drive.File {
	return &drive.File{
		Id:           "folder123",
		Capabilities: &drive.FileCapabilities{CanAddChildren: true, CanModifyContent: true, CanEdit: true},
	}
}

func validDoc() *document.Document {
	return &document.Document{Name: "Report", Content: "<p>Hi</p>", ParentFolder: "folder123"}
}

func newService(f *fakeFactory, relocation string) Service {
	return New(f, config.GoogleConfig{CredentialsFile: "/secrets/sa.json", Relocation: relocation})
}

func requireCode(t *testing.T, err error, code document.Code) *document.ActionError {
	t.Helper()
	require.Error(t, err)
	ae := document.AsActionError(err)
	require.Equal(t, code, ae.Code, ae.Error())
	return ae
}

func TestCreate_Success(t *testing.T) {
	client := &fakeClient{folder: writableFolder()}
	f := &fakeFactory{client: client}

	info, err := newService(f, config.RelocateCopy).Create(context.Background(), validDoc())
	require.NoError(t, err)
	require.Equal(t, "copy-1", info.ID)
	require.Equal(t, "Report", info.Name)
	require.NotEmpty(t, info.URL)
	require.Empty(t, info.Content)
	require.Equal(t, []string{
		"get-folder:folder123",
		"create-file:Report:<p>Hi</p>",
		"copy-file:created-1->folder123",
	}, client.ops)
}

func TestCreate_MoveMode(t *testing.T) {
	client := &fakeClient{folder: writableFolder()}

	info, err := newService(&fakeFactory{client: client}, config.RelocateMove).Create(context.Background(), validDoc())
	require.NoError(t, err)
	require.Equal(t, "created-1", info.ID)
	require.Equal(t, []string{
		"get-folder:folder123",
		"create-file:Report:<p>Hi</p>",
		"move-file:created-1:[root-id]->folder123",
	}, client.ops)
}

func TestCreate_ValidationHappensBeforeAnyRemoteCall(t *testing.T) {
	f := &fakeFactory{client: &fakeClient{folder: writableFolder()}}
	svc := newService(f, "")

	for _, doc := range []*document.Document{
		{Content: "<p>Hi</p>", ParentFolder: "folder123"},
		{Name: "Report", Content: "   ", ParentFolder: "folder123"},
		{Name: "Report", Content: "<p>Hi</p>"},
	} {
		_, err := svc.Create(context.Background(), doc)
		requireCode(t, err, document.CodeBadRequest)
	}
	require.Zero(t, f.calls)
	require.Empty(t, f.client.ops)
}

func TestCreate_CredentialsErrorsAreInvalidConfig(t *testing.T) {
	for _, sentinel := range []error{gdrive.ErrCredentialsNotFound, gdrive.ErrInvalidCredentials, errors.New("transport")} {
		client := &fakeClient{folder: writableFolder()}
		f := &fakeFactory{client: client, err: fmt.Errorf("%w: detail", sentinel)}

		_, err := newService(f, "").Create(context.Background(), validDoc())
		ae := requireCode(t, err, document.CodeInvalidConfig)
		require.ErrorIs(t, ae, sentinel)
		require.Empty(t, client.ops)
	}
}

func TestCreate_FolderNotFound(t *testing.T) {
	client := &fakeClient{folderErr: errors.New("404 File not found")}

	_, err := newService(&fakeFactory{client: client}, "").Create(context.Background(), validDoc())
	requireCode(t, err, document.CodeNotFound)
	require.Equal(t, []string{"get-folder:folder123"}, client.ops)
}

func TestCreate_FolderCapabilities(t *testing.T) {
	cases := []struct {
		name string
		caps *drive.FileCapabilities
		msg  string
	}{
		{"cannot add children", &drive.FileCapabilities{CanModifyContent: true, CanEdit: true}, "Cannot create files in folder"},
		{"cannot modify content", &drive.FileCapabilities{CanAddChildren: true, CanEdit: true}, "Cannot modify folder content"},
		{"cannot edit", &drive.FileCapabilities{CanAddChildren: true, CanModifyContent: true}, "Cannot modify folder content"},
		{"no capabilities", nil, "Cannot create files in folder"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeClient{folder: &drive.File{Id: "folder123", Capabilities: tc.caps}}

			_, err := newService(&fakeFactory{client: client}, "").Create(context.Background(), validDoc())
			ae := requireCode(t, err, document.CodeInvalidConfig)
			require.Equal(t, tc.msg, ae.Description())
			require.Equal(t, []string{"get-folder:folder123"}, client.ops)
		})
	}
}

func TestCreate_CreateFails(t *testing.T) {
	client := &fakeClient{folder: writableFolder(), createErr: errors.New("quota exceeded")}

	_, err := newService(&fakeFactory{client: client}, "").Create(context.Background(), validDoc())
	requireCode(t, err, document.CodeCannotCreateDocument)
	require.Len(t, client.ops, 2)
}

func TestCreate_RelocateFailsLeavesCreatedFile(t *testing.T) {
	for _, mode := range []string{config.RelocateCopy, config.RelocateMove} {
		client := &fakeClient{folder: writableFolder(), copyErr: errors.New("denied"), moveErr: errors.New("denied")}

		_, err := newService(&fakeFactory{client: client}, mode).Create(context.Background(), validDoc())
		requireCode(t, err, document.CodeCannotMoveToDestination)
		// get, create, relocate and nothing after that (no cleanup of the created file)
		require.Len(t, client.ops, 3, mode)
	}
}
