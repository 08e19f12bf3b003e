package document

import "google.golang.org/api/drive/v3"

// Document holds the details needed to create a Google document.
type Document struct {
	Name         string `json:"name,omitempty"`
	ParentFolder string `json:"parentFolder,omitempty"`
	Content      string `json:"content,omitempty"`
}

// DocumentInfo describes a Google document once it sits in its destination folder.
type DocumentInfo struct {
	Document
	ID  string `json:"id,omitempty"`
	URL string `json:"url,omitempty"`
}

// NewDocumentInfo builds the response model from a Drive file.
func NewDocumentInfo(f *drive.File) *DocumentInfo {
	return &DocumentInfo{
		Document: Document{Name: f.Name},
		ID:       f.Id,
		URL:      f.WebViewLink,
	}
}
