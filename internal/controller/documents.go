package controller

import (
	"bytes"
	"context"
	"encoding/json"
)

const (
	PlaceholderText = "No documents indexed yet."
	NoFilesWarning  = "Please select at least one file."
	UploadingText   = "Uploading and indexing..."
)

// DocumentList reflects the server-side index and drives (re-)indexing.
type DocumentList struct {
	api  IndexAPI
	view DocumentListView
}

func NewDocumentList(api IndexAPI, view DocumentListView) *DocumentList {
	return &DocumentList{api: api, view: view}
}

// Refresh re-reads the indexed-document collection and replaces the list.
// On error the view is left untouched and the error is returned.
func (d *DocumentList) Refresh(ctx context.Context) error {
	docs, err := d.api.ListIndexed(ctx)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		d.view.SetDocuments([]ListItem{{Text: PlaceholderText, Placeholder: true}})
		return nil
	}
	items := make([]ListItem, len(docs))
	for i, doc := range docs {
		items[i] = ListItem{Text: doc.Label()}
	}
	d.view.SetDocuments(items)
	return nil
}

// SubmitUpload sends all paths in one request, shows the raw per-file results
// and refreshes the list whatever those results say.
func (d *DocumentList) SubmitUpload(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		d.view.SetStatus(Status{Kind: StatusWarning, Text: NoFilesWarning})
		return nil
	}
	d.view.SetStatus(Status{Kind: StatusProgress, Text: UploadingText})
	res, err := d.api.Upload(ctx, paths)
	if err != nil {
		return err
	}
	d.view.SetStatus(Status{Kind: StatusResult, Text: formatResults(res.Results)})
	return d.Refresh(ctx)
}

func formatResults(raw json.RawMessage) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
