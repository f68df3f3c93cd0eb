package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dkarlovs/cloudvault/internal/netx"
)

func (a *App) listFiles(ctx context.Context) {
	parent, err := GetSimpleText(a.reader, "Folder ID (empty for root)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	entries, err := a.api.ListFiles(ctx, parent)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "Empty.")
		return
	}

	for _, e := range entries {
		marker := " "
		if e.IsFolder {
			marker = "d"
		}
		fmt.Fprintf(a.out, "%s %s  %-30s %d\n", marker, e.ID, e.Name, e.Size)
	}
}

// uploadFile pushes local file bytes straight to object storage via a
// presigned URL, then registers the metadata with the server.
func (a *App) uploadFile(ctx context.Context) {
	path, err := GetSimpleText(a.reader, "Local file path", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	key, url, err := a.api.UploadURL(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	if err := netx.UploadToPresignedURL(ctx, url, data); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	entry, err := a.api.CreateFile(ctx, filepath.Base(path), nil, false, key, int64(len(data)))
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	fmt.Fprintf(a.out, "Uploaded %s (%s)\n", entry.Name, entry.ID)
}

func (a *App) downloadFile(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "File ID", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	dest, err := GetSimpleText(a.reader, "Save as", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	url, err := a.api.DownloadURL(ctx, id)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	data, err := netx.DownloadFromPresignedURL(ctx, url)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	if err := os.WriteFile(dest, data, 0o600); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	fmt.Fprintf(a.out, "Saved %d bytes to %s\n", len(data), dest)
}

func (a *App) deleteFile(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "File ID to delete", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	if err := a.api.DeleteFile(ctx, id); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	fmt.Fprintln(a.out, "Deleted.")
}
