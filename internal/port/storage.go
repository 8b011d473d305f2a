package port

import (
	"context"
	"io"
)

// ArchivedReport describes a raw report stored in the archive.
type ArchivedReport struct {
	Key      string
	Location string
	ETag     string
}

// ReportArchive keeps the original uploaded report files.
type ReportArchive interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (*ArchivedReport, error)
	Remove(ctx context.Context, key string) error
}
