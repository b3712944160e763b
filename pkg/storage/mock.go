package storage

import "context"

type MockStorage struct {
	UploadFunc     func(ctx context.Context, object *UploadObject) (*UploadResponse, error)
	BulkUploadFunc func(ctx context.Context, objects []*UploadObject) ([]*UploadResponse, error)
}

func (m *MockStorage) Upload(ctx context.Context, object *UploadObject) (*UploadResponse, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, object)
	}
	panic("not implemented")
}

func (m *MockStorage) BulkUpload(ctx context.Context, objects []*UploadObject) ([]*UploadResponse, error) {
	if m.BulkUploadFunc != nil {
		return m.BulkUploadFunc(ctx, objects)
	}
	panic("not implemented")
}
