package service_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vitalis/internal/config"
	"vitalis/internal/domain"
	"vitalis/internal/port"
	"vitalis/internal/service"
	"vitalis/mocks"
)

// fakeMultipartFile adapts a bytes.Reader to the multipart.File interface.
type fakeMultipartFile struct {
	*bytes.Reader
}

func (f *fakeMultipartFile) Close() error { return nil }

func newUploadInput(userID uuid.UUID, filename string, content []byte) service.FileUploadInput {
	return service.FileUploadInput{
		UserID: userID,
		File:   &fakeMultipartFile{bytes.NewReader(content)},
		Header: &multipart.FileHeader{
			Filename: filename,
			Size:     int64(len(content)),
		},
	}
}

func testS3Config() *config.S3Config {
	return &config.S3Config{
		Bucket:        "test-bucket",
		MaxFileSizeMB: 25,
		PresignExpiry: 3600,
	}
}

var pdfContent = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")

func TestFileService_Upload_Success(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewFileService(fileRepo, storage, testS3Config())
	userID := uuid.New()

	fileRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.FileMeta")).Return(nil)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "test-bucket" && in.ContentType == "application/pdf" &&
			strings.HasPrefix(in.Key, "users/"+userID.String()+"/files/")
	})).Return(&port.UploadOutput{Location: "https://test-bucket.s3.amazonaws.com/key"}, nil)
	fileRepo.On("UpdateStatus", mock.Anything, userID, mock.Anything, domain.FileStatusUploaded).Return(nil)

	meta, err := svc.Upload(context.Background(), newUploadInput(userID, "lab-report.pdf", pdfContent))

	require.NoError(t, err)
	assert.Equal(t, domain.FileTypePDF, meta.FileType)
	assert.Equal(t, domain.FileStatusUploaded, meta.Status)
	assert.Equal(t, "lab-report.pdf", meta.OriginalName)
	assert.Equal(t, "test-bucket", meta.S3Bucket)

	fileRepo.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestFileService_Upload_UnsupportedExtension(t *testing.T) {
	svc := service.NewFileService(new(mocks.MockFileMetaRepo), new(mocks.MockObjectStorage), testS3Config())

	meta, err := svc.Upload(context.Background(), newUploadInput(uuid.New(), "notes.docx", pdfContent))

	assert.Nil(t, meta)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestFileService_Upload_ContentMismatch(t *testing.T) {
	svc := service.NewFileService(new(mocks.MockFileMetaRepo), new(mocks.MockObjectStorage), testS3Config())

	// A .pdf name with plain-text contents must be rejected by magic-byte sniffing.
	meta, err := svc.Upload(context.Background(), newUploadInput(uuid.New(), "fake.pdf", []byte("just some text")))

	assert.Nil(t, meta)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestFileService_Upload_TooLarge(t *testing.T) {
	cfg := testS3Config()
	cfg.MaxFileSizeMB = 1
	svc := service.NewFileService(new(mocks.MockFileMetaRepo), new(mocks.MockObjectStorage), cfg)

	input := newUploadInput(uuid.New(), "big.pdf", pdfContent)
	input.Header.Size = 2 * 1024 * 1024

	meta, err := svc.Upload(context.Background(), input)

	assert.Nil(t, meta)
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestFileService_Upload_StorageFailureMarksFailed(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewFileService(fileRepo, storage, testS3Config())
	userID := uuid.New()

	fileRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, assert.AnError)
	fileRepo.On("UpdateStatus", mock.Anything, userID, mock.Anything, domain.FileStatusFailed).Return(nil)

	meta, err := svc.Upload(context.Background(), newUploadInput(userID, "lab-report.pdf", pdfContent))

	assert.Nil(t, meta)
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	fileRepo.AssertCalled(t, "UpdateStatus", mock.Anything, userID, mock.Anything, domain.FileStatusFailed)
}

func TestFileService_GetDownloadURL(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewFileService(fileRepo, storage, testS3Config())
	userID := uuid.New()
	fileID := uuid.New()

	meta := &domain.FileMeta{ID: fileID, UserID: userID, S3Bucket: "test-bucket", S3Key: "some/key.pdf"}
	fileRepo.On("GetByID", mock.Anything, userID, fileID).Return(meta, nil)
	storage.On("GetPresignedURL", mock.Anything, "test-bucket", "some/key.pdf", int64(3600)).
		Return("https://signed.example.com/some/key.pdf", nil)

	url, err := svc.GetDownloadURL(context.Background(), userID, fileID)

	require.NoError(t, err)
	assert.Equal(t, "https://signed.example.com/some/key.pdf", url)
}

func TestFileService_Delete_RemovesObjectThenRow(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewFileService(fileRepo, storage, testS3Config())
	userID := uuid.New()
	fileID := uuid.New()

	meta := &domain.FileMeta{ID: fileID, UserID: userID, S3Bucket: "test-bucket", S3Key: "some/key.pdf"}
	fileRepo.On("GetByID", mock.Anything, userID, fileID).Return(meta, nil)
	storage.On("Delete", mock.Anything, "test-bucket", "some/key.pdf").Return(nil)
	fileRepo.On("Delete", mock.Anything, userID, fileID).Return(nil)

	err := svc.Delete(context.Background(), userID, fileID)

	require.NoError(t, err)
	fileRepo.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestFileService_Delete_StorageErrorAborts(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewFileService(fileRepo, storage, testS3Config())
	userID := uuid.New()
	fileID := uuid.New()

	meta := &domain.FileMeta{ID: fileID, UserID: userID, S3Bucket: "test-bucket", S3Key: "some/key.pdf"}
	fileRepo.On("GetByID", mock.Anything, userID, fileID).Return(meta, nil)
	storage.On("Delete", mock.Anything, "test-bucket", "some/key.pdf").Return(assert.AnError)

	err := svc.Delete(context.Background(), userID, fileID)

	assert.Error(t, err)
	fileRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
